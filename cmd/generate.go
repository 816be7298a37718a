package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"scriptreel/pipeline"
	"scriptreel/timeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate <script-file>",
	Short: "Run the full pipeline: narration, captions, scenes, images",
	Long: `Generate synthesizes narration for every line of the script, writes the
caption documents, divides the script into scenes with generated images,
and exports an FCPXML timeline.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerateCommand,
}

var (
	generateOutDir     string
	generateSceneCount int
	generateSkipImages bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateOutDir, "output", "o", "out", "Output directory")
	generateCmd.Flags().IntVarP(&generateSceneCount, "scenes", "n", 0, "Scene count (0 picks the most even count)")
	generateCmd.Flags().BoolVar(&generateSkipImages, "skip-images", false, "Skip prompt and image generation")
}

func runGenerateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	script, err := readScript(args[0])
	if err != nil {
		return err
	}

	session := pipeline.NewSession(script)
	runner := pipeline.NewRunner(cfg)
	ctx := cmd.Context()

	fmt.Printf("Synthesizing %d lines...\n", len(session.Lines))
	if err := runner.Synthesize(ctx, session); err != nil {
		return fmt.Errorf("synthesis failed: %v", err)
	}
	fmt.Printf("Narration track: %.1fs\n", session.Audio.Duration())

	runner.BuildCaptions(session)
	fmt.Printf("Captions: %d lines\n", len(session.Captions))

	count := generateSceneCount
	if count <= 0 {
		count = sceneCountFor(session.Script)
	}
	runner.BuildScenes(session, count)
	matched := 0
	for _, s := range session.Scenes {
		if s.HasTimestamp {
			matched++
		}
	}
	fmt.Printf("Scenes: %d (%d aligned to the timeline)\n", len(session.Scenes), matched)

	if !generateSkipImages {
		fmt.Printf("Generating scene images...\n")
		runner.GenerateVisuals(ctx, session)
	}

	written, err := session.WriteOutputs(generateOutDir)
	if err != nil {
		return fmt.Errorf("writing outputs: %v", err)
	}
	for kind, path := range written {
		fmt.Printf("  %s: %s\n", kind, path)
	}

	doc, err := timeline.Export(timeline.ExportOptions{
		ProjectName: "scriptreel " + session.ID[:8],
		AudioPath:   written["audio"],
		Duration:    session.Audio.Duration(),
		Scenes:      session.Scenes,
		Captions:    session.Captions,
	})
	if err != nil {
		return fmt.Errorf("building timeline: %v", err)
	}
	fcpxmlPath := filepath.Join(generateOutDir, "timeline.fcpxml")
	if err := doc.WriteFile(fcpxmlPath); err != nil {
		return fmt.Errorf("writing FCPXML: %v", err)
	}
	fmt.Printf("  fcpxml: %s\n", fcpxmlPath)

	timingsPath := filepath.Join(generateOutDir, "timings.xml")
	if err := timeline.ExportTimings(session.Timeline, timingsPath); err != nil {
		return fmt.Errorf("writing timings: %v", err)
	}
	fmt.Printf("  timings: %s\n", timingsPath)

	return nil
}
