package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scriptreel/captions"
	"scriptreel/pipeline"
	"scriptreel/timeline"
)

var captionsCmd = &cobra.Command{
	Use:   "captions",
	Short: "Caption generation and timing import commands",
	Long:  "Commands for producing SRT/ASS/JSON captions and reusing saved word timings.",
}

var captionsBuildCmd = &cobra.Command{
	Use:   "build <script-file>",
	Short: "Synthesize narration and write caption files",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaptionsBuildCommand,
}

var captionsImportCmd = &cobra.Command{
	Use:   "import <timings.xml>",
	Short: "Rebuild caption files from a saved timing document",
	Long: `Import reads word timings exported by a previous run (or edited by hand)
and regenerates the caption files without re-synthesizing any audio.`,
	Args: cobra.ExactArgs(1),
	RunE: runCaptionsImportCommand,
}

var captionsOutDir string

func init() {
	captionsCmd.AddCommand(captionsBuildCmd)
	captionsCmd.AddCommand(captionsImportCmd)

	captionsCmd.PersistentFlags().StringVarP(&captionsOutDir, "output", "o", "out", "Output directory")
}

func runCaptionsBuildCommand(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("Synthesizing %d lines...\n", len(session.Lines))
	if err := runner.Synthesize(cmd.Context(), session); err != nil {
		return fmt.Errorf("synthesis failed: %v", err)
	}
	runner.BuildCaptions(session)

	written, err := session.WriteOutputs(captionsOutDir)
	if err != nil {
		return err
	}
	for kind, path := range written {
		fmt.Printf("  %s: %s\n", kind, path)
	}

	timingsPath := filepath.Join(captionsOutDir, "timings.xml")
	if err := timeline.ExportTimings(session.Timeline, timingsPath); err != nil {
		return fmt.Errorf("writing timings: %v", err)
	}
	fmt.Printf("  timings: %s\n", timingsPath)
	return nil
}

func runCaptionsImportCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tl, err := timeline.ImportTimings(args[0])
	if err != nil {
		return fmt.Errorf("importing timings: %v", err)
	}
	fmt.Printf("Imported %d utterances, %d words\n", len(tl.Utterances), len(tl.Words))

	if err := os.MkdirAll(captionsOutDir, 0755); err != nil {
		return err
	}

	wrapped := captions.WrapWords(tl.Utterances, captions.WrapOptions{
		MaxCharsPerLine: cfg.Captions.MaxCharsPerLine,
		MaxDuration:     cfg.Captions.MaxDuration,
	})
	captions.ResolveOverlaps(wrapped, cfg.Captions.MaxDuration)

	srtPath := filepath.Join(captionsOutDir, "captions.srt")
	if err := os.WriteFile(srtPath, []byte(captions.FormatSRT(wrapped)), 0644); err != nil {
		return err
	}
	fmt.Printf("  srt: %s\n", srtPath)

	if len(tl.Words) > 0 {
		assPath := filepath.Join(captionsOutDir, "captions.ass")
		ass := captions.FormatASS(wrapped, tl.Words, captions.DefaultASSOptions())
		if err := os.WriteFile(assPath, []byte(ass), 0644); err != nil {
			return err
		}
		fmt.Printf("  ass: %s\n", assPath)

		doc, err := captions.FormatTimestamps(tl.Words, cfg.Captions.MaxDuration)
		if err != nil {
			return err
		}
		jsonPath := filepath.Join(captionsOutDir, "timestamps.json")
		if err := os.WriteFile(jsonPath, doc, 0644); err != nil {
			return err
		}
		fmt.Printf("  timestamps: %s\n", jsonPath)
	}
	return nil
}
