package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"scriptreel/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Submit and track jobs on the render service",
}

var renderSubmitCmd = &cobra.Command{
	Use:   "submit <narration.wav>",
	Short: "Submit a render job and wait for the video",
	Args:  cobra.ExactArgs(1),
	RunE:  runRenderSubmitCommand,
}

var renderStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Check a render job once",
	Args:  cobra.ExactArgs(1),
	RunE:  runRenderStatusCommand,
}

var renderCaptionsPath string

func init() {
	renderCmd.AddCommand(renderSubmitCmd)
	renderCmd.AddCommand(renderStatusCmd)

	renderSubmitCmd.Flags().StringVar(&renderCaptionsPath, "captions", "", "ASS captions to burn in")
}

func renderClient() (*render.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Render.BaseURL == "" {
		return nil, fmt.Errorf("render base_url is not set (config or SCRIPTREEL_RENDER_URL)")
	}
	return render.NewClient(cfg.Render.BaseURL, cfg.Render.APIKey), nil
}

func runRenderSubmitCommand(cmd *cobra.Command, args []string) error {
	client, err := renderClient()
	if err != nil {
		return err
	}

	jobID, err := client.Submit(cmd.Context(), render.Job{
		AudioPath:    args[0],
		CaptionsPath: renderCaptionsPath,
	})
	if err != nil {
		return fmt.Errorf("submitting render job: %v", err)
	}
	fmt.Printf("Job %s submitted\n", jobID)

	status, err := client.Wait(cmd.Context(), jobID, func(s render.Status) {
		fmt.Printf("  %s %.0f%%\n", s.State, s.Progress*100)
		for _, line := range s.Logs {
			fmt.Printf("    %s\n", line)
		}
	})
	if err != nil {
		return err
	}
	fmt.Printf("Video ready: %s\n", status.VideoURL)
	return nil
}

func runRenderStatusCommand(cmd *cobra.Command, args []string) error {
	client, err := renderClient()
	if err != nil {
		return err
	}

	status, err := client.Poll(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Job %s: %s %.0f%%\n", status.JobID, status.State, status.Progress*100)
	if status.VideoURL != "" {
		fmt.Printf("Video: %s\n", status.VideoURL)
	}
	return nil
}
