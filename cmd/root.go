package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scriptreel/config"
)

var rootCmd = &cobra.Command{
	Use:   "scriptreel",
	Short: "Turn a text script into narrated video assets",
	Long: `Scriptreel synthesizes narration for a text script, builds a word-level
timeline, and produces captions (SRT/ASS/JSON), scene images, an FCPXML
timeline, and a rendered video via an external render service.`,
}

var configPath string

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "scriptreel.yaml", "Config file")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(captionsCmd)
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(scriptCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %v", err)
	}
	return cfg, nil
}

func readScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading script: %v", err)
	}
	return string(data), nil
}
