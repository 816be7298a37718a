package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scriptreel/llm"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Script writing commands",
}

var scriptWriteCmd = &cobra.Command{
	Use:   "write <topic>",
	Short: "Write a narration script for a topic",
	Long: `Write streams a narration script from the configured language model.
Tokens are printed as they arrive; the finished script is saved to a file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScriptWriteCommand,
}

var scriptOutFile string

func init() {
	scriptCmd.AddCommand(scriptWriteCmd)

	scriptWriteCmd.Flags().StringVarP(&scriptOutFile, "output", "o", "script.txt", "Output file")
}

func runScriptWriteCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("llm api_key is not set (config or OPENAI_API_KEY)")
	}

	topic := strings.Join(args, " ")
	client := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)

	script, err := client.GenerateScript(cmd.Context(), topic, func(delta string) {
		fmt.Print(delta)
	})
	if err != nil {
		return fmt.Errorf("writing script: %v", err)
	}
	fmt.Println()

	if err := os.WriteFile(scriptOutFile, []byte(script+"\n"), 0644); err != nil {
		return err
	}
	fmt.Printf("Script saved to %s\n", scriptOutFile)
	return nil
}
