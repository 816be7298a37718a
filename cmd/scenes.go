package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scriptreel/scenes"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "Scene division commands",
	Long:  "Commands for dividing a script into scenes and inspecting the result.",
}

var scenesDivideCmd = &cobra.Command{
	Use:   "divide <script-file>",
	Short: "Divide a script into evenly sized scenes",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenesDivideCommand,
}

var (
	scenesCount int
	scenesMin   int
	scenesMax   int
)

func init() {
	scenesCmd.AddCommand(scenesDivideCmd)

	scenesDivideCmd.Flags().IntVarP(&scenesCount, "count", "n", 0, "Scene count (0 picks the most even count)")
	scenesDivideCmd.Flags().IntVar(&scenesMin, "min", 3, "Minimum scene count when auto-selecting")
	scenesDivideCmd.Flags().IntVar(&scenesMax, "max", 12, "Maximum scene count when auto-selecting")
}

// sceneCountFor picks the scene count that spreads words most evenly.
func sceneCountFor(script string) int {
	return scenes.OptimalCount(script, scenes.CountRange{Min: 3, Max: 12}, nil)
}

func runScenesDivideCommand(cmd *cobra.Command, args []string) error {
	script, err := readScript(args[0])
	if err != nil {
		return err
	}

	count := scenesCount
	if count <= 0 {
		count = scenes.OptimalCount(script, scenes.CountRange{Min: scenesMin, Max: scenesMax}, nil)
		fmt.Printf("Auto-selected %d scenes\n", count)
	}

	list := scenes.Divide(script, count, nil)
	for i, s := range list {
		words := len(strings.Fields(s.Text))
		fmt.Printf("Scene %d (%d words): %s\n", i+1, words, truncateText(s.Text, 70))
	}
	return nil
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
