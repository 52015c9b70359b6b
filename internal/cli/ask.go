package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"academy-qabot/internal/app"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question against the current index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return fmt.Errorf("question is required")
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.QA.Ask(cmd.Context(), app.AskInput{Question: question})
		if err != nil {
			return err
		}
		printAnswer(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
