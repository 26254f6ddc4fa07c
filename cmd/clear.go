package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear <session-id> <node-id>",
	Short: "Delete one memory node's entries for a session",
	Long: `Irreversibly delete every memory entry a node holds for a session.

Other memory nodes in the same session keep their entries, and the session's
chat messages are untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, nodeID := args[0], args[1]

		if !clearYes {
			fmt.Printf("Delete all memory for node %s in session %s? This cannot be undone. [y/N] ", nodeID, sessionID)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		db, store, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer func() { _ = db.Close() }()

		if err := store.DeleteEntries(cmd.Context(), sessionID, nodeID); err != nil {
			return fmt.Errorf("failed to clear memory: %w", err)
		}

		fmt.Printf("Cleared memory for node %s in session %s\n", nodeID, sessionID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")
}
