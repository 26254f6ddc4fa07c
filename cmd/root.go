package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AbdulSadath77/agent-memory/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "agent-memory",
	Short: "Inspect and manage branching conversation memory for agent workflows",
	Long: `A CLI for the agent-memory store: branching chat sessions with
per-node isolated memory streams.

Every chat session is stored as a message tree: an edit or retry creates a
new sibling branch instead of rewriting history, and the currently valid
conversation is the single root-to-leaf path where the latest branch always
wins. Memory entries written by workflow nodes are correlated to turns on
that path.

Quick Start:
  agent-memory list                      # List all sessions
  agent-memory show <session-id>         # View a session's active chain
  agent-memory export <session-id>       # Export the active chain
  agent-memory clear <session-id> <node-id>   # Wipe one node's memory
  agent-memory healthcheck               # Verify message tree invariants`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the memory database (default ~/.agent-memory/memory.db)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// databasePath resolves the database location from the --db flag or the
// default under the user's home directory.
func databasePath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".agent-memory", "memory.db"), nil
}

// openStore opens the database and wraps it in the SQLite store. The caller
// owns closing the returned handle.
func openStore() (*sql.DB, *internal.SQLiteStore, error) {
	path, err := databasePath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := internal.OpenDatabase(path)
	if err != nil {
		return nil, nil, err
	}
	return db, internal.NewSQLiteStore(db), nil
}
