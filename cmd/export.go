package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AbdulSadath77/agent-memory/internal"
	"github.com/AbdulSadath77/agent-memory/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	exportAll bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export session transcripts to file",
	Long: `Export the active conversation chain of one session (or of every
session with --all) in various formats (jsonl, md, yaml, json).

Only the currently valid path through each session's message tree is
exported; superseded edit and retry branches are left out.

Use 'agent-memory list' to see available session IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !exportAll && len(args) != 1 {
			return fmt.Errorf("provide a session id, or use --all")
		}

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		db, store, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer func() { _ = db.Close() }()

		var ids []string
		if exportAll {
			sessions, err := store.ListSessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			for _, s := range sessions {
				ids = append(ids, s.ID)
			}
		} else {
			ids = args[:1]
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		for _, id := range ids {
			sess, err := store.GetSession(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load session %s: %w", id, err)
			}
			if sess == nil {
				return fmt.Errorf("session not found: %s", id)
			}

			messages, err := store.ListMessages(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load messages for %s: %w", id, err)
			}

			chain, err := internal.BuildActiveChain(messages)
			if err != nil {
				// A corrupt tree fails that session, not the whole export run.
				internal.LogError("skipping session %s: %v", id, err)
				continue
			}

			transcript := internal.BuildTranscript(sess, chain, len(messages))

			path := filepath.Join(outputDir, fmt.Sprintf("session_%s.%s", id, exporter.Extension()))
			f, err := os.Create(path)
			if err != nil {
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}
			if err := exporter.Export(transcript, f); err != nil {
				_ = f.Close()
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}
			if err := f.Close(); err != nil {
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}

			internal.LogInfo("exported session %s to %s", id, path)
			exported++
		}

		fmt.Printf("Exported %d session(s) to %s\n", exported, outputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every session")
}
