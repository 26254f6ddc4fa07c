package cmd

import (
	"fmt"

	"github.com/AbdulSadath77/agent-memory/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	showLimit   int
	showAll     bool
	showTurnIDs bool
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	toolMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the active conversation chain for a session",
	Long: `Display a session's currently valid conversation path.

Superseded edits and retries are excluded: at every branch point in the
stored message tree, only the latest sibling and its descendants are shown.
Use --all to include the count of superseded messages in the header.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		db, store, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer func() { _ = db.Close() }()

		sess, err := store.GetSession(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if sess == nil {
			return fmt.Errorf("session not found: %s", sessionID)
		}

		messages, err := store.ListMessages(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("failed to load messages: %w", err)
		}

		chain, err := internal.BuildActiveChain(messages)
		if err != nil {
			return err
		}

		title := sess.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Println(sessionHeaderStyle.Render(fmt.Sprintf("Session: %s", title)))
		meta := fmt.Sprintf("id: %s  owner: %s  messages: %d", sess.ID, sess.OwnerID, len(chain))
		if showAll && len(messages) > len(chain) {
			meta += fmt.Sprintf("  (%d superseded)", len(messages)-len(chain))
		}
		fmt.Println(sessionMetaStyle.Render(meta))

		display := chain
		if showLimit > 0 && len(display) > showLimit {
			display = display[len(display)-showLimit:]
			fmt.Println(timestampStyle.Render(fmt.Sprintf("... showing last %d of %d messages", showLimit, len(chain))))
			fmt.Println()
		}

		for _, msg := range display {
			actor := internal.Actor(msg.Role)
			var style lipgloss.Style
			switch msg.Role {
			case internal.RoleHuman:
				style = userMessageStyle
			case internal.RoleAI:
				style = assistantMessageStyle
			case internal.RoleTool:
				style = toolMessageStyle
			default:
				style = sessionMetaStyle
			}

			header := actor
			if showTurnIDs && msg.TurnID != "" {
				header += fmt.Sprintf(" [turn %s]", msg.TurnID)
			}
			fmt.Println(style.Render(header), timestampStyle.Render(msg.Created().Format("2006-01-02 15:04:05")))
			fmt.Println(messageContentStyle.Render(msg.Content))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&showLimit, "limit", "l", 0, "Show only the last N messages")
	showCmd.Flags().BoolVar(&showAll, "all", false, "Report superseded message counts in the header")
	showCmd.Flags().BoolVar(&showTurnIDs, "turns", false, "Show turn ids next to assistant messages")
}
