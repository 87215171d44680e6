package standard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccheshirecat/folio/internal/cli/client"
)

func newContactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the contact form",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := cmd.Flags().GetString("name")
			if err != nil {
				return err
			}
			email, err := cmd.Flags().GetString("email")
			if err != nil {
				return err
			}
			message, err := cmd.Flags().GetString("message")
			if err != nil {
				return err
			}

			api, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			msg, err := api.SubmitContact(ctx, client.ContactRequest{
				Name:    name,
				Email:   email,
				Message: message,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Message %d sent (%s)\n", msg.ID, msg.Status)
			return nil
		},
	}
	cmd.Flags().String("name", "", "Your name")
	cmd.Flags().String("email", "", "Your email address")
	cmd.Flags().String("message", "", "Message body")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Read contact messages (admin API)",
	}

	cmd.AddCommand(newMessagesListCmd())
	cmd.AddCommand(newMessagesGetCmd())
	cmd.AddCommand(newMessagesDeleteCmd())
	cmd.AddCommand(newMessagesWatchCmd())
	return cmd
}

func newMessagesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contact messages, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			api, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			msgs, err := api.ListMessages(ctx, limit)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No messages found")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-20s %-28s %-10s %-20s\n", "ID", "NAME", "EMAIL", "STATUS", "RECEIVED")
			for _, m := range msgs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6d %-20s %-28s %-10s %-20s\n", m.ID, m.Name, m.Email, m.Status, m.CreatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "Maximum number of messages (server default when 0)")
	return cmd
}

func newMessagesGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a contact message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			api, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			msg, err := api.GetMessage(ctx, id)
			if err != nil {
				return err
			}
			if asJSON {
				return encodeAsJSON(cmd.OutOrStdout(), msg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %d\nFrom: %s <%s>\nStatus: %s\nReceived: %s\n", msg.ID, msg.Name, msg.Email, msg.Status, msg.CreatedAt.Local().Format(time.RFC1123))
			if msg.RemoteIP != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Remote IP: %s\n", msg.RemoteIP)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", msg.Message)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the message as JSON")
	return cmd
}

func newMessagesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			if err := api.DeleteMessage(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Message %d deleted\n", id)
			return nil
		},
	}
}

func newMessagesWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream contact message events",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Streaming message events (Ctrl+C to exit)...")
			err = api.WatchMessages(cmd.Context(), func(ev client.MessageEvent) {
				ts := ev.Timestamp.Local().Format(time.RFC3339)
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-26s #%d %s <%s>\n", ts, ev.Type, ev.Message.ID, ev.Message.Name, ev.Message.Email)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List live terminal sessions (admin API)",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			sessions, err := api.ListSessions(ctx)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No active sessions")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-36s %-22s %-9s %-7s %s\n", "ID", "REMOTE", "COMMANDS", "BLOCKS", "STARTED")
			for _, s := range sessions {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s %-22s %-9d %-7d %s\n", s.ID, s.RemoteAddr, s.Commands, s.Blocks, s.StartedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid message id %q", raw)
	}
	return id, nil
}
