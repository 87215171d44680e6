package standard

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ccheshirecat/folio/internal/cli/client"
	"github.com/ccheshirecat/folio/internal/cli/tui"
	"github.com/ccheshirecat/folio/internal/shared/logging"
)

// Version is stamped at build time.
var Version = "dev"

// Execute runs the Cobra-based CLI entry point.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folio",
		Short: "Portfolio terminal",
		Long:  "folio runs the portfolio terminal locally and talks to a foliod daemon.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
				logger, closeLog := tuiLogger()
				defer closeLog()
				return tui.Run(tui.Options{Logger: logger})
			}
			return runLines(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().StringP("api", "a", envOrDefault("FOLIO_API_BASE", client.DefaultAPIBase), "foliod public API base URL")
	cmd.PersistentFlags().String("admin", envOrDefault("FOLIO_ADMIN_BASE", client.DefaultAdminBase), "foliod admin API base URL")
	cmd.PersistentFlags().String("admin-key", os.Getenv("FOLIO_ADMIN_KEY"), "key sent to the admin API")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newExecCmd())
	cmd.AddCommand(newCommandsCmd())
	cmd.AddCommand(newContactCmd())
	cmd.AddCommand(newMessagesCmd())
	cmd.AddCommand(newSessionsCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio client version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", Version)
		},
	}
}

func clientFromCmd(cmd *cobra.Command) (*client.Client, error) {
	flags := cmd.Root().PersistentFlags()
	api, err := flags.GetString("api")
	if err != nil {
		api = envOrDefault("FOLIO_API_BASE", client.DefaultAPIBase)
	}
	admin, err := flags.GetString("admin")
	if err != nil {
		admin = envOrDefault("FOLIO_ADMIN_BASE", client.DefaultAdminBase)
	}
	key, err := flags.GetString("admin-key")
	if err != nil {
		key = os.Getenv("FOLIO_ADMIN_KEY")
	}
	return client.New(api, admin, key)
}

// tuiLogger writes to a file under the temp dir when debugging; the TUI
// owns the screen otherwise.
func tuiLogger() (*slog.Logger, func()) {
	if !debugEnabled() {
		return logging.Discard(), func() {}
	}
	f, err := os.OpenFile(filepath.Join(os.TempDir(), "folio.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return logging.Discard(), func() {}
	}
	return logging.NewTo(f, "folio"), func() { _ = f.Close() }
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
