package standard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ccheshirecat/folio/internal/cli/tui"
	"github.com/ccheshirecat/folio/internal/loop"
	"github.com/ccheshirecat/folio/internal/shared/logging"
	"github.com/ccheshirecat/folio/internal/terminal"
)

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <line>...",
		Short: "Run terminal command lines and print the transcript",
		Example: `  folio exec whoami "cat about.txt"
  folio exec ping`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLines(cmd.Context(), strings.NewReader(strings.Join(args, "\n")), cmd.OutOrStdout())
		},
	}
}

func newCommandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List terminal commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, err := cmd.Flags().GetBool("remote")
			if err != nil {
				return err
			}
			out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(out, "USAGE\tCATEGORY\tSUMMARY")

			if !remote {
				registry, err := terminal.Builtins()
				if err != nil {
					return err
				}
				for _, c := range registry.Commands() {
					fmt.Fprintf(out, "%s\t%s\t%s\n", c.Usage, c.Category, c.Summary)
				}
				return out.Flush()
			}

			api, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			cmds, err := api.ListCommands(ctx)
			if err != nil {
				return err
			}
			for _, c := range cmds {
				fmt.Fprintf(out, "%s\t%s\t%s\n", c.Usage, c.Category, c.Summary)
			}
			return out.Flush()
		},
	}
	cmd.Flags().Bool("remote", false, "List the commands served by the daemon")
	return cmd
}

// runLines submits each input line to a fresh interpreter and streams the
// transcript to w. Deferred output is flushed before returning.
func runLines(ctx context.Context, r io.Reader, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lp := loop.New(16)
	loopErr := make(chan error, 1)
	go func() { loopErr <- lp.Run(ctx) }()

	out := &lineTranscript{w: w, styles: tui.NewStyles(lipgloss.NewRenderer(w))}
	var field terminal.Field
	interp, err := terminal.New(terminal.Params{
		Input:     &field,
		Output:    out,
		Scheduler: lp,
		Opener:    out,
		Logger:    logging.Discard(),
	})
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if err := lp.Post(func() {
			field.SetValue(line)
			interp.HandleKey(terminal.KeySubmit)
		}); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if err := lp.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	cancel()
	<-loopErr
	return out.err
}

// lineTranscript prints blocks as they are appended. Links are printed rather
// than opened.
type lineTranscript struct {
	w      io.Writer
	styles tui.Styles
	err    error
}

func (t *lineTranscript) Append(b terminal.Block) {
	t.write(t.styles.RenderBlock(b))
}

// Clear is a no-op; printed output cannot be taken back.
func (t *lineTranscript) Clear() {}

func (t *lineTranscript) ScrollToEnd() {}

func (t *lineTranscript) Open(url string) error {
	t.write(url)
	return t.err
}

func (t *lineTranscript) write(s string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, s)
}
