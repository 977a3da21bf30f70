package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/rshade/contactdeck/internal/feed"
	"github.com/rshade/contactdeck/internal/logging"
	"github.com/rshade/contactdeck/internal/tui"
)

var _ tui.Feed = (*feed.Feed)(nil)

// newBrowseCmd creates the interactive browser command.
func newBrowseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse contacts interactively",
		Long: `Opens the contact browser. Contacts are fetched one page at a time from a
simulated API that is slow and fails now and then; failures are shown as a
notification that disappears on its own.

Keys: ↑/↓ or j/k move, space/enter selects, l or the "Load more" control
fetches the next page, x/esc closes an error, q quits.`,
		Annotations: map[string]string{
			annotationInteractive: "true",
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, opts)
		},
	}
}

// runBrowse runs the browser and, when requested, the metrics server. The
// two share one lifetime: whichever stops first stops the other.
func runBrowse(cmd *cobra.Command, opts *rootOptions) error {
	if !isTerminal(cmd.OutOrStdout()) {
		return ErrNotTerminal
	}

	cfg := opts.cfg
	log := logging.FromContext(cmd.Context())

	src, err := newSource(cfg, *log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	f := feed.New(gctx, src,
		feed.WithErrorDisplay(cfg.UI.ErrorDisplay),
		feed.WithLogger(logging.ComponentLogger(*log, "feed")),
	)
	defer f.Close()

	model := tui.New(f,
		tui.WithPageSize(cfg.Source.PageSize),
		tui.WithLanguage(localeFromEnv(opts.lookupEnv)),
		tui.WithLogger(logging.ComponentLogger(*log, "tui")),
	)

	if addr := opts.flags.metricsAddr; addr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, addr)
		})
	}

	g.Go(func() error {
		defer cancel()
		program := tea.NewProgram(model,
			tea.WithAltScreen(),
			tea.WithContext(gctx),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		)
		if _, err := program.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("running contact browser: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info().Ctx(ctx).
		Int("contacts", len(f.Data())).
		Int("pages", f.Pages()).
		Int("selected", model.SelectedCount()).
		Msg("browser closed")
	return nil
}

// localeFromEnv derives the display language from the POSIX locale
// variables, defaulting to English.
func localeFromEnv(lookupEnv func(string) (string, bool)) language.Tag {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v, ok := lookupEnv(name)
		if !ok || v == "" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" {
			return language.English
		}
		if tag, err := language.Parse(strings.ReplaceAll(v, "_", "-")); err == nil {
			return tag
		}
	}
	return language.English
}
