package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/rshade/contactdeck/internal/cli/pagination"
	"github.com/rshade/contactdeck/internal/contact"
	"github.com/rshade/contactdeck/internal/logging"
	"github.com/rshade/contactdeck/internal/source"
)

// exitCodeFetchFailed is returned when a page could not be fetched within the retry budget.
const exitCodeFetchFailed = 2

const tabPadding = 2

// dumpResult is what a headless consumer collected.
type dumpResult struct {
	People   []contact.Person
	Pages    int
	Failures int
	// NextPage is the page a further fetch would return.
	NextPage int
}

// dumpEnvelope is the --meta output document.
type dumpEnvelope struct {
	Meta     pagination.Meta  `json:"meta"     yaml:"meta"`
	Contacts []contact.Person `json:"contacts" yaml:"contacts"`
}

// newDumpCmd creates the non-interactive export command.
func newDumpCmd(opts *rootOptions) *cobra.Command {
	d := pagination.NewParams()

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Fetch pages of contacts and print them",
		Long: `Fetches contacts from the simulated API with its own page cursor and prints
them. Failed fetches are retried up to --retries times per page; with the
"advance" cursor policy a retry moves on to the following page. Fetching stops
early at the end of the data.`,
		Example: `  # First page as a table
  contactdeck dump

  # Three pages as JSON, never failing
  contactdeck dump --pages 3 --failure-rate 0 --output json

  # Everything as newline-delimited JSON
  contactdeck dump --pages 100 --output ndjson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDump(cmd, opts, *d)
		},
	}

	cmd.Flags().IntVar(&d.Pages, "pages", d.Pages, "number of pages to fetch")
	cmd.Flags().IntVar(&d.Retries, "retries", d.Retries, "retries per page after a failed fetch")
	cmd.Flags().StringVarP(&d.Output, "output", "o", d.Output,
		"output format: "+strings.Join(pagination.Outputs(), ", "))
	cmd.Flags().BoolVar(&d.WithMeta, "meta", false, "wrap json/yaml output with pagination metadata")

	return cmd
}

func runDump(cmd *cobra.Command, opts *rootOptions, d pagination.Params) error {
	if err := d.Validate(); err != nil {
		return err
	}

	log := logging.FromContext(cmd.Context())
	src, err := newSource(opts.cfg, *log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if addr := opts.flags.metricsAddr; addr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, addr)
		})
	}

	var result dumpResult
	g.Go(func() error {
		defer cancel()
		var err error
		result, err = collectPages(gctx, src, d.Pages, d.Retries)
		return err
	})

	waitErr := g.Wait()
	if waitErr != nil && len(result.People) == 0 {
		return waitErr
	}

	meta := pagination.NewMeta(src.PageSize(), src.Total(), result.Pages, len(result.People),
		result.Failures, result.NextPage)

	var doc any = result.People
	if d.WithMeta {
		doc = dumpEnvelope{Meta: meta, Contacts: nonNil(result.People)}
	}
	if err := render(cmd.OutOrStdout(), d.Output, doc, result.People); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), meta.String())

	return waitErr
}

// collectPages fetches up to pages pages with a private cursor. A failed
// fetch is retried up to retries times; cancellation stops immediately.
// The people gathered before an error are returned with it.
func collectPages(ctx context.Context, src source.Source, pages, retries int) (res dumpResult, err error) {
	cursor := source.NewCursor()
	defer func() { res.NextPage = cursor.Next() }()

	for res.Pages < pages {
		people, err := fetchWithRetry(ctx, src, cursor, retries, &res.Failures)
		if err != nil {
			return res, err
		}
		res.Pages++
		if len(people) == 0 {
			logger.Debug().Ctx(ctx).Int("page", cursor.Next()-1).Msg("end of data")
			break
		}
		res.People = append(res.People, people...)
	}
	return res, nil
}

func fetchWithRetry(
	ctx context.Context,
	src source.Source,
	cursor *source.Cursor,
	retries int,
	failures *int,
) ([]contact.Person, error) {
	for attempt := 0; ; attempt++ {
		people, err := src.FetchPage(ctx, cursor)
		if err == nil {
			return people, nil
		}

		var fetchErr *source.FetchError
		if !errors.As(err, &fetchErr) {
			return nil, err
		}
		*failures++
		logger.Warn().Ctx(ctx).Str("error", fetchErr.Describe()).Int("attempt", attempt+1).Msg("fetch failed")

		if attempt >= retries {
			return nil, &ExitError{
				Code: exitCodeFetchFailed,
				Err:  fmt.Errorf("giving up after %d attempts: %w", attempt+1, err),
			}
		}
	}
}

// render writes the results to w. Structured formats encode doc, which is
// either the people or an envelope around them; line and table formats
// always write the people.
func render(w io.Writer, format string, doc any, people []contact.Person) error {
	if p, ok := doc.([]contact.Person); ok {
		doc = nonNil(p)
	}

	switch format {
	case pagination.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case pagination.OutputYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case pagination.OutputNDJSON:
		enc := json.NewEncoder(w)
		for _, p := range people {
			if err := enc.Encode(p); err != nil {
				return err
			}
		}
		return nil
	case pagination.OutputTable:
		return renderTable(w, people)
	default:
		return fmt.Errorf("%w: %q", pagination.ErrInvalidOutput, format)
	}
}

func nonNil(people []contact.Person) []contact.Person {
	if people == nil {
		return []contact.Person{}
	}
	return people
}

func renderTable(w io.Writer, people []contact.Person) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(tw, "ID\tName\tJob Title\tEmail")
	fmt.Fprintln(tw, "--\t----\t---------\t-----")
	for _, p := range people {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.FirstNameLastName, p.JobTitle, p.EmailAddress)
	}
	return tw.Flush()
}
