package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/contactdeck/internal/config"
	"github.com/rshade/contactdeck/internal/contact"
	"github.com/rshade/contactdeck/internal/logging"
	"github.com/rshade/contactdeck/internal/source"
)

// sourceFlags are the persistent flags that override the source section of
// the configuration.
type sourceFlags struct {
	dataset      string
	pageSize     int
	latency      time.Duration
	failureRate  float64
	cursorPolicy string
	seed         uint64
	metricsAddr  string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.dataset, "dataset", "", "contacts file (.json, .yaml); empty uses the builtin contacts")
	pf.IntVar(&f.pageSize, "page-size", source.DefaultPageSize, "records per page")
	pf.DurationVar(&f.latency, "latency", source.DefaultLatency, "simulated latency per fetch")
	pf.Float64Var(&f.failureRate, "failure-rate", source.DefaultFailureRate, "probability in [0,1] that a fetch fails")
	pf.StringVar(&f.cursorPolicy, "cursor-policy", string(source.CursorAdvance),
		"what a failed fetch does to the page cursor: advance or retry")
	pf.Uint64Var(&f.seed, "seed", 0, "seed for reproducible failures (0 = random)")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
}

// apply copies explicitly set flags over cfg. Flags override env and file.
func (f *sourceFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.Source.Dataset = f.dataset
	}
	if flags.Changed("page-size") {
		cfg.Source.PageSize = f.pageSize
	}
	if flags.Changed("latency") {
		cfg.Source.Latency = f.latency
	}
	if flags.Changed("failure-rate") {
		cfg.Source.FailureRate = f.failureRate
	}
	if flags.Changed("cursor-policy") {
		cfg.Source.CursorPolicy = f.cursorPolicy
	}
	if flags.Changed("seed") {
		cfg.Source.Seed = f.seed
	}
}

// newSource builds the mock source described by cfg.
func newSource(cfg *config.Config, log zerolog.Logger) (*source.MockSource, error) {
	people, err := contact.Load(cfg.Source.Dataset)
	if err != nil {
		return nil, fmt.Errorf("loading contacts: %w", err)
	}

	opts := []source.Option{
		source.WithPageSize(cfg.Source.PageSize),
		source.WithLatency(cfg.Source.Latency),
		source.WithFailureRate(cfg.Source.FailureRate),
		source.WithCursorPolicy(cfg.CursorPolicy()),
		source.WithLogger(logging.ComponentLogger(log, "source")),
	}
	if cfg.Source.Seed != 0 {
		opts = append(opts, source.WithSeed(cfg.Source.Seed))
	}

	src := source.NewMockSource(people, opts...)
	log.Debug().
		Int("records", src.Total()).
		Int("page_size", src.PageSize()).
		Str("policy", string(src.Policy())).
		Msg("source ready")
	return src, nil
}
