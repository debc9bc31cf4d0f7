package app

import (
	"context"
	"fmt"
	"io"

	"github.com/Adda-Baaj/userpost/internal/config"
	"github.com/Adda-Baaj/userpost/internal/logger"
	"github.com/Adda-Baaj/userpost/internal/poster"
	"github.com/Adda-Baaj/userpost/pkg/httpclient"
	"github.com/Adda-Baaj/userpost/pkg/publishers"
	"github.com/go-resty/resty/v2"
)

// Runner wires the poster and the optional exchange publishers for one run.
type Runner struct {
	cfg    *config.Config
	poster *poster.Poster
	fanout *publishers.Fanout
	log    logger.Logger
}

// Option customizes a Runner.
type Option func(*runnerOptions)

type runnerOptions struct {
	client      httpclient.Client
	restyLogger resty.Logger
	registry    publishers.Registry
}

// WithHTTPClient replaces the resty-backed client.
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *runnerOptions) { o.client = c }
}

// WithRestyLogger routes the transport's own diagnostics to l.
func WithRestyLogger(l resty.Logger) Option {
	return func(o *runnerOptions) { o.restyLogger = l }
}

// WithPublisherRegistry replaces the default publisher builders.
func WithPublisherRegistry(reg publishers.Registry) Option {
	return func(o *runnerOptions) { o.registry = reg }
}

// NewRunner builds a runner from config.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	o := runnerOptions{registry: publishers.DefaultRegistry()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = httpclient.NewRestyClient(cfg.RequestTimeout, httpclient.WithLogger(o.restyLogger))
	}

	p, err := poster.New(o.client, cfg.TargetURL, log)
	if err != nil {
		return nil, fmt.Errorf("init poster: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg, o.registry, log)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:    cfg,
		poster: p,
		fanout: fanout,
		log:    log,
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, reg publishers.Registry, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()

	pubs, err := publishers.BuildAll(ctx, reg, enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Run posts once, prints the two result lines to out, then reports the exchange.
// A transport failure is returned before anything is written to out.
// Reporting failures are logged and never change the outcome.
func (r *Runner) Run(ctx context.Context, out io.Writer) error {
	if r == nil || r.poster == nil {
		return fmt.Errorf("runner is not initialized")
	}
	defer r.closeFanout()

	ex, err := r.poster.Post(ctx)
	if err != nil {
		return err
	}
	if err := poster.Print(out, ex); err != nil {
		return fmt.Errorf("print response: %w", err)
	}

	if r.fanout.Size() == 0 {
		return nil
	}
	evt := publishers.NewEvent(ex)
	delivered, err := r.fanout.Publish(ctx, evt)
	if err != nil {
		r.log.ErrorObj("exchange publish failed", "publish_error", map[string]any{
			"event_id":  evt.ID,
			"delivered": delivered,
			"error":     err.Error(),
		})
		return nil
	}
	r.log.InfoObj("exchange published", "publish_meta", map[string]any{
		"event_id":  evt.ID,
		"delivered": delivered,
	})
	return nil
}

// closeFanout releases publisher connections, logging any errors encountered.
func (r *Runner) closeFanout() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publishers close failed", "error", err)
	}
}
