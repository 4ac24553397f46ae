// Package usage provides the fetch-and-report pipeline.
package usage

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/denysvitali/glm-usage/internal/config"
	"github.com/denysvitali/glm-usage/internal/logging"
	"github.com/denysvitali/glm-usage/internal/monitor"
	"github.com/denysvitali/glm-usage/internal/quota"
	"github.com/denysvitali/glm-usage/internal/report"
	"github.com/denysvitali/glm-usage/internal/window"
)

// Request labels, also used as error prefixes.
const (
	labelModelUsage = "Model usage"
	labelToolUsage  = "Tool usage"
	labelQuotaLimit = "Quota limit"
)

// Fetcher performs a single monitor request. *monitor.Client implements it.
type Fetcher interface {
	Request(ctx context.Context, url, label string, appendQuery bool, post monitor.PostProcessor) (any, error)
}

// Snapshot holds the three payloads of one run.
type Snapshot struct {
	Platform   config.Platform
	ModelUsage any
	ToolUsage  any
	QuotaLimit any
}

// Raw encodes the snapshot as the labeled text blob understood by
// report.Parse.
func (s *Snapshot) Raw() (string, error) {
	return report.Compose(string(s.Platform), s.ModelUsage, s.ToolUsage, s.QuotaLimit)
}

// Fetch queries model usage, tool usage and quota limits one after the
// other. The first failure aborts the run.
func Fetch(ctx context.Context, f Fetcher, pc config.PlatformConfig) (*Snapshot, error) {
	modelUsage, err := f.Request(ctx, pc.ModelUsageURL, labelModelUsage, true, nil)
	if err != nil {
		return nil, err
	}

	toolUsage, err := f.Request(ctx, pc.ToolUsageURL, labelToolUsage, true, nil)
	if err != nil {
		return nil, err
	}

	quotaLimit, err := f.Request(ctx, pc.QuotaLimitURL, labelQuotaLimit, false, quota.ProcessLimits)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Platform:   pc.Platform,
		ModelUsage: modelUsage,
		ToolUsage:  toolUsage,
		QuotaLimit: quotaLimit,
	}, nil
}

// Options tunes Run.
type Options struct {
	Format report.Format
	// Raw skips rendering and returns the composed text blob.
	Raw        bool
	Clock      window.Clock
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Run validates cfg, fetches the three reports and renders them.
func Run(ctx context.Context, cfg config.Config, opts Options) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	pc, err := cfg.Platform()
	if err != nil {
		return "", err
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	w := window.Now(clock)
	logger.Debug("resolved platform", "platform", pc.Platform, "start", w.StartTime(), "end", w.EndTime())

	clientOpts := []monitor.Option{monitor.WithLogger(logger)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, monitor.WithHTTPClient(opts.HTTPClient))
	}
	client := monitor.NewClient(cfg.AuthToken, w.QueryString(), clientOpts...)

	snap, err := Fetch(ctx, client, pc)
	if err != nil {
		return "", err
	}

	raw, err := snap.Raw()
	if err != nil {
		return "", err
	}
	if opts.Raw {
		return raw, nil
	}

	return report.Generate(raw, opts.Format, clock())
}
