// Package session runs one analysis per source and drives the interactive loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/autoeda-cli/internal/ai"
	"github.com/KaramelBytes/autoeda-cli/internal/analysis"
	"github.com/KaramelBytes/autoeda-cli/internal/charts"
	"github.com/KaramelBytes/autoeda-cli/internal/loader"
	"github.com/KaramelBytes/autoeda-cli/internal/report"
	"github.com/KaramelBytes/autoeda-cli/internal/table"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config is everything a Driver needs besides the source itself.
type Config struct {
	Loader loader.Options

	ChartsEnabled bool
	ChartsDir     string

	// SummaryRequested opts in to the narrative summary. A nil Summarizer
	// then reports the summary as unavailable.
	SummaryRequested bool
	Summarizer       ai.Summarizer
	// SummaryColumns bounds the column names sent to the summarizer.
	SummaryColumns int
	SummaryTimeout time.Duration
}

// Result is the outcome of one analysis.
type Result struct {
	RunID    string
	Source   string
	Encoding string
	Table    *table.Table
	Report   *analysis.Report

	Panel    *charts.Panel
	ChartErr error

	Summary    string
	SummaryErr error
}

// Driver analyzes sources with a fixed configuration.
type Driver struct {
	cfg    Config
	loader *loader.Loader
	logger *zap.Logger
}

// NewDriver builds a Driver. A nil logger disables logging.
func NewDriver(cfg Config, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SummaryColumns <= 0 {
		cfg.SummaryColumns = 20
	}
	if cfg.SummaryTimeout <= 0 {
		cfg.SummaryTimeout = 60 * time.Second
	}
	return &Driver{
		cfg:    cfg,
		loader: loader.New(cfg.Loader, logger),
		logger: logger.Named("session"),
	}
}

// Analyze loads source and profiles it. Only load failures are returned as
// errors; chart and summary failures are recorded on the Result.
func (d *Driver) Analyze(ctx context.Context, source string) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Source: strings.TrimSpace(source)}
	log := d.logger.With(zap.String("run_id", res.RunID))

	loaded, err := d.loader.Load(ctx, res.Source)
	if err != nil {
		log.Debug("load failed", zap.String("source", res.Source), zap.Error(err))
		return nil, err
	}
	res.Table = loaded.Table
	res.Encoding = loaded.Encoding
	log.Debug("loaded",
		zap.String("encoding", loaded.Encoding),
		zap.Int("rows", res.Table.Rows()),
		zap.Int("columns", len(res.Table.Columns)))

	start := time.Now()
	res.Report = analysis.Profile(res.Table)
	log.Debug("profiled", zap.Duration("took", time.Since(start)), zap.Int("insights", len(res.Report.Insights)))

	if d.cfg.ChartsEnabled {
		res.Panel, res.ChartErr = charts.Render(res.Table, res.Report, d.chartPath(res))
		if res.ChartErr != nil && !errors.Is(res.ChartErr, charts.ErrNothingToPlot) {
			log.Warn("chart rendering failed", zap.Error(res.ChartErr))
		}
	}

	if d.cfg.SummaryRequested {
		res.Summary, res.SummaryErr = d.summarize(ctx, res)
		if res.SummaryErr != nil {
			log.Warn("summary unavailable", zap.Error(res.SummaryErr), zap.Bool("temporary", ai.Temporary(res.SummaryErr)))
		}
	}
	return res, nil
}

func (d *Driver) summarize(ctx context.Context, res *Result) (string, error) {
	if d.cfg.Summarizer == nil {
		return "", ai.ErrSummaryUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, d.cfg.SummaryTimeout)
	defer cancel()
	desc := ai.DescribeTable(res.Table.Name, res.Table.Rows(), res.Table.Names(), d.cfg.SummaryColumns)
	return d.cfg.Summarizer.Summarize(ctx, desc)
}

func (d *Driver) chartPath(res *Result) string {
	base := strings.TrimSuffix(res.Table.Name, filepath.Ext(res.Table.Name))
	return filepath.Join(d.cfg.ChartsDir, fmt.Sprintf("%s_%s.png", slug(base), res.RunID[:8]))
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "dataset"
	}
	return b.String()
}

// Document converts a Result into what the console report prints.
func (r *Result) Document(summaryRequested bool) report.Document {
	doc := report.Document{Report: r.Report, SummaryRequested: summaryRequested, Summary: r.Summary}
	switch {
	case r.Panel != nil:
		doc.ChartPath = r.Panel.Path
		doc.ChartTitles = r.Panel.Titles
	case r.ChartErr != nil:
		doc.ChartNote = "No charts: " + r.ChartErr.Error()
	}
	if r.SummaryErr != nil {
		doc.SummaryNote = summaryNote(r.SummaryErr)
	}
	return doc
}

func summaryNote(err error) string {
	var (
		authErr *ai.AuthError
		rlErr   *ai.RateLimitError
		ue      *ai.UnreachableError
	)
	switch {
	case errors.Is(err, ai.ErrSummaryUnavailable):
		return "no API credential configured (set AUTOEDA_API_KEY or the provider's key)"
	case errors.As(err, &authErr):
		return "the provider rejected the API credential"
	case errors.As(err, &rlErr):
		return "the provider is rate limiting requests, try again later"
	case errors.As(err, &ue):
		return "the summary service is unreachable"
	case errors.Is(err, context.DeadlineExceeded):
		return "the summary request timed out"
	}
	return err.Error()
}
