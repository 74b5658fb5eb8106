// Package ingest feeds input lines through the parser into an Aggregator,
// applying the configured error policy.
package ingest

import (
	"context"
	"io"
	"log/slog"

	stderrors "errors"

	"github.com/mcncl/jsonsum/internal/config"
	"github.com/mcncl/jsonsum/internal/errors"
	"github.com/mcncl/jsonsum/internal/models"
	"github.com/mcncl/jsonsum/internal/parser"
	"github.com/mcncl/jsonsum/internal/reader"
	"github.com/mcncl/jsonsum/internal/summary"
)

// LineSource yields input lines until it returns io.EOF. Any other error is
// fatal to the stream.
type LineSource interface {
	Next() (reader.Line, error)
}

// Options configures an Ingester.
type Options struct {
	Policy    config.Policy
	Workers   int
	BatchSize int
	Logger    *slog.Logger

	// NewAggregator builds each Aggregator the ingester fills. Defaults to
	// summary.NewAggregator.
	NewAggregator func() *summary.Aggregator
}

// Result is the outcome of a completed run.
type Result struct {
	Aggregator *summary.Aggregator
	Lines      uint64
	Skipped    uint64
}

// Ingester drives one run over a LineSource.
type Ingester struct {
	opts Options
}

// New creates an Ingester, filling in defaults for unset options.
func New(opts Options) *Ingester {
	if opts.Policy == "" {
		opts.Policy = config.PolicyStrict
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = config.DefaultBatchSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.NewAggregator == nil {
		opts.NewAggregator = summary.NewAggregator
	}
	return &Ingester{opts: opts}
}

// Run consumes src to the end and returns the aggregate. Under the strict
// policy the first bad line ends the run with an error naming that line and
// no result. Under the lenient policy bad lines are skipped. A failure of the
// stream itself ends the run under either policy.
func (in *Ingester) Run(ctx context.Context, src LineSource) (*Result, error) {
	if in.opts.Workers > 1 {
		return in.runParallel(ctx, src)
	}
	return in.runSequential(ctx, src)
}

func (in *Ingester) runSequential(ctx context.Context, src LineSource) (*Result, error) {
	res := &Result{Aggregator: in.opts.NewAggregator()}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, err := src.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.AtLine(res.Lines+1, err)
		}
		res.Lines++

		if err := in.ingestLine(res.Aggregator, line); err != nil {
			if in.opts.Policy == config.PolicyStrict {
				return nil, err
			}
			res.Skipped++
		}
	}

	in.logDone(res)
	return res, nil
}

// ingestLine applies one line to agg. The returned error is already tied to
// the line number; under the lenient policy it has also been logged.
func (in *Ingester) ingestLine(agg *summary.Aggregator, line reader.Line) error {
	err := line.Err
	if err == nil {
		var record models.JSONObject
		record, err = parser.ParseRecord(line.Text)
		if err == nil {
			agg.ApplyRecord(record)
			return nil
		}
	}

	err = errors.AtLine(line.Number, err)
	if in.opts.Policy == config.PolicyLenient {
		in.opts.Logger.Debug("skipping line", "line", line.Number, "error", err)
	}
	return err
}

func (in *Ingester) logDone(res *Result) {
	in.opts.Logger.Debug("ingest complete",
		"lines", res.Lines,
		"records", res.Aggregator.TotalRecords(),
		"fields", len(res.Aggregator.Fields()),
		"skipped", res.Skipped,
		"policy", string(in.opts.Policy),
		"workers", in.opts.Workers,
	)
}
