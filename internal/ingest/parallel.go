package ingest

import (
	"context"
	"io"
	"sync"

	stderrors "errors"

	"github.com/mcncl/jsonsum/internal/config"
	"github.com/mcncl/jsonsum/internal/errors"
	"github.com/mcncl/jsonsum/internal/reader"
	"github.com/mcncl/jsonsum/internal/summary"
	"golang.org/x/sync/errgroup"
)

// batch is a contiguous run of input lines. readErr, when set, is the stream
// failure that ended the input right after these lines.
type batch struct {
	seq     uint64
	lines   []reader.Line
	readErr error
}

type batchResult struct {
	seq     uint64
	agg     *summary.Aggregator
	lines   uint64
	skipped uint64
	err     error
}

// runParallel splits the input into contiguous batches, aggregates each batch
// on a worker and merges the partial aggregates in input order. The result and
// the reported error match a sequential run.
func (in *Ingester) runParallel(ctx context.Context, src LineSource) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan batch, in.opts.Workers)
	results := make(chan batchResult, in.opts.Workers)

	g.Go(func() error {
		defer close(jobs)
		return in.produce(gctx, src, jobs)
	})

	var workers sync.WaitGroup
	for w := 0; w < in.opts.Workers; w++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for b := range jobs {
				select {
				case results <- in.process(b):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	res, mergeErr := in.mergeInOrder(results)
	cancel()
	groupErr := g.Wait()

	if mergeErr != nil {
		return nil, mergeErr
	}
	// With no merge error, a nil group error means every batch was produced,
	// processed and merged.
	if groupErr != nil {
		return nil, groupErr
	}

	in.logDone(res)
	return res, nil
}

// produce cuts src into batches. A stream failure is delivered in-band on the
// final batch so it is reported in line order.
func (in *Ingester) produce(ctx context.Context, src LineSource, jobs chan<- batch) error {
	var seq, lineNo uint64
	for {
		b := batch{seq: seq, lines: make([]reader.Line, 0, in.opts.BatchSize)}
		eof := false

		for len(b.lines) < in.opts.BatchSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			line, err := src.Next()
			if stderrors.Is(err, io.EOF) {
				eof = true
				break
			}
			if err != nil {
				b.readErr = errors.AtLine(lineNo+1, err)
				eof = true
				break
			}
			lineNo++
			b.lines = append(b.lines, line)
		}

		if len(b.lines) > 0 || b.readErr != nil {
			select {
			case jobs <- b:
			case <-ctx.Done():
				return ctx.Err()
			}
			seq++
		}
		if eof {
			return nil
		}
	}
}

func (in *Ingester) process(b batch) batchResult {
	res := batchResult{seq: b.seq, agg: in.opts.NewAggregator()}

	for _, line := range b.lines {
		res.lines++
		if err := in.ingestLine(res.agg, line); err != nil {
			if in.opts.Policy == config.PolicyStrict {
				res.err = err
				return res
			}
			res.skipped++
		}
	}

	if b.readErr != nil {
		res.err = b.readErr
	}
	return res
}

// mergeInOrder folds batch results into one Result by sequence number,
// stopping at the first batch that carries an error.
func (in *Ingester) mergeInOrder(results <-chan batchResult) (*Result, error) {
	out := &Result{Aggregator: in.opts.NewAggregator()}
	pending := make(map[uint64]batchResult)
	var next uint64

	for r := range results {
		pending[r.seq] = r
		for {
			cur, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			if cur.err != nil {
				return nil, cur.err
			}
			summary.Merge(out.Aggregator, cur.agg)
			out.Lines += cur.lines
			out.Skipped += cur.skipped
		}
	}
	return out, nil
}
