// Package replay feeds JSON-lines order requests through a matching engine.
package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/luxfi/log"

	"outcome-book/internal/engine"
	"outcome-book/internal/metrics"
	"outcome-book/internal/models"
)

const maxLineSize = 1 << 20

// Summary counts what happened to the input lines of one run.
type Summary struct {
	Lines    int `json:"lines"`
	Accepted int `json:"accepted"`
	Invalid  int `json:"invalid"`
	Rejected int `json:"rejected"`
	Trades   int `json:"trades"`
}

// Runner submits each input line to the engine and reports the result.
type Runner struct {
	engine   *engine.MatchingEngine
	reporter Reporter
	metrics  *metrics.Metrics
	logger   log.Logger
}

// NewRunner creates a runner. m may be nil.
func NewRunner(eng *engine.MatchingEngine, reporter Reporter, m *metrics.Metrics, logger log.Logger) *Runner {
	return &Runner{
		engine:   eng,
		reporter: reporter,
		metrics:  m,
		logger:   logger,
	}
}

// Run reads order requests from in until EOF or until ctx is done. Lines that
// fail to decode or validate are logged and skipped. The reporter is flushed
// before Run returns. Cancelling ctx stops Run even while it waits for input;
// the reader goroutine then exits once its pending read returns.
func (r *Runner) Run(ctx context.Context, in io.Reader) (Summary, error) {
	var sum Summary

	lines := scanLines(ctx, in)

loop:
	for {
		if ctx.Err() != nil {
			r.logger.Info("replay interrupted", "lines", sum.Lines)
			break
		}

		var item scanned
		var ok bool
		select {
		case <-ctx.Done():
			r.logger.Info("replay interrupted", "lines", sum.Lines)
			break loop
		case item, ok = <-lines:
		}
		if !ok {
			break
		}
		if item.err != nil {
			return sum, fmt.Errorf("failed to read input: %w", item.err)
		}

		line := strings.TrimSpace(item.text)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sum.Lines++

		order, err := decode(line)
		if err != nil {
			sum.Invalid++
			r.logger.Warn("skipping invalid order", "line", sum.Lines, "error", err)
			continue
		}

		start := time.Now()
		res, err := r.engine.Submit(order)
		if err != nil {
			sum.Rejected++
			if r.metrics != nil {
				r.metrics.RecordRejected()
			}
			r.logger.Warn("order rejected", "line", sum.Lines, "error", err)
			continue
		}
		if r.metrics != nil {
			r.metrics.RecordSubmission(&res, time.Since(start))
		}

		sum.Accepted++
		sum.Trades += len(res.Trades)
		if err := r.reporter.Report(res); err != nil {
			return sum, fmt.Errorf("failed to report order %d: %w", res.Taker.ID, err)
		}
	}

	if err := r.reporter.Flush(); err != nil {
		return sum, fmt.Errorf("failed to flush output: %w", err)
	}
	return sum, nil
}

type scanned struct {
	text string
	err  error
}

// scanLines reads in line by line on its own goroutine. The channel is closed
// at EOF, after a read error, or once ctx is done.
func scanLines(ctx context.Context, in io.Reader) <-chan scanned {
	out := make(chan scanned)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case out <- scanned{text: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case out <- scanned{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}

func decode(line string) (models.Order, error) {
	var req models.OrderRequest
	dec := json.NewDecoder(strings.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return models.Order{}, fmt.Errorf("invalid json: %w", err)
	}
	return req.ToOrder()
}
