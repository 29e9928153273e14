// Package parallel fans independent monitoring runs out across
// goroutines. Unlike a shared worker pool scaled to absorb bursty
// goal evaluation, a monitor.Monitor is not safe for concurrent use (its
// work queue and violation log are single-threaded by design), so
// there is nothing to share: each goroutine here owns one Monitor and
// one frame stream end to end, and the only coordination needed is
// bounding how many run at once and collecting their outcomes.
package parallel

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/gokanlogic/pkg/monitor"
	"github.com/gitrdm/gokanlogic/pkg/property"
	"github.com/gitrdm/gokanlogic/pkg/scenegraph"
)

// Stream is one route's ordered sequence of frames to check.
type Stream struct {
	Route  string
	Frames []*scenegraph.Graph
}

// Options configures a RunStreams call.
type Options struct {
	// LogRoot is passed to monitor.New for every stream.
	LogRoot string
	// Properties is passed to monitor.New for every stream; a fresh
	// []*property.SymbolicProperty slice header is fine to share since
	// SymbolicProperty values are read-only after construction.
	Properties []*property.SymbolicProperty
	// MaxConcurrency bounds the number of streams processed at once.
	// Zero or negative defaults to runtime.NumCPU().
	MaxConcurrency int
	// Recorder, if set, is passed to every stream's monitor.Monitor via
	// monitor.WithRecorder. Safe to share: internal/telemetry's
	// PrometheusRecorder holds no per-monitor state.
	Recorder monitor.Recorder
}

// StreamResult is one stream's outcome.
type StreamResult struct {
	Route string
	Err   error
}

// RunStreams processes every stream to completion (or first error),
// each on its own goroutine with its own *monitor.Monitor, bounded to
// opts.MaxConcurrency concurrent streams. It returns one StreamResult
// per input stream, in input order, once all have finished or ctx is
// cancelled. A stream's error stops only that stream, other streams
// continue running to their own completion.
func RunStreams(ctx context.Context, streams []Stream, opts Options) []StreamResult {
	limit := opts.MaxConcurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]StreamResult, len(streams))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, s := range streams {
		i, s := i, s
		g.Go(func() error {
			results[i] = StreamResult{Route: s.Route, Err: runOne(gctx, s, opts)}
			return nil
		})
	}
	// g.Wait's error is always nil: runOne's errors are captured per
	// stream in results, never returned to the group, so one stream's
	// failure never cancels gctx and starves the others.
	_ = g.Wait()
	return results
}

func runOne(ctx context.Context, s Stream, opts Options) error {
	var monOpts []monitor.Option
	if opts.Recorder != nil {
		monOpts = append(monOpts, monitor.WithRecorder(opts.Recorder))
	}
	m, err := monitor.New(opts.LogRoot, s.Route, opts.Properties, monOpts...)
	if err != nil {
		return fmt.Errorf("parallel: stream %q: %w", s.Route, err)
	}
	for _, g := range s.Frames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("parallel: stream %q: %w", s.Route, err)
		}
		if err := m.Check(g); err != nil {
			return fmt.Errorf("parallel: stream %q frame %q: %w", s.Route, g.Frame, err)
		}
	}
	return nil
}
