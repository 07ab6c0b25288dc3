/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/dimgraph/dimgraph"
)

// StreamResult represents a single materialized entity in a stream
type StreamResult struct {
	Entity *dimgraph.Entity // The materialized entity
	Error  error            // Item-specific error, if any
	Meta   StreamMeta       // Metadata about this item
}

// StreamMeta contains metadata about a streamed item
type StreamMeta struct {
	Index     int64     // Item index in stream (0-based)
	Timestamp time.Time // When the item was materialized
}

// StreamProgress tracks streaming progress
type StreamProgress struct {
	ItemsProcessed int64     // Total items materialized
	Errors         []error   // Accumulated non-fatal errors
	StartTime      time.Time // When streaming started
	CurrentRate    float64   // Items per second
}

// StreamOptions configures streaming behavior
type StreamOptions struct {
	BufferSize      int                  // Channel buffer size (default: 100)
	ProgressHandler func(StreamProgress) // Optional progress callback
	ErrorHandler    func(error) bool     // Return true to continue, false to stop
}

// StreamOption is a functional option for configuring streaming
type StreamOption func(*StreamOptions)

// DefaultStreamOptions returns default streaming options
func DefaultStreamOptions() StreamOptions {
	return StreamOptions{
		BufferSize: 100,
	}
}

// WithBufferSize sets the channel buffer size
func WithBufferSize(size int) StreamOption {
	return func(opts *StreamOptions) {
		opts.BufferSize = size
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(StreamProgress)) StreamOption {
	return func(opts *StreamOptions) {
		opts.ProgressHandler = handler
	}
}

// WithErrorHandler sets an error handler that can decide whether to continue
func WithErrorHandler(handler func(error) bool) StreamOption {
	return func(opts *StreamOptions) {
		opts.ErrorHandler = handler
	}
}

// Stream enumerates every record of a scanning provider and materializes
// each through the same cache-aside path as Get. It fails with a
// validation error when the provider does not implement Scanner.
func (s *Store) Stream(ctx context.Context, opts ...StreamOption) (<-chan StreamResult, error) {
	scanner, ok := s.fetcher.(Scanner)
	if !ok {
		return nil, fmt.Errorf("datastore %s: %w", s.name,
			fmt.Errorf("provider does not support scanning"))
	}

	options := DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}

	resultCh := make(chan StreamResult, options.BufferSize)
	go s.streamWorker(ctx, scanner, options, resultCh)
	return resultCh, nil
}

// streamWorker handles the actual streaming logic
func (s *Store) streamWorker(ctx context.Context, scanner Scanner, options StreamOptions, resultCh chan<- StreamResult) {
	defer close(resultCh)

	var index int64
	startTime := time.Now()
	var accumulated []error

	reportProgress := func() {
		if options.ProgressHandler == nil {
			return
		}
		progress := StreamProgress{
			ItemsProcessed: index,
			Errors:         accumulated,
			StartTime:      startTime,
		}
		if elapsed := time.Since(startTime).Seconds(); elapsed > 0 {
			progress.CurrentRate = float64(index) / elapsed
		}
		options.ProgressHandler(progress)
	}

	items, errs := scanner.Scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if options.ErrorHandler != nil && options.ErrorHandler(err) {
				accumulated = append(accumulated, err)
				continue
			}
			resultCh <- StreamResult{
				Error: fmt.Errorf("datastore %s: scan: %w", s.name, err),
				Meta:  StreamMeta{Index: index, Timestamp: time.Now()},
			}
			return

		case item, ok := <-items:
			if !ok {
				reportProgress()
				return
			}

			s.mu.Lock()
			e, ok2 := s.cache[item.ID]
			var err error
			if !ok2 {
				e, err = s.materializeLocked(item.ID, item.Record, s.space)
			}
			s.mu.Unlock()

			result := StreamResult{
				Entity: e,
				Error:  err,
				Meta:   StreamMeta{Index: index, Timestamp: time.Now()},
			}
			if err != nil {
				accumulated = append(accumulated, err)
			}

			select {
			case resultCh <- result:
			case <-ctx.Done():
				return
			}
			index++
			reportProgress()
		}
	}
}
