package dbmaintenance

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"github.com/orderhub/order-management/internal/storage"
)

// Options is the configuration bag passed through to each row processor.
type Options struct {
	// Simulate runs the processor without persisting changes.
	Simulate bool
}

// ProcessFunc transforms one CSV row, keyed by the header column names.
// Returning an error marks the row as failed without aborting the run.
type ProcessFunc func(ctx context.Context, row map[string]string, opts Options) error

type Result struct {
	Succeeded int
	Failed    int
}

// Runner applies a best-effort transformation to every row of a CSV held
// in object storage. The operation is deliberately not atomic across the
// file: one bad row must not discard thousands of good ones, so each row
// commits (or fails) on its own and the run always reaches the end.
type Runner struct {
	store  storage.Storage
	logger *slog.Logger
}

func NewRunner(store storage.Storage, logger *slog.Logger) *Runner {
	return &Runner{
		store:  store,
		logger: logger,
	}
}

// Run processes every data row of the CSV at bucket/key in file order.
// The only fatal errors are failures to open or read the source itself;
// those abort before any row is processed.
func (r *Runner) Run(ctx context.Context, bucket, key string, process ProcessFunc, opts Options) (Result, error) {
	r.logger.Info("maintenance run started", "bucket", bucket, "key", key, "simulate", opts.Simulate)

	body, err := r.store.Get(ctx, bucket, key)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open CSV source: %w", err)
	}
	defer body.Close()

	reader := csv.NewReader(body)

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var result Result
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil && len(record) == 0 {
			// Unparseable line with nothing recovered from it: a row
			// failure, not a run failure.
			r.logger.Error("row failed", "error", err)
			result.Failed++
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}

		if err != nil {
			// Inconsistent column count; the partial row is logged for
			// the operator but never handed to the processor.
			r.logger.Error("row failed", "row", row, "error", err)
			result.Failed++
			continue
		}

		if err := r.processRow(ctx, process, row, opts); err != nil {
			r.logger.Error("row failed", "row", row, "error", err)
			result.Failed++
		} else {
			r.logger.Info("row ok", "row", row)
			result.Succeeded++
		}
	}

	r.logger.Info("maintenance run finished",
		"succeeded", result.Succeeded,
		"failed", result.Failed)

	return result, nil
}

// processRow isolates one row, converting panics in the processor into row
// failures so the batch keeps going.
func (r *Runner) processRow(ctx context.Context, process ProcessFunc, row map[string]string, opts Options) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("row processor panicked: %v", rec)
		}
	}()
	return process(ctx, row, opts)
}
