// Package runner feeds parsed records into the engine and tallies outcomes.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/Veraticus/payments-engine/internal/common"
	"github.com/Veraticus/payments-engine/internal/engine"
	"github.com/Veraticus/payments-engine/internal/ingest"
	"github.com/Veraticus/payments-engine/internal/model"
)

// Source yields transactions until io.EOF.
type Source interface {
	Next() (model.Transaction, error)
}

// Processor applies a single transaction.
type Processor interface {
	Process(tx model.Transaction) error
}

// Stats summarizes a run.
type Stats struct {
	// Rejected counts engine rejections by engine.KindOf label.
	Rejected  map[string]int
	Processed int
	Applied   int
	Malformed int
}

// RejectedTotal returns the number of rejected transactions.
func (s Stats) RejectedTotal() int {
	total := 0
	for _, n := range s.Rejected {
		total += n
	}
	return total
}

// RejectedKinds returns the rejection labels in sorted order.
func (s Stats) RejectedKinds() []string {
	kinds := make([]string, 0, len(s.Rejected))
	for k := range s.Rejected {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Run drains src into proc one record at a time. Malformed rows are skipped and
// rejected transactions are counted; neither stops the run. It returns early
// with ctx.Err() if the context is canceled, along with the stats so far.
func Run(ctx context.Context, src Source, proc Processor) (Stats, error) {
	stats := Stats{Rejected: make(map[string]int)}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		tx, err := src.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}

		var malformed *ingest.MalformedRecordError
		if errors.As(err, &malformed) {
			stats.Malformed++
			common.LogDebug("Skipping malformed record", common.Fields{
				"line":  malformed.Line,
				"error": malformed.Err.Error(),
			})
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read transaction: %w", err)
		}

		stats.Processed++
		if err := proc.Process(tx); err != nil {
			kind := engine.KindOf(err)
			stats.Rejected[kind]++
			common.LogDebug("Transaction rejected", common.Fields{
				"type":   string(tx.Type),
				"client": tx.Client,
				"tx":     tx.TX,
				"reason": kind,
			})
			continue
		}
		stats.Applied++
	}
}
