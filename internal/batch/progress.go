// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"io"

	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// ConsoleProgress prints per-record status lines to W.
type ConsoleProgress struct {
	W io.Writer
}

func (c *ConsoleProgress) RecordStarted(rec types.Record) {
	fmt.Fprintf(c.W, "resolving: %s\n", rec.Label())
}

func (c *ConsoleProgress) RecordSucceeded(rec types.Record, count resolve.Count) {
	fmt.Fprintf(c.W, "updated: %s -> %d citations (%s)\n", rec.Label(), count.Value, count.Source)
}

func (c *ConsoleProgress) RecordFailed(rec types.Record, message string) {
	fmt.Fprintf(c.W, "failed:  %s (%s)\n", rec.Label(), message)
}

func (c *ConsoleProgress) BatchCompleted(sum Summary) {
	fmt.Fprintf(c.W, "\nBatch summary: %d updated, %d skipped, %d failed (total: %d)\n",
		sum.Updated, sum.Skipped, sum.Failed, sum.Total())
}
