package snapshot

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	interfaces "github.com/sheikh-saqib/transactions-engine/internal/interfaces"
	"github.com/sheikh-saqib/transactions-engine/internal/models"
)

var header = []string{"client", "available", "held", "total", "locked"}

// CSVWriter renders snapshot rows as CSV, one row per client.
type CSVWriter struct {
	out io.Writer
}

func NewCSVWriter(out io.Writer) *CSVWriter {
	return &CSVWriter{out: out}
}

func (w *CSVWriter) WriteSnapshot(_ context.Context, rows []models.AccountSnapshot) error {
	cw := csv.NewWriter(w.out)

	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.Client), 10),
			row.Available.String(),
			row.Held.String(),
			row.Total.String(),
			strconv.FormatBool(row.Locked),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

var _ interfaces.SnapshotSink = (*CSVWriter)(nil)
