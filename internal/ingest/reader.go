package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/salonsite/internal/core"
	"github.com/JonMunkholm/salonsite/internal/logging"
	"github.com/JonMunkholm/salonsite/internal/schema"
)

// ctxCheckInterval is how many rows are decoded between context checks.
const ctxCheckInterval = 1000

// newDecoder strips a leading UTF-8 BOM and replaces invalid UTF-8
// sequences with U+FFFD.
func newDecoder(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ReadTable decodes one CSV member into records keyed by the columns of t.
// Columns not described by t are ignored; described columns missing from
// the header read as "". Rows whose cells are all blank are skipped.
// Malformed cell values are kept verbatim.
func ReadTable(ctx context.Context, r io.Reader, t schema.Table) ([]core.Record, error) {
	cr := csv.NewReader(newDecoder(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file: %w", t.Member, ErrMissingIDColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w: %v", t.Member, ErrInvalidCSV, err)
	}

	idx := MakeHeaderIndex(header)
	if err := checkRequired(t, idx); err != nil {
		return nil, err
	}
	if missing := idx.Missing(t.Columns()); len(missing) > 0 {
		logging.FromContext(ctx).Debug("columns absent from header, reading as empty",
			slog.String("member", t.Member),
			slog.Any("columns", missing),
		)
	}

	var records []core.Record
	for line := 1; ; line++ {
		if line%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", t.Member, ErrInvalidCSV, err)
		}
		if blankRow(row) {
			continue
		}

		rec := make(core.Record, len(t.FieldSpecs))
		for _, spec := range t.FieldSpecs {
			pos, ok := idx[spec.Name]
			if !ok || pos >= len(row) {
				continue
			}
			rec[spec.Name] = normalizeCell(spec, row[pos])
		}
		records = append(records, rec)
	}
	return records, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
