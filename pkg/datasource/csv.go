package datasource

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/logger"
)

// CSV reads records from an RFC 4180 CSV file with a header row.
type CSV struct {
	path string
	log  *slog.Logger
}

// NewCSV creates a CSV data source for the given file path.
func NewCSV(path string, log *slog.Logger) *CSV {
	if log == nil {
		log = logger.NewNope()
	}
	return &CSV{path: path, log: logger.Component(log, "csv")}
}

// LoadRecords implements DataSource.
func (c *CSV) LoadRecords() (*Data, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSource, c.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSource, c.path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, c.path)
	}

	headers := rows[0]
	records := make([]engine.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(engine.Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			}
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, c.path)
	}

	c.log.Info("loaded records", slog.Int("count", len(records)), slog.String("file", c.path))
	c.log.Debug("headers", slog.Any("headers", headers))
	return &Data{Headers: headers, Records: records}, nil
}
