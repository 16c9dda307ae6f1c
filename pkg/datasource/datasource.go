package datasource

import (
	"errors"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
)

var (
	// ErrSource indicates the data source could not be read or parsed.
	// Fatal: aborts the whole run.
	ErrSource = errors.New("failed to load data source")

	// ErrEmpty indicates the source parsed fine but contains zero records.
	ErrEmpty = errors.New("data source contains no records")
)

// Data is the loaded content of a data source: headers in source order and
// one record per row, keyed by header.
type Data struct {
	Headers []string
	Records []engine.Record
}

// DataSource loads records to merge.
type DataSource interface {
	LoadRecords() (*Data, error)
}
