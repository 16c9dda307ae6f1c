// Package datasource loads tabular records for the mail-merge pipeline.
//
// A DataSource yields column headers plus one Record per row. The only
// implementation here reads RFC 4180 CSV with a header row; other tabular
// sources can be plugged in by implementing the interface.
package datasource
