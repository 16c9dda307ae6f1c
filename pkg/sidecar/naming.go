package sidecar

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/prompt"
)

// Namer derives a job's filename stem from its record. The stem must be
// collision-resistant across the batch; choosing a good scheme is the
// operator's responsibility.
type Namer func(record engine.Record) string

// FieldsNamer names a job by joining the values of the given record fields
// with hyphens.
func FieldsNamer(fields ...string) Namer {
	return func(record engine.Record) string {
		values := make([]string, 0, len(fields))
		for _, field := range fields {
			values = append(values, record[field])
		}
		return strings.Join(values, "-")
	}
}

// chooseNamer asks the operator which record fields to build filenames
// from, showing the first record's values as examples.
func chooseNamer(prompter prompt.Prompter, headers []string, records []engine.Record) (Namer, error) {
	choices := make([]string, len(headers))
	byChoice := make(map[string]string, len(headers))
	for i, header := range headers {
		label := header
		if len(records) > 0 {
			label = fmt.Sprintf("%s (e.g. %s)", header, records[0][header])
		}
		choices[i] = label
		byChoice[label] = header
	}

	selected, err := prompter.MultiSelect("Select fields to use in the filename:", choices)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(selected))
	for _, choice := range selected {
		if header, ok := byChoice[choice]; ok {
			fields = append(fields, header)
		} else {
			// Fixed prompters may answer with raw header names.
			fields = append(fields, choice)
		}
	}
	return FieldsNamer(fields...), nil
}
