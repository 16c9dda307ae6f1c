package mapper

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/logger"
	"github.com/dmitrymomot/mailmerge/pkg/prompt"
)

// NoneOption is the "this header feeds nothing" choice in interactive mode.
const NoneOption = "none (unused)"

// Mapping maps a data-source header to the template field it supplies.
type Mapping map[string]string

// Apply produces a new record keyed by template fields: every mapped header
// is renamed, unmapped headers are dropped, except headers listed in keep
// (e.g. attachment columns) which pass through under their own name.
func (m Mapping) Apply(record engine.Record, keep ...string) engine.Record {
	kept := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		kept[k] = struct{}{}
	}

	out := make(engine.Record, len(m))
	for header, value := range record {
		if field, ok := m[header]; ok {
			out[field] = value
			continue
		}
		if _, ok := kept[header]; ok {
			out[header] = value
		}
	}
	return out
}

// Unmapped returns template fields that no header supplies, sorted.
func (m Mapping) Unmapped(templateFields engine.Fields) []string {
	supplied := make(map[string]struct{}, len(m))
	for _, field := range m {
		supplied[field] = struct{}{}
	}

	var missing []string
	for field := range templateFields {
		if _, ok := supplied[field]; !ok {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	return missing
}

// Strategy resolves a header→field mapping for one run.
type Strategy interface {
	MapFields(templateFields engine.Fields, headers []string) (Mapping, error)
}

// Static is a Strategy wrapping a caller-supplied mapping.
type Static struct {
	Mapping Mapping
	Log     *slog.Logger
}

// MapFields implements Strategy. The fixed mapping is returned as-is after
// the unmapped-field check.
func (s Static) MapFields(templateFields engine.Fields, _ []string) (Mapping, error) {
	warnUnmapped(s.Log, s.Mapping, templateFields)
	return s.Mapping, nil
}

// Interactive asks the operator to assign each header to a template field.
type Interactive struct {
	Prompter prompt.Prompter
	Log      *slog.Logger
}

// MapFields implements Strategy. Each header is offered every template
// field plus NoneOption; the default favours an exact name match.
func (i Interactive) MapFields(templateFields engine.Fields, headers []string) (Mapping, error) {
	choices := append(templateFields.Sorted(), NoneOption)

	mapping := make(Mapping, len(headers))
	for _, header := range headers {
		defaultChoice := NoneOption
		if _, ok := templateFields[header]; ok {
			defaultChoice = header
		}
		chosen, err := i.Prompter.Select(
			fmt.Sprintf("Map source header %q to template field:", header),
			choices, defaultChoice,
		)
		if err != nil {
			return nil, fmt.Errorf("mapping header %q: %w", header, err)
		}
		if chosen != NoneOption {
			mapping[header] = chosen
		}
	}

	warnUnmapped(i.Log, mapping, templateFields)
	return mapping, nil
}

// warnUnmapped logs a single warning enumerating template fields that
// received no mapping.
func warnUnmapped(log *slog.Logger, mapping Mapping, templateFields engine.Fields) {
	if log == nil {
		log = logger.NewNope()
	}
	if missing := mapping.Unmapped(templateFields); len(missing) > 0 {
		log.Warn("template fields left unmapped",
			slog.String("fields", strings.Join(missing, ", ")))
	}
}
