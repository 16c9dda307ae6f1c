package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailmerge/pkg/datasource"
	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/engine/markdown"
	"github.com/dmitrymomot/mailmerge/pkg/mapper"
	"github.com/dmitrymomot/mailmerge/pkg/merge"
	"github.com/dmitrymomot/mailmerge/pkg/prompt"
	"github.com/dmitrymomot/mailmerge/pkg/sidecar"
)

// stringsFlag collects a repeatable string flag.
type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func cmdGenerate(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	csvFile := fs.String("csv", "", "CSV data file (required)")
	templateFile := fs.String("template", "", "markdown template file (required)")
	layoutFile := fs.String("layout", "", "HTML wrapper template file (required)")
	output := fs.String("output", "output", "root directory for generated runs")
	runName := fs.String("run-name", "", "name of this run; prompted when empty")
	ccBCC := fs.Bool("cc-bcc", false, "allow mapping cc/bcc reserved fields")
	var attachments stringsFlag
	fs.Var(&attachments, "attach", "attach this file to every email (repeatable)")
	var attachColumns stringsFlag
	fs.Var(&attachColumns, "attach-col", "CSV column holding per-record attachment paths (repeatable)")
	var fixedMap stringsFlag
	fs.Var(&fixedMap, "map", "fixed header=field mapping; disables interactive mapping (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *csvFile == "" || *templateFile == "" || *layoutFile == "" {
		fs.Usage()
		return fmt.Errorf("-csv, -template and -layout are required")
	}

	prompter := prompt.NewConsole()

	name := *runName
	if name == "" {
		entered, err := prompter.Input("What should this run be called?")
		if err != nil {
			return err
		}
		name = entered
	}
	if name == "" {
		name = "run-" + uuid.NewString()[:8]
	}

	strategy, err := mappingStrategy(fixedMap, prompter, log)
	if err != nil {
		return err
	}

	eng := markdown.New(*templateFile, *layoutFile, log)
	generator := merge.NewGenerator(merge.GeneratorConfig{
		Source: datasource.NewCSV(*csvFile, log),
		Engine: eng,
		EngineInfo: engine.Info{
			Name:    markdown.Name,
			Options: eng.Options(),
		},
		Mapper:            strategy,
		Backend:           sidecar.NewInteractive(filepath.Join(*output, name), prompter, log),
		Log:               log,
		Attachments:       attachments,
		AttachmentColumns: attachColumns,
		Prompter:          prompter,
		IncludeCCBCC:      *ccBCC,
	})

	if err := generator.Run(context.Background()); err != nil {
		return err
	}
	log.Info("generate finished: review previews, then run send or upload-drafts",
		slog.String("dir", filepath.Join(*output, name)))
	return nil
}

// mappingStrategy picks fixed mapping when -map pairs were given,
// interactive otherwise.
func mappingStrategy(pairs []string, prompter prompt.Prompter, log *slog.Logger) (mapper.Strategy, error) {
	if len(pairs) == 0 {
		return mapper.Interactive{Prompter: prompter, Log: log}, nil
	}

	mapping := make(mapper.Mapping, len(pairs))
	for _, pair := range pairs {
		header, field, ok := strings.Cut(pair, "=")
		if !ok || header == "" || field == "" {
			return nil, fmt.Errorf("invalid -map value %q, want header=field", pair)
		}
		mapping[header] = field
	}
	return mapper.Static{Mapping: mapping, Log: log}, nil
}
