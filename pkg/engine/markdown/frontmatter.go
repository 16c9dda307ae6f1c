package markdown

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// source is a parsed template file: YAML frontmatter metadata plus the
// markdown body that follows it.
type source struct {
	Metadata map[string]any
	Body     string
}

var delimiter = []byte("---")

// parseSource splits template file content into frontmatter metadata and
// markdown body. Content without a leading "---" line is all body.
func parseSource(content []byte) (*source, error) {
	if !bytes.HasPrefix(content, delimiter) {
		return &source{Metadata: make(map[string]any), Body: string(content)}, nil
	}

	rest := bytes.TrimPrefix(content, delimiter)
	rest = bytes.TrimLeft(rest, "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("no content after opening frontmatter delimiter")
	}

	end := bytes.Index(rest, delimiter)
	if end == -1 {
		return nil, fmt.Errorf("closing frontmatter delimiter not found")
	}

	head := rest[:end]
	body := rest[end+len(delimiter):]
	// Drop the single newline following the closing delimiter.
	if bytes.HasPrefix(body, []byte("\r\n")) {
		body = body[2:]
	} else if bytes.HasPrefix(body, []byte("\n")) {
		body = body[1:]
	}

	metadata := make(map[string]any)
	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &metadata); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}

	return &source{Metadata: metadata, Body: string(body)}, nil
}
