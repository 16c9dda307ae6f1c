package transport

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// LoadAttachments reads the given files into Attachments, inferring the
// content type from the file extension.
func LoadAttachments(paths []string) ([]Attachment, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	out := make([]Attachment, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading attachment %s: %w", path, err)
		}

		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		out = append(out, Attachment{
			Filename:    filepath.Base(path),
			ContentType: contentType,
			Content:     content,
		})
	}
	return out, nil
}
