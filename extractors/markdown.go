package extractors

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
)

// Markdown extracts searchable text from a Markdown payload by rendering it
// with goldmark and stripping the resulting markup.
type Markdown struct{}

// Extract satisfies documents.Extractor.
func (Markdown) Extract(r io.Reader) (string, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	var rendered bytes.Buffer
	if err := goldmark.New().Convert(source, &rendered); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return Text(&rendered)
}
