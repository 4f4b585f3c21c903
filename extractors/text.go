package extractors

import "io"

// PlainText passes a text payload through unchanged.
type PlainText struct{}

// Extract satisfies documents.Extractor.
func (PlainText) Extract(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
