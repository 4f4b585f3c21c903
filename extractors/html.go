package extractors

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTML extracts the visible text of an HTML payload: markup is stripped,
// entities are decoded, and whitespace is collapsed to single spaces.
type HTML struct{}

// Extract satisfies documents.Extractor.
func (HTML) Extract(r io.Reader) (string, error) {
	return Text(r)
}

// Text strips markup from an HTML stream and returns its visible text with
// entities decoded. Script and style bodies are dropped.
func Text(r io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(r)

	var sb strings.Builder
	hidden := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return "", fmt.Errorf("parse html: %w", err)
			}
			return strings.Join(strings.Fields(sb.String()), " "), nil
		case html.StartTagToken:
			if name, _ := tokenizer.TagName(); isHiddenTag(name) {
				hidden++
			}
		case html.EndTagToken:
			if name, _ := tokenizer.TagName(); isHiddenTag(name) && hidden > 0 {
				hidden--
			}
		case html.TextToken:
			if hidden == 0 {
				sb.Write(tokenizer.Text())
				sb.WriteByte(' ')
			}
		}
	}
}

func isHiddenTag(name []byte) bool {
	return string(name) == "script" || string(name) == "style"
}
