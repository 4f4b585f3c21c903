package documents

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/goliatone/go-cms-indexer/pkg/interfaces"
)

// ContentToIndex walks the document's attributes in declared order and
// concatenates every piece of searchable text into a single blob: the title
// first, then each indexable attribute, then the raw metadata blob.
//
// Attributes are skipped when not searchable or when their code matches the
// configured not-indexed pattern. Binary attributes go through the registered
// extractor for their declared content type; an unregistered type is skipped
// silently and a failing extractor contributes nothing beyond a log entry, so
// one bad attachment never aborts the document.
func ContentToIndex(doc *Document, registry ExtractorRegistry, notIndexed *regexp.Regexp, logger interfaces.Logger) string {
	var sb strings.Builder
	sb.WriteString(doc.Title)

	for _, attribute := range doc.Attributes {
		if !attribute.Searchable {
			continue
		}
		if notIndexed != nil && notIndexed.MatchString(attribute.Code) {
			continue
		}

		if !attribute.Binary {
			sb.WriteString(" ")
			sb.WriteString(attribute.TextValue)
			continue
		}

		if registry == nil {
			continue
		}
		extractor, ok := registry.Lookup(attribute.ContentType)
		if !ok {
			continue
		}

		text, err := extractor.Extract(bytes.NewReader(attribute.BinaryValue))
		if err != nil {
			if logger != nil {
				logger.Error("binary attribute extraction failed",
					"document_id", doc.ID,
					"attribute_code", attribute.Code,
					"content_type", attribute.ContentType,
					"error", err,
				)
			}
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(text)
	}

	sb.WriteString(" ")
	sb.WriteString(doc.XMLMetadata)

	return sb.String()
}
