package indexer

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-indexer/search"
)

// Config carries the runtime settings of the indexing module. Start from
// DefaultConfig and override what changes; New validates but does not fill in
// missing values.
type Config struct {
	// PageBaseURL and DocumentBaseURL are the front-office entry points the
	// stored record URLs point at.
	PageBaseURL     string `json:"page_base_url"`
	DocumentBaseURL string `json:"document_base_url"`
	// URLSuffix, when set, is appended to every stored URL.
	URLSuffix string `json:"url_suffix,omitempty"`

	PageIndexerEnabled     bool `json:"page_indexer_enabled"`
	DocumentIndexerEnabled bool `json:"document_indexer_enabled"`

	// NotIndexedPattern skips document attributes whose code it matches.
	// Empty disables the filter.
	NotIndexedPattern string `json:"not_indexed_pattern,omitempty"`
	// TitlePattern promotes the last matching attribute's text to the record
	// title. Empty keeps the document title.
	TitlePattern string `json:"title_pattern,omitempty"`

	// JournalLanguage selects the journal projection reads and deletes
	// operate on.
	JournalLanguage string `json:"journal_language,omitempty"`

	Logging LoggingConfig `json:"logging"`
}

// LoggingConfig mirrors the provider settings of the logging adapter.
type LoggingConfig struct {
	Level     string `json:"level"`
	Format    string `json:"format"`
	AddSource bool   `json:"add_source"`
}

// DefaultConfig returns the settings a stock deployment starts from.
func DefaultConfig() Config {
	return Config{
		PageBaseURL:            "jsp/site/Portal.jsp",
		DocumentBaseURL:        "jsp/site/Portal.jsp",
		PageIndexerEnabled:     true,
		DocumentIndexerEnabled: true,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

const configInvalid = "INDEXER_CONFIG_INVALID"

// Validate checks the configuration, including that both regular expression
// patterns compile.
func (c Config) Validate() error {
	errs := validation.Errors{}
	if c.PageBaseURL == "" {
		errs["page_base_url"] = validation.NewError("indexer.config.page_base_url_required", "page base url is required")
	}
	if c.DocumentBaseURL == "" {
		errs["document_base_url"] = validation.NewError("indexer.config.document_base_url_required", "document base url is required")
	}
	if _, err := compilePattern(c.NotIndexedPattern); err != nil {
		errs["not_indexed_pattern"] = validation.NewError("indexer.config.not_indexed_pattern_invalid", err.Error())
	}
	if _, err := compilePattern(c.TitlePattern); err != nil {
		errs["title_pattern"] = validation.NewError("indexer.config.title_pattern_invalid", err.Error())
	}
	if len(errs) > 0 {
		return goerrors.Wrap(errs, goerrors.CategoryValidation, "indexer configuration rejected").
			WithTextCode(configInvalid)
	}
	return nil
}

// searchConfig resolves the validated configuration into the form the drivers
// consume, with the patterns compiled.
func (c Config) searchConfig() (search.Config, error) {
	notIndexed, err := compilePattern(c.NotIndexedPattern)
	if err != nil {
		return search.Config{}, err
	}
	title, err := compilePattern(c.TitlePattern)
	if err != nil {
		return search.Config{}, err
	}
	return search.Config{
		PageBaseURL:            c.PageBaseURL,
		DocumentBaseURL:        c.DocumentBaseURL,
		URLSuffix:              c.URLSuffix,
		PageIndexerEnabled:     c.PageIndexerEnabled,
		DocumentIndexerEnabled: c.DocumentIndexerEnabled,
		NotIndexed:             notIndexed,
		TitlePattern:           title,
	}, nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}
