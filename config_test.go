package indexer

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}

func TestConfigValidateRejectsMissingBaseURLs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageBaseURL = ""
	cfg.DocumentBaseURL = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestConfigValidateRejectsBadPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NotIndexedPattern = "("

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unparseable pattern")
	}

	cfg = DefaultConfig()
	cfg.TitlePattern = "[z-a]"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unparseable title pattern")
	}
}

func TestConfigSearchConfigCompilesPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NotIndexedPattern = "^internal_.*$"
	cfg.TitlePattern = "^.*_title$"
	cfg.URLSuffix = "&mode=view"

	searchCfg, err := cfg.searchConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searchCfg.NotIndexed == nil || !searchCfg.NotIndexed.MatchString("internal_notes") {
		t.Fatal("not-indexed pattern should compile and match")
	}
	if searchCfg.TitlePattern == nil || !searchCfg.TitlePattern.MatchString("long_title") {
		t.Fatal("title pattern should compile and match")
	}
	if searchCfg.URLSuffix != "&mode=view" {
		t.Fatalf("unexpected suffix: %q", searchCfg.URLSuffix)
	}

	cfg = DefaultConfig()
	searchCfg, err = cfg.searchConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searchCfg.NotIndexed != nil || searchCfg.TitlePattern != nil {
		t.Fatal("empty patterns must stay nil to disable the filters")
	}
}
