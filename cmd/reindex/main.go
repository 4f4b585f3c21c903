package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	indexer "github.com/goliatone/go-cms-indexer"
	intdocuments "github.com/goliatone/go-cms-indexer/internal/documents"
	intjournal "github.com/goliatone/go-cms-indexer/internal/journal"
	"github.com/goliatone/go-cms-indexer/internal/logging/gologger"
	intpages "github.com/goliatone/go-cms-indexer/internal/pages"
	blevesink "github.com/goliatone/go-cms-indexer/internal/sink/bleve"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("reindex: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("reindex", flag.ExitOnError)
	dbPath := fs.String("db", "cms.db", "Path to the sqlite database")
	indexPath := fs.String("index", "cms.bleve", "Path to the search index")
	rootPageID := fs.Int("root-page", 0, "Override the indexable tree root page id before running")
	language := fs.String("language", "", "Journal language tag (selects the active projection)")
	pending := fs.Bool("pending", false, "Drain the pending-action journal instead of a full pass")
	pagesEnabled := fs.Bool("pages", true, "Run the page indexer")
	documentsEnabled := fs.Bool("documents", true, "Run the document indexer")
	notIndexed := fs.String("not-indexed", "", "Pattern of attribute codes excluded from indexing")
	titlePattern := fs.String("title-pattern", "", "Pattern of attribute codes promoted to record titles")
	logLevel := fs.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	logFormat := fs.String("log-format", "console", "Log format (console, json, pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:  *logLevel,
		Format: *logFormat,
	})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	sqldb, err := sql.Open("sqlite3", "file:"+*dbPath+"?_fk=1")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer sqldb.Close()

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx := context.Background()
	for _, migrate := range []func(context.Context, *bun.DB) error{
		intpages.Migrate,
		intdocuments.Migrate,
		intjournal.Migrate,
	} {
		if err := migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	if *rootPageID > 0 {
		if err := intpages.SetRootPageID(ctx, db, *rootPageID); err != nil {
			return err
		}
	}

	sink, err := blevesink.Open(*indexPath, provider.GetLogger("indexer.storage"))
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer sink.Close()

	cfg := indexer.DefaultConfig()
	cfg.PageIndexerEnabled = *pagesEnabled
	cfg.DocumentIndexerEnabled = *documentsEnabled
	cfg.NotIndexedPattern = *notIndexed
	cfg.TitlePattern = *titlePattern
	cfg.JournalLanguage = *language
	cfg.Logging.Level = *logLevel
	cfg.Logging.Format = *logFormat

	mod, err := indexer.New(cfg, indexer.Dependencies{
		Pages:     intpages.NewBunRepository(db, provider.GetLogger("indexer.pages")),
		Documents: intdocuments.NewBunRepository(db, provider.GetLogger("indexer.storage")),
		Journal: intjournal.NewBunRepository(db,
			intjournal.WithLanguage(*language),
			intjournal.WithLogger(provider.GetLogger("indexer.journal")),
		),
		Sink:   sink,
		Logger: provider,
	})
	if err != nil {
		return err
	}

	if *pending {
		if err := mod.ProcessPending(ctx); err != nil {
			return err
		}
	} else if err := mod.RunAll(ctx); err != nil {
		return err
	}

	for _, report := range sink.Reports() {
		fmt.Fprintf(os.Stderr, "%s: %s: %v\n", report.IndexerName, report.Message, report.Err)
	}

	count, err := sink.Count()
	if err != nil {
		return err
	}
	fmt.Printf("index now holds %d records\n", count)
	return nil
}
