package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/AmanChauhan7010/bookfinder"
	"github.com/AmanChauhan7010/bookfinder/config"
	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/indexing"
	"github.com/AmanChauhan7010/bookfinder/storage"
)

type commands struct {
	libOpts []bookfinder.Option
}

// loadConfig reads the config file and applies the global override flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("books") {
		cfg.Storage.BooksPath = c.String("books")
	}
	if c.IsSet("embeddings") {
		cfg.Storage.EmbeddingsDir = c.String("embeddings")
	}
	if c.IsSet("embedding-host") {
		cfg.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}
	return cfg, nil
}

func (cmds *commands) openLibrary(c *cli.Context) (*bookfinder.Library, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	lib, err := bookfinder.Open(cfg, cmds.libOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, nil
}

func (cmds *commands) initCommand(c *cli.Context) error {
	path := c.String("config")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote default configuration to %s\n", path)
	return nil
}

func (cmds *commands) importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("import requires exactly one catalog file")
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	books, err := readCatalog(f)
	if err != nil {
		return err
	}

	lib, err := cmds.openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	stored, err := lib.Books().AddBooks(c.Context, books...)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Imported %d books\n", len(stored))
	return nil
}

func (cmds *commands) indexCommand(c *cli.Context) error {
	lib, err := cmds.openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	indexConfig := lib.IndexingConfig()
	if c.IsSet("batch-size") {
		indexConfig.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("workers") {
		indexConfig.Workers = c.Int("workers")
	}
	if c.IsSet("max-retries") {
		indexConfig.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		indexConfig.RetryDelay = c.Duration("retry-delay")
	}
	indexConfig.ReportInterval = c.Int("report-interval")
	indexConfig.Incremental = c.Bool("incremental")
	indexConfig.Prune = c.Bool("prune")

	// Validate config
	if indexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if indexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if indexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	cfg := lib.Config()
	fmt.Fprintf(c.App.ErrWriter, "Book store: %s\n", cfg.Storage.BooksPath)
	fmt.Fprintf(c.App.ErrWriter, "Embedding store: %s\n", cfg.Storage.EmbeddingsDir)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", cfg.Embedding.Model)
	fmt.Fprintln(c.App.ErrWriter)

	indexer, err := lib.NewIndexer(c.Context,
		indexing.WithConfig(indexConfig),
		indexing.WithProgress(c.App.ErrWriter),
	)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer indexer.Release()

	if _, err := indexer.Run(c.Context); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	return nil
}

func (cmds *commands) searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search requires a query")
	}

	lib, err := cmds.openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	limit := lib.Config().Search.Limit
	if c.IsSet("limit") {
		limit = c.Int("limit")
	}

	searcher, err := lib.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.Search(c.Context, query, limit)
	if errors.Is(err, core.ErrSearchUnavailable) {
		return fmt.Errorf("search is unavailable right now, try again later: %w", err)
	}
	if err != nil {
		return err
	}

	printResults(c.App.Writer, results)
	return nil
}

func (cmds *commands) recentCommand(c *cli.Context) error {
	lib, err := cmds.openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	books, err := lib.Books().GetRecentBooks(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	printBooks(c.App.Writer, books)
	return nil
}

func (cmds *commands) showCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("show requires exactly one book id")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid book id %q", c.Args().First())
	}

	lib, err := cmds.openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	book, err := lib.Books().GetBook(c.Context, core.BookID(id))
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("book %d not found", id)
	}
	if err != nil {
		return err
	}
	printBookDetail(c.App.Writer, book)
	return nil
}

func (cmds *commands) statusCommand(c *cli.Context) error {
	lib, err := cmds.openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	searcher, err := lib.NewSearcher()
	if err != nil {
		return err
	}

	ctx := c.Context
	reloadErr := searcher.Reload(ctx)

	books, err := lib.Books().CountBooks(ctx)
	if err != nil {
		return err
	}
	printStatus(c.App.Writer, books, searcher.Status())
	return reloadErr
}
