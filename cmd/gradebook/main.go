package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gradebook/internal/codec"
	"gradebook/internal/config"
	"gradebook/internal/loader"
	"gradebook/internal/repository"
	"gradebook/internal/repository/sqlite"
	"gradebook/internal/repository/textfile"
	"gradebook/internal/service"
)

// options holds command line flags; empty values leave the config alone
type options struct {
	configPath  string
	dataDir     string
	backend     string
	dbPath      string
	logLevel    string
	logFormat   string
	reportID    string
	format      string
	importPath  string
	exportPath  string
	writeConfig string
}

// oneShot reports whether the flags ask for a single action instead of the menu
func (o options) oneShot() bool {
	return o.reportID != "" || o.importPath != "" || o.exportPath != "" || o.writeConfig != ""
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "config file path (default: search)")
	flag.StringVar(&opts.dataDir, "data", "", "data directory for the text backend")
	flag.StringVar(&opts.backend, "backend", "", "storage backend: text or sqlite")
	flag.StringVar(&opts.dbPath, "db", "", "SQLite database path for the sqlite backend")
	flag.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flag.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	flag.StringVar(&opts.reportID, "report", "", "print the report of this student and exit")
	flag.StringVar(&opts.format, "format", "text", "report format: text, json or yaml")
	flag.StringVar(&opts.importPath, "import", "", "add the students, subjects and enrollments of a YAML roster")
	flag.StringVar(&opts.exportPath, "export", "", "write the gradebook as a YAML roster to this path")
	flag.StringVar(&opts.writeConfig, "write-config", "", "write the effective config to this path and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "gradebook: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, in io.Reader, out io.Writer) error {
	cfg, cfgPath, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := setupLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	if cfgPath != "" {
		logger.Debug("config loaded", "path", cfgPath)
	}
	logger.Debug("starting gradebook", "config", cfg.Summary())

	if opts.writeConfig != "" {
		if err := cfg.Save(opts.writeConfig); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(out, "Config written to %s.\n", opts.writeConfig)
		return nil
	}

	backend, err := openBackend(cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	mgr := service.NewManager(backend, logger)
	if _, err := mgr.Load(ctx); err != nil {
		return err
	}
	if db, ok := backend.(*sqlite.Repository); ok {
		logSaveTimes(ctx, db, logger)
	}

	if !opts.oneShot() {
		return newMenu(mgr, in, out).run(ctx)
	}

	if opts.importPath != "" {
		if err := importRoster(ctx, mgr, opts.importPath, out, logger); err != nil {
			return err
		}
	}
	if opts.exportPath != "" {
		if err := exportRoster(mgr, opts.exportPath); err != nil {
			return err
		}
		logger.Info("roster exported", "path", opts.exportPath)
	}
	if opts.reportID != "" {
		return printReport(mgr, opts.reportID, opts.format, out)
	}
	return nil
}

// loadConfig resolves config from file, .env and environment, then applies
// the command line flags on top
func loadConfig(opts options) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if opts.configPath == "" {
		cfg, path, err = config.Load()
		if err != nil {
			return nil, path, err
		}
	} else {
		if err := config.LoadDotEnv(); err != nil {
			return nil, "", fmt.Errorf("load %s: %w", config.DotEnvFile, err)
		}
		cfg, path, err = config.LoadFromPath(opts.configPath)
		if err != nil {
			return nil, path, err
		}
		cfg.ApplyEnv(os.Getenv)
	}

	if opts.dataDir != "" {
		cfg.Storage.DataDir = opts.dataDir
	}
	if opts.backend != "" {
		cfg.Storage.Backend = config.Backend(strings.ToLower(opts.backend))
	}
	if opts.dbPath != "" {
		cfg.Storage.DBPath = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, path, nil
}

// setupLogger builds the process logger from config
func setupLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

// openBackend opens the configured storage backend
func openBackend(cfg config.StorageConfig, logger *slog.Logger) (repository.Backend, error) {
	switch cfg.Backend {
	case config.BackendText:
		logger.Debug("using text backend", "dir", cfg.DataDir)
		return textfile.New(cfg.DataDir, logger), nil
	case config.BackendSQLite:
		repo, err := sqlite.New(cfg.DatabasePath(), logger)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		logger.Debug("using sqlite backend", "path", cfg.DatabasePath())
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// logSaveTimes reports when each sqlite collection was last written
func logSaveTimes(ctx context.Context, db *sqlite.Repository, logger *slog.Logger) {
	for _, table := range []string{"students", "subjects", "records"} {
		saved, err := db.LastSaved(ctx, table)
		if err != nil {
			logger.Warn("read save time", "table", table, "error", err)
			continue
		}
		if saved.IsZero() {
			logger.Debug("collection never saved", "table", table)
			continue
		}
		logger.Debug("collection last saved", "table", table, "at", saved)
	}
}

// importRoster loads a roster file into the gradebook and prints a summary
func importRoster(ctx context.Context, mgr *service.Manager, path string, out io.Writer, logger *slog.Logger) error {
	roster, err := loader.LoadRoster(path)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	logger.Debug("roster loaded", "path", path, "entries", roster.Len())
	result, err := mgr.Import(ctx, roster)
	if err != nil {
		return err
	}
	for _, skipped := range result.Skipped {
		logger.Warn("roster entry skipped", "path", path, "error", skipped)
	}
	fmt.Fprintf(out, "Imported %d student(s), %d subject(s), %d enrollment(s), %d grade(s); skipped %d.\n",
		result.StudentsAdded, result.SubjectsAdded, result.Enrolled, result.Graded, len(result.Skipped))
	return nil
}

// exportRoster writes the gradebook as a YAML roster
func exportRoster(mgr *service.Manager, path string) error {
	data, err := mgr.ExportRoster()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

// printReport writes one student report in the requested format
func printReport(mgr *service.Manager, studentID, format string, out io.Writer) error {
	exporter, err := codec.ExporterFor(strings.ToLower(format))
	if err != nil {
		return err
	}
	report, err := mgr.StudentReport(studentID)
	if err != nil {
		return err
	}
	if err := exporter.Export(report, out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
