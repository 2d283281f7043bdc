package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/logflow/gridflow/pkg/config"
	"github.com/logflow/gridflow/pkg/formats"
	"github.com/logflow/gridflow/pkg/grid"
	"github.com/logflow/gridflow/pkg/importer"
	"github.com/logflow/gridflow/pkg/importing"
	"github.com/logflow/gridflow/pkg/registry"
	"github.com/logflow/gridflow/pkg/storage/s3"
	"github.com/logflow/gridflow/pkg/telemetry"
	"github.com/logflow/gridflow/pkg/watch"
)

// Styles
var (
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00CC66")).Bold(true)
)

// Active progress bar, fed by the parser's reporter callback.
var (
	barMu sync.Mutex
	bar   *progressbar.ProgressBar
)

func reportProgress(fraction float64, source string) {
	barMu.Lock()
	defer barMu.Unlock()
	if bar == nil {
		return
	}
	bar.Describe(mutedStyle.Render("reading " + filepath.Base(source)))
	_ = bar.Set(int(fraction * 100))
}

// registerFormats wires the built-in importers into reg.
func registerFormats(reg *registry.Registry, opts []importer.ParserOption) error {
	if err := reg.Register("csv", importer.ModeDecodedText, formats.NewCSVImporter(), opts, ".csv", ".tsv"); err != nil {
		return err
	}
	if err := reg.Register("lines", importer.ModeDecodedText, formats.NewLineImporter(), opts, ".txt", ".log"); err != nil {
		return err
	}
	if err := reg.Register("jsonl", importer.ModeByteStream, formats.NewJSONLinesImporter(), opts, ".jsonl", ".ndjson"); err != nil {
		return err
	}
	if err := reg.Register("excel", importer.ModeByteStream, formats.NewExcelImporter(), opts, ".xlsx"); err != nil {
		return err
	}
	return nil
}

// setup loads configuration and, when enabled, the tracer.
func setup(ctx context.Context) (*config.Config, trace.Tracer, func(context.Context) error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	if !cfg.Telemetry.Enabled {
		return cfg, nil, nil, nil
	}

	tcfg := telemetry.DefaultConfig("gridflow")
	if cfg.Telemetry.Endpoint != "" {
		tcfg.Endpoint = cfg.Telemetry.Endpoint
	}
	tracer, shutdown, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		// Telemetry is optional; imports proceed without it.
		log.Printf("telemetry disabled: %v", err)
		return cfg, nil, nil, nil
	}
	return cfg, tracer, shutdown, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, tracer, shutdown, err := setup(ctx)
	if err != nil {
		return err
	}
	if shutdown != nil {
		defer shutdown(context.Background())
	}

	parserOpts := []importer.ParserOption{}
	if !noProgress {
		parserOpts = append(parserOpts, importer.WithReporter(reportProgress))
	}
	if tracer != nil {
		parserOpts = append(parserOpts, importer.WithTracer(tracer))
	}

	reg := registry.NewRegistry()
	if err := registerFormats(reg, parserOpts); err != nil {
		return err
	}

	records, remote := buildRecords(args)
	if remote {
		client, err := s3.NewClient(ctx, s3.Config{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return err
		}
		if err := reg.Register("remote-csv", importer.ModeRemoteURI, formats.NewRemoteCSVImporter(client), parserOpts); err != nil {
			return err
		}
	}

	parser, err := lookupParser(reg, args, remote)
	if err != nil {
		return err
	}

	opts := importing.Options{}
	if encoding != "" {
		opts[importer.EncodingKey] = encoding
	} else if cfg.Import.Encoding != "" {
		opts[importer.EncodingKey] = cfg.Import.Encoding
	}
	if separator != "" {
		opts[formats.SeparatorKey] = separator
	}

	dir := rawDataDir
	if dir == "" {
		dir = cfg.Import.RawDataDir
	}

	limit := limitFlag
	if !cmd.Flags().Changed("limit") && cfg.Import.MaxRows != 0 {
		limit = cfg.Import.MaxRows
	}

	job := importing.NewJob(dir)
	meta := importing.NewProjectMetadata(filepath.Base(args[0]))

	// First interrupt cancels the batch cooperatively; the current
	// file still finishes and prior files are kept.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			fmt.Fprintln(os.Stderr, mutedStyle.Render("cancelling after current file..."))
			job.Cancel()
		}
	}()

	if !noProgress {
		barMu.Lock()
		bar = progressbar.NewOptions(100,
			progressbar.OptionSetDescription(mutedStyle.Render("importing")),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
		barMu.Unlock()
	}

	start := time.Now()
	g, err := parser.Parse(ctx, meta, job, records, limit, opts)

	barMu.Lock()
	if bar != nil {
		_ = bar.Finish()
		bar = nil
	}
	barMu.Unlock()

	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := g.WriteArrowIPC(outputFile); err != nil {
			return err
		}
	}

	printSummary(g, len(records), time.Since(start), job.Canceled())
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, tracer, shutdown, err := setup(ctx)
	if err != nil {
		return err
	}
	if shutdown != nil {
		defer shutdown(context.Background())
	}

	parserOpts := []importer.ParserOption{}
	if tracer != nil {
		parserOpts = append(parserOpts, importer.WithTracer(tracer))
	}

	reg := registry.NewRegistry()
	if err := registerFormats(reg, parserOpts); err != nil {
		return err
	}

	maxJobs := watchMaxJobs
	if maxJobs == 0 {
		maxJobs = cfg.Watch.MaxJobs
	}

	service, err := watch.NewService(args[0], maxJobs)
	if err != nil {
		return err
	}

	service.OnFile = func(ctx context.Context, path string) error {
		parser, err := reg.GetByPath(path)
		if err != nil {
			return err
		}

		job := importing.NewJob(filepath.Dir(path))
		meta := importing.NewProjectMetadata(filepath.Base(path))
		records := []importing.FileRecord{
			&importing.LocalFileRecord{FileName: filepath.Base(path)},
		}

		g, err := parser.Parse(ctx, meta, job, records, cfg.Import.MaxRows, importing.Options{})
		if err != nil {
			return err
		}

		out := strings.TrimSuffix(path, filepath.Ext(path)) + ".arrow"
		if err := g.WriteArrowIPC(out); err != nil {
			return err
		}
		log.Printf("imported %s: %d rows, %d columns -> %s",
			filepath.Base(path), g.RowCount(), g.ColumnCount(), out)
		return nil
	}
	service.OnError = func(path string, err error) {
		log.Printf("watch error (%s): %v", path, err)
	}

	log.Printf("watching %s (max %d concurrent jobs)", service.Dir(), maxJobs)
	err = service.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

// buildRecords maps CLI arguments to file records. A batch is remote
// when its first argument is an s3 URI; modes are never mixed within
// one batch.
func buildRecords(args []string) ([]importing.FileRecord, bool) {
	remote := strings.HasPrefix(args[0], "s3://")
	records := make([]importing.FileRecord, 0, len(args))
	for _, arg := range args {
		if remote {
			records = append(records, &importing.RemoteFileRecord{URI: arg})
		} else {
			records = append(records, &importing.LocalFileRecord{FileName: arg})
		}
	}
	return records, remote
}

func lookupParser(reg *registry.Registry, args []string, remote bool) (*importer.Parser, error) {
	if remote {
		return reg.Get("remote-csv")
	}
	if formatFlag != "" {
		return reg.Get(formatFlag)
	}
	return reg.GetByPath(args[0])
}

func printSummary(g *grid.Grid, files int, elapsed time.Duration, canceled bool) {
	mark := successStyle.Render("✓")
	if canceled {
		mark = accentStyle.Render("◼ partial")
	}
	fmt.Printf("%s %d rows × %d columns from %d file(s) in %s\n",
		mark, g.RowCount(), g.ColumnCount(), files, elapsed.Round(time.Millisecond))
	if outputFile != "" {
		fmt.Println(mutedStyle.Render("  wrote " + outputFile))
	}
}
