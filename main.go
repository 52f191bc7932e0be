package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/api"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/config"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/extractor"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/logger"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/parser"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/pipeline"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/source"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/statement"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/writer"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatalf("Configuration error: %v\n", err)
	}

	// CLI flags override the environment
	globFlag := flag.String("glob", cfg.StatementsGlob, "File pattern of the statements inside the folder")
	outputFlag := flag.String("output", cfg.ReportPath, "Report file path (defaults to <folder>/movimientos_bancarios.<format>)")
	formatFlag := flag.String("format", cfg.ReportFormat, "Report format: xlsx or csv")
	layoutFlag := flag.String("layout", cfg.Layout, "Statement layout: "+strings.Join(parser.Layouts(), ", "))
	workersFlag := flag.Int("workers", cfg.Workers, "Documents processed in parallel")
	serveFlag := flag.Bool("serve", false, "Start the HTTP API instead of processing a folder")
	portFlag := flag.String("port", cfg.Port, "HTTP port for -serve")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank statement movements extractor

Reads "ESTADO DE CUENTA NEGOCIOS" statements (PDF or text dumps), finds every
movement, categorizes it and writes one sheet per currency (SOLES, DOLARES).

Usage:
  movimientos [flags] [folder]
  movimientos -serve [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Process every PDF in a folder into an Excel workbook
  movimientos ./Estados_liberados

  # Text dumps, CSV output, four documents at a time
  movimientos -glob '*.txt' -format csv -workers 4 ./dumps

  # HTTP API
  movimientos -serve -port 8080

Environment (or .env): STATEMENTS_DIR, STATEMENTS_GLOB, REPORT_PATH,
REPORT_FORMAT, LAYOUT, WORKERS, LOG_LEVEL, PORT, REPORT_TTL.
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("movimientos v%s\n", version)
		os.Exit(0)
	}

	log := logger.New(cfg.LogLevel)
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}

	layout, err := parser.NewLayout(*layoutFlag)
	if err != nil {
		fatalf("%v\n", err)
	}
	proc := statement.NewProcessor(layout)

	if *serveFlag {
		h := api.NewHandler(proc, extractor.Default(), cfg.ReportTTL, log)
		h.Workers = *workersFlag
		app := api.NewApp(h)
		log.Info().Str("port", *portFlag).Msg("starting HTTP API")
		if err := app.Listen(":" + *portFlag); err != nil {
			fatalf("Server error: %v\n", err)
		}
		return
	}

	dir := cfg.StatementsDir
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}

	sink, err := writer.New(strings.ToLower(*formatFlag))
	if err != nil {
		fatalf("%v\n", err)
	}
	outPath := *outputFlag
	if outPath == "" {
		outPath = filepath.Join(dir, "movimientos_bancarios."+strings.ToLower(*formatFlag))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	src := source.Dir{Path: dir, Pattern: *globFlag}
	if err := run(ctx, src, outPath, *workersFlag, proc, sink); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, src source.Source, outPath string, workers int, proc *statement.Processor, sink writer.Sink) error {
	docs, err := src.List()
	if err != nil {
		return err
	}
	fmt.Printf("Processing %d document(s)\n", len(docs))

	res, err := pipeline.Run(ctx, docs, extractor.Default(), proc, pipeline.Options{Workers: workers})
	if err != nil {
		return fmt.Errorf("batch aborted: %w", err)
	}

	for _, c := range res.Snapshot.Currencies() {
		if n := len(res.Snapshot[c]); n > 0 {
			fmt.Printf("  Sheet %s: %d movement(s)\n", c, n)
		} else {
			fmt.Printf("  No movements found in %s\n", c)
		}
	}

	if err := writer.WriteToFile(sink, outPath, res.Snapshot); err != nil {
		if errors.Is(err, writer.ErrEmptyReport) {
			fmt.Println("  Nothing to write.")
			return nil
		}
		return err
	}

	fmt.Printf("  Output: %s\n", outPath)
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
