package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"msgstats/internal/aggregate"
	"msgstats/internal/config"
	"msgstats/internal/iox"
	"msgstats/internal/message"
	"msgstats/internal/report"
	"msgstats/internal/stats"
)

var version = "v1.0"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("msgstats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: msgstats [flags] <input_file>\n")
		fs.PrintDefaults()
	}

	envFile := fs.String("env", ".env", "Optional env file with MSGSTATS_* settings")
	format := fs.String("format", "", "Output format: text | json | yaml | csv (default from MSGSTATS_FORMAT or text)")
	sortBy := fs.String("sort", "", "Order of types: name | count | bytes (default from MSGSTATS_SORT or name)")
	outPath := fs.String("out", "", "Write the report to this file instead of stdout (.gz compresses)")
	stream := fs.Bool("stream", false, "Stream the input line by line instead of reading it whole (a parse error may then be reported before a later read error)")
	verbose := fs.Bool("v", false, "Log summary and timing to stderr")
	showPlan := fs.Bool("plan", false, "Show plan and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	inPath := fs.Arg(0)

	logger := log.New(stderr, "", log.LstdFlags)

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.Printf("[ERROR] %v", err)
		return exitUsage
	}

	// flagovi imaju prednost nad okruženjem
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			if cfg.Format, err = report.ParseFormat(*format); err != nil {
				flagErr = err
			}
		case "sort":
			if cfg.SortBy, err = stats.ParseSortKey(*sortBy); err != nil {
				flagErr = err
			}
		case "out":
			cfg.OutPath = *outPath
		case "stream":
			cfg.Stream = *stream
		case "v":
			cfg.Verbose = *verbose
		}
	})
	if flagErr != nil {
		logger.Printf("[ERROR] %v", flagErr)
		return exitUsage
	}

	if *showPlan {
		out := cfg.OutPath
		if out == "" {
			out = "<stdout>"
		}
		fmt.Fprintf(stdout, "==== msgstats %s Execution Plan ====\n", version)
		fmt.Fprintf(stdout, "Input              : %s\n", inPath)
		fmt.Fprintf(stdout, "Output             : %s\n", out)
		fmt.Fprintf(stdout, "Format             : %s\n", cfg.Format)
		fmt.Fprintf(stdout, "Sort               : %s\n", cfg.SortBy)
		fmt.Fprintf(stdout, "Stream             : %v\n", cfg.Stream)
		return exitOK
	}

	start := time.Now()
	groups, err := aggregateFile(inPath, cfg.Stream)
	if err != nil {
		var invalid *message.InvalidMessageError
		switch {
		case errors.As(err, &invalid):
			logger.Printf("[ERROR] Oops! An error occurred: %v", err)
		case errors.Is(err, stats.ErrCounterOverflow):
			logger.Printf("[ERROR] aggregation failed: %v", err)
		default:
			logger.Printf("[ERROR] could not read the specified input file: %v", err)
		}
		return exitFailure
	}

	if err := writeReport(stdout, cfg, groups); err != nil {
		logger.Printf("[ERROR] write report: %v", err)
		return exitFailure
	}

	if cfg.Verbose {
		logSummary(logger, groups)
		logger.Printf("⏱️ completed in %v", time.Since(start))
	}
	return exitOK
}

func logSummary(logger *log.Logger, groups stats.Groups) {
	total, err := groups.Total()
	if err != nil {
		logger.Printf("[WARN] summary unavailable: %v", err)
		return
	}
	logger.Printf("[INFO] types=%d messages=%d bytes=%d", len(groups), total.Occurrences, total.TotalByteSize)
}

func aggregateFile(path string, stream bool) (stats.Groups, error) {
	if !stream {
		text, err := iox.ReadText(path)
		if err != nil {
			return nil, err
		}
		return aggregate.Aggregate(text)
	}

	in, err := iox.OpenAuto(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return aggregate.AggregateReader(in)
}

func writeReport(stdout io.Writer, cfg *config.Config, groups stats.Groups) (err error) {
	opt := report.Options{Format: cfg.Format, SortBy: cfg.SortBy}
	if cfg.OutPath == "" {
		return report.Write(stdout, groups, opt)
	}

	out, err := iox.CreateAuto(cfg.OutPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return report.Write(out, groups, opt)
}
