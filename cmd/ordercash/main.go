package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"ordercash/internal"
	"ordercash/internal/config"
	"ordercash/internal/export"
	"ordercash/internal/logger"
	"ordercash/internal/pipeline"
	"ordercash/internal/reconcile"
	"ordercash/internal/statement"
	"ordercash/internal/util"
	"ordercash/internal/warehouse"
)

func main() {
	cfg, err := config.Load()
	must(err)
	log := logger.New(cfg.LogLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "warehouse:combine":
		must(cfg.Require("WAREHOUSE_DIR", cfg.WarehouseDir))
		must(cfg.Require("OUTPUT_DIR", cfg.OutputDir))
		path, err := warehouse.Combine(cfg, log)
		must(err)
		fmt.Printf("warehouse combine done output=%s\n", path)
	case "statements:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		start := fs.String("start", "", "period start (YYYY-MM-DD)")
		end := fs.String("end", "", "period end (YYYY-MM-DD)")
		_ = fs.Parse(os.Args[2:])
		period, err := parseWindow(*start, *end)
		must(err)
		must(cfg.Require("STATEMENT_DIR", cfg.StatementDir))
		must(cfg.Require("OUTPUT_DIR", cfg.OutputDir))
		processor, err := statement.NewProcessor(cfg, log)
		must(err)
		path, err := processor.Process(period)
		must(err)
		fmt.Printf("statement processing done output=%s\n", path)
	case "reconcile":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		accStart := fs.String("acc-start", "", "accounting period start (YYYY-MM-DD)")
		accEnd := fs.String("acc-end", "", "accounting period end (YYYY-MM-DD)")
		stmtStart := fs.String("stmt-start", "", "statement period start (YYYY-MM-DD)")
		stmtEnd := fs.String("stmt-end", "", "statement period end (YYYY-MM-DD)")
		_ = fs.Parse(os.Args[2:])
		b, err := parseBoundaries(*accStart, *accEnd, *stmtStart, *stmtEnd)
		must(err)
		must(cfg.Require("OUTPUT_DIR", cfg.OutputDir))
		path, err := reconcile.New(cfg, log).Run(b)
		must(err)
		summary, err := reconcile.Summarize(path)
		must(err)
		fmt.Printf("reconciliation done output=%s\n%s", path, summary.HumanSummary())
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		in := fs.String("in", "", "input csv path")
		out := fs.String("out", "", "output xlsx path, defaults next to the input")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*in) == "" {
			must(fmt.Errorf("--in is required"))
		}
		target := *out
		if strings.TrimSpace(target) == "" {
			target = export.DeriveOutputPath(*in)
		}
		must(export.ToXLSX(*in, target))
		fmt.Printf("exported %s\n", target)
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		accStart := fs.String("acc-start", "", "accounting period start (YYYY-MM-DD)")
		accEnd := fs.String("acc-end", "", "accounting period end (YYYY-MM-DD)")
		stmtStart := fs.String("stmt-start", "", "statement period start (YYYY-MM-DD)")
		stmtEnd := fs.String("stmt-end", "", "statement period end (YYYY-MM-DD)")
		_ = fs.Parse(os.Args[2:])
		b, err := parseBoundaries(*accStart, *accEnd, *stmtStart, *stmtEnd)
		must(err)
		must(cfg.Require("WAREHOUSE_DIR", cfg.WarehouseDir))
		must(cfg.Require("STATEMENT_DIR", cfg.StatementDir))
		must(cfg.Require("OUTPUT_DIR", cfg.OutputDir))
		svc, err := pipeline.NewService(cfg, log)
		must(err)
		res, err := svc.Run(b)
		must(err)
		fmt.Printf("run done id=%s output=%s\n%s", res.RunID, res.ReconcilePath, res.Summary.HumanSummary())
	default:
		usage()
		os.Exit(1)
	}
}

func parseWindow(start, end string) (util.Window, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return util.Window{}, fmt.Errorf("--start and --end are required")
	}
	s, err := util.ParseISODate(start)
	if err != nil {
		return util.Window{}, fmt.Errorf("bad --start: %w", err)
	}
	e, err := util.ParseISODate(end)
	if err != nil {
		return util.Window{}, fmt.Errorf("bad --end: %w", err)
	}
	if e.Before(s) {
		return util.Window{}, fmt.Errorf("period end %s precedes start %s", end, start)
	}
	return util.Window{Start: s, End: e}, nil
}

func parseBoundaries(accStart, accEnd, stmtStart, stmtEnd string) (reconcile.Boundaries, error) {
	acc, err := parseWindow(accStart, accEnd)
	if err != nil {
		return reconcile.Boundaries{}, fmt.Errorf("accounting period: %w", err)
	}
	stmt, err := parseWindow(stmtStart, stmtEnd)
	if err != nil {
		return reconcile.Boundaries{}, fmt.Errorf("statement period: %w", err)
	}
	return reconcile.Boundaries{AccPeriod: acc, StmtPeriod: stmt}, nil
}

func usage() {
	fmt.Println("usage: ordercash <command>")
	fmt.Println("commands:")
	fmt.Println("  warehouse:combine")
	fmt.Println("  statements:process --start=YYYY-MM-DD --end=YYYY-MM-DD")
	fmt.Println("  reconcile --acc-start=... --acc-end=... --stmt-start=... --stmt-end=...")
	fmt.Println("  export:xlsx --in=./out/results.csv [--out=./out/results.xlsx]")
	fmt.Println("  run --acc-start=... --acc-end=... --stmt-start=... --stmt-end=...")
}

func must(err error) {
	if err == nil {
		return
	}
	var notFound *internal.NotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprintf(os.Stderr, "not found: %v\n", err)
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
