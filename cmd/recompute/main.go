// Command recompute recalculates a costing workbook offline and prints the
// dashboard metrics.
//
//	recompute [-out path] [-reprice-skus] [-tax fixed|settings] workbook.xlsx
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"costbook/internal/costing"
	applog "costbook/internal/log"
	"costbook/internal/views/pages"
	"costbook/internal/workbook"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "recompute: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("recompute", flag.ContinueOnError)
	out := flags.String("out", "", "write the recomputed workbook here instead of in place")
	reprice := flags.Bool("reprice-skus", false, "re-derive every SKU unit cost from its pack columns")
	tax := flags.String("tax", "fixed", "tax factor: fixed (1.10) or settings (1 + gst_rate)")
	logLevel := flags.String("log-level", "warn", "log level")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("expected exactly one workbook path")
	}
	if err := applog.SetLevel(*logLevel); err != nil {
		return err
	}

	mode, err := costing.ParseTaxMode(*tax)
	if err != nil {
		return err
	}

	path := flags.Arg(0)
	tables, err := workbook.ReadFile(path)
	if err != nil {
		return err
	}
	if *reprice {
		tables.SKUs.ForgetUnitCosts()
	}

	engine := costing.New(costing.WithTaxMode(mode))
	computed, err := engine.Recompute(tables)
	if err != nil {
		return err
	}

	dest := path
	if *out != "" {
		dest = *out
	}
	if err := workbook.WriteFile(dest, computed); err != nil {
		return err
	}
	applog.Info(ctx, "workbook recomputed", "in", path, "out", dest, "taxMode", mode.String())

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, metric := range engine.DashboardMetrics(computed) {
		fmt.Fprintf(tw, "%s\t%s\n", metric.Name, pages.FormatMetric(metric.Name, metric.Value))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	issues := costing.Diagnose(computed)
	if len(issues) > 0 {
		fmt.Fprintf(stdout, "\n%d issue(s):\n", len(issues))
		for _, issue := range issues {
			fmt.Fprintf(stdout, "  %s\n", issue)
		}
	}
	return nil
}
