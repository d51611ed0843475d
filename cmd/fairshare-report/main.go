// Command fairshare-report renders a saved household state as a text or
// CSV report.
//
//	fairshare-report -format csv state.json > report.csv
//	cat state.json | fairshare-report
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/fairshare/internal/ledger"
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/report"
	"github.com/mmynk/fairshare/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup(os.Getenv("LOG_LEVEL"), "text")

	if err := run(os.Args[1:], os.Stdin, os.Stdout, time.Now()); err != nil {
		slog.Error("Report failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, now time.Time) error {
	fs := flag.NewFlagSet("fairshare-report", flag.ContinueOnError)
	format := fs.String("format", "text", "output format: text or csv")
	title := fs.String("title", "", "report title (default: "+report.DefaultTitle+")")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format != "text" && *format != "csv" {
		return fmt.Errorf("unknown format %q", *format)
	}

	in := stdin
	if path := fs.Arg(0); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open state: %w", err)
		}
		defer f.Close()
		in = f
	}

	st, err := readState(in)
	if err != nil {
		return err
	}

	hh := ledger.FromState(st)
	rep := report.Build(hh.Roster(), hh.Expenses(), hh.Summary(), now)
	if *title != "" {
		rep.Title = *title
	}
	slog.Debug("Rendering report", "expenses", len(rep.Expenses), "format", *format)

	if *format == "csv" {
		return rep.WriteCSV(stdout)
	}
	return rep.WriteText(stdout)
}

func readState(r io.Reader) (models.State, error) {
	var st models.State
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&st); err != nil {
		if errors.Is(err, io.EOF) {
			return st, errors.New("state input is empty")
		}
		return st, fmt.Errorf("failed to decode state: %w", err)
	}
	return st, nil
}
