// invoicegen prices an invoice document and renders it as text or CSV.
// The input is a JSON file; totals are computed with decimal-exact math so
// the output never drifts by a cent.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/invoice"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "invoicegen"})

	input := flag.String("in", "", "invoice JSON file (defaults to stdin)")
	output := flag.String("out", "", "output path (defaults to stdout)")
	format := flag.String("format", "text", "output format: text|csv")
	number := flag.Int("number", 0, "sequence number when the document has none")
	flag.Parse()

	doc, err := readInvoice(*input)
	if err != nil {
		logg.Error(context.Background(), "failed to read invoice", err)
		os.Exit(1)
	}
	if doc.Number == "" {
		doc.Number = invoice.NumberFor(time.Now().Year(), *number)
	}
	if doc.IssuedAt.IsZero() {
		doc.IssuedAt = time.Now()
	}

	var sink io.Writer = os.Stdout
	if *output != "" {
		file, err := os.Create(*output)
		if err != nil {
			logg.Error(context.Background(), "failed to create output file", err)
			os.Exit(1)
		}
		defer file.Close()
		sink = file
	}

	switch *format {
	case "text":
		err = invoice.RenderText(sink, doc)
	case "csv":
		err = invoice.RenderCSV(sink, doc)
	default:
		err = fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			fmt.Fprintln(os.Stderr, typed.Message())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func readInvoice(path string) (invoice.Invoice, error) {
	var doc invoice.Invoice
	var raw []byte
	var err error
	if path == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("parse invoice: %w", err)
	}
	return doc, nil
}
