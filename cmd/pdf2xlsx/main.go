package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/pdfsheet/convert"
	"github.com/hazyhaar/pdfsheet/docpipe"
	"github.com/hazyhaar/pdfsheet/horosafe"
	"github.com/hazyhaar/pdfsheet/sheet"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "convert":
		cmdConvert(os.Args[2:])
	case "text":
		cmdText(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `pdf2xlsx: convert PDF text into a spreadsheet, one line per row

usage:
  pdf2xlsx convert <file.pdf> [output.xlsx]
  pdf2xlsx text    <file.pdf>

convert  Writes <name>_converted.xlsx next to the input (or to output.xlsx).
text     Prints the extracted text of every page, as the converter sees it.

environment:
  PDF_BACKENDS  comma-separated extraction backends (default: %s)
  LOG_LEVEL     debug, info, warn, error (default: warn)
`, strings.Join(docpipe.SupportedBackends(), ","))
}

func pipeline() *docpipe.Pipeline {
	lvl := slog.LevelWarn
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		lvl.UnmarshalText([]byte(v))
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	var backends []string
	if v := os.Getenv("PDF_BACKENDS"); v != "" {
		backends = strings.Split(v, ",")
	}
	return docpipe.New(docpipe.Config{
		MaxFileSize: horosafe.MaxUpload,
		Backends:    backends,
		Preflight:   true,
		Logger:      logger,
	})
}

func readInput(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	data, err := horosafe.LimitedReadAll(f, horosafe.MaxUpload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}
	return data
}

func cmdConvert(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "convert requires a PDF path")
		os.Exit(1)
	}
	src := args[0]

	conv := convert.New(pipeline(), sheet.NewExcelizeWriter(sheet.DefaultHeaderStyle()), convert.Options{})
	res, err := conv.Convert(context.Background(), &convert.UploadedDocument{
		Filename: filepath.Base(src),
		Data:     readInput(src),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert failed: %v\n", err)
		os.Exit(1)
	}

	out := filepath.Join(filepath.Dir(src), res.Filename)
	if len(args) >= 2 {
		out = args[1]
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "done: %s (%d/%d pages, %d cells)\n", out, res.PagesConverted, res.Pages, res.Cells)
}

func cmdText(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "text requires a PDF path")
		os.Exit(1)
	}

	doc, err := pipeline().Extract(context.Background(), readInput(args[0]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract failed: %v\n", err)
		os.Exit(1)
	}
	for _, p := range doc.Pages {
		fmt.Printf("--- page %d ---\n", p.Number)
		for _, line := range convert.SplitLines(p.Text) {
			fmt.Println(line)
		}
	}
	q := doc.Quality
	fmt.Fprintf(os.Stderr, "backend=%s pages=%d text_pages=%d needs_ocr=%v\n",
		doc.Backend, q.PageCount, q.TextPages, q.NeedsOCR())
}
