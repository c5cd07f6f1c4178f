// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	nsareg "eliasnaur.com/font/noto/sans/arabic/regular"
	"golang.org/x/exp/slog"
	"golang.org/x/term"

	"gioui.org/paragraph/font"
	"gioui.org/paragraph/font/gofont"
	"gioui.org/paragraph/font/opentype"
	"gioui.org/paragraph/paint/pdfcanvas"
	"gioui.org/paragraph/text"
	"gioui.org/paragraph/text/markup"
	"gioui.org/paragraph/unit"
)

const pipeName = "-"

var (
	inPath  = flag.String("in", pipeName, "markup input file, or - for standard input.")
	width   = flag.String("width", "400", "layout width in pixels, or inf.")
	pdfPath = flag.String("pdf", "", "write a PDF rendering to the file, or - for standard output.")
	scale   = flag.Float64("scale", 1, "pixels per dp and sp.")
	verbose = flag.Bool("v", false, "enable debug logging.")
)

type config struct {
	in    string
	width string
	pdf   string
	scale float32
}

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, mainUsage)
	}
	flag.Parse()
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	cfg := config{in: *inPath, width: *width, pdf: *pdfPath, scale: float32(*scale)}
	if err := run(cfg, os.Stdin, os.Stdout, os.Stderr, logger); err != nil {
		fmt.Fprintf(os.Stderr, "paragraph: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, stdin io.Reader, stdout, stderr io.Writer, logger *slog.Logger) error {
	w, err := parseWidth(cfg.width)
	if err != nil {
		return err
	}
	name, src, err := readInput(cfg.in, stdin)
	if err != nil {
		return err
	}
	doc, err := markup.Parse(name, string(src))
	if err != nil {
		return err
	}
	fonts, err := collection()
	if err != nil {
		return err
	}
	b := text.NewBuilder(text.ParagraphStyle{}, fonts, text.WithLogger(logger))
	m := unit.Metric{PxPerDp: cfg.scale, PxPerSp: cfg.scale}
	if err := doc.ApplyMetric(b, m); err != nil {
		return err
	}
	p := b.Build()
	p.Layout(w)
	logger.Debug("laid out paragraph", "width", w, "lines", p.LineCount(), "height", p.Height())

	report := stdout
	if cfg.pdf == pipeName {
		if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return errors.New("`-pdf -` should be used with a pipe for stdout")
		}
		report = stderr
	}
	if err := printLines(report, p); err != nil {
		return err
	}
	if cfg.pdf == "" {
		return nil
	}
	return writePDF(cfg.pdf, stdout, p)
}

// parseWidth parses a layout width in pixels, or inf.
func parseWidth(s string) (float32, error) {
	if s == "inf" {
		return float32(math.Inf(1)), nil
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil || v < 0 || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid -width %s", s)
	}
	return float32(v), nil
}

func readInput(path string, stdin io.Reader) (string, []byte, error) {
	if path == pipeName {
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return "", nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src, err := io.ReadAll(stdin)
		return "<stdin>", src, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("unable to read the markup file: %w", err)
	}
	return path, src, nil
}

// collection returns the Go fonts with an Arabic fallback.
func collection() (*text.Collection, error) {
	arabic, err := opentype.Parse(nsareg.TTF)
	if err != nil {
		return nil, err
	}
	c := text.NewCollection(gofont.Collection()...)
	c.Add(font.FontFace{Font: font.Font{Typeface: "Noto Sans Arabic"}, Face: arabic})
	return c, nil
}

func printLines(w io.Writer, p *text.Paragraph) error {
	for _, l := range p.GetLineMetrics() {
		brk := ""
		if l.HardBreak {
			brk = "\thard"
		}
		_, err := fmt.Fprintf(w, "%d\t[%d,%d)\twidth=%.2f\tbaseline=%.2f%s\n",
			l.LineNumber, l.StartIndex, l.EndIndex, l.Width, l.Baseline, brk)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "height=%.2f longest=%.2f exceeded=%v\n", p.Height(), p.LongestLine(), p.DidExceedMaxLines())
	return err
}

func writePDF(path string, stdout io.Writer, p *text.Paragraph) error {
	// MaxWidth is the longest line for unconstrained layouts.
	c := pdfcanvas.New(max(p.MaxWidth(), 1), max(p.Height(), 1))
	p.Paint(c, 0, 0)
	if path == pipeName {
		_, err := c.WriteTo(stdout)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create the PDF file: %w", err)
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
