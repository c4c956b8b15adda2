package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gobunko/gobunko"
	"github.com/gobunko/gobunko/internal/render/proof"
)

func main() {
	var (
		inputFile  string
		mode       string
		pageWidth  float64
		pageHeight float64
		padding    float64
		fontSize   float64
		lineHeight float64
		rubyPitch  float64
		backend    string
		fontFile   string
		proofFile  string
		verbose    bool
	)

	flag.StringVar(&inputFile, "input", "", "Input HTML file path")
	flag.StringVar(&mode, "mode", "vertical", "Writing mode: vertical or horizontal")
	flag.Float64Var(&pageWidth, "page-width", 420, "Page width in points")
	flag.Float64Var(&pageHeight, "page-height", 594, "Page height in points")
	flag.Float64Var(&padding, "padding", 24, "Page padding in points, all sides")
	flag.Float64Var(&fontSize, "font-size", 14, "Font size in points")
	flag.Float64Var(&lineHeight, "line-height", 1.75, "Line height factor")
	flag.Float64Var(&rubyPitch, "ruby-pitch", 1.0, "Pitch factor of lines carrying ruby")
	flag.StringVar(&backend, "backend", "grid", "Measurement backend: grid, pdfmetrics or shaped")
	flag.StringVar(&fontFile, "font", "", "TrueType font file for the pdfmetrics and shaped backends")
	flag.StringVar(&proofFile, "proof", "", "Write a PDF proof sheet to this path")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if inputFile == "" {
		fmt.Println("Error: input file is required")
		flag.Usage()
		os.Exit(1)
	}

	writingMode, err := gobunko.ParseWritingMode(mode)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	opts := []gobunko.Option{
		gobunko.WithWritingMode(writingMode),
		gobunko.WithPageSize(pageWidth, pageHeight),
		gobunko.WithPadding(padding, padding, padding, padding),
		gobunko.WithFontSize(fontSize),
		gobunko.WithLineHeight(lineHeight),
		gobunko.WithRubyPitch(rubyPitch),
		gobunko.WithBackend(gobunko.Backend(backend)),
		gobunko.WithHeaderContent(gobunko.FurnitureTitle),
		gobunko.WithFooterContent(gobunko.FurniturePageNumber),
		gobunko.WithPageNumberFormat(gobunko.NumberCurrentTotal),
	}

	var fontData []byte
	if fontFile != "" {
		fontData, err = os.ReadFile(fontFile)
		if err != nil {
			fmt.Printf("Error reading font file: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, gobunko.WithFont("embedded", fontData))
	}
	if verbose {
		opts = append(opts, gobunko.WithLogger(gobunko.NewTextLogger(os.Stderr, gobunko.LevelDebug)))
	}

	paginator, err := gobunko.New(opts...)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer paginator.Destroy()

	if err := paginator.SetContentFile(inputFile); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := paginator.Paginate(context.Background()); err != nil {
		fmt.Printf("Error paginating: %v\n", err)
		os.Exit(1)
	}

	pages := paginator.Pages()
	if title := paginator.Title(); title != "" {
		fmt.Printf("%s: %d pages (%s)\n", title, len(pages), writingMode)
	} else {
		fmt.Printf("%d pages (%s)\n", len(pages), writingMode)
	}
	for _, p := range pages {
		tags := ""
		if p.Continued {
			tags += " continued"
		}
		if p.ShortLine {
			tags += " short-line"
		}
		fmt.Printf("page %d: [%d, %d) %d chars%s\n", p.Index+1, p.Start, p.End(), p.Chars, tags)
	}
	if paginator.Capped() {
		fmt.Println("Warning: page cap reached with content remaining")
	}

	if proofFile != "" {
		renderer := proof.NewRenderer(nil)
		renderer.DrawGrid = verbose
		renderer.FontName = "embedded"
		renderer.FontData = fontData
		geom := gobunko.Geometry{
			Mode:          writingMode,
			PageWidth:     pageWidth,
			PageHeight:    pageHeight,
			PaddingTop:    padding,
			PaddingRight:  padding,
			PaddingBottom: padding,
			PaddingLeft:   padding,
			FontSize:      fontSize,
			LineHeight:    lineHeight,
			RubyPitch:     rubyPitch,
		}
		err := renderer.Render(pages, geom, proofFile, proof.RenderOptions{
			Title:     paginator.Title(),
			Furniture: paginator.Furniture,
		})
		if err != nil {
			fmt.Printf("Error writing proof sheet: %v\n", err)
			os.Exit(1)
		}
		if verbose {
			fmt.Printf("Wrote proof sheet to %s\n", proofFile)
		}
	}
}
