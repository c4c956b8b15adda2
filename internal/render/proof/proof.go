// Package proof renders a pagination result as a PDF proof sheet: one
// PDF page per produced page, with the content area outlined, the text
// placed cell by cell on the measurement grid, ruby annotations beside
// their base, and the page furniture in the margins. The sheet is a
// geometric check of page boundaries, not final typesetting.
package proof

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gobunko/gobunko/internal/content"
	"github.com/gobunko/gobunko/internal/controller"
	"github.com/gobunko/gobunko/internal/measure"
	"github.com/gobunko/gobunko/internal/observe"
	"github.com/gobunko/gobunko/internal/paginate"
	"github.com/gobunko/gobunko/internal/text"
)

// Renderer draws proof sheets.
type Renderer struct {
	// FontName and FontData embed a UTF-8 TrueType face. Without one
	// the Helvetica core font stands in and CJK glyphs will not print;
	// the frames and boundaries still proof correctly.
	FontName string
	FontData []byte
	// DrawGrid rules the line pitch inside the content area.
	DrawGrid bool

	log observe.Logger
}

// RenderOptions contains per-sheet options.
type RenderOptions struct {
	// Title sets the PDF document title.
	Title string
	// Furniture resolves the header and footer of a page; nil leaves
	// the margins empty.
	Furniture func(i int) (header, footer controller.FurnitureLine)
}

// NewRenderer creates a proof sheet renderer. A nil logger falls back
// to the no-op logger.
func NewRenderer(log observe.Logger) *Renderer {
	if log == nil {
		log = observe.NopLogger()
	}
	return &Renderer{log: log}
}

// Render writes one proof sheet covering all pages to outputPath.
func (r *Renderer) Render(pages []paginate.PageInfo, geom measure.Geometry, outputPath string, options RenderOptions) error {
	if err := geom.Validate(); err != nil {
		return fmt.Errorf("proof geometry: %w", err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: geom.PageWidth, Ht: geom.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(options.Title, true)
	pdf.SetCreator("gobunko", true)

	family := "Helvetica"
	if len(r.FontData) > 0 {
		name := r.FontName
		if name == "" {
			name = "embedded"
		}
		pdf.AddUTF8FontFromBytes(name, "", r.FontData)
		if pdf.Err() {
			r.log.Warn("embedding proof font failed",
				observe.String("font", name),
				observe.String("detail", pdf.Error().Error()))
			pdf = fpdf.NewCustom(&fpdf.InitType{
				OrientationStr: "P",
				UnitStr:        "pt",
				Size:           fpdf.SizeType{Wd: geom.PageWidth, Ht: geom.PageHeight},
			})
			pdf.SetAutoPageBreak(false, 0)
			pdf.SetTitle(options.Title, true)
			pdf.SetCreator("gobunko", true)
		} else {
			family = name
		}
	}
	pdf.SetFont(family, "", geom.FontSize)

	for i, p := range pages {
		pdf.AddPage()
		r.drawFrame(pdf, geom)
		if options.Furniture != nil {
			header, footer := options.Furniture(i)
			r.drawFurniture(pdf, geom, header, footer)
		}
		if p.Fragment != nil {
			r.drawFragment(pdf, geom, p.Fragment)
		}
		if p.Continued {
			r.drawContinuedMarker(pdf, geom)
		}
	}

	outputDir := filepath.Dir(outputPath)
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to write proof sheet: %w", err)
	}
	return nil
}

// drawFrame outlines the content area and, when asked, rules the line
// pitch inside it.
func (r *Renderer) drawFrame(pdf *fpdf.Fpdf, geom measure.Geometry) {
	left := geom.PaddingLeft
	top := geom.PaddingTop
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.5)
	pdf.Rect(left, top, geom.InnerWidth(), geom.InnerHeight(), "D")

	if !r.DrawGrid {
		return
	}
	pdf.SetDrawColor(225, 225, 225)
	pdf.SetLineWidth(0.25)
	pitch := geom.Pitch()
	if geom.Mode.Vertical() {
		right := geom.PageWidth - geom.PaddingRight
		for x := right - pitch; x > left+extentEpsilon; x -= pitch {
			pdf.Line(x, top, x, top+geom.InnerHeight())
		}
		return
	}
	bottom := geom.PageHeight - geom.PaddingBottom
	for y := top + pitch; y < bottom-extentEpsilon; y += pitch {
		pdf.Line(left, y, left+geom.InnerWidth(), y)
	}
}

// drawFurniture prints the header and footer lines in the padding
// margins, small and gray.
func (r *Renderer) drawFurniture(pdf *fpdf.Fpdf, geom measure.Geometry, header, footer controller.FurnitureLine) {
	size := geom.FontSize * 0.6
	if size < 6 {
		size = 6
	}
	pdf.SetFontSize(size)
	pdf.SetTextColor(120, 120, 120)
	if header.Text != "" {
		y := geom.PaddingTop*0.5 + size*0.35
		pdf.Text(r.furnitureX(pdf, geom, header), y, header.Text)
	}
	if footer.Text != "" {
		y := geom.PageHeight - geom.PaddingBottom*0.5 + size*0.35
		pdf.Text(r.furnitureX(pdf, geom, footer), y, footer.Text)
	}
	pdf.SetFontSize(geom.FontSize)
	pdf.SetTextColor(0, 0, 0)
}

// furnitureX resolves a furniture line's start abscissa from its
// alignment within the content width.
func (r *Renderer) furnitureX(pdf *fpdf.Fpdf, geom measure.Geometry, line controller.FurnitureLine) float64 {
	w := pdf.GetStringWidth(line.Text)
	switch line.Align {
	case controller.AlignCenter:
		return geom.PaddingLeft + (geom.InnerWidth()-w)/2
	case controller.AlignRight:
		return geom.PageWidth - geom.PaddingRight - w
	}
	return geom.PaddingLeft
}

// cellPos locates one rune cell: the inline offset within its line and
// the axis offset of the line, both in points from the content-area
// origin.
type cellPos struct {
	inline float64
	axis   float64
}

// drawFragment places the fragment's blocks on the grid, each block
// starting a new line, lines wrapping at the grid capacity.
func (r *Renderer) drawFragment(pdf *fpdf.Fpdf, geom measure.Geometry, frag *content.Fragment) {
	var axisUsed float64
	for _, blk := range frag.Blocks() {
		pitch := geom.Pitch()
		if blk.Ruby {
			factor := geom.RubyPitch
			if factor <= 0 {
				factor = 1.0
			}
			pitch *= factor
		}
		cells, next := walkCells(geom, blk.Text, axisUsed, pitch)
		runes := []rune(blk.Text)
		for i, c := range cells {
			if text.UnitWidth(runes[i]) <= 0 {
				continue
			}
			x, y := r.glyphOrigin(geom, c, pitch, geom.FontSize)
			pdf.Text(x, y, string(runes[i]))
		}
		if blk.Ruby {
			r.drawRuby(pdf, geom, blk, cells, pitch)
		}
		axisUsed = next
	}
}

// glyphOrigin maps a cell to the baseline origin of a glyph of the
// given size drawn in it.
func (r *Renderer) glyphOrigin(geom measure.Geometry, c cellPos, pitch, size float64) (x, y float64) {
	if geom.Mode.Vertical() {
		colCenter := geom.PageWidth - geom.PaddingRight - c.axis - pitch/2
		return colCenter - size/2, geom.PaddingTop + c.inline + size*0.88
	}
	lineTop := geom.PaddingTop + c.axis
	return geom.PaddingLeft + c.inline, lineTop + pitch*0.5 + size*0.38
}

// drawRuby prints each annotation in half-size type on the ruby side of
// its base: right of the column in vertical flow, above the line in
// horizontal flow.
func (r *Renderer) drawRuby(pdf *fpdf.Fpdf, geom measure.Geometry, blk content.FragmentBlock, cells []cellPos, pitch float64) {
	runes := []rune(blk.Text)
	size := geom.FontSize * 0.5
	pdf.SetFontSize(size)
	cursor := 0
	for _, pair := range blk.RubyPairs {
		base := []rune(pair.Base)
		start := runeIndex(runes, base, cursor)
		if start < 0 || start >= len(cells) {
			continue
		}
		cursor = start + len(base)
		anchor := cells[start]
		var used float64
		for _, ar := range []rune(pair.Annotation) {
			unit := text.UnitWidth(ar)
			if unit <= 0 {
				continue
			}
			if geom.Mode.Vertical() {
				colCenter := geom.PageWidth - geom.PaddingRight - anchor.axis - pitch/2
				x := colCenter + geom.FontSize*0.55
				y := geom.PaddingTop + anchor.inline + used + size*0.88
				pdf.Text(x, y, string(ar))
			} else {
				lineTop := geom.PaddingTop + anchor.axis
				x := geom.PaddingLeft + anchor.inline + used
				pdf.Text(x, lineTop+size*0.9, string(ar))
			}
			used += unit * size
		}
	}
	pdf.SetFontSize(geom.FontSize)
}

// drawContinuedMarker dots the trailing corner of the content area when
// the page's last block continues onto the next page.
func (r *Renderer) drawContinuedMarker(pdf *fpdf.Fpdf, geom measure.Geometry) {
	pdf.SetFillColor(90, 90, 90)
	y := geom.PageHeight - geom.PaddingBottom - 4
	if geom.Mode.Vertical() {
		// Vertical flow exits at the bottom left.
		pdf.Circle(geom.PaddingLeft+4, y, 2.2, "F")
		return
	}
	pdf.Circle(geom.PageWidth-geom.PaddingRight-4, y, 2.2, "F")
}

// walkCells lays one block's runes on the measurement grid: lines hold
// capacity units, full-width runes take one unit and half-width runes
// half, zero-width runes occupy their current position without
// advancing. It returns the cells in rune order and the axis offset
// where the next block starts.
func walkCells(geom measure.Geometry, blockText string, axisStart, pitch float64) ([]cellPos, float64) {
	capacity := capacityUnits(geom)
	if capacity <= 0 {
		return nil, axisStart
	}
	cells := make([]cellPos, 0, len(blockText))
	lineAxis := axisStart
	var used float64
	for _, r := range blockText {
		unit := text.UnitWidth(r)
		if used+unit > capacity+unitEpsilon {
			lineAxis += pitch
			used = 0
		}
		cells = append(cells, cellPos{inline: used * geom.FontSize, axis: lineAxis})
		used += unit
	}
	return cells, lineAxis + pitch
}

// capacityUnits mirrors the grid backend's line capacity, in half-cell
// granularity.
func capacityUnits(geom measure.Geometry) float64 {
	half := geom.FontSize * 0.5
	if half <= 0 {
		return 0
	}
	return math.Floor(geom.InlineExtent()/half) * 0.5
}

// runeIndex returns the first index at or after from where needle
// occurs in hay, or -1.
func runeIndex(hay, needle []rune, from int) int {
	if len(needle) == 0 {
		return -1
	}
	for i := from; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

const (
	extentEpsilon = 1e-6
	unitEpsilon   = 1e-9
)
