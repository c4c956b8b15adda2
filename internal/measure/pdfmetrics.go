package measure

import (
	"math"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gobunko/gobunko/internal/content"
	"github.com/gobunko/gobunko/internal/observe"
	"github.com/gobunko/gobunko/internal/text"
)

// PDFMetrics measures horizontal line lengths with PDF font metrics on a
// lazily created measurement document. Vertical flow falls back to the em
// grid: CJK glyphs advance one em regardless of metrics. Proportional
// Latin text measures tighter here than on the grid.
type PDFMetrics struct {
	once sync.Once
	mu   sync.Mutex
	pdf  *fpdf.Fpdf

	family   string
	fontName string
	fontData []byte
	log      observe.Logger
}

// NewPDFMetrics returns the font-metrics backend using the Helvetica core
// font. RegisterFont replaces it with an embedded face.
func NewPDFMetrics(log observe.Logger) *PDFMetrics {
	if log == nil {
		log = observe.NopLogger()
	}
	return &PDFMetrics{family: "Helvetica", log: log}
}

// RegisterFont installs a UTF-8 TrueType face for measurement, needed for
// CJK text. Must be called before the first measurement.
func (m *PDFMetrics) RegisterFont(name string, data []byte) {
	m.fontName = name
	m.fontData = data
}

func (m *PDFMetrics) init() {
	m.pdf = fpdf.New("P", "pt", "", "")
	if m.fontName != "" && len(m.fontData) > 0 {
		m.pdf.AddUTF8FontFromBytes(m.fontName, "", m.fontData)
		if m.pdf.Err() {
			m.log.Warn("registering measurement font failed",
				observe.String("font", m.fontName),
				observe.String("detail", m.pdf.Error().Error()))
			m.pdf = fpdf.New("P", "pt", "", "")
			m.fontName = ""
		} else {
			m.family = m.fontName
		}
	}
	m.pdf.SetFont(m.family, "", 12)
}

// stringWidth measures one line of text at the given size, falling back
// to grid units when the metrics document is unusable.
func (m *PDFMetrics) stringWidth(s string, size float64) float64 {
	if s == "" || size <= 0 {
		return 0
	}
	m.once.Do(m.init)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(m.family, "", size)
	w := m.pdf.GetStringWidth(s)
	if w <= 0 || m.pdf.Err() {
		return text.StringUnits(s) * size
	}
	return w
}

// lineLength returns the rendered length of a block's text as one long
// line, along the inline direction.
func (m *PDFMetrics) lineLength(geom Geometry, blockText string) float64 {
	if geom.Mode.Vertical() {
		// Vertical advances are em-sized for CJK; metrics add nothing.
		return text.StringUnits(blockText) * geom.FontSize
	}
	return m.stringWidth(blockText, geom.FontSize)
}

func (m *PDFMetrics) blockLines(geom Geometry, blockText string) float64 {
	inline := geom.InlineExtent()
	if inline <= 0 {
		return 0
	}
	length := m.lineLength(geom, blockText)
	lines := math.Ceil(length / inline)
	if lines < 1 {
		lines = 1
	}
	return lines
}

// BlockExtent measures a lone block along the writing axis.
func (m *PDFMetrics) BlockExtent(f *Frame, b *content.Block) float64 {
	if f == nil || f.Released() || b == nil {
		return 0
	}
	geom := f.Geometry()
	pitch := geom.Pitch()
	if b.Ruby {
		pitch *= geom.rubyPitchFactor()
	}
	return m.blockLines(geom, b.Text()) * pitch
}

// FrameExtent reports the available extent along the writing axis.
func (m *PDFMetrics) FrameExtent(f *Frame) float64 {
	if f == nil || f.Released() {
		return 0
	}
	return f.Geometry().AxisExtent()
}

// Overflowing reports whether the current fragment exceeds the frame.
func (m *PDFMetrics) Overflowing(f *Frame) bool {
	if f == nil || f.Released() || f.Fragment() == nil {
		return false
	}
	geom := f.Geometry()
	var total float64
	for _, blk := range f.Fragment().Blocks() {
		pitch := geom.Pitch()
		if blk.Ruby {
			pitch *= geom.rubyPitchFactor()
		}
		total += m.blockLines(geom, blk.Text) * pitch
	}
	return total > geom.AxisExtent()+extentEpsilon
}

// TrailingLineFill reports the inline fill ratio of the fragment's last
// line.
func (m *PDFMetrics) TrailingLineFill(f *Frame) float64 {
	if f == nil || f.Released() || f.Fragment() == nil {
		return 1.0
	}
	blocks := f.Fragment().Blocks()
	if len(blocks) == 0 {
		return 1.0
	}
	geom := f.Geometry()
	inline := geom.InlineExtent()
	if inline <= 0 {
		return 1.0
	}
	length := m.lineLength(geom, blocks[len(blocks)-1].Text)
	if length <= 0 {
		return 1.0
	}
	rem := math.Mod(length, inline)
	if rem == 0 {
		return 1.0
	}
	return rem / inline
}

// CloneRange materializes a character range through the content index.
func (m *PDFMetrics) CloneRange(ix *content.Index, start, n int) (*content.Fragment, error) {
	return ix.CloneRange(start, n)
}
