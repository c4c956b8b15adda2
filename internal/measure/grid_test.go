package measure

import (
	"math"
	"testing"

	"github.com/gobunko/gobunko/internal/content"
)

// vertGeom: 315pt inline / 7.5pt half-cell = 21 full-width runes per
// column, 30pt pitch, 420pt axis = 14 columns, 294 runes per page.

func TestGridBlockExtentVertical(t *testing.T) {
	ix := indexFor(t, "<body><p>"+kana(50)+"</p></body>")
	f := NewFrame(vertGeom())
	g := NewGrid(nil)

	got := g.BlockExtent(f, ix.Blocks[0])
	want := 3 * 30.0 // ceil(50/21) columns at 30pt pitch
	if got != want {
		t.Errorf("BlockExtent = %g, want %g", got, want)
	}
}

func TestGridBlockExtentHorizontalHalfWidth(t *testing.T) {
	ix := indexFor(t, "<body><p>"+kana(5)+"abcd</p></body>")
	geom := Geometry{
		Mode:       content.HorizontalTB,
		PageWidth:  105,
		PageHeight: 600,
		FontSize:   15,
		LineHeight: 2.0,
	}
	// 105/7.5 = 14 half cells = 7 units per line; 5 kana + 4 ascii = 7 units.
	f := NewFrame(geom)
	g := NewGrid(nil)

	if got := g.BlockExtent(f, ix.Blocks[0]); got != 30.0 {
		t.Errorf("BlockExtent = %g, want one 30pt line", got)
	}
}

func TestGridOverflowing(t *testing.T) {
	g := NewGrid(nil)

	t.Run("fits exactly", func(t *testing.T) {
		// 14 columns of 21 runes fill the axis with nothing to spare.
		ix := indexFor(t, "<body><p>"+kana(294)+"</p></body>")
		frag, err := ix.CloneRange(0, 294)
		if err != nil {
			t.Fatalf("CloneRange failed: %v", err)
		}
		f := NewFrame(vertGeom())
		f.SetFragment(frag)
		if g.Overflowing(f) {
			t.Error("exact fit reported as overflow")
		}
	})

	t.Run("one rune too many", func(t *testing.T) {
		ix := indexFor(t, "<body><p>"+kana(295)+"</p></body>")
		frag, err := ix.CloneRange(0, 295)
		if err != nil {
			t.Fatalf("CloneRange failed: %v", err)
		}
		f := NewFrame(vertGeom())
		f.SetFragment(frag)
		if !g.Overflowing(f) {
			t.Error("15th column not reported as overflow")
		}
	})

	t.Run("block boundaries cost lines", func(t *testing.T) {
		// 14 one-rune paragraphs: one column each, exactly 14 columns.
		src := "<body>"
		for i := 0; i < 14; i++ {
			src += "<p>" + kana(1) + "</p>"
		}
		src += "</body>"
		ix := indexFor(t, src)
		frag, err := ix.CloneRange(0, 14)
		if err != nil {
			t.Fatalf("CloneRange failed: %v", err)
		}
		f := NewFrame(vertGeom())
		f.SetFragment(frag)
		if g.Overflowing(f) {
			t.Error("14 single-rune blocks should fill exactly 14 columns")
		}

		frag, err = ix.CloneRange(0, 13)
		if err != nil {
			t.Fatalf("CloneRange failed: %v", err)
		}
		f.SetFragment(frag)
		if g.Overflowing(f) {
			t.Error("13 blocks must fit where 14 do")
		}
	})

	t.Run("empty fragment never overflows", func(t *testing.T) {
		f := NewFrame(vertGeom())
		if g.Overflowing(f) {
			t.Error("frame without fragment reported overflow")
		}
	})
}

func TestGridRubyPitch(t *testing.T) {
	ix := indexFor(t, "<body><p><ruby>"+kana(21)+"<rt>るび</rt></ruby></p></body>")
	geom := vertGeom()
	geom.RubyPitch = 1.2
	f := NewFrame(geom)
	g := NewGrid(nil)

	got := g.BlockExtent(f, ix.Blocks[0])
	want := 1 * 30.0 * 1.2
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("BlockExtent with ruby pitch = %g, want %g", got, want)
	}
}

func TestGridTrailingLineFill(t *testing.T) {
	g := NewGrid(nil)

	cases := []struct {
		name  string
		runes int
		want  float64
	}{
		{"partial line", 50, 8.0 / 21.0},  // 50 mod 21 = 8
		{"full line", 42, 1.0},            // exact multiple
		{"short widow", 22, 1.0 / 21.0},   // one rune dangling
		{"single full column", 21, 1.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ix := indexFor(t, "<body><p>"+kana(c.runes)+"</p></body>")
			frag, err := ix.CloneRange(0, c.runes)
			if err != nil {
				t.Fatalf("CloneRange failed: %v", err)
			}
			f := NewFrame(vertGeom())
			f.SetFragment(frag)
			if got := g.TrailingLineFill(f); math.Abs(got-c.want) > 1e-9 {
				t.Errorf("TrailingLineFill = %g, want %g", got, c.want)
			}
		})
	}
}

func TestGridTrailingLineFillUsesLastBlock(t *testing.T) {
	ix := indexFor(t, "<body><p>"+kana(42)+"</p><p>"+kana(3)+"</p></body>")
	frag, err := ix.CloneRange(0, 45)
	if err != nil {
		t.Fatalf("CloneRange failed: %v", err)
	}
	f := NewFrame(vertGeom())
	f.SetFragment(frag)

	g := NewGrid(nil)
	want := 3.0 / 21.0
	if got := g.TrailingLineFill(f); math.Abs(got-want) > 1e-9 {
		t.Errorf("TrailingLineFill = %g, want %g", got, want)
	}
}

func TestGridCloneRangeDelegates(t *testing.T) {
	ix := indexFor(t, "<body><p>"+kana(9)+"</p></body>")
	g := NewGrid(nil)

	frag, err := g.CloneRange(ix, 2, 5)
	if err != nil {
		t.Fatalf("CloneRange failed: %v", err)
	}
	if frag.Chars() != 5 || frag.Start() != 2 {
		t.Errorf("fragment covers [%d, +%d)", frag.Start(), frag.Chars())
	}
}
