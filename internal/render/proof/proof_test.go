package proof

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gobunko/gobunko/internal/content"
	"github.com/gobunko/gobunko/internal/controller"
	"github.com/gobunko/gobunko/internal/measure"
	"github.com/gobunko/gobunko/internal/paginate"
)

// vertGeom holds 14 columns of 21 full-width cells: pitch 30 across a
// 420pt axis, 315/15 = 21 em cells per column.
func vertGeom() measure.Geometry {
	return measure.Geometry{
		Mode:       content.VerticalRL,
		PageWidth:  420,
		PageHeight: 315,
		FontSize:   15,
		LineHeight: 2.0,
	}
}

func buildPages(t *testing.T, doc string, geom measure.Geometry) []paginate.PageInfo {
	t.Helper()
	parsed, err := content.ParseString(doc)
	if err != nil {
		t.Fatalf("parsing content: %v", err)
	}
	ix := content.NewIndex(parsed)
	pages, err := paginate.NewEngine(ix, measure.NewGrid(nil), geom, paginate.Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("paginating: %v", err)
	}
	return pages
}

func TestWalkCells(t *testing.T) {
	geom := vertGeom()

	t.Run("full width wraps at column capacity", func(t *testing.T) {
		cells, next := walkCells(geom, strings.Repeat("あ", 50), 0, 30)
		if len(cells) != 50 {
			t.Fatalf("got %d cells, want 50", len(cells))
		}
		if cells[0] != (cellPos{inline: 0, axis: 0}) {
			t.Errorf("cell 0 = %+v, want origin", cells[0])
		}
		if cells[20] != (cellPos{inline: 300, axis: 0}) {
			t.Errorf("cell 20 = %+v, want end of first column", cells[20])
		}
		if cells[21] != (cellPos{inline: 0, axis: 30}) {
			t.Errorf("cell 21 = %+v, want top of second column", cells[21])
		}
		if cells[42] != (cellPos{inline: 0, axis: 60}) {
			t.Errorf("cell 42 = %+v, want top of third column", cells[42])
		}
		if next != 90 {
			t.Errorf("next block starts at %g, want 90", next)
		}
	})

	t.Run("half width advances half cells", func(t *testing.T) {
		cells, next := walkCells(geom, "abc", 0, 30)
		want := []cellPos{{0, 0}, {7.5, 0}, {15, 0}}
		for i := range want {
			if cells[i] != want[i] {
				t.Errorf("cell %d = %+v, want %+v", i, cells[i], want[i])
			}
		}
		if next != 30 {
			t.Errorf("next block starts at %g, want 30", next)
		}
	})

	t.Run("block starts on a fresh line", func(t *testing.T) {
		cells, _ := walkCells(geom, "あ", 60, 30)
		if cells[0] != (cellPos{inline: 0, axis: 60}) {
			t.Errorf("cell 0 = %+v, want start of third column", cells[0])
		}
	})
}

func TestRenderWritesFile(t *testing.T) {
	geom := vertGeom()
	// 42 half-width cells per column, 14 columns: 588 per page.
	pages := buildPages(t, `<html><body><p>`+strings.Repeat("a", 600)+`</p></body></html>`, geom)
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	path := filepath.Join(t.TempDir(), "proof.pdf")
	r := NewRenderer(nil)
	r.DrawGrid = true
	err := r.Render(pages, geom, path, RenderOptions{
		Title: "proof",
		Furniture: func(i int) (header, footer controller.FurnitureLine) {
			footer.Text = "page"
			footer.Align = controller.AlignCenter
			return header, footer
		},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("proof sheet is empty")
	}
}

func TestRenderRejectsBadGeometry(t *testing.T) {
	r := NewRenderer(nil)
	err := r.Render(nil, measure.Geometry{}, filepath.Join(t.TempDir(), "out.pdf"), RenderOptions{})
	if err == nil {
		t.Fatal("Render accepted a zero geometry")
	}
}
