package content

import (
	"strings"
	"testing"
)

func mustIndex(t *testing.T, src string) *Index {
	t.Helper()
	doc, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	return NewIndex(doc)
}

func TestIndexRunsAndBlocks(t *testing.T) {
	ix := mustIndex(t, `
<html><head><title>吾輩は猫である</title></head><body>
<h1>一</h1>
<p>吾輩は猫である。名前はまだ無い。</p>
<p>どこで生れたかとんと<b>見当</b>がつかぬ。</p>
<ul><li>第一</li><li>第二</li></ul>
</body></html>`)

	if ix.Total == 0 {
		t.Fatal("expected indexed text")
	}

	wantKinds := []BlockKind{KindHeading, KindParagraph, KindParagraph, KindListItem, KindListItem}
	if len(ix.Blocks) != len(wantKinds) {
		t.Fatalf("got %d blocks, want %d", len(ix.Blocks), len(wantKinds))
	}
	for i, want := range wantKinds {
		if ix.Blocks[i].Kind != want {
			t.Errorf("block %d kind = %v, want %v", i, ix.Blocks[i].Kind, want)
		}
	}
	if ix.Blocks[0].Level != 1 {
		t.Errorf("heading level = %d, want 1", ix.Blocks[0].Level)
	}

	// Blocks partition the text contiguously.
	offset := 0
	for i, b := range ix.Blocks {
		if b.Start != offset {
			t.Errorf("block %d starts at %d, want %d", i, b.Start, offset)
		}
		if b.Len == 0 {
			t.Errorf("block %d is empty", i)
		}
		offset = b.End()
	}
	if offset != ix.Total {
		t.Errorf("blocks cover %d runes, total is %d", offset, ix.Total)
	}

	// The bolded text stays inside its paragraph's block.
	second := ix.Blocks[2]
	if got := second.Text(); got != "どこで生れたかとんと見当がつかぬ。" {
		t.Errorf("second paragraph text = %q", got)
	}
}

func TestIndexTitle(t *testing.T) {
	doc, err := ParseString(`<html><head><title>草枕</title></head><body><p>山路を登りながら</p></body></html>`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if doc.Title() != "草枕" {
		t.Errorf("Title = %q, want 草枕", doc.Title())
	}

	doc, err = ParseString(`<body><h1>坊っちゃん</h1><p>親譲りの無鉄砲で</p></body>`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if doc.Title() != "坊っちゃん" {
		t.Errorf("fallback Title = %q, want 坊っちゃん", doc.Title())
	}
}

func TestRubyAnnotationExcluded(t *testing.T) {
	ix := mustIndex(t, `<body><p>その<ruby>峠<rt>とうげ</rt></ruby>を越えた。</p></body>`)

	// 峠 counts once; とうげ does not count at all.
	want := len([]rune("その峠を越えた。"))
	if ix.Total != want {
		t.Fatalf("Total = %d, want %d", ix.Total, want)
	}

	start, end, ok := ix.RubySpanAt(2)
	if !ok {
		t.Fatal("RubySpanAt(2) found no span")
	}
	if start != 2 || end != 3 {
		t.Errorf("ruby span = [%d, %d), want [2, 3)", start, end)
	}
	if _, _, ok := ix.RubySpanAt(0); ok {
		t.Error("RubySpanAt(0) found a span outside ruby")
	}
	if _, _, ok := ix.RubySpanAt(3); ok {
		t.Error("RubySpanAt(3) found a span past the base text")
	}

	run := ix.RunAt(2)
	if run == nil || !run.Ruby {
		t.Error("base text run not flagged as ruby")
	}
	if !ix.Blocks[0].Ruby {
		t.Error("block containing ruby not flagged")
	}
}

func TestMultiBaseRubySpan(t *testing.T) {
	ix := mustIndex(t, `<body><p><ruby>漢<rt>かん</rt>字<rt>じ</rt></ruby>の森</p></body>`)

	start, end, ok := ix.RubySpanAt(1)
	if !ok {
		t.Fatal("RubySpanAt(1) found no span")
	}
	if start != 0 || end != 2 {
		t.Errorf("ruby span = [%d, %d), want [0, 2)", start, end)
	}
}

func TestPositionForBoundaries(t *testing.T) {
	ix := mustIndex(t, `<body><p>あい</p><p>うえお</p></body>`)
	if len(ix.Runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(ix.Runs))
	}

	t.Run("start", func(t *testing.T) {
		p := ix.PositionFor(0)
		if p.Run != ix.Runs[0] || p.Offset != 0 {
			t.Errorf("PositionFor(0) = run %v offset %d", p.Run, p.Offset)
		}
	})

	t.Run("boundary resolves to earliest run", func(t *testing.T) {
		p := ix.PositionFor(2)
		if p.Run != ix.Runs[0] || p.Offset != 2 {
			t.Errorf("PositionFor(2) = offset %d of run starting %d, want end of first run", p.Offset, p.Run.Start)
		}
	})

	t.Run("interior", func(t *testing.T) {
		p := ix.PositionFor(3)
		if p.Run != ix.Runs[1] || p.Offset != 1 {
			t.Errorf("PositionFor(3) = offset %d of run starting %d", p.Offset, p.Run.Start)
		}
	})

	t.Run("clamping", func(t *testing.T) {
		if p := ix.PositionFor(-4); p.Run != ix.Runs[0] || p.Offset != 0 {
			t.Error("negative offset did not clamp to start")
		}
		if p := ix.PositionFor(99); p.Run != ix.Runs[1] || p.Offset != 3 {
			t.Error("overlarge offset did not clamp to end")
		}
	})
}

func TestRunAtAndRuneAt(t *testing.T) {
	ix := mustIndex(t, `<body><p>春は</p><p>あけぼの</p></body>`)

	if r := ix.RunAt(2); r != ix.Runs[1] {
		t.Error("RunAt(2) did not return the second run")
	}
	if r, ok := ix.RuneAt(3); !ok || r != 'け' {
		t.Errorf("RuneAt(3) = %q, %v", r, ok)
	}
	if _, ok := ix.RuneAt(ix.Total); ok {
		t.Error("RuneAt(Total) should not resolve")
	}
	if ix.RunAt(-1) != nil {
		t.Error("RunAt(-1) should be nil")
	}
}

func TestSegments(t *testing.T) {
	ix := mustIndex(t, `<body><p>あいう</p><p>えおかき</p><p>くけ</p></body>`)

	segs := ix.Segments(1, 8)
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}

	wantStarts := []int{1, 3, 7}
	wantChars := []int{2, 4, 1}
	total := 0
	for i, s := range segs {
		if s.Start != wantStarts[i] || s.Chars != wantChars[i] {
			t.Errorf("segment %d = [%d, %d) chars %d", i, s.Start, s.End, s.Chars)
		}
		if s.End-s.Start != s.Chars {
			t.Errorf("segment %d chars inconsistent", i)
		}
		total += s.Chars
	}
	if total != 7 {
		t.Errorf("segments cover %d runes, want 7", total)
	}

	if got := ix.Segments(4, 4); got != nil {
		t.Errorf("empty range produced %d segments", len(got))
	}
}

func TestInterruptedBlockSplits(t *testing.T) {
	ix := mustIndex(t, `<body><div>まえ<p>なか</p>あと</div></body>`)

	if len(ix.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(ix.Blocks))
	}
	wantKinds := []BlockKind{KindDivision, KindParagraph, KindDivision}
	for i, want := range wantKinds {
		if ix.Blocks[i].Kind != want {
			t.Errorf("block %d kind = %v, want %v", i, ix.Blocks[i].Kind, want)
		}
	}
	offset := 0
	for _, b := range ix.Blocks {
		if b.Start != offset {
			t.Fatalf("blocks no longer partition the text")
		}
		offset = b.End()
	}
}

func TestEmptyContent(t *testing.T) {
	ix := mustIndex(t, `<body></body>`)
	if ix.Total != 0 || len(ix.Runs) != 0 {
		t.Errorf("empty body indexed %d runes in %d runs", ix.Total, len(ix.Runs))
	}
	p := ix.PositionFor(0)
	if p.Run != nil {
		t.Error("PositionFor on empty index returned a run")
	}
}

func TestInterBlockWhitespaceSkipped(t *testing.T) {
	ix := mustIndex(t, "<body>\n  <p>一行目</p>\n  <p>二行目</p>\n</body>")
	if got := strings.Join(runTexts(ix), "|"); got != "一行目|二行目" {
		t.Errorf("indexed runs = %q", got)
	}
}

func runTexts(ix *Index) []string {
	out := make([]string, 0, len(ix.Runs))
	for _, r := range ix.Runs {
		out = append(out, r.Text)
	}
	return out
}
