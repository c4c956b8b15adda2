package content

import (
	"errors"
	"strings"
	"testing"
)

func TestCloneRangeWholeBlocks(t *testing.T) {
	ix := mustIndex(t, `<body><h2>序</h2><p>ある日の暮方の事である。</p></body>`)

	f, err := ix.CloneRange(0, ix.Total)
	if err != nil {
		t.Fatalf("CloneRange failed: %v", err)
	}
	if f.Chars() != ix.Total || f.Start() != 0 {
		t.Errorf("fragment covers [%d, +%d)", f.Start(), f.Chars())
	}
	if len(f.Blocks()) != 2 {
		t.Fatalf("got %d fragment blocks, want 2", len(f.Blocks()))
	}
	if f.Blocks()[0].Kind != KindHeading || f.Blocks()[0].Level != 2 {
		t.Errorf("first fragment block = %+v", f.Blocks()[0])
	}

	out, err := f.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "<h2>序</h2>") || !strings.Contains(out, "ある日の暮方の事である。") {
		t.Errorf("rendered fragment = %q", out)
	}
}

func TestCloneRangePartialBlock(t *testing.T) {
	ix := mustIndex(t, `<body><p>あいうえおかきくけこ</p></body>`)

	f, err := ix.CloneRange(3, 4)
	if err != nil {
		t.Fatalf("CloneRange failed: %v", err)
	}
	if got := f.Text(); got != "えおかき" {
		t.Errorf("Text = %q, want えおかき", got)
	}
	out, err := f.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "<p>えおかき</p>") {
		t.Errorf("rendered fragment = %q", out)
	}
}

func TestCloneRangeKeepsInlineMarkup(t *testing.T) {
	ix := mustIndex(t, `<body><p>これは<em>強調</em>された文。</p></body>`)

	f, err := ix.CloneRange(2, 4)
	if err != nil {
		t.Fatalf("CloneRange failed: %v", err)
	}
	out, err := f.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "<em>強調</em>") {
		t.Errorf("inline markup lost: %q", out)
	}
	if strings.Contains(out, "これ") || strings.Contains(out, "文。") {
		t.Errorf("uncovered text leaked: %q", out)
	}
}

func TestCloneRangeRubyCarriesAnnotation(t *testing.T) {
	ix := mustIndex(t, `<body><p>山の<ruby>麓<rt>ふもと</rt></ruby>の村</p></body>`)

	t.Run("covered base keeps annotation", func(t *testing.T) {
		f, err := ix.CloneRange(0, 3)
		if err != nil {
			t.Fatalf("CloneRange failed: %v", err)
		}
		out, err := f.Render()
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(out, "<rt>ふもと</rt>") {
			t.Errorf("annotation dropped: %q", out)
		}
		if !f.Blocks()[0].Ruby {
			t.Error("fragment block not flagged ruby")
		}
		if got := f.Text(); got != "山の麓" {
			t.Errorf("Text = %q, annotation must not leak into base text", got)
		}
	})

	t.Run("uncovered base drops annotation", func(t *testing.T) {
		f, err := ix.CloneRange(3, 2)
		if err != nil {
			t.Fatalf("CloneRange failed: %v", err)
		}
		out, err := f.Render()
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if strings.Contains(out, "ふもと") || strings.Contains(out, "麓") {
			t.Errorf("uncovered ruby leaked: %q", out)
		}
	})
}

func TestCloneRangeMultiPairRuby(t *testing.T) {
	ix := mustIndex(t, `<body><p><ruby>東<rt>とう</rt>京<rt>きょう</rt></ruby>へ行く</p></body>`)

	f, err := ix.CloneRange(0, 1)
	if err != nil {
		t.Fatalf("CloneRange failed: %v", err)
	}
	out, err := f.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "<rt>とう</rt>") {
		t.Errorf("first pair's annotation dropped: %q", out)
	}
	if strings.Contains(out, "きょう") {
		t.Errorf("second pair's annotation leaked: %q", out)
	}
}

func TestCloneRangeOutOfBounds(t *testing.T) {
	ix := mustIndex(t, `<body><p>みじかい</p></body>`)

	if _, err := ix.CloneRange(0, ix.Total+1); !errors.Is(err, ErrRangeOutOfBounds) {
		t.Errorf("got %v, want ErrRangeOutOfBounds", err)
	}
	if _, err := ix.CloneRange(-1, 2); !errors.Is(err, ErrRangeOutOfBounds) {
		t.Errorf("got %v, want ErrRangeOutOfBounds", err)
	}
	if f, err := ix.CloneRange(2, 0); err != nil || !f.Empty() {
		t.Errorf("zero-length clone: %v, empty=%v", err, f.Empty())
	}
}

func TestMarkContinued(t *testing.T) {
	ix := mustIndex(t, `<body><p>前半</p><p>後半はつづく</p></body>`)

	f, err := ix.CloneRange(0, 4)
	if err != nil {
		t.Fatalf("CloneRange failed: %v", err)
	}
	f.MarkContinued(true)

	out, err := f.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, `data-continued="true"`) {
		t.Errorf("continuation attribute missing: %q", out)
	}
	if !strings.Contains(out, `data-short-line="true"`) {
		t.Errorf("short line attribute missing: %q", out)
	}
	if strings.Contains(strings.SplitN(out, "</p>", 2)[0], "data-continued") {
		t.Errorf("attribute landed on the wrong block: %q", out)
	}
}

func TestCloneRangeNestedBlocks(t *testing.T) {
	ix := mustIndex(t, `<body><blockquote><p>引用の中</p></blockquote><p>外の文</p></body>`)

	f, err := ix.CloneRange(0, ix.Total)
	if err != nil {
		t.Fatalf("CloneRange failed: %v", err)
	}
	out, err := f.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Count(out, "引用の中") != 1 {
		t.Errorf("nested block text duplicated or lost: %q", out)
	}
}
