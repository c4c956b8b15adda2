package measure

import (
	"errors"
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
)

func TestNewShapedRejectsBadFont(t *testing.T) {
	if _, err := NewShaped(nil, nil); !errors.Is(err, ErrNoFont) {
		t.Errorf("nil font data: got %v, want ErrNoFont", err)
	}
	if _, err := NewShaped([]byte("not a font"), nil); err == nil {
		t.Error("garbage font data accepted")
	}
}

func TestSegmentByScript(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []language.Script
	}{
		{"pure hiragana", "あいうえお", []language.Script{language.Hiragana}},
		{"kanji then kana", "漢字かな", []language.Script{language.Han, language.Hiragana}},
		{"latin embedded", "これはGoです", []language.Script{language.Hiragana, language.Latin, language.Hiragana}},
		{"punctuation inherits", "です。そして", []language.Script{language.Hiragana}},
		{"only punctuation", "。。。", []language.Script{language.Latin}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			runs := segmentByScript([]rune(c.text))
			if len(runs) != len(c.want) {
				t.Fatalf("got %d runs, want %d", len(runs), len(c.want))
			}
			prev := 0
			for i, run := range runs {
				if run.script != c.want[i] {
					t.Errorf("run %d script = %v, want %v", i, run.script, c.want[i])
				}
				if run.start != prev {
					t.Errorf("run %d starts at %d, want %d", i, run.start, prev)
				}
				prev = run.end
			}
			if prev != len([]rune(c.text)) {
				t.Errorf("runs end at %d, want %d", prev, len([]rune(c.text)))
			}
		})
	}
}

func TestScriptDirection(t *testing.T) {
	if d := scriptDirection(language.Arabic); d != di.DirectionRTL {
		t.Errorf("Arabic direction = %v", d)
	}
	if d := scriptDirection(language.Han); d != di.DirectionLTR {
		t.Errorf("Han direction = %v", d)
	}
}
