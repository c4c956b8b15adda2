package text

import "testing"

func TestProhibitedAtLineStart(t *testing.T) {
	for _, r := range "、。？！ー」』）ゃっ々…ぁ" {
		if !ProhibitedAtLineStart(r) {
			t.Errorf("%q should be prohibited at line start", r)
		}
	}
	for _, r := range "あ漢ア一「（Aa1" {
		if ProhibitedAtLineStart(r) {
			t.Errorf("%q should be allowed at line start", r)
		}
	}
}

func TestProhibitedAtLineEnd(t *testing.T) {
	for _, r := range "「『（〔【《“" {
		if !ProhibitedAtLineEnd(r) {
			t.Errorf("%q should be prohibited at line end", r)
		}
	}
	for _, r := range "あ。」？ーん" {
		if ProhibitedAtLineEnd(r) {
			t.Errorf("%q should be allowed at line end", r)
		}
	}
}

func TestClassesDisjoint(t *testing.T) {
	for r := range lineStartProhibited {
		if lineEndProhibited[r] {
			t.Errorf("%q is in both prohibition classes", r)
		}
	}
}

func TestUnitWidth(t *testing.T) {
	cases := []struct {
		r    rune
		want float64
	}{
		{'あ', 1.0},
		{'漢', 1.0},
		{'。', 1.0},
		{'Ａ', 1.0},
		{'A', 0.5},
		{'1', 0.5},
		{' ', 0.5},
		{'ｱ', 0.5},
		{'\n', 0},
	}
	for _, c := range cases {
		if got := UnitWidth(c.r); got != c.want {
			t.Errorf("UnitWidth(%q) = %v, want %v", c.r, got, c.want)
		}
	}
}

func TestStringUnits(t *testing.T) {
	if got := StringUnits("あいう"); got != 3.0 {
		t.Errorf("StringUnits(あいう) = %v, want 3", got)
	}
	if got := StringUnits("ab"); got != 1.0 {
		t.Errorf("StringUnits(ab) = %v, want 1", got)
	}
	if got := StringUnits(""); got != 0 {
		t.Errorf("StringUnits(empty) = %v, want 0", got)
	}
}
