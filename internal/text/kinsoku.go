// Package text classifies characters for Japanese line composition:
// kinsoku shori prohibition classes and East Asian Width units.
package text

// Line composition prohibition classes, JIS X 4051 flavor. A character
// prohibited at line start must not begin a line or page; a character
// prohibited at line end must not finish one.
const (
	smallKana = "ぁぃぅぇぉっゃゅょゎゕゖァィゥェォッャュョヮヵヶ"

	closers = "、。，．・：；？！‼⁇⁈⁉゛゜ヽヾゝゞ々〻" +
		"）〕］｝〉》」』】〙〗’”" +
		"ー～…‥" +
		",.:;?!)]}" +
		"｣､｡･ｰﾞﾟ"

	openers = "（〔［｛〈《「『【〘〖‘“([{｢"
)

var (
	lineStartProhibited = map[rune]bool{}
	lineEndProhibited   = map[rune]bool{}
)

func init() {
	for _, r := range smallKana {
		lineStartProhibited[r] = true
	}
	for _, r := range closers {
		lineStartProhibited[r] = true
	}
	for _, r := range openers {
		lineEndProhibited[r] = true
	}
}

// ProhibitedAtLineStart reports whether r must not begin a line.
func ProhibitedAtLineStart(r rune) bool { return lineStartProhibited[r] }

// ProhibitedAtLineEnd reports whether r must not end a line.
func ProhibitedAtLineEnd(r rune) bool { return lineEndProhibited[r] }
