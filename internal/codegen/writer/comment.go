package writer

import (
	"iter"
	"strings"
)

// DefaultCommentWidth is the column budget used for block comments.
const DefaultCommentWidth = 80

// Wrap breaks text into lines of at most width runes. Literal newlines in
// text are hard paragraph breaks. Within a paragraph lines are filled
// greedily and broken at the last space that keeps the line within width;
// a word longer than width is split exactly at width.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var out []string
	for _, para := range strings.Split(text, "\n") {
		rest := []rune(para)
		for {
			if len(rest) <= width {
				out = append(out, strings.TrimRight(string(rest), " "))
				break
			}

			cut := lastSpace(rest[:width+1])
			if cut <= 0 {
				out = append(out, string(rest[:width]))
				rest = rest[width:]
				continue
			}
			out = append(out, strings.TrimRight(string(rest[:cut]), " "))
			rest = rest[cut+1:]
		}
	}
	return out
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}

// CommentCStyle renders text as a C-style block comment. Every line starts
// with linePrefix and no line is wider than maxWidth, unless the prefix
// alone leaves less than one column for text.
//
//	/**
//	 * text
//	 */
func CommentCStyle(text, linePrefix string, maxWidth int) iter.Seq[string] {
	if maxWidth <= 0 {
		maxWidth = DefaultCommentWidth
	}
	body := linePrefix + " * "
	budget := maxWidth - len([]rune(body))

	return func(yield func(string) bool) {
		if !yield(linePrefix + "/**") {
			return
		}
		for _, line := range Wrap(strings.TrimRight(text, " \n"), budget) {
			if !yield(strings.TrimRight(body+line, " ")) {
				return
			}
		}
		yield(linePrefix + " */")
	}
}
