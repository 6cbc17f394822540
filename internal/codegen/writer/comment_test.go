package writer

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan for comment formatting:
// 1. Short text fits on one line
// 2. Greedy fill breaks at the last space within the budget
// 3. Words longer than the budget are split exactly at the budget
// 4. Literal newlines are paragraph breaks
// 5. Randomized: no line exceeds the width and no text is lost

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "fits",
			text:  "Does a thing.",
			width: 20,
			want:  []string{"Does a thing."},
		},
		{
			name:  "break on last space",
			text:  "the quick brown fox jumps",
			width: 10,
			want:  []string{"the quick", "brown fox", "jumps"},
		},
		{
			name:  "space exactly at budget",
			text:  "abcde fghij",
			width: 5,
			want:  []string{"abcde", "fghij"},
		},
		{
			name:  "no space before budget",
			text:  "abcdefghijkl mn",
			width: 5,
			want:  []string{"abcde", "fghij", "kl mn"},
		},
		{
			name:  "paragraph break",
			text:  "Does a thing.\nSee also X.",
			width: 80,
			want:  []string{"Does a thing.", "See also X."},
		},
		{
			name:  "empty paragraph",
			text:  "a\n\nb",
			width: 80,
			want:  []string{"a", "", "b"},
		},
		{
			name:  "zero width clamps to one",
			text:  "ab",
			width: 0,
			want:  []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.text, tt.width))
		})
	}
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func TestWrap_PropertyBased(t *testing.T) {
	// Test: Wrapped lines respect the width and reproduce the text
	rng := rand.New(rand.NewSource(7))
	words := []string{"a", "schema", "volume", "x", "accountID", "supercalifragilisticexpialidocious", "is", "the", "\n"}

	for i := 0; i < 200; i++ {
		t.Run(fmt.Sprintf("random_%d", i), func(t *testing.T) {
			var parts []string
			for n := rng.Intn(40); n >= 0; n-- {
				parts = append(parts, words[rng.Intn(len(words))])
			}
			text := strings.Join(parts, " ")
			width := 1 + rng.Intn(30)

			lines := Wrap(text, width)
			for _, line := range lines {
				assert.LessOrEqual(t, utf8.RuneCountInString(line), width, "line %q", line)
			}
			assert.Equal(t, stripSpace(text), stripSpace(strings.Join(lines, " ")))
		})
	}
}

func TestCommentCStyle(t *testing.T) {
	got := slices.Collect(CommentCStyle("Returns the origin.\nNever fails.", "    ", 80))
	assert.Equal(t, []string{
		"    /**",
		"     * Returns the origin.",
		"     * Never fails.",
		"     */",
	}, got)
}

func TestCommentCStyle_Width(t *testing.T) {
	// Test: No comment line exceeds the column budget, prefix included
	text := strings.Repeat("lorem ipsum dolor sit amet ", 20)
	lines := slices.Collect(CommentCStyle(text, "        ", 40))
	require.Greater(t, len(lines), 3)

	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 40, "line %q", line)
		assert.True(t, strings.HasPrefix(line, "        "))
	}
	assert.Equal(t, "        /**", lines[0])
	assert.Equal(t, "         */", lines[len(lines)-1])
}

func TestCommentCStyle_TrailingNewlineDropped(t *testing.T) {
	got := slices.Collect(CommentCStyle("Point in space. \n", "", 0))
	assert.Equal(t, []string{"/**", " * Point in space.", " */"}, got)
}
