package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAccumulatesParagraphs(t *testing.T) {
	p1 := strings.Repeat("a", 200)
	p2 := strings.Repeat("b", 200)
	p3 := strings.Repeat("c", 200)
	text := p1 + "\n\n" + p2 + "\n\n" + p3

	fragments := Split(text, 500)

	assert.Len(t, fragments, 2)
	assert.Equal(t, p1+"\n\n"+p2, fragments[0])
	assert.Equal(t, p3, fragments[1])
}

func TestSplitRejoinReproducesText(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"single paragraph", "just one paragraph"},
		{"several short", "one\n\ntwo\n\nthree\n\nfour"},
		{"windows line endings", "one\r\n\r\ntwo\r\n\r\nthree"},
		{"extra blank lines", "one\n\n\n\ntwo\n\n  \n\nthree"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragments := Split(tt.text, 40)

			// Re-joining fragments in order reproduces the text up to
			// whitespace normalization at paragraph boundaries.
			var wantParts []string
			for _, p := range strings.Split(strings.ReplaceAll(tt.text, "\r\n", "\n"), "\n\n") {
				if p = strings.TrimSpace(p); p != "" {
					wantParts = append(wantParts, p)
				}
			}
			assert.Equal(t, strings.Join(wantParts, "\n\n"), strings.Join(fragments, "\n\n"))
		})
	}
}

func TestSplitBudget(t *testing.T) {
	text := "aaaa\n\nbbbb\n\ncccc\n\ndddd"
	for _, f := range Split(text, 10) {
		assert.LessOrEqual(t, len(f), 10)
	}
}

func TestSplitOversizedParagraph(t *testing.T) {
	big := strings.Repeat("x", 900)
	text := "intro\n\n" + big + "\n\noutro"

	fragments := Split(text, 500)

	// The oversized paragraph is never cut; it stands alone.
	assert.Len(t, fragments, 3)
	assert.Equal(t, "intro", fragments[0])
	assert.Equal(t, big, fragments[1])
	assert.Equal(t, "outro", fragments[2])
}

func TestSplitEmpty(t *testing.T) {
	assert.Empty(t, Split("", 500))
	assert.Empty(t, Split("\n\n\n\n", 500))
}

func TestSplitDefaultBudget(t *testing.T) {
	p1 := strings.Repeat("a", 200)
	p2 := strings.Repeat("b", 200)
	p3 := strings.Repeat("c", 200)

	// budget <= 0 falls back to the default of 500
	fragments := Split(p1+"\n\n"+p2+"\n\n"+p3, 0)
	assert.Len(t, fragments, 2)
}
