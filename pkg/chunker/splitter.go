package chunker

import "strings"

// DefaultBudget is the character budget for a single fragment.
const DefaultBudget = 500

// Split breaks a long text into fragments using paragraph accumulation.
// Consecutive paragraphs (separated by a blank line) are concatenated into one
// fragment until adding the next paragraph would exceed the budget, then a new
// fragment starts. A single paragraph larger than the budget is never split
// mid-sentence; it becomes its own oversized fragment.
func Split(text string, budget int) []string {
	if budget <= 0 {
		budget = DefaultBudget
	}

	var paragraphs []string
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var fragments []string
	current := ""
	for _, para := range paragraphs {
		if current == "" {
			current = para
			continue
		}
		// +2 accounts for the blank-line separator that re-joins fragments
		if len(current)+2+len(para) > budget {
			fragments = append(fragments, current)
			current = para
			continue
		}
		current = current + "\n\n" + para
	}
	if current != "" {
		fragments = append(fragments, current)
	}

	return fragments
}
