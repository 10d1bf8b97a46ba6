package llmagent

import (
	"fmt"
	"strings"
	"time"
)

// EntryKind discriminates between transcript entry types.
type EntryKind string

const (
	EntryDecision   EntryKind = "decision"
	EntryOutcome    EntryKind = "outcome"
	EntryReflection EntryKind = "reflection"
)

// Entry is a single item in a strategist's transcript.
type Entry struct {
	Kind      EntryKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	IsError   bool      `json:"is_error,omitempty"`
}

// Transcript is the strategist's memory of one pursuit: every decision
// the model made, every action outcome, and every reflection, in order.
// It is rendered into the tail of each planning prompt.
type Transcript struct {
	entries  []Entry
	maxChars int
}

// DefaultEntryCharLimit bounds each rendered entry before it is added
// to a prompt.
const DefaultEntryCharLimit = 2000

// NewTranscript creates an empty transcript. maxChars bounds each
// entry's rendered text; 0 uses DefaultEntryCharLimit.
func NewTranscript(maxChars int) *Transcript {
	if maxChars <= 0 {
		maxChars = DefaultEntryCharLimit
	}
	return &Transcript{maxChars: maxChars}
}

// Append records an entry, truncating oversized text.
func (t *Transcript) Append(kind EntryKind, text string, isError bool) {
	t.entries = append(t.entries, Entry{
		Kind:      kind,
		Timestamp: time.Now(),
		Text:      truncateMiddle(text, t.maxChars),
		IsError:   isError,
	})
}

// Entries returns a copy of the transcript entries.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int { return len(t.entries) }

// ConsecutiveErrors returns how many of the most recent outcome entries
// failed, stopping at the first successful one.
func (t *Transcript) ConsecutiveErrors() int {
	count := 0
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Kind != EntryOutcome {
			continue
		}
		if !t.entries[i].IsError {
			break
		}
		count++
	}
	return count
}

// Render formats the last n entries for inclusion in a prompt. n <= 0
// renders everything.
func (t *Transcript) Render(n int) string {
	entries := t.entries
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	if len(entries) == 0 {
		return "(no history yet)"
	}

	var sb strings.Builder
	for _, entry := range entries {
		label := string(entry.Kind)
		if entry.IsError {
			label += " (failed)"
		}
		fmt.Fprintf(&sb, "[%s] %s\n", label, entry.Text)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// truncateMiddle keeps the head and tail of oversized text with an
// elision marker, so both the start of an output and its conclusion
// survive into the prompt.
func truncateMiddle(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	half := maxChars / 2
	removed := len(text) - maxChars
	return text[:half] +
		fmt.Sprintf("\n[... %d characters omitted ...]\n", removed) +
		text[len(text)-half:]
}
