// Package event implements the append-only event log the markdown
// tokenizer core reads and rewrites: an ordered sequence of
// (kind, token, context) triples, with the backward-scan and splice
// helpers core.ResolveTo and core.ResolveAll need.
package event

import "github.com/conduit-lang/conduit/internal/markdown/token"

// Kind distinguishes the two halves of a token's lifetime in the log.
type Kind int

const (
	Enter Kind = iota
	Exit
)

func (k Kind) String() string {
	if k == Enter {
		return "enter"
	}
	return "exit"
}

// Context is a read handle into parser state available to resolvers.
// It is intentionally tiny: the core only ever needs to re-run the
// inside-span resolver and slice the original source.
type Context struct {
	// Source is the full document text the tokenizer ran over.
	Source []rune
}

// SliceSerialize returns the literal source text between two points.
func (c *Context) SliceSerialize(start, end token.Point) string {
	if start.Offset < 0 || end.Offset > len(c.Source) || start.Offset > end.Offset {
		return ""
	}
	return string(c.Source[start.Offset:end.Offset])
}

// Event is one entry in the tokenizer's event log.
type Event struct {
	Kind  Kind
	Token *token.Token
}

// Events is the ordered event log. A slice, not a linked structure: the
// core's rewrites are contiguous-range splices plus backward scans, both
// of which a slice serves directly (spec.md §9).
type Events []Event

// Clone returns a shallow copy of the slice header (not the underlying
// Token pointers — those are intentionally shared so that flag writes on
// an opener are visible from both its enter and exit event).
func (e Events) Clone() Events {
	out := make(Events, len(e))
	copy(out, e)
	return out
}

// LastIndex returns the index of the last event satisfying pred, or -1.
func (e Events) LastIndex(pred func(Event) bool) int {
	for i := len(e) - 1; i >= 0; i-- {
		if pred(e[i]) {
			return i
		}
	}
	return -1
}

// NearestUnbalancedOpener scans backwards for the nearest enter event whose
// token is a labelImage/labelLink opener that has not been balanced away
// (spec.md §4.1 step 1). It does not filter on Inactive: an inactive
// opener can still be found and will be rejected by the caller per step 2,
// which needs to observe it (to immediately balance it) rather than skip
// past it to an older opener.
func (e Events) NearestUnbalancedOpener() int {
	return e.LastIndex(func(ev Event) bool {
		return ev.Kind == Enter && ev.Token.IsOpener() && !ev.Token.IsBalanced()
	})
}

// Splice replaces events[start:end] with replacement and returns the new
// log. end is exclusive.
func (e Events) Splice(start, end int, replacement Events) Events {
	out := make(Events, 0, len(e)-(end-start)+len(replacement))
	out = append(out, e[:start]...)
	out = append(out, replacement...)
	out = append(out, e[end:]...)
	return out
}
