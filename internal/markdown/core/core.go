// Package core implements the label/image closing construct of a
// CommonMark-style tokenizer: recognizing a `]` terminator, looking back
// for a matching `[`/`![` opener, attempting resource / full-reference /
// collapsed-reference / shortcut suffixes in priority order, and rewriting
// the event log on success (resolveTo) or at end of document (resolveAll).
//
// This package never drives a document itself and never decides what a
// `[`/`![` opener looks like, how destinations or titles are scanned, or
// how the resulting event log becomes HTML — those are the host
// tokenizer's job, reached only through the Effects interface below.
package core

import (
	"github.com/conduit-lang/conduit/internal/markdown/event"
	"github.com/conduit-lang/conduit/internal/markdown/token"
)

// State is a single step of a recognizer's state machine. Calling it runs
// one step of work and returns the next step, or nil when the recognizer
// (or the attempt it belongs to) has nothing left to do.
type State func() State

// Construct bundles the three operations spec.md §6 exposes: streaming
// recognition, and the two event-log rewrite passes. ResolveTo/ResolveAll
// are nil for constructs that never get resolved on their own (the suffix
// recognizers are only ever reached through LabelEnd's dispatch).
type Construct struct {
	Name       string
	Tokenize   func(e Effects, ok, nok State) State
	ResolveTo  func(events event.Events, ctx *event.Context) event.Events
	ResolveAll func(events event.Events) event.Events
}

// CodeEOF is the sentinel Effects.Code/CodeAt return past the end of input.
const CodeEOF rune = -1

// Effects is everything the core needs from its host: position and event
// emission, backtracking via Attempt, and the external collaborators
// (definition lookups and the whitespace/destination/title/label
// factories) it treats as black boxes.
type Effects interface {
	// Enter starts a new token of the given type at the current position.
	Enter(t token.TokenType)
	// Exit closes the innermost open token of the given type at the
	// current position.
	Exit(t token.TokenType)
	// Consume appends the current code point to the innermost open token
	// and advances the cursor past it.
	Consume(code rune)

	// Attempt runs construct in a checkpointed sub-tokenization: on
	// success the emitted events are kept and ok becomes the next state;
	// on failure the event log and cursor are rolled back to the
	// checkpoint and nok becomes the next state.
	Attempt(construct *Construct, ok, nok State) State

	// Events returns the event log accumulated so far.
	Events() event.Events

	// Now returns the current position.
	Now() token.Point
	// Code returns the code point at the current position without
	// consuming it, or CodeEOF at end of input.
	Code() rune
	// CodeAt returns the code point `offset` positions ahead of the
	// current one (0 == Code()), or CodeEOF past the end of input.
	CodeAt(offset int) rune

	// SliceSerialize returns the literal source text of a span.
	SliceSerialize(start, end token.Point) string

	// Defined reports whether id (already normalized) is a known
	// reference definition.
	Defined(id string) bool

	// Whitespace consumes optional CommonMark inline whitespace
	// (spaces/tabs/a single line ending) at the current position.
	Whitespace()
	// Destination attempts to scan a resource destination, honoring the
	// balanced-parenthesis depth cap. Reports success.
	Destination(maxParenDepth int) bool
	// Title attempts to scan a resource title (quoted or
	// parenthesized). Reports success.
	Title() bool
	// Label attempts to scan a `[...]` label, tagging the produced
	// tokens with group/marker/string types. Reports the normalized
	// identifier and success.
	Label(group, marker, str token.TokenType) (id string, ok bool)
}

// run drives a state chain to completion. Used by every recognizer that
// needs to run a short internal sequence (e.g. LabelEnd's own marker
// emission) without involving Effects.Attempt's checkpointing.
func run(s State) {
	for s != nil {
		s = s()
	}
}
