// Package tokenizer is the host that drives internal/markdown/core over a
// real document: the character-by-character scanner, the `[`/`![` opener
// recognizers, the whitespace/destination/title/label factories the core
// treats as black boxes, and the definition pre-pass. None of this is
// part of spec.md's core — it exists so the core has something real to
// run against inside Conduit.
package tokenizer

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/conduit/internal/markdown/core"
	"github.com/conduit-lang/conduit/internal/markdown/event"
	"github.com/conduit-lang/conduit/internal/markdown/token"
)

// Tokenizer scans a document and drives the label-end construct, the way
// compiler/lexer.Lexer scans Conduit source rune by rune.
type Tokenizer struct {
	source []rune
	pos    int
	point  token.Point

	events    event.Events
	openStack []*token.Token
	defs      *DefinitionSet

	linkDepthCap int
	log          *zap.SugaredLogger
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithLinkDepthCap overrides the balanced-parenthesis depth cap used by
// the resource destination factory (spec.md §6, default 32).
func WithLinkDepthCap(n int) Option {
	return func(t *Tokenizer) {
		if n > 0 {
			t.linkDepthCap = n
		}
	}
}

// WithLogger attaches debug tracing. A nil logger (the zero value) is
// safe to use directly.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(t *Tokenizer) { t.log = l }
}

// New creates a Tokenizer over source, with definitions already harvested
// by HarvestDefinitions.
func New(source string, defs *DefinitionSet, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		source:       []rune(source),
		point:        token.Point{Offset: 0, Line: 1, Column: 1},
		defs:         defs,
		linkDepthCap: 32,
		log:          zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize runs the full document through the scanner and returns the
// fully resolved event log (resolveAll already applied).
func Tokenize(source string, opts ...Option) event.Events {
	defs := HarvestDefinitions(source)
	t := New(source, defs, opts...)
	return t.Run()
}

// Run drives the document to completion.
func (t *Tokenizer) Run() event.Events {
	for t.pos < len(t.source) {
		c := t.Code()
		switch {
		case c == '[':
			t.recognizeOpener(token.TypeLabelLink, 0)
		case c == '!' && t.CodeAt(1) == '[':
			t.recognizeOpener(token.TypeLabelImage, 1)
		case c == ']':
			t.handleLabelEnd()
		default:
			t.consumeDataRun()
		}
	}
	t.events = core.LabelEnd.ResolveAll(t.events)
	return t.events
}

// handleLabelEnd drives core.LabelEnd for a single `]`. Unlike the suffix
// recognizers it invokes internally, label-end itself is never rolled
// back by an Attempt: a failed match either already consumed the `]`
// (and left a balanced opener behind for resolveAll to clean up later) or
// never touched the cursor at all, in which case the normal data-run path
// picks the `]` up as a literal character on the next iteration.
func (t *Tokenizer) handleLabelEnd() {
	before := t.pos
	var succeeded bool
	ok := core.State(func() core.State { succeeded = true; return nil })
	nok := core.State(func() core.State { succeeded = false; return nil })

	state := core.LabelEnd.Tokenize(t, ok, nok)
	for state != nil {
		state = state()
	}

	switch {
	case succeeded:
		t.log.Debugw("label resolved", "offset", before)
		t.events = core.LabelEnd.ResolveTo(t.events, t.context())
	case t.pos != before:
		t.log.Debugw("label balanced", "offset", before)
	default:
		// No opener was ever found (or it was inactive and retired
		// without consuming anything): treat this `]` as a single
		// literal character, not the start of a new construct.
		t.Enter(token.TypeData)
		t.Consume(t.Code())
		t.Exit(token.TypeData)
	}
}

func (t *Tokenizer) context() *event.Context {
	return &event.Context{Source: t.source}
}

// recognizeOpener emits the self-closed labelLink/labelImage opener
// construct (spec.md §4.5's "opener self-closes immediately" shape):
// markerCount extra marker pairs precede the `[` for an image (the `!`).
func (t *Tokenizer) recognizeOpener(openerType token.TokenType, bangLen int) {
	t.Enter(openerType)
	if bangLen > 0 {
		t.Enter(token.TypeLabelMarker)
		t.Consume(t.Code())
		t.Exit(token.TypeLabelMarker)
	}
	t.Enter(token.TypeLabelMarker)
	t.Consume(t.Code())
	t.Exit(token.TypeLabelMarker)
	t.Exit(openerType)
}

func (t *Tokenizer) consumeDataRun() {
	t.Enter(token.TypeData)
	for t.pos < len(t.source) {
		c := t.Code()
		if c == '[' || c == ']' || (c == '!' && t.CodeAt(1) == '[') {
			break
		}
		t.Consume(c)
	}
	t.Exit(token.TypeData)
}

// --- core.Effects ---

func (t *Tokenizer) Enter(typ token.TokenType) {
	tok := &token.Token{Type: typ, Start: t.point}
	t.events = append(t.events, event.Event{Kind: event.Enter, Token: tok})
	t.openStack = append(t.openStack, tok)
}

func (t *Tokenizer) Exit(typ token.TokenType) {
	n := len(t.openStack)
	if n == 0 || t.openStack[n-1].Type != typ {
		panic("markdown/tokenizer: unbalanced Exit(" + string(typ) + ")")
	}
	tok := t.openStack[n-1]
	t.openStack = t.openStack[:n-1]
	tok.End = t.point
	t.events = append(t.events, event.Event{Kind: event.Exit, Token: tok})
}

func (t *Tokenizer) Consume(code rune) {
	if t.pos >= len(t.source) || t.source[t.pos] != code {
		panic("markdown/tokenizer: Consume code mismatch")
	}
	t.advance()
}

func (t *Tokenizer) advance() {
	if t.source[t.pos] == '\n' {
		t.point.Line++
		t.point.Column = 1
	} else {
		t.point.Column++
	}
	t.pos++
	t.point.Offset = t.pos
}

func (t *Tokenizer) Events() event.Events { return t.events }
func (t *Tokenizer) Now() token.Point     { return t.point }

func (t *Tokenizer) Code() rune  { return t.CodeAt(0) }
func (t *Tokenizer) CodeAt(offset int) rune {
	i := t.pos + offset
	if i < 0 || i >= len(t.source) {
		return core.CodeEOF
	}
	return t.source[i]
}

func (t *Tokenizer) SliceSerialize(start, end token.Point) string {
	if start.Offset < 0 || end.Offset > len(t.source) || start.Offset > end.Offset {
		return ""
	}
	return string(t.source[start.Offset:end.Offset])
}

func (t *Tokenizer) Defined(id string) bool {
	return t.defs.Has(id)
}

type checkpoint struct {
	pos       int
	point     token.Point
	eventsLen int
	stackLen  int
}

func (t *Tokenizer) checkpoint() checkpoint {
	return checkpoint{pos: t.pos, point: t.point, eventsLen: len(t.events), stackLen: len(t.openStack)}
}

func (t *Tokenizer) restore(cp checkpoint) {
	t.pos = cp.pos
	t.point = cp.point
	t.events = t.events[:cp.eventsLen]
	t.openStack = t.openStack[:cp.stackLen]
}

// Attempt runs construct in a checkpointed sub-tokenization per
// core.Effects: success keeps the emitted events, failure rolls them and
// the cursor back before handing control to nok.
func (t *Tokenizer) Attempt(construct *core.Construct, ok, nok core.State) core.State {
	return func() core.State {
		cp := t.checkpoint()
		var succeeded bool
		innerOk := core.State(func() core.State { succeeded = true; return nil })
		innerNok := core.State(func() core.State { succeeded = false; return nil })

		state := construct.Tokenize(t, innerOk, innerNok)
		for state != nil {
			state = state()
		}

		if succeeded {
			t.log.Debugw("attempt succeeded", "construct", construct.Name)
			return ok
		}
		t.restore(cp)
		t.log.Debugw("attempt failed", "construct", construct.Name)
		return nok
	}
}
