package core

import (
	"github.com/conduit-lang/conduit/internal/markdown/event"
	"github.com/conduit-lang/conduit/internal/markdown/token"
)

// resolveTo is spec.md §4.5. It runs once a labelEnd has succeeded (via
// some suffix recognizer's ok) and reshapes the tail of the event log
// into a link/image subtree.
//
// Both opener shapes self-close immediately when the (external) opener
// recognizer emits them, so "open" is never a dangling enter: a link
// opener is exactly 4 events (enter labelLink, enter labelMarker, exit
// labelMarker, exit labelLink) and an image opener is exactly 6 (the
// same, with an extra marker pair around the leading `!`). Matching is
// tracked purely through the opener token's OpenerState, never through
// whether its own exit event has been emitted.
func resolveTo(events event.Events, ctx *event.Context) event.Events {
	close := events.LastIndex(func(ev event.Event) bool {
		return ev.Kind == event.Exit && ev.Token.Type == token.TypeLabelEnd
	})
	if close == -1 {
		panic("markdown/core: resolveTo invoked with no pending labelEnd in the event log")
	}

	open := -1
	offset := 0
	openerIsLink := false

	// Walk all the way back to the start of the log: the nearest
	// unbalanced opener becomes `open`, and — once found, only if it is a
	// link — every other still-open labelLink encountered earlier (inside
	// this span or further back) is retired to Inactive. A link may never
	// nest inside another link; an image may nest inside either.
	for i := close - 1; i >= 0; i-- {
		ev := events[i]
		if ev.Kind != event.Enter {
			continue
		}
		switch ev.Token.Type {
		case token.TypeLink, token.TypeImage:
			if open == -1 {
				panic("markdown/core: resolveTo walked into an already-resolved group before finding its opener")
			}
		case token.TypeLabelImage:
			if open == -1 && !ev.Token.IsBalanced() {
				open = i
				offset = 2
			}
		case token.TypeLabelLink:
			if open == -1 {
				if ev.Token.IsInactive() {
					panic("markdown/core: resolveTo walked into an inactive labelLink before finding its opener")
				}
				if !ev.Token.IsBalanced() {
					open = i
					offset = 0
					openerIsLink = true
				}
				continue
			}
			if openerIsLink && ev.Token.State == token.Open {
				ev.Token.State = token.Inactive
			}
		}
	}
	if open == -1 {
		panic("markdown/core: resolveTo could not find a matching opener for its labelEnd")
	}

	groupType := token.TypeImage
	if openerIsLink {
		groupType = token.TypeLink
	}

	last := len(events) - 1
	group := &token.Token{Type: groupType, Start: events[open].Token.Start, End: events[last].Token.End}
	label := &token.Token{Type: token.TypeLabel, Start: events[open].Token.Start, End: events[close].Token.End}
	text := &token.Token{
		Type:  token.TypeLabelText,
		Start: events[open+offset+2].Token.End,
		End:   events[close-2].Token.Start,
	}

	inner := append(event.Events{}, events[open+offset+4:close-3]...)

	replacement := make(event.Events, 0, len(events)-open+8)
	replacement = append(replacement, event.Event{Kind: event.Enter, Token: group})
	replacement = append(replacement, event.Event{Kind: event.Enter, Token: label})
	replacement = append(replacement, events[open+1:open+offset+3]...)
	replacement = append(replacement, event.Event{Kind: event.Enter, Token: text})
	replacement = append(replacement, resolveAll(inner)...)
	replacement = append(replacement, event.Event{Kind: event.Exit, Token: text})
	replacement = append(replacement, events[close-2], events[close-1])
	replacement = append(replacement, event.Event{Kind: event.Exit, Token: label})
	replacement = append(replacement, events[close+1:]...)
	replacement = append(replacement, event.Event{Kind: event.Exit, Token: group})

	return events.Splice(open, len(events), replacement)
}

// resolveAll is spec.md §4.6: demote any opener/closer that never
// resolved into a single data token spanning its literal text.
func resolveAll(events event.Events) event.Events {
	out := events.Clone()
	for i := 0; i < len(out); i++ {
		ev := out[i]
		if ev.Kind != event.Enter {
			continue
		}
		switch ev.Token.Type {
		case token.TypeLabelImage:
			ev.Token.Type = token.TypeData
			out = out.Splice(i+1, i+5, nil)
		case token.TypeLabelLink, token.TypeLabelEnd:
			ev.Token.Type = token.TypeData
			out = out.Splice(i+1, i+3, nil)
		}
	}
	return out
}
