package core

import "github.com/conduit-lang/conduit/internal/markdown/token"

// destinationParenDepthCap is spec.md §6's constant: resource destinations
// may nest at most this many levels of balanced, unescaped parentheses
// before the resource recognizer gives up.
const destinationParenDepthCap = 32

// Resource is the `(destination "title")` suffix, spec.md §4.2. It is a
// small named-state machine; each state corresponds 1:1 to a step in the
// spec so a reader can check one against the other directly.
var Resource = &Construct{
	Name:     "resource",
	Tokenize: resourceStart,
}

func resourceStart(e Effects, ok, nok State) State {
	return func() State {
		if e.Code() != '(' {
			return nok
		}
		e.Enter(token.TypeResource)
		e.Enter(token.TypeResourceMarker)
		e.Consume(e.Code())
		e.Exit(token.TypeResourceMarker)
		e.Whitespace()
		return resourceOpen(e, ok, nok)
	}
}

func resourceOpen(e Effects, ok, nok State) State {
	return func() State {
		if e.Code() == ')' {
			return resourceEnd(e, ok, nok)
		}
		if !e.Destination(destinationParenDepthCap) {
			return nok
		}
		return resourceDestinationAfter(e, ok, nok)
	}
}

func resourceDestinationAfter(e Effects, ok, nok State) State {
	return func() State {
		if isLineEndingOrSpace(e.Code()) {
			e.Whitespace()
			return resourceBetween(e, ok, nok)
		}
		return resourceEnd(e, ok, nok)
	}
}

func resourceBetween(e Effects, ok, nok State) State {
	return func() State {
		switch e.Code() {
		case '"', '\'', '(':
			if !e.Title() {
				return nok
			}
			e.Whitespace()
		}
		return resourceEnd(e, ok, nok)
	}
}

func resourceEnd(e Effects, ok, nok State) State {
	return func() State {
		if e.Code() != ')' {
			return nok
		}
		e.Enter(token.TypeResourceMarker)
		e.Consume(e.Code())
		e.Exit(token.TypeResourceMarker)
		e.Exit(token.TypeResource)
		return ok
	}
}

func isLineEndingOrSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
