package core

import "github.com/conduit-lang/conduit/internal/markdown/token"

// FullReference is the `[label]` suffix, spec.md §4.3: delegate to the
// label factory, then require the resulting identifier to be a known
// definition.
var FullReference = &Construct{
	Name:     "fullReference",
	Tokenize: fullReferenceTokenize,
}

func fullReferenceTokenize(e Effects, ok, nok State) State {
	return func() State {
		if e.Code() != '[' {
			return nok
		}
		id, labelOk := e.Label(token.TypeReference, token.TypeReferenceMarker, token.TypeReferenceString)
		if !labelOk {
			return nok
		}
		if !e.Defined(id) {
			return nok
		}
		return ok
	}
}

// CollapsedReference is the `[]` suffix, spec.md §4.4. It is only ever
// attempted once the label-end recognizer has already confirmed the
// shortcut identifier is defined, so it has nothing left to validate
// beyond the literal `[]` shape.
var CollapsedReference = &Construct{
	Name:     "collapsedReference",
	Tokenize: collapsedReferenceStart,
}

func collapsedReferenceStart(e Effects, ok, nok State) State {
	return func() State {
		if e.Code() != '[' {
			return nok
		}
		e.Enter(token.TypeReference)
		e.Enter(token.TypeReferenceMarker)
		e.Consume(e.Code())
		e.Exit(token.TypeReferenceMarker)
		return collapsedReferenceOpen(e, ok, nok)
	}
}

func collapsedReferenceOpen(e Effects, ok, nok State) State {
	return func() State {
		if e.Code() != ']' {
			return nok
		}
		e.Enter(token.TypeReferenceMarker)
		e.Consume(e.Code())
		e.Exit(token.TypeReferenceMarker)
		e.Exit(token.TypeReference)
		return ok
	}
}
