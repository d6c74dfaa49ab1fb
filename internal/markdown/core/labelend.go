package core

import "github.com/conduit-lang/conduit/internal/markdown/token"

// LabelEnd is the construct entered when the host sees a `]`. It is
// spec.md §4.1: find the nearest unbalanced opener, emit the labelEnd
// marker, and dispatch to the suffix recognizers in CommonMark's mandated
// priority: resource, full reference, collapsed reference, shortcut.
var LabelEnd = &Construct{
	Name:       "labelEnd",
	Tokenize:   labelEndTokenize,
	ResolveTo:  resolveTo,
	ResolveAll: resolveAll,
}

func labelEndTokenize(e Effects, ok, nok State) State {
	return func() State {
		events := e.Events()
		openIdx := events.NearestUnbalancedOpener()
		if openIdx == -1 {
			// step 1: no opener at all, nothing to do with this `]`.
			return nok
		}
		opener := events[openIdx].Token

		if opener.IsInactive() {
			// step 2: this opener is already inside a closed link and can
			// never become one itself. No events are emitted for this `]`;
			// the opener is simply retired so future `]`s skip it too.
			return balance(opener, nok)
		}

		// step 3: candidate shortcut/collapsed identifier is the raw text
		// between the opener's end and the current `]`.
		candidate := NormalizeIdentifier(e.SliceSerialize(opener.End, e.Now()))
		defined := e.Defined(candidate)

		// step 4: the `]` itself always gets consumed and wrapped once we
		// know it pairs with a live opener, win or lose.
		e.Enter(token.TypeLabelEnd)
		e.Enter(token.TypeLabelMarker)
		e.Consume(e.Code())
		e.Exit(token.TypeLabelMarker)
		e.Exit(token.TypeLabelEnd)

		return dispatchSuffix(e, ok, nok, opener, defined)
	}
}

// dispatchSuffix is spec.md §4.1 step 5: look at what follows the closed
// `]` and try suffix shapes in priority order.
func dispatchSuffix(e Effects, ok, nok State, opener *token.Token, defined bool) State {
	switch e.Code() {
	case '(':
		return e.Attempt(Resource, ok, func() State {
			if defined {
				return ok
			}
			return balance(opener, nok)
		})
	case '[':
		return e.Attempt(FullReference, ok, func() State {
			if defined {
				return e.Attempt(CollapsedReference, ok, func() State {
					return balance(opener, nok)
				})
			}
			return balance(opener, nok)
		})
	default:
		if defined {
			return ok
		}
		return balance(opener, nok)
	}
}

// balance is the "balanced" outcome: mark the opener so no future `]`
// retries it, and fail.
func balance(opener *token.Token, nok State) State {
	return func() State {
		opener.State = token.Balanced
		return nok
	}
}
