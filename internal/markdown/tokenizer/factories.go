package tokenizer

import (
	"github.com/conduit-lang/conduit/internal/markdown/core"
	"github.com/conduit-lang/conduit/internal/markdown/token"
)

// These four factories are always invoked from within a construct that
// itself runs under an enclosing core.Effects.Attempt (Resource, or one of
// the reference constructs) — see core/resource.go and core/reference.go.
// That means any failure return here can simply walk away: the Attempt's
// checkpoint/restore already rewinds the cursor, the event log, and the
// open-token stack to however they looked before the attempt started.
// Nothing below needs its own undo logic.

// Whitespace consumes zero or more spaces, tabs, and line endings as a
// single run. spec.md treats this purely as a black box the suffix
// recognizers call between pieces of a resource; the host is free to
// tokenize it however is useful downstream, so a single whitespace token
// is enough.
func (t *Tokenizer) Whitespace() {
	if !isLineEndingOrSpace(t.Code()) {
		return
	}
	t.Enter(token.TypeWhitespace)
	for isLineEndingOrSpace(t.Code()) {
		t.advance()
	}
	t.Exit(token.TypeWhitespace)
}

// Destination recognizes a resource destination, spec.md's two forms: an
// angle-bracket literal (`<...>`) or a raw run of non-whitespace text with
// up to N levels of balanced, unescaped parentheses. The host's own
// configured cap (Markdown.LinkDepthCap, default 32) wins over whatever
// the core construct happened to pass in, so operators can tighten or
// loosen it without touching core.
func (t *Tokenizer) Destination(maxParenDepth int) bool {
	depthCap := t.linkDepthCap
	if depthCap <= 0 {
		depthCap = maxParenDepth
	}
	t.Enter(token.TypeResourceDestination)
	var ok bool
	if t.Code() == '<' {
		ok = t.destinationLiteral()
	} else {
		ok = t.destinationRaw(depthCap)
	}
	if !ok {
		return false
	}
	t.Exit(token.TypeResourceDestination)
	return true
}

func (t *Tokenizer) destinationLiteral() bool {
	t.Enter(token.TypeResourceDestinationLiteral)
	t.Enter(token.TypeResourceDestinationLiteralMkr)
	t.Consume('<')
	t.Exit(token.TypeResourceDestinationLiteralMkr)

	t.Enter(token.TypeResourceDestinationString)
	for {
		c := t.Code()
		if c == core.CodeEOF || c == '\n' {
			return false
		}
		if c == '>' {
			break
		}
		if c == '\\' && isEscapable(t.CodeAt(1)) {
			t.advance()
		}
		t.advance()
	}
	t.Exit(token.TypeResourceDestinationString)

	t.Enter(token.TypeResourceDestinationLiteralMkr)
	t.Consume('>')
	t.Exit(token.TypeResourceDestinationLiteralMkr)
	t.Exit(token.TypeResourceDestinationLiteral)
	return true
}

func (t *Tokenizer) destinationRaw(maxParenDepth int) bool {
	t.Enter(token.TypeResourceDestinationRaw)
	t.Enter(token.TypeResourceDestinationString)
	depth := 0
	consumed := false
	for {
		c := t.Code()
		if c == core.CodeEOF || isLineEndingOrSpace(c) {
			break
		}
		if c < ' ' {
			break
		}
		if c == '(' {
			depth++
			if depth > maxParenDepth {
				return false
			}
		} else if c == ')' {
			if depth == 0 {
				break
			}
			depth--
		}
		if c == '\\' && isEscapable(t.CodeAt(1)) {
			t.advance()
		}
		t.advance()
		consumed = true
	}
	if !consumed || depth != 0 {
		return false
	}
	t.Exit(token.TypeResourceDestinationString)
	t.Exit(token.TypeResourceDestinationRaw)
	return true
}

// Title recognizes a resource title: `"..."`, `'...'`, or `(...)`, each
// allowing the other two delimiters unescaped inside.
func (t *Tokenizer) Title() bool {
	open := t.Code()
	var closeCh rune
	switch open {
	case '"':
		closeCh = '"'
	case '\'':
		closeCh = '\''
	case '(':
		closeCh = ')'
	default:
		return false
	}

	t.Enter(token.TypeResourceTitle)
	t.Enter(token.TypeResourceTitleMarker)
	t.Consume(open)
	t.Exit(token.TypeResourceTitleMarker)

	t.Enter(token.TypeResourceTitleString)
	for {
		c := t.Code()
		if c == core.CodeEOF {
			return false
		}
		if c == closeCh {
			break
		}
		if c == '\\' && isEscapable(t.CodeAt(1)) {
			t.advance()
		}
		t.advance()
	}
	t.Exit(token.TypeResourceTitleString)

	t.Enter(token.TypeResourceTitleMarker)
	t.Consume(closeCh)
	t.Exit(token.TypeResourceTitleMarker)
	t.Exit(token.TypeResourceTitle)
	return true
}

// Label recognizes a bracketed `[...]` span up to 999 characters, used by
// full references. It disallows an unescaped, unmatched `[` inside and
// requires at least one character (a bare `[]` is the collapsed form,
// tried separately by CollapsedReference).
func (t *Tokenizer) Label(group, marker, str token.TokenType) (string, bool) {
	if t.Code() != '[' {
		return "", false
	}
	t.Enter(group)
	t.Enter(marker)
	t.Consume('[')
	t.Exit(marker)

	t.Enter(str)
	contentStart := t.point
	size := 0
	for {
		c := t.Code()
		if c == core.CodeEOF || c == '[' {
			return "", false
		}
		if c == ']' {
			break
		}
		if c == '\\' && isEscapable(t.CodeAt(1)) {
			t.advance()
			size++
		}
		t.advance()
		size++
		if size > 999 {
			return "", false
		}
	}
	if t.point == contentStart {
		return "", false
	}
	raw := t.SliceSerialize(contentStart, t.point)
	t.Exit(str)

	t.Enter(marker)
	t.Consume(']')
	t.Exit(marker)
	t.Exit(group)
	return core.NormalizeIdentifier(raw), true
}

func isLineEndingOrSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isEscapable(c rune) bool {
	switch c {
	case '!', '"', '#', '$', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
		':', ';', '<', '=', '>', '?', '@', '[', '\\', ']', '^', '_', '`', '{', '|', '}', '~':
		return true
	default:
		return false
	}
}
