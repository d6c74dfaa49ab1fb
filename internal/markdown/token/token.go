// Package token defines the token and position data model shared by the
// markdown tokenizer core and its host.
package token

import "fmt"

// Point is a single position in the source document.
type Point struct {
	Offset int
	Line   int
	Column int
}

// String renders a point as "line:column".
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// TokenType is a stable, bit-exact token type name. Downstream consumers
// (the docs generator, the CLI's JSON dump) depend on these exact strings.
type TokenType string

const (
	TypeLabelImage  TokenType = "labelImage"
	TypeLabelLink   TokenType = "labelLink"
	TypeLabelEnd    TokenType = "labelEnd"
	TypeLabelMarker TokenType = "labelMarker"
	TypeLabel       TokenType = "label"
	TypeLabelText   TokenType = "labelText"
	TypeLink        TokenType = "link"
	TypeImage       TokenType = "image"
	TypeData        TokenType = "data"

	TypeResource                      TokenType = "resource"
	TypeResourceMarker                TokenType = "resourceMarker"
	TypeResourceDestination           TokenType = "resourceDestination"
	TypeResourceDestinationLiteral    TokenType = "resourceDestinationLiteral"
	TypeResourceDestinationLiteralMkr TokenType = "resourceDestinationLiteralMarker"
	TypeResourceDestinationRaw        TokenType = "resourceDestinationRaw"
	TypeResourceDestinationString     TokenType = "resourceDestinationString"
	TypeResourceTitle                 TokenType = "resourceTitle"
	TypeResourceTitleMarker           TokenType = "resourceTitleMarker"
	TypeResourceTitleString           TokenType = "resourceTitleString"

	TypeReference        TokenType = "reference"
	TypeReferenceMarker  TokenType = "referenceMarker"
	TypeReferenceString  TokenType = "referenceString"

	// TypeWhitespace and TypeLineEnding are emitted by the host's optional
	// whitespace factory; they never appear in spec.md's token list because
	// they're consumed, not retained, by the core.
	TypeWhitespace TokenType = "whitespace"
	TypeLineEnding TokenType = "lineEnding"
)

// OpenerState is the three-valued state of a labelImage/labelLink opener
// token. Two independent booleans (_inactive, _balanced) would let callers
// represent an impossible "both" state; an opener is open, or it has been
// balanced away, or it has been neutralized by an enclosing link — never
// more than one of those at a time.
type OpenerState int

const (
	// Open openers are still eligible to be matched by a future ].
	Open OpenerState = iota
	// Inactive openers are lexically inside an already-closed link and can
	// never themselves become a link (but may still be balanced, or
	// demoted to data by resolveAll).
	Inactive
	// Balanced openers have already seen a closing ] with no suffix
	// matching; they must be ignored by any future label-end attempt.
	Balanced
)

func (s OpenerState) String() string {
	switch s {
	case Open:
		return "open"
	case Inactive:
		return "inactive"
	case Balanced:
		return "balanced"
	default:
		return "unknown"
	}
}

// Token is a single tagged span in the source document. Opener tokens
// (labelImage/labelLink) carry State; all other tokens leave it at Open.
type Token struct {
	Type  TokenType
	Start Point
	End   Point
	State OpenerState
}

// IsBalanced reports whether this opener can no longer match any closer.
func (t *Token) IsBalanced() bool { return t.State == Balanced }

// IsInactive reports whether this opener can no longer become a link.
func (t *Token) IsInactive() bool { return t.State == Inactive }

// IsOpener reports whether this token type is a link/image opener.
func (t *Token) IsOpener() bool {
	return t.Type == TypeLabelImage || t.Type == TypeLabelLink
}
