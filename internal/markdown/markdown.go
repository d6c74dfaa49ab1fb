// Package markdown is the public entry point to the link/image tokenizer:
// Tokenize runs the full pipeline over a document, ExtractLinks reads
// resolved links/images back out of the event log, and Lint flags
// documents whose brackets never resolved into anything.
package markdown

import (
	"github.com/conduit-lang/conduit/internal/markdown/event"
	"github.com/conduit-lang/conduit/internal/markdown/token"
	"github.com/conduit-lang/conduit/internal/markdown/tokenizer"
)

// Tokenize runs source through the scanner and core resolver, returning
// the fully resolved event log.
func Tokenize(source string, opts ...tokenizer.Option) event.Events {
	return tokenizer.Tokenize(source, opts...)
}

// Link is a resolved link or image pulled back out of an event log.
type Link struct {
	// IsImage distinguishes `![...]` from `[...]`.
	IsImage bool
	// Text is the literal source text of the label (unresolved nested
	// markup, exactly as written).
	Text string
	// Destination is the resource destination, or the identifier of the
	// reference definition it resolved against if it used one.
	Destination string
	// Title is the resource/definition title, if any.
	Title string
	Start token.Point
	End   token.Point
}

// ExtractLinks walks a resolved event log and returns every link/image it
// contains, in document order.
func ExtractLinks(events event.Events, source string) []Link {
	src := []rune(source)
	ctx := &event.Context{Source: src}
	var links []Link

	for i := 0; i < len(events); i++ {
		ev := events[i]
		if ev.Kind != event.Enter {
			continue
		}
		if ev.Token.Type != token.TypeLink && ev.Token.Type != token.TypeImage {
			continue
		}
		link := Link{
			IsImage: ev.Token.Type == token.TypeImage,
			Start:   ev.Token.Start,
			End:     ev.Token.End,
		}
		link.Text, link.Destination, link.Title = extractGroupFields(events, i, ctx)
		links = append(links, link)
	}
	return links
}

// extractGroupFields scans the span of a link/image group (starting at
// its Enter event, index i) for its labelText, resource destination, and
// resource/reference title, returning whichever the group actually used.
func extractGroupFields(events event.Events, i int, ctx *event.Context) (text, dest, title string) {
	depth := 0
	for j := i; j < len(events); j++ {
		ev := events[j]
		if ev.Kind == event.Enter {
			if ev.Token.Type == token.TypeLink || ev.Token.Type == token.TypeImage {
				depth++
				continue
			}
			// Only fields belonging directly to the outer group (depth
			// 1), not a nested image inside the link text, fill in its
			// destination/title/text.
			if depth == 1 {
				switch ev.Token.Type {
				case token.TypeLabelText:
					text = ctx.SliceSerialize(ev.Token.Start, ev.Token.End)
				case token.TypeResourceDestinationString:
					dest = ctx.SliceSerialize(ev.Token.Start, ev.Token.End)
				case token.TypeResourceTitleString:
					title = ctx.SliceSerialize(ev.Token.Start, ev.Token.End)
				case token.TypeReferenceString:
					// Full/collapsed references carry the definition's
					// identifier here, not a destination; callers that
					// need the resolved URL should re-harvest
					// tokenizer.DefinitionSet and look it up themselves.
					if dest == "" {
						dest = ctx.SliceSerialize(ev.Token.Start, ev.Token.End)
					}
				}
			}
			continue
		}
		if ev.Token.Type == token.TypeLink || ev.Token.Type == token.TypeImage {
			depth--
			if depth == 0 {
				return
			}
		}
	}
	return
}

// Issue is a single problem Lint found.
type Issue struct {
	Message string
	Start   token.Point
}

// Lint reports brackets that never resolved into a link or image — the
// host's resolveAll demotes them to literal data, which is correct
// rendering behavior but often indicates a forgotten reference
// definition or a typo'd destination.
func Lint(source string, opts ...tokenizer.Option) []Issue {
	return danglingBrackets(source, Tokenize(source, opts...))
}

// danglingBrackets finds literal `[`/`]`/`![` characters left over after
// resolveAll — the signature of a bracket pair that never closed.
func danglingBrackets(source string, events event.Events) []Issue {
	src := []rune(source)
	ctx := &event.Context{Source: src}
	var issues []Issue
	for _, ev := range events {
		if ev.Kind != event.Enter || ev.Token.Type != token.TypeData {
			continue
		}
		text := ctx.SliceSerialize(ev.Token.Start, ev.Token.End)
		if text == "[" || text == "![" || text == "]" {
			issues = append(issues, Issue{
				Message: "unresolved markdown bracket: " + text,
				Start:   ev.Token.Start,
			})
		}
	}
	return issues
}
