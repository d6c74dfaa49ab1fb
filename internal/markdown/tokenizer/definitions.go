package tokenizer

import (
	"regexp"
	"strings"

	"github.com/conduit-lang/conduit/internal/markdown/core"
)

// definitionLine matches a reference definition on its own line:
//
//	[label]: destination
//	[label]: destination "title"
//	[label]: <destination> 'title'
//
// This is the host's pre-pass, not a core recognizer: spec.md treats
// DefinitionSet as a black box the core only ever queries through
// Effects.Defined.
var definitionLine = regexp.MustCompile(`(?m)^ {0,3}\[([^\]]+)\]:\s*(<[^>\n]*>|\S+)(?:\s+("[^"\n]*"|'[^'\n]*'|\([^)\n]*\)))?\s*$`)

// Definition is one harvested reference definition.
type Definition struct {
	Destination string
	Title       string
}

// DefinitionSet is the set of identifiers a full or collapsed reference
// may resolve against, keyed by normalized identifier.
type DefinitionSet struct {
	byID map[string]Definition
}

// HarvestDefinitions scans source for `[id]: dest "title"` lines and
// builds the set later reference lookups are checked against. Later
// definitions of the same identifier lose to the first one, matching
// CommonMark's "first definition wins" rule.
func HarvestDefinitions(source string) *DefinitionSet {
	set := &DefinitionSet{byID: map[string]Definition{}}
	for _, m := range definitionLine.FindAllStringSubmatch(source, -1) {
		id := core.NormalizeIdentifier(m[1])
		if id == "" {
			continue
		}
		if _, exists := set.byID[id]; exists {
			continue
		}
		set.byID[id] = Definition{
			Destination: unwrapDestination(m[2]),
			Title:       unwrapTitle(m[3]),
		}
	}
	return set
}

// Has reports whether id (already normalized) has a known definition.
func (s *DefinitionSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.byID[id]
	return ok
}

// Lookup returns the definition for id, if any.
func (s *DefinitionSet) Lookup(id string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	d, ok := s.byID[id]
	return d, ok
}

func unwrapDestination(raw string) string {
	if strings.HasPrefix(raw, "<") && strings.HasSuffix(raw, ">") {
		return raw[1 : len(raw)-1]
	}
	return raw
}

func unwrapTitle(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	switch raw[0] {
	case '"', '\'':
		return raw[1 : len(raw)-1]
	case '(':
		return raw[1 : len(raw)-1]
	}
	return raw
}
