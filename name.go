package memfs

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CaseSensitivity selects how a Name's canonical form is derived from its
// displayed string.
type CaseSensitivity int

const (
	// CaseSensitive makes the canonical form identical to the displayed string.
	CaseSensitive CaseSensitivity = iota
	// CaseInsensitiveASCII lower-cases ASCII letters only.
	CaseInsensitiveASCII
	// CaseInsensitiveUnicode folds case using Unicode casefolding over the
	// NFKC-normalized string, via golang.org/x/text/cases +
	// golang.org/x/text/unicode/norm.
	CaseInsensitiveUnicode
	// Collating derives the canonical form by NFKD-decomposing, dropping
	// combining diacritical marks and case-folding (see collationKey).
	Collating
)

var foldCaser = cases.Fold()

// Name is an immutable filename token. Two Names compare equal (and hash
// equal) iff their canonical forms match, regardless of CaseSensitivity mode;
// the displayed string used by String() always preserves what the caller
// typed.
//
// SELF and PARENT are shared sentinel Names: every filesystem instance routes
// "." and ".." through the same two values so that table lookups and equality
// checks never need a special case for the reserved names' canonicalization.
type Name struct {
	display   string
	canonical string
}

// SELF is the reserved "." entry, shared across all CaseSensitivity modes.
var SELF = Name{display: ".", canonical: "\x00self"}

// PARENT is the reserved ".." entry, shared across all CaseSensitivity modes.
var PARENT = Name{display: "..", canonical: "\x00parent"}

// NewName builds a Name from a raw path segment under the given
// CaseSensitivity. "." and ".." always return the shared SELF/PARENT
// instances regardless of mode.
func NewName(raw string, sensitivity CaseSensitivity) Name {
	if raw == "." {
		return SELF
	}
	if raw == ".." {
		return PARENT
	}
	return Name{display: raw, canonical: canonicalize(raw, sensitivity)}
}

func canonicalize(raw string, sensitivity CaseSensitivity) string {
	switch sensitivity {
	case CaseInsensitiveASCII:
		return asciiLower(raw)
	case CaseInsensitiveUnicode:
		return foldCaser.String(norm.NFKC.String(raw))
	case Collating:
		return collationKey(raw)
	default:
		return raw
	}
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// collationKey produces a comparison-stable key: the NFKD decomposition of
// raw with combining diacritical marks (U+0300–U+036F) removed, then
// case-folded. No locale collator is used, and the key is the same for every
// Configuration.
func collationKey(raw string) string {
	normalized := norm.NFKD.String(raw)
	var b strings.Builder
	for _, r := range normalized {
		if isCombining(r) {
			continue
		}
		b.WriteRune(r)
	}
	return foldCaser.String(b.String())
}

func isCombining(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

// String returns the original, displayed form of the Name.
func (n Name) String() string {
	return n.display
}

// Canonical returns the form used for equality and hashing.
func (n Name) Canonical() string {
	return n.canonical
}

// Equal compares two Names by their canonical form.
func (n Name) Equal(other Name) bool {
	return n.canonical == other.canonical
}

// IsSelf reports whether this Name is the reserved "." entry.
func (n Name) IsSelf() bool {
	return n.canonical == SELF.canonical
}

// IsParent reports whether this Name is the reserved ".." entry.
func (n Name) IsParent() bool {
	return n.canonical == PARENT.canonical
}

// IsReserved reports whether this Name is SELF or PARENT.
func (n Name) IsReserved() bool {
	return n.IsSelf() || n.IsParent()
}
