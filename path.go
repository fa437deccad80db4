package memfs

import "strings"

// PathType selects how roots are recognized and separators parsed.
type PathType int

const (
	// UnixStyle recognizes a single "/" root and "/" as the only separator.
	UnixStyle PathType = iota
	// WindowsStyle recognizes drive-letter roots ("C:\") with "\" canonical
	// and "/" accepted as an alternate separator.
	WindowsStyle
)

// Path is an immutable ordered sequence of component Names with an optional
// root Name. It is absolute iff a root is present.
//
// Two Paths are equal iff they agree component-wise on displayed strings,
// not canonical forms: a caller working against a case-insensitive
// filesystem can build two Paths that look different yet resolve to the
// same File, and Path.Equal intentionally does not paper over that.
type Path struct {
	root       *Name
	components []Name
	sensitivity CaseSensitivity
}

// NewPath parses raw using the separator conventions implied by pathType and
// sensitivity, splitting on sep plus any of altSeps.
func NewPath(raw string, pathType PathType, sep string, altSeps string, sensitivity CaseSensitivity) Path {
	raw = replaceSeparators(raw, sep, altSeps)

	var root *Name
	body := raw

	switch pathType {
	case UnixStyle:
		if strings.HasPrefix(raw, sep) {
			r := NewName(sep, sensitivity)
			root = &r
			body = strings.TrimPrefix(raw, sep)
		}
	case WindowsStyle:
		if len(raw) >= 2 && raw[1] == ':' && isASCIILetter(raw[0]) {
			driveLetter := strings.ToUpper(raw[0:1])
			r := NewName(driveLetter+":"+sep, sensitivity)
			root = &r
			rest := raw[2:]
			rest = strings.TrimPrefix(rest, sep)
			body = rest
		}
	}

	var components []Name
	for _, seg := range strings.Split(body, sep) {
		if seg == "" {
			continue
		}
		components = append(components, NewName(seg, sensitivity))
	}

	return Path{root: root, components: components, sensitivity: sensitivity}
}

func replaceSeparators(raw string, sep string, altSeps string) string {
	if altSeps == "" {
		return raw
	}
	b := []byte(raw)
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		c := b[i]
		if strings.IndexByte(altSeps, c) >= 0 {
			out = append(out, sep...)
		} else {
			out = append(out, c)
		}
	}
	return string(out)
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// pathOf is an internal constructor used by components that already hold
// parsed Names (lookup, normalize, relativize) and don't want to re-parse a
// string.
func pathOf(root *Name, components []Name, sensitivity CaseSensitivity) Path {
	return Path{root: root, components: components, sensitivity: sensitivity}
}

// IsAbsolute reports whether this Path carries a root.
func (p Path) IsAbsolute() bool {
	return p.root != nil
}

// Root returns the root Name and true, or the zero Name and false if relative.
func (p Path) Root() (Name, bool) {
	if p.root == nil {
		return Name{}, false
	}
	return *p.root, true
}

// NameCount returns the number of (non-root) components.
func (p Path) NameCount() int {
	return len(p.components)
}

// NameAt returns the component at idx.
func (p Path) NameAt(idx int) Name {
	return p.components[idx]
}

// Components returns a copy of the component slice, safe for the caller to
// mutate.
func (p Path) Components() []Name {
	out := make([]Name, len(p.components))
	copy(out, p.components)
	return out
}

// FileName returns the last component, or the zero Name if this Path has no
// components.
func (p Path) FileName() (Name, bool) {
	if len(p.components) == 0 {
		return Name{}, false
	}
	return p.components[len(p.components)-1], true
}

// Parent returns the path without its last component. For a Path with a
// single component, returns the root alone (or an empty relative Path).
func (p Path) Parent() (Path, bool) {
	if len(p.components) == 0 {
		return Path{}, false
	}
	return pathOf(p.root, p.components[:len(p.components)-1], p.sensitivity), true
}

// Normalize collapses "." and ".." components left to right: SELF components
// are dropped; PARENT components pop the previous component unless the
// previous is itself PARENT or the stack is empty under a root (a rooted
// Path can never walk above its root).
func (p Path) Normalize() Path {
	stack := make([]Name, 0, len(p.components))
	for _, c := range p.components {
		switch {
		case c.IsSelf():
			continue
		case c.IsParent():
			if len(stack) > 0 && !stack[len(stack)-1].IsParent() {
				stack = stack[:len(stack)-1]
				continue
			}
			if p.root != nil {
				continue
			}
			stack = append(stack, c)
		default:
			stack = append(stack, c)
		}
	}
	return pathOf(p.root, stack, p.sensitivity)
}

// Resolve returns other as-is if it is absolute; otherwise its components
// are appended to this Path's.
func (p Path) Resolve(other Path) Path {
	if other.IsAbsolute() {
		return other
	}
	merged := make([]Name, 0, len(p.components)+len(other.components))
	merged = append(merged, p.components...)
	merged = append(merged, other.components...)
	return pathOf(p.root, merged, p.sensitivity)
}

// ResolveSibling resolves other against this Path's parent, the usual way to
// build a path "next to" this one.
func (p Path) ResolveSibling(other Path) Path {
	parent, ok := p.Parent()
	if !ok {
		return other
	}
	return parent.Resolve(other)
}

// Relativize requires both Paths to share a root (or both be rootless);
// returns a relative Path of PARENT components for the remainder of p, then
// the remainder of other, after stripping their common prefix.
func (p Path) Relativize(other Path) (Path, error) {
	if (p.root == nil) != (other.root == nil) {
		return Path{}, newErr(CodeFileSystem, "", "paths do not share a root")
	}
	if p.root != nil && !p.root.Equal(*other.root) {
		return Path{}, newErr(CodeFileSystem, "", "paths do not share a root")
	}

	common := 0
	for common < len(p.components) && common < len(other.components) && p.components[common].Equal(other.components[common]) {
		common++
	}

	out := make([]Name, 0, (len(p.components)-common)+(len(other.components)-common))
	for i := common; i < len(p.components); i++ {
		out = append(out, PARENT)
	}
	out = append(out, other.components[common:]...)
	return pathOf(nil, out, p.sensitivity), nil
}

// StartsWith reports whether this Path begins with the same root (if any)
// and the same sequence of leading components as other.
func (p Path) StartsWith(other Path) bool {
	if (p.root == nil) != (other.root == nil) {
		return false
	}
	if p.root != nil && !p.root.Equal(*other.root) {
		return false
	}
	if len(other.components) > len(p.components) {
		return false
	}
	for i, c := range other.components {
		if !p.components[i].Equal(c) {
			return false
		}
	}
	return true
}

// EndsWith reports whether this Path's trailing components equal other's
// full component sequence. If other is absolute, the roots must also match.
func (p Path) EndsWith(other Path) bool {
	if other.root != nil {
		return p.root != nil && p.root.Equal(*other.root) && p.sameComponents(other)
	}
	if len(other.components) > len(p.components) {
		return false
	}
	offset := len(p.components) - len(other.components)
	for i, c := range other.components {
		if !p.components[offset+i].Equal(c) {
			return false
		}
	}
	return true
}

func (p Path) sameComponents(other Path) bool {
	if len(p.components) != len(other.components) {
		return false
	}
	for i, c := range p.components {
		if !c.Equal(other.components[i]) {
			return false
		}
	}
	return true
}

// Subpath returns the slice of components [begin, end) as a new relative
// Path.
func (p Path) Subpath(begin, end int) Path {
	return pathOf(nil, p.components[begin:end], p.sensitivity)
}

// Equal compares displayed strings component-wise: two case-insensitively-
// equivalent Paths that a user typed differently are NOT Path.Equal, even
// though they may resolve to the same File.
func (p Path) Equal(other Path) bool {
	if (p.root == nil) != (other.root == nil) {
		return false
	}
	if p.root != nil && p.root.String() != other.root.String() {
		return false
	}
	if len(p.components) != len(other.components) {
		return false
	}
	for i, c := range p.components {
		if c.String() != other.components[i].String() {
			return false
		}
	}
	return true
}

// String renders the Path as root (if any) followed by its components
// joined with "/".
func (p Path) String() string {
	names := make([]string, len(p.components))
	for i, c := range p.components {
		names[i] = c.String()
	}
	joined := strings.Join(names, "/")

	if p.root == nil {
		return joined
	}
	return p.root.String() + joined
}
