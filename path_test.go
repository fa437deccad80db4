package memfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unixPath(raw string) Path {
	return NewPath(raw, UnixStyle, "/", "", CaseSensitive)
}

func TestPathParsingUnix(t *testing.T) {
	p := unixPath("/usr/local/bin")
	require.True(t, p.IsAbsolute())
	assert.Equal(t, 3, p.NameCount())
	name, ok := p.FileName()
	require.True(t, ok)
	assert.Equal(t, "bin", name.String())
	assert.Equal(t, "/usr/local/bin", p.String())
}

func TestPathParsingWindowsDriveLetter(t *testing.T) {
	p := NewPath(`C:\Users\alice`, WindowsStyle, `\`, "/", CaseInsensitiveASCII)
	require.True(t, p.IsAbsolute())
	root, ok := p.Root()
	require.True(t, ok)
	assert.Equal(t, `C:\`, root.String())
	assert.Equal(t, 2, p.NameCount())
}

func TestPathNormalizeCollapsesSelfAndParent(t *testing.T) {
	p := unixPath("/a/./b/../c")
	n := p.Normalize()
	assert.Equal(t, "/a/c", n.String())
}

func TestPathNormalizeStopsAtRoot(t *testing.T) {
	p := unixPath("/../../a")
	n := p.Normalize()
	assert.Equal(t, "/a", n.String())
}

func TestPathNormalizeKeepsLeadingParentWhenRelative(t *testing.T) {
	p := NewPath("../../a", UnixStyle, "/", "", CaseSensitive)
	n := p.Normalize()
	assert.Equal(t, "../../a", n.String())
}

func TestPathResolve(t *testing.T) {
	base := unixPath("/a/b")
	rel := NewPath("c/d", UnixStyle, "/", "", CaseSensitive)
	resolved := base.Resolve(rel)
	assert.Equal(t, "/a/b/c/d", resolved.String())

	abs := unixPath("/x/y")
	assert.Equal(t, "/x/y", base.Resolve(abs).String())
}

func TestPathRelativize(t *testing.T) {
	a := unixPath("/a/b/c")
	b := unixPath("/a/x/y")
	rel, err := a.Relativize(b)
	require.NoError(t, err)
	assert.Equal(t, "../../x/y", rel.String())
}

func TestPathStartsWithAndEndsWith(t *testing.T) {
	p := unixPath("/a/b/c")
	assert.True(t, p.StartsWith(unixPath("/a/b")))
	assert.False(t, p.StartsWith(unixPath("/a/x")))

	rel := NewPath("b/c", UnixStyle, "/", "", CaseSensitive)
	assert.True(t, p.EndsWith(rel))
}

func TestPathEqualIsCaseSensitiveOnDisplayedString(t *testing.T) {
	a := NewPath("/Foo/Bar", UnixStyle, "/", "", CaseInsensitiveASCII)
	b := NewPath("/foo/bar", UnixStyle, "/", "", CaseInsensitiveASCII)
	assert.False(t, a.Equal(b), "Path.Equal compares displayed strings, not canonical forms")
}
