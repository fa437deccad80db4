package memfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDir wires a directory File's table to self/parent and returns it.
func buildDir(id uint64, parent *File) *File {
	dir := newFile(id, KindDirectory)
	if parent == nil {
		parent = dir
	}
	dir.directory = NewDirectoryTable(CaseSensitive, dir, parent)
	return dir
}

func link(t *testing.T, parent *File, name string, child *File) {
	t.Helper()
	require.NoError(t, parent.Directory().Link(NewName(name, CaseSensitive), child))
}

func lookupPath(raw string) Path {
	return NewPath(raw, UnixStyle, "/", "", CaseSensitive)
}

func TestLookupResolvesNestedFile(t *testing.T) {
	root := buildDir(1, nil)
	usr := buildDir(2, root)
	link(t, root, "usr", usr)
	bin := newFile(3, KindRegular)
	link(t, usr, "bin", bin)

	svc := NewLookupService(CaseSensitive, UnixStyle, "/", "")
	result, err := svc.Resolve(root, lookupPath("/usr/bin"), true)
	require.NoError(t, err)
	assert.Equal(t, LookupFound, result.Outcome)
	assert.Same(t, bin, result.File)
	assert.Same(t, usr, result.Parent)
}

func TestLookupParentFoundWhenFinalComponentMissing(t *testing.T) {
	root := buildDir(1, nil)
	usr := buildDir(2, root)
	link(t, root, "usr", usr)

	svc := NewLookupService(CaseSensitive, UnixStyle, "/", "")
	result, err := svc.Resolve(root, lookupPath("/usr/missing"), true)
	require.NoError(t, err)
	assert.Equal(t, LookupParentFound, result.Outcome)
	assert.Same(t, usr, result.Parent)
}

func TestLookupNotFoundWhenIntermediateMissing(t *testing.T) {
	root := buildDir(1, nil)

	svc := NewLookupService(CaseSensitive, UnixStyle, "/", "")
	result, err := svc.Resolve(root, lookupPath("/usr/bin"), true)
	require.NoError(t, err)
	assert.Equal(t, LookupNotFound, result.Outcome)
}

func TestLookupFollowsSymbolicLink(t *testing.T) {
	root := buildDir(1, nil)
	target := newFile(2, KindRegular)
	link(t, root, "real.txt", target)
	symlink := newFile(3, KindSymbolicLink)
	symlink.symlink = "/real.txt"
	link(t, root, "link.txt", symlink)

	svc := NewLookupService(CaseSensitive, UnixStyle, "/", "")
	result, err := svc.Resolve(root, lookupPath("/link.txt"), true)
	require.NoError(t, err)
	assert.Equal(t, LookupFound, result.Outcome)
	assert.Same(t, target, result.File)
}

func TestLookupDoesNotFollowFinalLinkWhenAsked(t *testing.T) {
	root := buildDir(1, nil)
	target := newFile(2, KindRegular)
	link(t, root, "real.txt", target)
	symlink := newFile(3, KindSymbolicLink)
	symlink.symlink = "/real.txt"
	link(t, root, "link.txt", symlink)

	svc := NewLookupService(CaseSensitive, UnixStyle, "/", "")
	result, err := svc.Resolve(root, lookupPath("/link.txt"), false)
	require.NoError(t, err)
	assert.Equal(t, LookupFound, result.Outcome)
	assert.Same(t, symlink, result.File)
}

func TestLookupDetectsSymbolicLinkLoop(t *testing.T) {
	root := buildDir(1, nil)
	a := newFile(2, KindSymbolicLink)
	a.symlink = "/b"
	b := newFile(3, KindSymbolicLink)
	b.symlink = "/a"
	link(t, root, "a", a)
	link(t, root, "b", b)

	svc := NewLookupService(CaseSensitive, UnixStyle, "/", "")
	_, err := svc.Resolve(root, lookupPath("/a"), true)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeTooManySymbolicLinks))
}

func TestLookupNonDirectoryComponentFails(t *testing.T) {
	root := buildDir(1, nil)
	file := newFile(2, KindRegular)
	link(t, root, "notadir", file)

	svc := NewLookupService(CaseSensitive, UnixStyle, "/", "")
	_, err := svc.Resolve(root, lookupPath("/notadir/child"), true)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeNotDirectory))
}

func TestLookupCaseInsensitiveMatchesCanonicalizedName(t *testing.T) {
	root := buildDir(1, nil)
	root.directory = NewDirectoryTable(CaseInsensitiveASCII, root, root)
	file := newFile(2, KindRegular)
	require.NoError(t, root.Directory().Link(NewName("Report.TXT", CaseInsensitiveASCII), file))

	svc := NewLookupService(CaseInsensitiveASCII, UnixStyle, "/", "")
	result, err := svc.Resolve(root, NewPath("/report.txt", UnixStyle, "/", "", CaseInsensitiveASCII), true)
	require.NoError(t, err)
	assert.Equal(t, LookupFound, result.Outcome)
	assert.Equal(t, "Report.TXT", result.Name.String())
}
