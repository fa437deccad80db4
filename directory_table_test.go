package memfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(id uint64, kind FileKind) *File {
	return newFile(id, kind)
}

func TestDirectoryTableSelfAndParent(t *testing.T) {
	root := newTestFile(1, KindDirectory)
	table := NewDirectoryTable(CaseSensitive, root, root)
	root.directory = table

	self, ok := table.Get(SELF)
	require.True(t, ok)
	assert.Same(t, root, self)

	parent, ok := table.Get(PARENT)
	require.True(t, ok)
	assert.Same(t, root, parent)
}

func TestDirectoryTableLinkAndGet(t *testing.T) {
	root := newTestFile(1, KindDirectory)
	table := NewDirectoryTable(CaseSensitive, root, root)
	child := newTestFile(2, KindRegular)

	require.NoError(t, table.Link(NewName("a.txt", CaseSensitive), child))
	got, ok := table.Get(NewName("a.txt", CaseSensitive))
	require.True(t, ok)
	assert.Same(t, child, got)
	assert.EqualValues(t, 1, child.LinkCount())
}

func TestDirectoryTableLinkRejectsDuplicateAndReserved(t *testing.T) {
	root := newTestFile(1, KindDirectory)
	table := NewDirectoryTable(CaseSensitive, root, root)
	child := newTestFile(2, KindRegular)
	other := newTestFile(3, KindRegular)

	require.NoError(t, table.Link(NewName("a.txt", CaseSensitive), child))
	err := table.Link(NewName("a.txt", CaseSensitive), other)
	require.Error(t, err)

	err = table.Link(NewName(".", CaseSensitive), other)
	require.Error(t, err)
}

func TestDirectoryTableCaseInsensitiveLookupPreservesDisplayName(t *testing.T) {
	root := newTestFile(1, KindDirectory)
	table := NewDirectoryTable(CaseInsensitiveASCII, root, root)
	child := newTestFile(2, KindRegular)

	require.NoError(t, table.Link(NewName("Report.TXT", CaseInsensitiveASCII), child))

	got, ok := table.Get(NewName("report.txt", CaseInsensitiveASCII))
	require.True(t, ok)
	assert.Same(t, child, got)

	displayed, ok := table.Canonicalize(NewName("REPORT.txt", CaseInsensitiveASCII))
	require.True(t, ok)
	assert.Equal(t, "Report.TXT", displayed.String())
}

func TestDirectoryTableUnlinkDecrementsLinkCount(t *testing.T) {
	root := newTestFile(1, KindDirectory)
	table := NewDirectoryTable(CaseSensitive, root, root)
	child := newTestFile(2, KindRegular)

	require.NoError(t, table.Link(NewName("a.txt", CaseSensitive), child))
	removed, ok := table.Unlink(NewName("a.txt", CaseSensitive))
	require.True(t, ok)
	assert.Same(t, child, removed)
	assert.EqualValues(t, 0, child.LinkCount())

	_, ok = table.Get(NewName("a.txt", CaseSensitive))
	assert.False(t, ok)
}

func TestDirectoryTableReplaceIsAtomic(t *testing.T) {
	root := newTestFile(1, KindDirectory)
	table := NewDirectoryTable(CaseSensitive, root, root)
	original := newTestFile(2, KindRegular)
	replacement := newTestFile(3, KindRegular)

	require.NoError(t, table.Link(NewName("a.txt", CaseSensitive), original))
	table.Replace(NewName("a.txt", CaseSensitive), replacement)

	got, ok := table.Get(NewName("a.txt", CaseSensitive))
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.EqualValues(t, 0, original.LinkCount())
	assert.EqualValues(t, 1, replacement.LinkCount())
}

func TestDirectoryTableIsEmptyIgnoresSelfParent(t *testing.T) {
	root := newTestFile(1, KindDirectory)
	table := NewDirectoryTable(CaseSensitive, root, root)
	assert.True(t, table.IsEmpty())
	assert.Equal(t, 0, table.Count())

	require.NoError(t, table.Link(NewName("a.txt", CaseSensitive), newTestFile(2, KindRegular)))
	assert.False(t, table.IsEmpty())
	assert.Equal(t, 1, table.Count())
}

func TestNewDirectoryTableRootLinksSelfTwice(t *testing.T) {
	root := newTestFile(1, KindDirectory)
	NewDirectoryTable(CaseSensitive, root, root)
	assert.EqualValues(t, 2, root.LinkCount())
}

func TestNewDirectoryTableWithNilParentLinksOnlySelf(t *testing.T) {
	child := newTestFile(2, KindDirectory)
	NewDirectoryTable(CaseSensitive, child, nil)
	assert.EqualValues(t, 1, child.LinkCount())
}

func TestDirectoryTableReparentAdjustsBothParentsLinkCounts(t *testing.T) {
	oldParent := newTestFile(1, KindDirectory)
	newParent := newTestFile(2, KindDirectory)
	child := newTestFile(3, KindDirectory)

	table := NewDirectoryTable(CaseSensitive, child, oldParent)
	assert.EqualValues(t, 1, child.LinkCount())
	assert.EqualValues(t, 1, oldParent.LinkCount())
	assert.EqualValues(t, 0, newParent.LinkCount())

	table.Reparent(newParent)
	assert.EqualValues(t, 0, oldParent.LinkCount())
	assert.EqualValues(t, 1, newParent.LinkCount())
	assert.Same(t, newParent, table.LinkParent())
}

func TestDirectoryTableReparentFromNilOnlyIncrementsNewParent(t *testing.T) {
	newParent := newTestFile(1, KindDirectory)
	child := newTestFile(2, KindDirectory)

	table := NewDirectoryTable(CaseSensitive, child, nil)
	assert.EqualValues(t, 1, child.LinkCount())

	table.Reparent(newParent)
	assert.EqualValues(t, 1, newParent.LinkCount())
}

func TestDirectoryTableChildSubdirectoryIncrementsParentLinkCount(t *testing.T) {
	parent := newTestFile(1, KindDirectory)
	NewDirectoryTable(CaseSensitive, parent, parent)
	assert.EqualValues(t, 2, parent.LinkCount())

	child := newTestFile(2, KindDirectory)
	childTable := NewDirectoryTable(CaseSensitive, child, parent)
	assert.EqualValues(t, 1, child.LinkCount())
	assert.EqualValues(t, 3, parent.LinkCount())

	require.NoError(t, childTable.Link(NewName("a.txt", CaseSensitive), newTestFile(3, KindRegular)))
	assert.EqualValues(t, 1, child.LinkCount())
}

func TestDirectoryTableUnlinkSelfAndParentDropBothContributions(t *testing.T) {
	parent := newTestFile(1, KindDirectory)
	NewDirectoryTable(CaseSensitive, parent, parent)
	assert.EqualValues(t, 2, parent.LinkCount())

	child := newTestFile(2, KindDirectory)
	childTable := NewDirectoryTable(CaseSensitive, child, parent)
	assert.EqualValues(t, 3, parent.LinkCount())
	assert.EqualValues(t, 1, child.LinkCount())

	childTable.UnlinkSelf()
	childTable.UnlinkParent()
	assert.EqualValues(t, 0, child.LinkCount())
	assert.EqualValues(t, 2, parent.LinkCount())
}

func TestDirectoryTableSnapshotIsOrderedByDisplayString(t *testing.T) {
	root := newTestFile(1, KindDirectory)
	table := NewDirectoryTable(CaseSensitive, root, root)
	require.NoError(t, table.Link(NewName("banana", CaseSensitive), newTestFile(2, KindRegular)))
	require.NoError(t, table.Link(NewName("apple", CaseSensitive), newTestFile(3, KindRegular)))
	require.NoError(t, table.Link(NewName("cherry", CaseSensitive), newTestFile(4, KindRegular)))

	snap := table.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "apple", snap[0].Name.String())
	assert.Equal(t, "banana", snap[1].Name.String())
	assert.Equal(t, "cherry", snap[2].Name.String())
}
