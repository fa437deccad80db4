package memfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryStreamYieldsInOrder(t *testing.T) {
	root := buildDir(1, nil)
	link(t, root, "b.txt", newFile(2, KindRegular))
	link(t, root, "a.txt", newFile(3, KindRegular))

	stream := NewDirectoryStream(p("/"), root.Directory().Snapshot(), nil)

	path1, _, ok := stream.Next()
	require.True(t, ok)
	assert.Equal(t, "/a.txt", path1.String())

	path2, _, ok := stream.Next()
	require.True(t, ok)
	assert.Equal(t, "/b.txt", path2.String())

	_, _, ok = stream.Next()
	assert.False(t, ok)
}

func TestDirectoryStreamIsSingleUse(t *testing.T) {
	root := buildDir(1, nil)
	link(t, root, "a.txt", newFile(2, KindRegular))

	stream := NewDirectoryStream(p("/"), root.Directory().Snapshot(), nil)
	_, _, ok := stream.Next()
	require.True(t, ok)
	_, _, ok = stream.Next()
	require.False(t, ok)

	require.NoError(t, stream.Close())
	_, _, ok = stream.Next()
	assert.False(t, ok, "Next after Close must keep returning false")
}

func TestDirectoryStreamAppliesFilter(t *testing.T) {
	root := buildDir(1, nil)
	link(t, root, "keep.txt", newFile(2, KindRegular))
	link(t, root, "skip.txt", newFile(3, KindRegular))

	filter := MatchGlob("/keep.*")
	stream := NewDirectoryStream(p("/"), root.Directory().Snapshot(), filter)

	path, _, ok := stream.Next()
	require.True(t, ok)
	assert.Equal(t, "/keep.txt", path.String())

	_, _, ok = stream.Next()
	assert.False(t, ok)
}
