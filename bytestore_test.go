package memfs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDisk() *Disk {
	return NewDisk(16, 1<<20)
}

func TestByteStoreWriteAndReadBackAcrossBlocks(t *testing.T) {
	s := NewByteStore(newTestDisk())
	data := bytes.Repeat([]byte("x"), 40) // spans 3 blocks of 16 bytes
	n, err := s.Write(0, data)
	require.NoError(t, err)
	assert.Equal(t, 40, n)
	assert.Equal(t, int64(40), s.Size())

	buf := make([]byte, 40)
	read, err := s.Read(0, buf)
	require.NoError(t, err)
	assert.Equal(t, 40, read)
	assert.Equal(t, data, buf)
}

func TestByteStoreSparseWriteZerosGap(t *testing.T) {
	s := NewByteStore(newTestDisk())
	_, err := s.Write(0, []byte("AB"))
	require.NoError(t, err)

	_, err = s.Write(20, []byte("CD"))
	require.NoError(t, err)
	assert.Equal(t, int64(22), s.Size())

	buf := make([]byte, 22)
	n, err := s.Read(0, buf)
	require.NoError(t, err)
	require.Equal(t, 22, n)

	assert.Equal(t, byte('A'), buf[0])
	assert.Equal(t, byte('B'), buf[1])
	for i := 2; i < 20; i++ {
		assert.Equal(t, byte(0), buf[i], "gap byte %d should be zero-filled", i)
	}
	assert.Equal(t, byte('C'), buf[20])
	assert.Equal(t, byte('D'), buf[21])
}

func TestByteStoreReadPastEndReturnsMinusOne(t *testing.T) {
	s := NewByteStore(newTestDisk())
	_, err := s.Write(0, []byte("hi"))
	require.NoError(t, err)

	n, err := s.Read(100, make([]byte, 4))
	require.NoError(t, err)
	assert.Equal(t, -1, n)
}

func TestByteStoreTruncateShrinks(t *testing.T) {
	s := NewByteStore(newTestDisk())
	_, _ = s.Write(0, bytes.Repeat([]byte("z"), 30))

	shrank, err := s.Truncate(5)
	require.NoError(t, err)
	assert.True(t, shrank)
	assert.Equal(t, int64(5), s.Size())

	shrank, err = s.Truncate(10)
	require.NoError(t, err)
	assert.False(t, shrank, "truncating to a larger size is a no-op, not a grow")
	assert.Equal(t, int64(5), s.Size())
}

func TestByteStoreAppendIsAtomicAgainstItsOwnSize(t *testing.T) {
	s := NewByteStore(newTestDisk())
	_, _, err := s.Append([]byte("abc"))
	require.NoError(t, err)
	pos, n, err := s.Append([]byte("def"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)
	assert.Equal(t, 3, n)
	assert.Equal(t, int64(6), s.Size())
}

func TestByteStoreCopyIsIndependent(t *testing.T) {
	s := NewByteStore(newTestDisk())
	_, _ = s.Write(0, []byte("original"))

	clone, err := s.Copy()
	require.NoError(t, err)
	_, _ = s.Write(0, []byte("mutated!"))

	buf := make([]byte, 8)
	_, _ = clone.Read(0, buf)
	assert.Equal(t, "original", string(buf))
}

func TestByteStoreDeleteReleasesBlocks(t *testing.T) {
	disk := newTestDisk()
	s := NewByteStore(disk)
	_, _ = s.Write(0, bytes.Repeat([]byte("q"), 48))
	before := disk.UnallocatedSpace()

	s.Delete()
	assert.Equal(t, int64(0), s.Size())
	assert.Greater(t, disk.UnallocatedSpace(), before)
}
