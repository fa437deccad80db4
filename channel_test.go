package memfs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldiety/memfs/internal/workerpool"
)

func newRegularFile() *File {
	f := newFile(1, KindRegular)
	f.regular = NewByteStore(newTestDisk())
	return f
}

func TestFileChannelReadWriteAdvancesPosition(t *testing.T) {
	ch, err := NewFileChannel(newRegularFile(), true, true, false)
	require.NoError(t, err)

	n, err := ch.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	pos, err := ch.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos)

	require.NoError(t, ch.SetPosition(0))
	buf := make([]byte, 5)
	n, err = ch.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

func TestFileChannelRejectsWriteWhenNotWritable(t *testing.T) {
	ch, err := NewFileChannel(newRegularFile(), true, false, false)
	require.NoError(t, err)

	_, err = ch.Write([]byte("x"))
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeUnsupportedOperation))
}

func TestFileChannelAppendAlwaysWritesAtEnd(t *testing.T) {
	file := newRegularFile()
	_, _ = file.ByteStore().Write(0, []byte("base"))

	ch, err := NewFileChannel(file, false, true, true)
	require.NoError(t, err)

	_, err = ch.Write([]byte("!"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), file.ByteStore().Size())

	buf := make([]byte, 5)
	_, err = file.ByteStore().Read(0, buf)
	require.NoError(t, err)
	assert.Equal(t, "base!", string(buf))
}

func TestFileChannelTruncatePullsBackPosition(t *testing.T) {
	file := newRegularFile()
	ch, err := NewFileChannel(file, true, true, false)
	require.NoError(t, err)

	_, err = ch.Write([]byte("0123456789"))
	require.NoError(t, err)

	require.NoError(t, ch.Truncate(3))
	pos, err := ch.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)
}

func TestFileChannelOperationsFailAfterClose(t *testing.T) {
	ch, err := NewFileChannel(newRegularFile(), true, true, false)
	require.NoError(t, err)
	require.NoError(t, ch.Close())

	_, err = ch.Read(make([]byte, 1))
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeClosedChannel))
}

func TestFileChannelTransferToAndFrom(t *testing.T) {
	file := newRegularFile()
	ch, err := NewFileChannel(file, true, true, false)
	require.NoError(t, err)

	src := bytes.NewBufferString("transferred")
	n, err := ch.TransferFrom(src, 0, int64(src.Len()))
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	var dst bytes.Buffer
	n, err = ch.TransferTo(0, 11, &dst)
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)
	assert.Equal(t, "transferred", dst.String())
}

func TestAsyncFileChannelCompletesFutures(t *testing.T) {
	file := newRegularFile()
	ch, err := NewFileChannel(file, true, true, false)
	require.NoError(t, err)

	pool := workerpool.New(2, 8)
	defer pool.Stop()
	async := NewAsyncFileChannel(ch, pool)

	future := async.WriteAt([]byte("async"), 0)
	n, err := future.Wait()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	readFuture := async.ReadAt(make([]byte, 5), 0)
	n, err = readFuture.Wait()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestAsyncFileChannelCloseCancelsPendingFutures(t *testing.T) {
	file := newRegularFile()
	ch, err := NewFileChannel(file, true, true, false)
	require.NoError(t, err)

	pool := workerpool.New(1, 8)
	defer pool.Stop()
	async := NewAsyncFileChannel(ch, pool)

	require.NoError(t, async.Close())

	future := async.WriteAt([]byte("x"), 0)
	_, err = future.Wait()
	require.Error(t, err)
	assert.True(t, future.IsCancelled())
}
