package memfs

import (
	"io"
	"sync"
)

// ByteStore is a logical byte sequence addressed 0..size-1, backed by
// fixed-size blocks allocated from a shared Disk. It holds its own
// read/write lock, independent of the filesystem hierarchy lock: byte I/O
// never blocks on, or is blocked by, path resolution.
type ByteStore struct {
	mu     sync.RWMutex
	disk   *Disk
	blocks []blockID
	size   int64
}

// NewByteStore creates an empty ByteStore backed by disk.
func NewByteStore(disk *Disk) *ByteStore {
	return &ByteStore{disk: disk}
}

// Size returns the current logical size in bytes.
func (s *ByteStore) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

func (s *ByteStore) blockSize() int64 {
	return int64(s.disk.BlockSize())
}

// blocksNeeded returns how many blocks are required to hold size bytes.
func (s *ByteStore) blocksNeeded(size int64) int {
	if size <= 0 {
		return 0
	}
	bs := s.blockSize()
	return int((size + bs - 1) / bs)
}

// ensureBlocks grows s.blocks (allocating from the Disk) until it has at
// least n entries. Must be called with the write lock held.
func (s *ByteStore) ensureBlocks(n int) error {
	if len(s.blocks) >= n {
		return nil
	}
	additional := n - len(s.blocks)
	ids := make([]blockID, additional)
	if err := s.disk.AllocInto(ids); err != nil {
		return err
	}
	s.blocks = append(s.blocks, ids...)
	return nil
}

// Truncate shrinks or leaves unchanged the store's size. It returns whether
// the store actually shrank: a no-op growth request is not an error here —
// FileSystemService's TRUNCATE_EXISTING open option is what decides whether
// truncation is requested at all.
func (s *ByteStore) Truncate(newSize int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if newSize >= s.size {
		return false, nil
	}

	keep := s.blocksNeeded(newSize)
	if keep < len(s.blocks) {
		released := s.blocks[keep:]
		s.blocks = s.blocks[:keep]
		s.disk.Free(released)
	}
	s.size = newSize
	return true, nil
}

// Read reads up to len(buf) bytes starting at pos, returning the count read
// or -1 if pos >= size.
func (s *ByteStore) Read(pos int64, buf []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readLocked(pos, buf)
}

func (s *ByteStore) readLocked(pos int64, buf []byte) (int, error) {
	if pos >= s.size {
		return -1, nil
	}
	available := s.size - pos
	toRead := int64(len(buf))
	if toRead > available {
		toRead = available
	}

	bs := s.blockSize()
	read := 0
	remaining := toRead
	cursor := pos
	for remaining > 0 {
		blockIdx := int(cursor / bs)
		offsetInBlock := int(cursor % bs)
		n := int(bs) - offsetInBlock
		if int64(n) > remaining {
			n = int(remaining)
		}
		got := s.disk.GetSlice(s.blocks[blockIdx], offsetInBlock, buf[read:read+n])
		read += got
		remaining -= int64(got)
		cursor += int64(got)
		if got < n {
			break
		}
	}
	return read, nil
}

// ReadAt implements io.ReaderAt semantics over the store's current snapshot,
// returning io.EOF once pos is at or past size — useful when a caller wants
// stdlib io-compatible behavior instead of Read's -1 sentinel.
func (s *ByteStore) ReadAt(buf []byte, pos int64) (int, error) {
	n, err := s.Read(pos, buf)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, io.EOF
	}
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}

// Write writes buf at pos, sparse-zeroing any gap between the old size and
// pos, growing the store's size to max(size, pos+len(buf)).
func (s *ByteStore) Write(pos int64, buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(pos, buf)
}

func (s *ByteStore) writeLocked(pos int64, buf []byte) (int, error) {
	endPos := pos + int64(len(buf))
	if err := s.ensureBlocks(s.blocksNeeded(endPos)); err != nil {
		return 0, err
	}

	if pos > s.size {
		s.zeroRangeLocked(s.size, pos)
	}

	bs := s.blockSize()
	written := 0
	cursor := pos
	remaining := len(buf)
	for remaining > 0 {
		blockIdx := int(cursor / bs)
		offsetInBlock := int(cursor % bs)
		n := int(bs) - offsetInBlock
		if n > remaining {
			n = remaining
		}
		s.disk.PutSlice(s.blocks[blockIdx], offsetInBlock, buf[written:written+n])
		written += n
		remaining -= n
		cursor += int64(n)
	}

	if endPos > s.size {
		s.size = endPos
	}
	return written, nil
}

// zeroRangeLocked zeros the logical byte range [from, to). Must be called
// with the write lock held and with enough blocks already allocated to cover
// [from, to).
func (s *ByteStore) zeroRangeLocked(from, to int64) {
	bs := s.blockSize()
	cursor := from
	for cursor < to {
		blockIdx := int(cursor / bs)
		offsetInBlock := int(cursor % bs)
		n := int(bs) - offsetInBlock
		remaining := to - cursor
		if int64(n) > remaining {
			n = int(remaining)
		}
		s.disk.Zero(s.blocks[blockIdx], offsetInBlock, n)
		cursor += int64(n)
	}
}

// Append writes buf at the current end of the store, reading the size and
// writing atomically under the write lock so concurrent appenders never
// interleave.
func (s *ByteStore) Append(buf []byte) (int64, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := s.size
	n, err := s.writeLocked(pos, buf)
	return pos, n, err
}

// TransferFrom reads up to count bytes from r and writes them starting at
// pos, returning the number of bytes actually transferred. Partial
// transfers (a read error partway through) update size up to the
// successfully received prefix and surface the read error.
func (s *ByteStore) TransferFrom(r io.Reader, pos int64, count int64) (int64, error) {
	buf := make([]byte, count)
	n, readErr := io.ReadFull(r, buf)
	if n > 0 {
		if _, err := s.Write(pos, buf[:n]); err != nil {
			return 0, err
		}
	}
	if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
		return int64(n), nil
	}
	return int64(n), readErr
}

// TransferTo reads count bytes starting at pos and writes them to w.
func (s *ByteStore) TransferTo(pos int64, count int64, w io.Writer) (int64, error) {
	buf := make([]byte, count)
	n, err := s.Read(pos, buf)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, nil
	}
	written, err := w.Write(buf[:n])
	return int64(written), err
}

// Copy creates a new ByteStore with the same size and freshly allocated
// blocks holding a byte-for-byte copy. Fails with CodeOutOfMemory if the
// Disk cannot allocate enough fresh blocks, rather than proceeding against
// a partially-filled, aliasing block list.
func (s *ByteStore) Copy() (*ByteStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dst := &ByteStore{disk: s.disk, size: s.size}
	if len(s.blocks) > 0 {
		ids := make([]blockID, len(s.blocks))
		if err := s.disk.AllocInto(ids); err != nil {
			return nil, err
		}
		for i, srcID := range s.blocks {
			s.disk.Copy(srcID, ids[i])
		}
		dst.blocks = ids
	}
	return dst, nil
}

// Delete returns all blocks to the Disk freelist and zeroes size.
func (s *ByteStore) Delete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disk.Free(s.blocks)
	s.blocks = nil
	s.size = 0
}
