package memfs

import (
	"io"
	"sync"
)

// FileChannel is a stateful, position-ful cursor over a regular File's
// ByteStore. Every public operation except Map, Lock and TryLock
// synchronizes on a per-channel mutex; the underlying ByteStore lock is
// acquired only for the duration of the actual byte transfer.
type FileChannel struct {
	mu sync.Mutex

	file     *File
	store    *ByteStore
	readable bool
	writable bool
	append   bool
	position int64
	open     bool
}

// NewFileChannel opens a channel over file (which must be regular) with the
// given readable/writable/append flags.
func NewFileChannel(file *File, readable, writable, appendMode bool) (*FileChannel, error) {
	if !file.IsRegular() {
		return nil, newErr(CodeFileSystem, "", "channel can only be opened over a regular file")
	}
	pos := int64(0)
	if appendMode {
		pos = file.ByteStore().Size()
	}
	return &FileChannel{
		file:     file,
		store:    file.ByteStore(),
		readable: readable,
		writable: writable,
		append:   appendMode,
		position: pos,
		open:     true,
	}, nil
}

func (c *FileChannel) checkOpen() error {
	if !c.open {
		return newErr(CodeClosedChannel, "", "channel is closed")
	}
	return nil
}

// Read reads into buf at the current position, advancing it by the number
// of bytes read.
func (c *FileChannel) Read(buf []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	if !c.readable {
		return 0, newErr(CodeUnsupportedOperation, "", "channel is not readable")
	}
	n, err := c.store.Read(c.position, buf)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		c.file.touchAccessed()
		return -1, nil
	}
	c.position += int64(n)
	c.file.touchAccessed()
	return n, nil
}

// ReadAt reads into buf at pos without moving the channel's position.
func (c *FileChannel) ReadAt(buf []byte, pos int64) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	if !c.readable {
		return 0, newErr(CodeUnsupportedOperation, "", "channel is not readable")
	}
	n, err := c.store.Read(pos, buf)
	if err != nil {
		return 0, err
	}
	c.file.touchAccessed()
	return n, nil
}

// Write writes buf at the current position (or at the store's end-of-file
// if the channel is in append mode), advancing position to just past the
// written range.
func (c *FileChannel) Write(buf []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	if !c.writable {
		return 0, newErr(CodeUnsupportedOperation, "", "channel is not writable")
	}

	var n int
	var err error
	if c.append {
		var pos int64
		pos, n, err = c.store.Append(buf)
		if err == nil {
			c.position = pos + int64(n)
		}
	} else {
		n, err = c.store.Write(c.position, buf)
		if err == nil {
			c.position += int64(n)
		}
	}
	if err != nil {
		return 0, err
	}
	c.file.touchModified()
	return n, nil
}

// WriteAt writes buf at pos without moving the channel's position.
func (c *FileChannel) WriteAt(buf []byte, pos int64) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	if !c.writable {
		return 0, newErr(CodeUnsupportedOperation, "", "channel is not writable")
	}
	n, err := c.store.Write(pos, buf)
	if err != nil {
		return 0, err
	}
	c.file.touchModified()
	return n, nil
}

// Position returns the channel's current position.
func (c *FileChannel) Position() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return c.position, nil
}

// SetPosition repositions the channel.
func (c *FileChannel) SetPosition(pos int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.position = pos
	return nil
}

// Size returns the current size of the underlying ByteStore.
func (c *FileChannel) Size() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return c.store.Size(), nil
}

// Truncate shrinks the underlying ByteStore to newSize, also pulling the
// channel's position back to newSize if it now exceeds it.
func (c *FileChannel) Truncate(newSize int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkOpen(); err != nil {
		return err
	}
	if _, err := c.store.Truncate(newSize); err != nil {
		return err
	}
	if c.position > newSize {
		c.position = newSize
	}
	c.file.touchModified()
	return nil
}

// Force is a durability no-op for an in-memory filesystem; metaData is
// accepted for API parity with native channels.
func (c *FileChannel) Force(metaData bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkOpen()
}

// TransferTo reads count bytes starting at pos and writes them to w.
func (c *FileChannel) TransferTo(pos, count int64, w io.Writer) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return c.store.TransferTo(pos, count, w)
}

// TransferFrom reads count bytes from r and writes them starting at pos.
func (c *FileChannel) TransferFrom(r io.Reader, pos, count int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	n, err := c.store.TransferFrom(r, pos, count)
	if err == nil {
		c.file.touchModified()
	}
	return n, err
}

// Map is explicitly unsupported: memory-mapping a region of an in-memory
// ByteStore has no meaningful semantics distinct from Read/Write.
func (c *FileChannel) Map(mode int, pos, size int64) error {
	return newErr(CodeUnsupportedOperation, "", "memory mapping is not supported")
}

// LockToken is returned by Lock/TryLock. Since the filesystem is
// single-process, it performs no actual cross-process synchronization; it
// exists only so callers written against a native-channel-like API have a
// token to hold and release.
type LockToken struct {
	valid bool
}

// IsValid reports whether the token has not yet been released.
func (t *LockToken) IsValid() bool { return t.valid }

// Release invalidates the token.
func (t *LockToken) Release() { t.valid = false }

// Lock returns an always-granted LockToken.
func (c *FileChannel) Lock() (*LockToken, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return &LockToken{valid: true}, nil
}

// TryLock returns an always-granted LockToken.
func (c *FileChannel) TryLock() (*LockToken, error) {
	return c.Lock()
}

// Close releases the channel's references to its File and ByteStore.
// Subsequent operations fail with CodeClosedChannel.
func (c *FileChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.file = nil
	c.store = nil
	return nil
}
