package memfs

import "sync"

const (
	defaultBlockSize     = 8 * 1024
	defaultMaxTotalSpace = 4 << 30 // 4 GiB reported ceiling
)

// blockID identifies one block allocated from a Disk. IDs are opaque and
// stable for the lifetime of the allocation; once freed an ID may be reused.
type blockID int64

// Disk is a pool of fixed-size blocks shared by every regular file on a
// filesystem. It owns the backing storage (a growable slice of block-sized
// byte slices) and a freelist, both protected by a single mutex since
// allocation is a short, non-blocking operation relative to the I/O it
// backs.
type Disk struct {
	mu            sync.Mutex
	blockSize     int
	maxTotalSpace int64
	blocks        [][]byte
	free          []blockID
}

// NewDisk creates a Disk with the given block size and reported space
// ceiling. blockSize must be a power of two; callers go through
// Configuration.blockSize()/maxTotalSpace() to get validated defaults.
func NewDisk(blockSize int, maxTotalSpace int64) *Disk {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	if maxTotalSpace <= 0 {
		maxTotalSpace = defaultMaxTotalSpace
	}
	return &Disk{blockSize: blockSize, maxTotalSpace: maxTotalSpace}
}

// BlockSize returns the fixed size of every block on this Disk.
func (d *Disk) BlockSize() int {
	return d.blockSize
}

// Alloc allocates a single block and returns its ID.
func (d *Disk) Alloc() (blockID, error) {
	ids := make([]blockID, 1)
	if err := d.AllocInto(ids); err != nil {
		return 0, err
	}
	return ids[0], nil
}

// AllocInto fills out with len(out) freshly allocated block IDs, growing the
// backing storage if the freelist is exhausted.
func (d *Disk) AllocInto(out []blockID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range out {
		if len(d.free) == 0 {
			if err := d.growLocked(); err != nil {
				return err
			}
		}
		last := len(d.free) - 1
		out[i] = d.free[last]
		d.free = d.free[:last]
	}
	return nil
}

// growLocked grows capacity by appending one new block and adding it to
// the freelist; must be called with mu held.
func (d *Disk) growLocked() error {
	total := int64(len(d.blocks)+1) * int64(d.blockSize)
	if total > d.maxTotalSpace {
		return newErr(CodeOutOfMemory, "", "disk cannot grow beyond configured maximum")
	}
	id := blockID(len(d.blocks))
	d.blocks = append(d.blocks, make([]byte, d.blockSize))
	d.free = append(d.free, id)
	return nil
}

// Free returns ids to the freelist.
func (d *Disk) Free(ids []blockID) {
	if len(ids) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.free = append(d.free, ids...)
}

// Zero clears len bytes of block id starting at offset.
func (d *Disk) Zero(id blockID, offset, length int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := d.blocks[id]
	for i := offset; i < offset+length; i++ {
		b[i] = 0
	}
}

// Copy duplicates the full contents of src into dst.
func (d *Disk) Copy(src, dst blockID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.blocks[dst], d.blocks[src])
}

// PutByte writes a single byte at offset within block id.
func (d *Disk) PutByte(id blockID, offset int, value byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blocks[id][offset] = value
}

// GetByte reads a single byte at offset within block id.
func (d *Disk) GetByte(id blockID, offset int) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.blocks[id][offset]
}

// PutSlice copies src into block id starting at offset.
func (d *Disk) PutSlice(id blockID, offset int, src []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.blocks[id][offset:], src)
}

// GetSlice copies length bytes from block id starting at offset into dst,
// returning the number of bytes copied.
func (d *Disk) GetSlice(id blockID, offset int, dst []byte) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return copy(dst, d.blocks[id][offset:offset+len(dst)])
}

// TotalSpace returns the space backing all allocated blocks, capped at
// maxTotalSpace.
func (d *Disk) TotalSpace() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := int64(len(d.blocks)) * int64(d.blockSize)
	if total > d.maxTotalSpace {
		return d.maxTotalSpace
	}
	return total
}

// UnallocatedSpace returns the space currently on the freelist.
func (d *Disk) UnallocatedSpace() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.free)) * int64(d.blockSize)
}
