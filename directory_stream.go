package memfs

import "sync"

// PathFilter decides whether a DirectoryStream yields a given entry path.
type PathFilter func(Path) bool

// DirectoryStream iterates a snapshot of a directory's entries, taken at the
// moment the stream was opened, each yielded as the stream's base path
// resolved against the entry's Name. Iterator is single-use.
type DirectoryStream struct {
	mu       sync.Mutex
	base     Path
	entries  []DirEntry
	filter   PathFilter
	index    int
	started  bool
	closed   bool
}

// NewDirectoryStream snapshots entries (already ordered, per
// DirectoryTable.Snapshot) as a stream rooted at base, yielding only entries
// for which filter returns true (a nil filter yields everything).
func NewDirectoryStream(base Path, entries []DirEntry, filter PathFilter) *DirectoryStream {
	if filter == nil {
		filter = func(Path) bool { return true }
	}
	return &DirectoryStream{base: base, entries: entries, filter: filter}
}

// Next returns the next (path, file) pair passing the filter, or false once
// exhausted. A DirectoryStream may only be iterated once; a second pass
// needs a fresh snapshot.
func (s *DirectoryStream) Next() (Path, *File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Path{}, nil, false
	}
	s.started = true
	for s.index < len(s.entries) {
		e := s.entries[s.index]
		s.index++
		p := s.base.Resolve(pathOf(nil, []Name{e.Name}, s.base.sensitivity))
		if s.filter(p) {
			return p, e.File, true
		}
	}
	return Path{}, nil, false
}

// Close releases the stream's snapshot. Further Next calls return false.
func (s *DirectoryStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}
