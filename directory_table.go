package memfs

import "sort"

// entry is one directory-table slot: a Name mapped to the File it denotes.
type entry struct {
	name Name
	file *File
}

// DirectoryTable is the content of a directory File: an ordered set of
// Name -> File links, always carrying the two reserved SELF/PARENT entries.
// Lookups compare Names by their canonical form, which NewName derived from
// the CaseSensitivity the Name was built with (the sensitivity field is not
// reapplied to a query Name), while iteration yields entries' display strings
// so a caller always sees the name as it was created.
type DirectoryTable struct {
	sensitivity CaseSensitivity
	entries     map[string]entry // canonical -> entry, excluding SELF/PARENT
	self        *File
	parent      *File
}

// NewDirectoryTable creates an empty DirectoryTable linked to self (the File
// this table belongs to) and parent (the enclosing directory's File). The
// root directory of a filesystem links SELF and PARENT to itself. self and
// parent are link-counted as if their entries were already present (parent
// may be nil when the caller will call Reparent once the real enclosing
// directory is known, e.g. during a two-step create).
func NewDirectoryTable(sensitivity CaseSensitivity, self, parent *File) *DirectoryTable {
	self.incLink()
	if parent != nil {
		parent.incLink()
	}
	return &DirectoryTable{
		sensitivity: sensitivity,
		entries:     make(map[string]entry),
		self:        self,
		parent:      parent,
	}
}

// LinkSelf returns the File this table's SELF entry resolves to.
func (t *DirectoryTable) LinkSelf() *File { return t.self }

// LinkParent returns the File this table's PARENT entry resolves to.
func (t *DirectoryTable) LinkParent() *File { return t.parent }

// Reparent updates PARENT to point at a new enclosing File, used when a
// directory is moved. The old and new parent's link counts are adjusted to
// match, since each one's count includes every child directory whose
// PARENT entry points back to it.
func (t *DirectoryTable) Reparent(parent *File) {
	if t.parent != nil {
		t.parent.decLink()
	}
	t.parent = parent
	if parent != nil {
		parent.incLink()
	}
}

// UnlinkSelf drops this table's own SELF entry's contribution to its File's
// link count, used when the directory itself is being deleted.
func (t *DirectoryTable) UnlinkSelf() {
	t.self.decLink()
}

// UnlinkParent drops this table's PARENT entry's contribution to the
// enclosing directory's link count, used when this directory is deleted.
func (t *DirectoryTable) UnlinkParent() {
	t.parent.decLink()
}

// Get resolves name to its File, following SELF/PARENT specially and
// canonicalizing any other Name before lookup.
func (t *DirectoryTable) Get(name Name) (*File, bool) {
	if name.IsSelf() {
		return t.self, true
	}
	if name.IsParent() {
		return t.parent, true
	}
	e, ok := t.entries[name.Canonical()]
	if !ok {
		return nil, false
	}
	return e.file, true
}

// Canonicalize resolves name to the Name actually stored in the table (the
// form it was created with), distinct from the query Name when the table's
// CaseSensitivity folds multiple spellings onto the same entry.
func (t *DirectoryTable) Canonicalize(name Name) (Name, bool) {
	if name.IsSelf() {
		return SELF, true
	}
	if name.IsParent() {
		return PARENT, true
	}
	e, ok := t.entries[name.Canonical()]
	if !ok {
		return Name{}, false
	}
	return e.name, true
}

// GetName returns the Name under which file is linked in this table, or
// false if it is not a direct child. When a File is hard-linked multiple
// times under the same table, one of its Names is returned; which one is not
// defined, since the entries are scanned in map iteration order.
func (t *DirectoryTable) GetName(file *File) (Name, bool) {
	for _, e := range t.entries {
		if e.file == file {
			return e.name, true
		}
	}
	return Name{}, false
}

// Link adds a new directory entry name -> file, incrementing file's link
// count. Returns an error if name is already present or reserved.
func (t *DirectoryTable) Link(name Name, file *File) error {
	if name.IsReserved() {
		return newErr(CodeFileAlreadyExists, name.String(), "name is reserved")
	}
	if _, exists := t.entries[name.Canonical()]; exists {
		return newErr(CodeFileAlreadyExists, name.String(), "entry already exists")
	}
	t.entries[name.Canonical()] = entry{name: name, file: file}
	file.incLink()
	return nil
}

// Unlink removes the directory entry for name, decrementing the linked
// File's link count. Returns the removed File and whether it was found.
func (t *DirectoryTable) Unlink(name Name) (*File, bool) {
	e, ok := t.entries[name.Canonical()]
	if !ok {
		return nil, false
	}
	delete(t.entries, name.Canonical())
	e.file.decLink()
	return e.file, true
}

// Replace atomically unlinks whatever is currently at name (if anything) and
// links file in its place, used by REPLACE_EXISTING move/copy.
func (t *DirectoryTable) Replace(name Name, file *File) {
	if e, ok := t.entries[name.Canonical()]; ok {
		e.file.decLink()
	}
	t.entries[name.Canonical()] = entry{name: name, file: file}
	file.incLink()
}

// IsEmpty reports whether the table holds no entries beyond SELF/PARENT.
func (t *DirectoryTable) IsEmpty() bool {
	return len(t.entries) == 0
}

// Count returns the number of non-reserved entries.
func (t *DirectoryTable) Count() int {
	return len(t.entries)
}

// DirEntry is one row of a Snapshot: a displayed Name paired with the File
// it denotes.
type DirEntry struct {
	Name Name
	File *File
}

// Snapshot returns every non-reserved entry ordered by displayed string, the
// basis for DirectoryStream iteration.
func (t *DirectoryTable) Snapshot() []DirEntry {
	out := make([]DirEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, DirEntry{Name: e.name, File: e.file})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name.String() < out[j].Name.String()
	})
	return out
}
