package memfs

import (
	"sync/atomic"

	"github.com/worldiety/memfs/internal/logging"
)

// FileStore owns File identity allocation, the shared Disk backing every
// regular file's ByteStore, and the set of registered AttributeProviders for
// one filesystem instance. It has no hierarchy knowledge of its own;
// FileSystemService and LookupService operate on the File graph FileStore
// hands out.
type FileStore struct {
	log         *logging.Logger
	disk        *Disk
	sensitivity CaseSensitivity
	nextID      uint64
	providers   map[AttributeView]bool
}

// NewFileStore creates a FileStore backed by disk, registering every
// AttributeView named by providers as given; names outside the built-in
// views are registered too, not rejected.
func NewFileStore(disk *Disk, sensitivity CaseSensitivity, providers []string, log *logging.Logger) *FileStore {
	fs := &FileStore{
		log:         log.Sublogger("filestore"),
		disk:        disk,
		sensitivity: sensitivity,
		providers:   make(map[AttributeView]bool, len(providers)),
	}
	for _, p := range providers {
		fs.providers[AttributeView(p)] = true
	}
	return fs
}

func (fs *FileStore) allocID() uint64 {
	return atomic.AddUint64(&fs.nextID, 1)
}

// SupportsView reports whether view was registered via Configuration's
// AttributeProviders.
func (fs *FileStore) SupportsView(view AttributeView) bool {
	return view == ViewBasic || fs.providers[view]
}

// NewRootDirectory creates a self-parented directory File, used at
// construction for the super-root and once per filesystem root.
func (fs *FileStore) NewRootDirectory() *File {
	f := newFile(fs.allocID(), KindDirectory)
	f.directory = NewDirectoryTable(fs.sensitivity, f, f)
	fs.log.Trace("created root directory id=%d", f.ID())
	return f
}

// CreateDirectory creates a new, empty directory File parented at parent.
func (fs *FileStore) CreateDirectory(parent *File) *File {
	f := newFile(fs.allocID(), KindDirectory)
	f.directory = NewDirectoryTable(fs.sensitivity, f, parent)
	fs.log.Trace("created directory id=%d", f.ID())
	return f
}

// CreateRegularFile creates a new, empty regular File backed by this store's
// shared Disk.
func (fs *FileStore) CreateRegularFile() *File {
	f := newFile(fs.allocID(), KindRegular)
	f.regular = NewByteStore(fs.disk)
	fs.log.Trace("created regular file id=%d", f.ID())
	return f
}

// CreateSymbolicLink creates a new symbolic link File pointing at target.
func (fs *FileStore) CreateSymbolicLink(target string) *File {
	f := newFile(fs.allocID(), KindSymbolicLink)
	f.symlink = target
	fs.log.Trace("created symbolic link id=%d -> %s", f.ID(), target)
	return f
}

// Copy produces a content copy of src as a brand-new File with its own
// identity. When copyAttributes is true, the extended attribute map is
// deep-copied as well; otherwise the copy starts with none, matching a
// freshly created File.
func (fs *FileStore) Copy(src *File, copyAttributes bool) (*File, error) {
	var dst *File
	switch src.kind {
	case KindDirectory:
		dst = fs.CreateDirectory(src.directory.LinkParent())
	case KindRegular:
		regular, err := src.regular.Copy()
		if err != nil {
			return nil, err
		}
		dst = newFile(fs.allocID(), KindRegular)
		dst.regular = regular
	case KindSymbolicLink:
		dst = fs.CreateSymbolicLink(src.symlink)
	default:
		return nil, newErr(CodeFileSystem, "", "unknown file kind")
	}

	if copyAttributes {
		for k, v := range src.attrSnapshot() {
			dst.setAttr(k, v)
		}
		dst.SetModifiedMillis(src.ModifiedMillis())
	}
	fs.log.Trace("copied file id=%d -> id=%d (attrs=%v)", src.ID(), dst.ID(), copyAttributes)
	return dst, nil
}

// GetAttribute reads one "view:attr" attribute off f.
func (fs *FileStore) GetAttribute(f *File, name string) (interface{}, bool) {
	view, attr := splitAttributeName(name)
	if view == ViewBasic {
		return getBasicAttribute(f, attr)
	}
	return getNonBasicAttribute(f, view, attr)
}

// SetAttribute writes one "view:attr" attribute on f, rejecting unregistered
// views.
func (fs *FileStore) SetAttribute(f *File, name string, value interface{}) error {
	view, _ := splitAttributeName(name)
	if !fs.SupportsView(view) {
		return newErr(CodeUnsupportedOperation, name, "attribute view not registered")
	}
	return setAttribute(f, name, value)
}

// ReadAttributesByType reads every attribute under view.
func (fs *FileStore) ReadAttributesByType(f *File, view AttributeView) (map[string]interface{}, error) {
	if !fs.SupportsView(view) {
		return nil, newErr(CodeUnsupportedOperation, string(view), "attribute view not registered")
	}
	return readAttributesByType(f, view), nil
}

// ReadAttributesByName reads a list of "view:attr" names.
func (fs *FileStore) ReadAttributesByName(f *File, names ...string) map[string]interface{} {
	return readAttributesByName(f, names...)
}
