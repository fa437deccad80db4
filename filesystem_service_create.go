package memfs

// OpenOption is one flag in the set passed to OpenChannel.
type OpenOption int

const (
	OpenRead OpenOption = iota
	OpenWrite
	OpenAppend
	OpenCreate
	OpenCreateNew
	OpenTruncateExisting
	OpenNoFollowLinks
	OpenSparse
)

type openOptions map[OpenOption]bool

func newOpenOptions(opts ...OpenOption) openOptions {
	m := make(openOptions, len(opts))
	for _, o := range opts {
		m[o] = true
	}
	return m
}

func (o openOptions) has(opt OpenOption) bool { return o[opt] }

// createFile links a File produced by supplier under path's final name,
// requiring the parent to already exist.
func (s *FileSystemService) createFile(path Path, supplier func() *File, allowExisting bool) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createFileLocked(path, supplier, allowExisting)
}

func (s *FileSystemService) createFileLocked(path Path, supplier func() *File, allowExisting bool) (*File, error) {
	result, err := s.resolve(path, false)
	if err != nil {
		return nil, err
	}

	switch result.Outcome {
	case LookupFound:
		if allowExisting {
			return result.File, nil
		}
		return nil, newErr(CodeFileAlreadyExists, path.String(), "file already exists")
	case LookupNotFound:
		return nil, newErr(CodeNoSuchFile, path.String(), "parent directory does not exist")
	}

	parent := result.Parent
	child := supplier()
	if err := parent.Directory().Link(result.Name, child); err != nil {
		return nil, err
	}
	if child.IsDirectory() {
		child.Directory().Reparent(parent)
	}
	parent.touchModified()
	s.log.Trace("created %s at %s", child.Kind(), path.String())
	return child, nil
}

// CreateDirectory creates an empty directory at path.
func (s *FileSystemService) CreateDirectory(path Path) (*File, error) {
	return s.createFile(path, func() *File { return s.store.CreateDirectory(nil) }, false)
}

// CreateSymbolicLink creates a symbolic link at path pointing at target.
// Rejected with UnsupportedOperation when the filesystem's configuration
// does not enable FeatureSymbolicLinks.
func (s *FileSystemService) CreateSymbolicLink(path Path, target string) (*File, error) {
	if !s.config.HasFeature(FeatureSymbolicLinks) {
		return nil, newErr(CodeUnsupportedOperation, path.String(), "symbolic links not supported")
	}
	return s.createFile(path, func() *File { return s.store.CreateSymbolicLink(target) }, false)
}

// Link creates a hard link at dst pointing at src. src must already be a
// regular file, and dst must not already exist.
func (s *FileSystemService) Link(dst Path, src Path) error {
	if !s.config.HasFeature(FeatureHardLinks) {
		return newErr(CodeUnsupportedOperation, dst.String(), "hard links not supported")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	srcResult, err := s.resolve(src, false)
	if err != nil {
		return err
	}
	if srcResult.Outcome != LookupFound {
		return newErr(CodeNoSuchFile, src.String(), "no such file or directory")
	}
	if !srcResult.File.IsRegular() {
		return newErr(CodeUnsupportedOperation, src.String(), "hard links are only supported for regular files")
	}

	dstResult, err := s.resolve(dst, false)
	if err != nil {
		return err
	}
	if dstResult.Outcome == LookupFound {
		return newErr(CodeFileAlreadyExists, dst.String(), "file already exists")
	}
	if dstResult.Outcome == LookupNotFound {
		return newErr(CodeNoSuchFile, dst.String(), "parent directory does not exist")
	}

	if err := dstResult.Parent.Directory().Link(dstResult.Name, srcResult.File); err != nil {
		return err
	}
	dstResult.Parent.touchModified()
	s.log.Trace("linked %s -> %s", dst.String(), src.String())
	return nil
}

// OpenForCreate runs a two-phase get-or-create: try a read-locked lookup
// first, and only upgrade to the write lock when creation is actually
// required.
func (s *FileSystemService) OpenForCreate(path Path, opts ...OpenOption) (*File, error) {
	options := newOpenOptions(opts...)

	s.mu.RLock()
	result, err := s.resolve(path, !options.has(OpenNoFollowLinks))
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if result.Outcome == LookupFound {
		if !result.File.IsRegular() {
			return nil, newErr(CodeFileSystem, path.String(), "not a regular file")
		}
		if options.has(OpenTruncateExisting) {
			if _, err := result.File.ByteStore().Truncate(0); err != nil {
				return nil, err
			}
		}
		return result.File, nil
	}

	if !options.has(OpenCreate) && !options.has(OpenCreateNew) {
		return nil, newErr(CodeNoSuchFile, path.String(), "no such file or directory")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err = s.resolve(path, !options.has(OpenNoFollowLinks))
	if err != nil {
		return nil, err
	}
	if result.Outcome == LookupFound {
		if options.has(OpenCreateNew) {
			return nil, newErr(CodeFileAlreadyExists, path.String(), "file already exists")
		}
		if !result.File.IsRegular() {
			return nil, newErr(CodeFileSystem, path.String(), "not a regular file")
		}
		return result.File, nil
	}

	return s.createFileLocked(path, func() *File { return s.store.CreateRegularFile() }, false)
}
