package memfs

// SecureDirectoryStream is a directory stream bound to a directory *File*
// rather than a path, so operations performed through it continue to target
// the same directory even if it is renamed or moved elsewhere in the
// hierarchy. It holds the owning FileSystemService and the pinned directory
// File, and takes the owner's filesystem lock for each operation. It lists,
// creates and deletes direct entries of that directory by Name; it does not
// resolve multi-component paths relative to the directory.
type SecureDirectoryStream struct {
	owner *FileSystemService
	dir   *File
}

// OpenSecureDirectoryStream opens a stream pinned to path's resolved
// directory, rejecting it unless the filesystem's configuration enables
// FeatureSecureDirectoryStreams.
func (s *FileSystemService) OpenSecureDirectoryStream(path Path, linking LinkHandling) (*SecureDirectoryStream, error) {
	if !s.config.HasFeature(FeatureSecureDirectoryStreams) {
		return nil, newErr(CodeUnsupportedOperation, path.String(), "secure directory streams not supported")
	}

	s.mu.RLock()
	result, err := s.resolve(path, linking == FollowLinks)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if result.Outcome != LookupFound {
		return nil, newErr(CodeNoSuchFile, path.String(), "no such file or directory")
	}
	if !result.File.IsDirectory() {
		return nil, newErr(CodeNotDirectory, path.String(), "not a directory")
	}
	return &SecureDirectoryStream{owner: s, dir: result.File}, nil
}

// List returns a snapshot of the entries currently in the pinned directory,
// independent of whatever path it is reachable at now.
func (stream *SecureDirectoryStream) List(filter PathFilter) *DirectoryStream {
	stream.owner.mu.RLock()
	entries := stream.dir.Directory().Snapshot()
	stream.owner.mu.RUnlock()
	return NewDirectoryStream(Path{}, entries, filter)
}

// NewFile creates a new File under the pinned directory, following the same
// create algorithm as FileSystemService.createFile.
func (stream *SecureDirectoryStream) NewFile(name Name, supplier func() *File, allowExisting bool) (*File, error) {
	stream.owner.mu.Lock()
	defer stream.owner.mu.Unlock()

	table := stream.dir.Directory()
	if existing, ok := table.Get(name); ok {
		if allowExisting {
			return existing, nil
		}
		return nil, newErr(CodeFileAlreadyExists, name.String(), "file already exists")
	}

	child := supplier()
	if err := table.Link(name, child); err != nil {
		return nil, err
	}
	if child.IsDirectory() {
		child.Directory().Reparent(stream.dir)
	}
	stream.dir.touchModified()
	return child, nil
}

// Delete removes name from the pinned directory.
func (stream *SecureDirectoryStream) Delete(name Name, mode DeleteMode) error {
	stream.owner.mu.Lock()
	defer stream.owner.mu.Unlock()

	table := stream.dir.Directory()
	child, ok := table.Get(name)
	if !ok {
		return newErr(CodeNoSuchFile, name.String(), "no such file or directory")
	}

	isDir := child.IsDirectory()
	if isDir && mode == DeleteNonDirectoryOnly {
		return newErr(CodeFileSystem, name.String(), "path is a directory")
	}
	if !isDir && mode == DeleteDirectoryOnly {
		return newErr(CodeNotDirectory, name.String(), "path is not a directory")
	}
	if isDir && !child.Directory().IsEmpty() {
		return newErr(CodeDirectoryNotEmpty, name.String(), "directory is not empty")
	}

	table.Unlink(name)
	stream.dir.touchModified()
	if isDir {
		childTable := child.Directory()
		childTable.UnlinkSelf()
		childTable.UnlinkParent()
	}
	return nil
}

// Dir returns the File this stream is pinned to.
func (stream *SecureDirectoryStream) Dir() *File {
	return stream.dir
}
