package memfs

// DeleteMode restricts what kind of File a Delete call is allowed to remove.
type DeleteMode int

const (
	DeleteAny DeleteMode = iota
	DeleteNonDirectoryOnly
	DeleteDirectoryOnly
)

// Delete removes path, honoring mode's restriction on the target's kind.
func (s *FileSystemService) Delete(path Path, mode DeleteMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(path, mode)
}

func (s *FileSystemService) deleteLocked(path Path, mode DeleteMode) error {
	result, err := s.resolve(path, false)
	if err != nil {
		return err
	}
	if result.Outcome != LookupFound {
		return newErr(CodeNoSuchFile, path.String(), "no such file or directory")
	}

	if err := s.checkDeletable(path, result, mode); err != nil {
		return err
	}

	parent := result.Parent
	parent.Directory().Unlink(result.Name)
	parent.touchModified()

	if result.File.IsDirectory() {
		table := result.File.Directory()
		table.UnlinkSelf()
		table.UnlinkParent()
	}
	s.log.Trace("deleted %s", path.String())
	return nil
}

func (s *FileSystemService) checkDeletable(path Path, result LookupResult, mode DeleteMode) error {
	if result.File == s.isRootFile(path) {
		return newErr(CodeFileSystem, path.String(), "cannot delete a root directory")
	}

	isDir := result.File.IsDirectory()
	if isDir && mode == DeleteNonDirectoryOnly {
		return newErr(CodeFileSystem, path.String(), "path is a directory")
	}
	if !isDir && mode == DeleteDirectoryOnly {
		return newErr(CodeNotDirectory, path.String(), "path is not a directory")
	}
	if isDir && !result.File.Directory().IsEmpty() {
		return newErr(CodeDirectoryNotEmpty, path.String(), "directory is not empty")
	}
	return nil
}

func (s *FileSystemService) isRootFile(path Path) *File {
	root, err := s.rootFor(path)
	if err != nil {
		return nil
	}
	return root
}
