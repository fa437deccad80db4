package memfs

// CopyOption is one flag in the set passed to Move/Copy.
type CopyOption int

const (
	OptReplaceExisting CopyOption = iota
	OptCopyAttributes
	OptAtomicMove
	OptNoFollowLinks
)

type copyOptions map[CopyOption]bool

func newCopyOptions(opts ...CopyOption) copyOptions {
	m := make(copyOptions, len(opts))
	for _, o := range opts {
		m[o] = true
	}
	return m
}

func (o copyOptions) has(opt CopyOption) bool { return o[opt] }

// Move relocates srcPath to dstPath. dst may belong to a different
// FileSystemService (a different filesystem instance); src always belongs
// to s.
func (s *FileSystemService) Move(srcPath Path, dstSvc *FileSystemService, dstPath Path, opts ...CopyOption) error {
	options := newCopyOptions(opts...)
	if options.has(OptAtomicMove) && dstSvc != s {
		return newErr(CodeUnsupportedOperation, dstPath.String(), "atomic move across filesystems is not supported")
	}
	return s.moveOrCopy(srcPath, dstSvc, dstPath, true, options)
}

// Copy duplicates srcPath's content at dstPath.
func (s *FileSystemService) Copy(srcPath Path, dstSvc *FileSystemService, dstPath Path, opts ...CopyOption) error {
	options := newCopyOptions(opts...)
	if options.has(OptAtomicMove) {
		return newErr(CodeUnsupportedOperation, dstPath.String(), "ATOMIC_MOVE is not valid for copy")
	}
	return s.moveOrCopy(srcPath, dstSvc, dstPath, false, options)
}

func (s *FileSystemService) moveOrCopy(srcPath Path, dstSvc *FileSystemService, dstPath Path, isMove bool, options copyOptions) error {
	sameService := dstSvc == s

	followSrc := !isMove && !options.has(OptNoFollowLinks)

	if sameService {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.moveOrCopyLocked(srcPath, s, dstPath, isMove, options, followSrc)
	}

	for {
		s.mu.Lock()
		if dstSvc.mu.TryLock() {
			break
		}
		s.mu.Unlock()
	}
	defer s.mu.Unlock()
	defer dstSvc.mu.Unlock()
	return s.moveOrCopyLocked(srcPath, dstSvc, dstPath, isMove, options, followSrc)
}

// moveOrCopyLocked runs the shared move/copy algorithm with both services'
// write locks already held (trivially the same lock when sameService).
func (s *FileSystemService) moveOrCopyLocked(srcPath Path, dstSvc *FileSystemService, dstPath Path, isMove bool, options copyOptions, followSrc bool) error {
	srcResult, err := s.resolve(srcPath, followSrc)
	if err != nil {
		return err
	}
	if srcResult.Outcome != LookupFound {
		return newErr(CodeNoSuchFile, srcPath.String(), "no such file or directory")
	}

	dstResult, err := dstSvc.resolve(dstPath, false)
	if err != nil {
		return err
	}
	if dstResult.Outcome == LookupNotFound {
		return newErr(CodeNoSuchFile, dstPath.String(), "parent directory does not exist")
	}

	sameService := dstSvc == s

	if srcResult.File.IsDirectory() {
		if sameService {
			if srcResult.File == s.isRootFile(srcPath) {
				return newErr(CodeFileSystem, srcPath.String(), "cannot move a root directory")
			}
			if dstIsSubdirectoryOfSrc(dstResult.Parent, srcResult.File) {
				return newErr(CodeFileSystem, dstPath.String(), "cannot move a directory into its own subdirectory")
			}
		} else if isMove {
			if err := s.checkDeletable(srcPath, srcResult, DeleteAny); err != nil {
				return err
			}
		}
	}

	if dstResult.Outcome == LookupFound {
		if dstResult.File == srcResult.File {
			return nil
		}
		if !options.has(OptReplaceExisting) {
			return newErr(CodeFileAlreadyExists, dstPath.String(), "file already exists")
		}
		if err := dstSvc.checkDeletable(dstPath, dstResult, DeleteAny); err != nil {
			return err
		}
		dstResult.Parent.Directory().Unlink(dstResult.Name)
		if dstResult.File.IsDirectory() {
			t := dstResult.File.Directory()
			t.UnlinkSelf()
			t.UnlinkParent()
		}
	}

	if sameService && isMove {
		srcResult.Parent.Directory().Unlink(srcResult.Name)
		srcResult.Parent.touchModified()
		if err := dstResult.Parent.Directory().Link(dstResult.Name, srcResult.File); err != nil {
			return err
		}
		if srcResult.File.IsDirectory() {
			srcResult.File.Directory().Reparent(dstResult.Parent)
		}
		dstResult.Parent.touchModified()
		return nil
	}

	copyOfSrc, err := dstSvc.store.Copy(srcResult.File, options.has(OptCopyAttributes))
	if err != nil {
		return err
	}
	if err := dstResult.Parent.Directory().Link(dstResult.Name, copyOfSrc); err != nil {
		return err
	}
	if copyOfSrc.IsDirectory() {
		copyOfSrc.Directory().Reparent(dstResult.Parent)
	}
	dstResult.Parent.touchModified()

	if isMove {
		copyOfSrc.SetModifiedMillis(srcResult.File.ModifiedMillis())
		if err := s.deleteLocked(srcPath, DeleteAny); err != nil {
			return err
		}
	}
	return nil
}

// dstIsSubdirectoryOfSrc walks up from dstParent via PARENT links, checking
// whether it encounters src before reaching a self-parented root. Moving a
// directory into its own subdirectory would disconnect it from its roots.
func dstIsSubdirectoryOfSrc(dstParent *File, src *File) bool {
	current := dstParent
	for {
		if current == src {
			return true
		}
		table := current.Directory()
		if table == nil {
			return false
		}
		parent := table.LinkParent()
		if parent == current {
			return false
		}
		current = parent
	}
}
