package memfs

import (
	"sync"

	"github.com/worldiety/memfs/internal/logging"
)

// FileSystemService is the top-level mutator over one filesystem's File
// graph. It owns the super-root, a working-directory File and Path, a
// FileStore, a LookupService, and the single filesystem-wide read-write
// lock every hierarchy-mutating operation serializes on.
type FileSystemService struct {
	log    *logging.Logger
	config Configuration

	mu sync.RWMutex

	store  *FileStore
	lookup *LookupService

	superRoot *File
	roots     map[string]*File
	workDir   *File
	workPath  Path

	resources *resourceRegistry
}

// NewFileSystemService builds a FileSystemService from config, eagerly
// creating one root directory File per config.Roots and the working
// directory named by config.WorkingDirectory.
func NewFileSystemService(config Configuration, log *logging.Logger) (*FileSystemService, error) {
	if len(config.Roots) == 0 {
		return nil, newErr(CodeFileSystem, "", "configuration must declare at least one root")
	}

	sub := log.Sublogger("fs")
	disk := NewDisk(config.blockSize(), config.maxTotalSpace())
	store := NewFileStore(disk, config.CaseSensitivity, providerNames(config.AttributeProviders), sub)

	svc := &FileSystemService{
		log:       sub,
		config:    config,
		store:     store,
		lookup:    NewLookupService(config.CaseSensitivity, config.PathType, config.Separator, config.AlternateSeparators),
		superRoot: store.NewRootDirectory(),
		roots:     make(map[string]*File, len(config.Roots)),
		resources: newResourceRegistry(),
	}

	// Every configured root hangs off a single super-root directory, even
	// though Path addresses a root by name rather than by walking through
	// the super-root's own table.
	for _, r := range config.Roots {
		rootDir := store.NewRootDirectory()
		rootName := NewName(r, config.CaseSensitivity)
		if err := svc.superRoot.Directory().Link(rootName, rootDir); err != nil {
			return nil, err
		}
		svc.roots[r] = rootDir
	}

	workPath := NewPath(config.WorkingDirectory, config.PathType, config.Separator, config.AlternateSeparators, config.CaseSensitivity)
	workDir, err := svc.mkdirAll(workPath)
	if err != nil {
		return nil, err
	}
	svc.workDir = workDir
	svc.workPath = workPath

	sub.Info("filesystem ready: roots=%v workdir=%s", config.Roots, config.WorkingDirectory)
	return svc, nil
}

func providerNames(views []string) []string {
	return views
}

// rootFor returns the root File matching path's root Name, or an error if
// path names an unknown root. For a relative path it returns the working
// directory File.
func (s *FileSystemService) rootFor(path Path) (*File, error) {
	root, ok := path.Root()
	if !ok {
		return s.workDir, nil
	}
	f, ok := s.roots[root.String()]
	if !ok {
		return nil, newErr(CodeNoSuchFile, path.String(), "unknown root")
	}
	return f, nil
}

// mkdirAll creates every missing directory along path, used only to
// materialize the configured working directory at construction time.
func (s *FileSystemService) mkdirAll(path Path) (*File, error) {
	root, err := s.rootFor(path)
	if err != nil {
		return nil, err
	}
	current := root
	for _, name := range path.Normalize().Components() {
		table := current.Directory()
		child, ok := table.Get(name)
		if !ok {
			child = s.store.CreateDirectory(current)
			if err := table.Link(name, child); err != nil {
				return nil, err
			}
			child.Directory().Reparent(current)
		}
		current = child
	}
	return current, nil
}

// resolve runs LookupService.Resolve against the root implied by path.
func (s *FileSystemService) resolve(path Path, followFinalLink bool) (LookupResult, error) {
	root, err := s.rootFor(path)
	if err != nil {
		return LookupResult{}, err
	}
	return s.lookup.Resolve(root, path.Normalize(), followFinalLink)
}

// LookupFile resolves path to a File.
func (s *FileSystemService) LookupFile(path Path, followLinks bool) (*File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, err := s.resolve(path, followLinks)
	if err != nil {
		return nil, err
	}
	if result.Outcome != LookupFound {
		return nil, newErr(CodeNoSuchFile, path.String(), "no such file or directory")
	}
	return result.File, nil
}

// Exists reports whether path resolves to a File.
func (s *FileSystemService) Exists(path Path) bool {
	_, err := s.LookupFile(path, true)
	return err == nil
}

// IsSameFile reports whether a and b resolve to the same File identity.
func (s *FileSystemService) IsSameFile(a, b Path) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ra, err := s.resolve(a, true)
	if err != nil {
		return false, err
	}
	rb, err := s.resolve(b, true)
	if err != nil {
		return false, err
	}
	if ra.Outcome != LookupFound || rb.Outcome != LookupFound {
		return false, newErr(CodeNoSuchFile, "", "no such file or directory")
	}
	return ra.File == rb.File, nil
}

// ToRealPath resolves path, following symlinks, and returns its canonical
// displayed form by walking from root to the resolved File's recorded
// names.
func (s *FileSystemService) ToRealPath(path Path) (Path, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, err := s.resolve(path, true)
	if err != nil {
		return Path{}, err
	}
	if result.Outcome != LookupFound {
		return Path{}, newErr(CodeNoSuchFile, path.String(), "no such file or directory")
	}
	root, _ := path.Root()
	names := make([]Name, 0, path.NameCount())
	current := result.File
	if !current.IsDirectory() {
		names = append(names, result.Name)
		current = result.Parent
	}
	for {
		parent := current.Directory()
		if parent == nil {
			break
		}
		pf := parent.LinkParent()
		if pf == current {
			break
		}
		name, ok := pf.Directory().GetName(current)
		if !ok {
			break
		}
		names = append([]Name{name}, names...)
		current = pf
	}
	return pathOf(&root, names, s.config.CaseSensitivity), nil
}

// ReadSymbolicLink returns the raw target string of the symbolic link at
// path without following it.
func (s *FileSystemService) ReadSymbolicLink(path Path) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, err := s.resolve(path, false)
	if err != nil {
		return "", err
	}
	if result.Outcome != LookupFound {
		return "", newErr(CodeNoSuchFile, path.String(), "no such file or directory")
	}
	if !result.File.IsSymbolicLink() {
		return "", newErr(CodeNotLink, path.String(), "not a symbolic link")
	}
	return result.File.SymlinkTarget(), nil
}

// ListDirectory returns a snapshot of path's directory entries.
func (s *FileSystemService) ListDirectory(path Path) ([]DirEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, err := s.resolve(path, true)
	if err != nil {
		return nil, err
	}
	if result.Outcome != LookupFound {
		return nil, newErr(CodeNoSuchFile, path.String(), "no such file or directory")
	}
	if !result.File.IsDirectory() {
		return nil, newErr(CodeNotDirectory, path.String(), "not a directory")
	}
	return result.File.Directory().Snapshot(), nil
}
