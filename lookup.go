package memfs

// maxSymlinkDepth bounds symbolic link resolution; exceeding it is reported
// as CodeTooManySymbolicLinks.
const maxSymlinkDepth = 10

// LookupOutcome classifies a LookupService.Resolve result.
type LookupOutcome int

const (
	// LookupNotFound means not even the parent directory of the requested
	// path could be located.
	LookupNotFound LookupOutcome = iota
	// LookupParentFound means the parent directory was located but the
	// final component does not exist within it.
	LookupParentFound
	// LookupFound means the full path resolved to a File.
	LookupFound
)

// LookupResult is the outcome of resolving a Path against a directory graph.
type LookupResult struct {
	Outcome LookupOutcome

	// Parent is populated for LookupParentFound and LookupFound.
	Parent *File

	// File is populated only for LookupFound.
	File *File

	// Name is the canonicalized final component, populated whenever Parent
	// is populated, so callers can Link/Unlink without re-deriving it.
	Name Name
}

// LookupService resolves Paths against a root File and follows symbolic
// links transparently. It holds no lock of its own: callers resolve under
// the filesystem-wide lock already held by FileSystemService.
type LookupService struct {
	sensitivity CaseSensitivity
	pathType    PathType
	separator   string
	altSeps     string
}

// NewLookupService creates a LookupService using sensitivity to build the
// intermediate Names it resolves path components into, and pathType/sep/
// altSeps to reparse a symbolic link's stored raw target the same way the
// owning filesystem parses every other path.
func NewLookupService(sensitivity CaseSensitivity, pathType PathType, sep string, altSeps string) *LookupService {
	return &LookupService{sensitivity: sensitivity, pathType: pathType, separator: sep, altSeps: altSeps}
}

// Resolve walks path starting at root, following symbolic links encountered
// at any component except optionally the last (governed by followFinalLink).
func (l *LookupService) Resolve(root *File, path Path, followFinalLink bool) (LookupResult, error) {
	return l.resolveDepth(root, path.Components(), followFinalLink, 0)
}

func (l *LookupService) resolveDepth(root *File, components []Name, followFinalLink bool, depth int) (LookupResult, error) {
	current := root
	for i, name := range components {
		isLast := i == len(components)-1

		if !current.IsDirectory() {
			return LookupResult{Outcome: LookupNotFound}, newErr(CodeNotDirectory, name.String(), "path component is not a directory")
		}

		table := current.Directory()
		child, ok := table.Get(name)
		canonicalName, _ := table.Canonicalize(name)
		if !ok {
			if isLast {
				return LookupResult{Outcome: LookupParentFound, Parent: current, Name: name}, nil
			}
			return LookupResult{Outcome: LookupNotFound}, nil
		}

		if child.IsSymbolicLink() && (!isLast || followFinalLink) {
			if depth >= maxSymlinkDepth {
				return LookupResult{Outcome: LookupNotFound}, newErr(CodeTooManySymbolicLinks, name.String(), "too many levels of symbolic links")
			}
			targetPath := NewPath(child.SymlinkTarget(), l.pathType, l.separator, l.altSeps, l.sensitivity)
			next := current
			if targetPath.IsAbsolute() {
				next = root
			}
			result, err := l.resolveDepth(next, targetPath.Components(), true, depth+1)
			if err != nil {
				return result, err
			}
			if isLast {
				return result, nil
			}
			if result.Outcome != LookupFound {
				return LookupResult{Outcome: LookupNotFound}, nil
			}
			current = result.File
			continue
		}

		if isLast {
			return LookupResult{Outcome: LookupFound, Parent: current, File: child, Name: canonicalName}, nil
		}
		current = child
	}

	// Empty component list: path resolved to root itself.
	return LookupResult{Outcome: LookupFound, Parent: root, File: root}, nil
}
