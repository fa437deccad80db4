// Package memfs implements an in-memory hierarchical filesystem: Name/Path
// value types, a block-allocated ByteStore for regular file content, a
// DirectoryTable-based hierarchy with hard-link and symbolic-link support,
// a FileSystemService mutator holding the filesystem-wide lock, FileChannel
// and AsyncFileChannel cursors over regular files, and a DirectoryStream /
// WatchService pair for listing and observing directories.
//
// Build a filesystem from a Configuration with NewFileSystemService:
//
//	cfg := memfs.Configuration{
//		Roots:            []string{"/"},
//		WorkingDirectory:  "/home",
//		Separator:         "/",
//		PathType:          memfs.UnixStyle,
//		SupportedFeatures: []memfs.Feature{memfs.FeatureSymbolicLinks, memfs.FeatureHardLinks},
//	}
//	fs, err := memfs.NewFileSystemService(cfg, nil) // a nil *logging.Logger logs nothing
package memfs
