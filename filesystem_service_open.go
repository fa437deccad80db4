package memfs

import "time"

// defaultWatchInterval is how often a WatchService created via
// NewWatchService re-snapshots its registered directories.
const defaultWatchInterval = 200 * time.Millisecond

// OpenChannel resolves or creates the target regular file per the two-phase
// get-or-create algorithm, opens a FileChannel over it, and tracks the
// channel so a filesystem-wide Close reaches it too.
func (s *FileSystemService) OpenChannel(path Path, opts ...OpenOption) (*FileChannel, error) {
	options := newOpenOptions(opts...)
	file, err := s.OpenForCreate(path, opts...)
	if err != nil {
		return nil, err
	}

	channel, err := NewFileChannel(file, options.has(OpenRead) || !options.has(OpenWrite), options.has(OpenWrite), options.has(OpenAppend))
	if err != nil {
		return nil, err
	}
	s.resources.Track(channel)
	return channel, nil
}

// OpenDirectoryStream opens a snapshot-based stream over path's directory
// entries, tracking it so a filesystem-wide Close reaches it too.
func (s *FileSystemService) OpenDirectoryStream(path Path, filter PathFilter) (*DirectoryStream, error) {
	s.mu.RLock()
	result, err := s.resolve(path, true)
	if err == nil && result.Outcome == LookupFound && !result.File.IsDirectory() {
		err = newErr(CodeNotDirectory, path.String(), "not a directory")
	}
	var entries []DirEntry
	if err == nil {
		if result.Outcome != LookupFound {
			err = newErr(CodeNoSuchFile, path.String(), "no such file or directory")
		} else {
			entries = result.File.Directory().Snapshot()
		}
	}
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	stream := NewDirectoryStream(path, entries, filter)
	s.resources.Track(stream)
	return stream, nil
}

// NewWatchService creates a WatchService bound to this filesystem, tracking
// the service so a filesystem-wide Close reaches it too.
func (s *FileSystemService) NewWatchService() *WatchService {
	ws := NewWatchService(defaultWatchInterval)
	s.resources.Track(ws)
	return ws
}

// RegisterWatch resolves path to a directory and registers it with ws.
func (s *FileSystemService) RegisterWatch(ws *WatchService, path Path) (*WatchKey, error) {
	s.mu.RLock()
	result, err := s.resolve(path, true)
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
	return ws.Register(result.File, path)
}

// Close closes every open channel, directory stream, and watch service
// tracked against this filesystem.
func (s *FileSystemService) Close() error {
	return s.resources.CloseAll()
}
