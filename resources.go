package memfs

import (
	"sync"

	"github.com/pkg/errors"
)

// closer is any long-lived resource a filesystem close must also close:
// open channels, directory streams, and watch services.
type closer interface {
	Close() error
}

// resourceRegistry is the concurrent set of open long-lived resources for
// one filesystem instance. Closing the filesystem closes every entry,
// aggregating failures with the first error wrapping the rest via
// github.com/pkg/errors.
type resourceRegistry struct {
	mu    sync.Mutex
	open  map[closer]struct{}
	closed bool
}

func newResourceRegistry() *resourceRegistry {
	return &resourceRegistry{open: make(map[closer]struct{})}
}

// Track registers c so that CloseAll will close it. If the registry has
// already been closed, c is closed immediately instead.
func (r *resourceRegistry) Track(c closer) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = c.Close()
		return
	}
	r.open[c] = struct{}{}
	r.mu.Unlock()
}

// Untrack removes c, used when a resource closes itself independently of a
// filesystem-wide CloseAll.
func (r *resourceRegistry) Untrack(c closer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.open, c)
}

// CloseAll closes every tracked resource, returning the first error
// encountered with every subsequent error wrapped onto it.
func (r *resourceRegistry) CloseAll() error {
	r.mu.Lock()
	r.closed = true
	resources := make([]closer, 0, len(r.open))
	for c := range r.open {
		resources = append(resources, c)
	}
	r.open = nil
	r.mu.Unlock()

	var first error
	for _, c := range resources {
		if err := c.Close(); err != nil {
			if first == nil {
				first = err
			} else {
				first = errors.Wrap(first, err.Error())
			}
		}
	}
	return first
}
