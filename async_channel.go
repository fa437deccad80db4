package memfs

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/worldiety/memfs/internal/workerpool"
)

// Future is the handle returned by AsyncFileChannel operations: a one-shot
// completion signal carrying a result, an error, and whether it was
// cancelled rather than finished normally.
type Future struct {
	done      chan struct{}
	once      sync.Once
	n         int
	err       error
	cancelled int32
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) complete(n int, err error) {
	f.once.Do(func() {
		f.n = n
		f.err = err
		close(f.done)
	})
}

// Wait blocks until the operation completes and returns its result.
func (f *Future) Wait() (int, error) {
	<-f.done
	return f.n, f.err
}

// Done returns a channel closed when the Future completes, for callers that
// want to select on multiple futures.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// IsCancelled reports whether this Future was completed by cancellation (the
// async channel was closed, or the worker pool refused the task) rather than
// by finishing its operation.
func (f *Future) IsCancelled() bool {
	return atomic.LoadInt32(&f.cancelled) != 0
}

func (f *Future) cancel() {
	atomic.StoreInt32(&f.cancelled, 1)
	f.complete(0, newErr(CodeClosedChannel, "", "asynchronous close"))
}

// AsyncFileChannel wraps a FileChannel, submitting read/write operations to
// a worker pool and returning Futures instead of blocking the caller.
type AsyncFileChannel struct {
	channel *FileChannel
	pool    *workerpool.Pool

	mu      sync.Mutex
	pending map[*Future]struct{}
	closed  bool
}

// NewAsyncFileChannel wraps channel, dispatching operations onto pool.
func NewAsyncFileChannel(channel *FileChannel, pool *workerpool.Pool) *AsyncFileChannel {
	return &AsyncFileChannel{
		channel: channel,
		pool:    pool,
		pending: make(map[*Future]struct{}),
	}
}

func (a *AsyncFileChannel) track(f *Future) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		f.cancel()
		return
	}
	a.pending[f] = struct{}{}
}

func (a *AsyncFileChannel) untrack(f *Future) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.pending, f)
}

func (a *AsyncFileChannel) submit(op func() (int, error)) *Future {
	future := newFuture()
	a.track(future)
	ok := a.pool.Submit(func() {
		n, err := op()
		future.complete(n, err)
		a.untrack(future)
	})
	if !ok {
		a.untrack(future)
		future.cancel()
	}
	return future
}

// ReadAt submits an asynchronous read at pos.
func (a *AsyncFileChannel) ReadAt(buf []byte, pos int64) *Future {
	return a.submit(func() (int, error) { return a.channel.ReadAt(buf, pos) })
}

// WriteAt submits an asynchronous write at pos.
func (a *AsyncFileChannel) WriteAt(buf []byte, pos int64) *Future {
	return a.submit(func() (int, error) { return a.channel.WriteAt(buf, pos) })
}

// TransferTo submits an asynchronous transfer out to w.
func (a *AsyncFileChannel) TransferTo(pos, count int64, w io.Writer) *Future {
	return a.submit(func() (int, error) {
		n, err := a.channel.TransferTo(pos, count, w)
		return int(n), err
	})
}

// TransferFrom submits an asynchronous transfer in from r.
func (a *AsyncFileChannel) TransferFrom(r io.Reader, pos, count int64) *Future {
	return a.submit(func() (int, error) {
		n, err := a.channel.TransferFrom(r, pos, count)
		return int(n), err
	})
}

// Close closes the underlying channel and completes every outstanding
// Future with a cancellation error.
func (a *AsyncFileChannel) Close() error {
	a.mu.Lock()
	a.closed = true
	pending := make([]*Future, 0, len(a.pending))
	for f := range a.pending {
		pending = append(pending, f)
	}
	a.pending = nil
	a.mu.Unlock()

	for _, f := range pending {
		f.cancel()
	}
	return a.channel.Close()
}
