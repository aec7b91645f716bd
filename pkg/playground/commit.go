package playground

import (
	"context"
	"net/http"
	"sync"
)

// commitQueue holds work that must only run once the response for the
// current request has been produced.
type commitQueue struct {
	mu    sync.Mutex
	hooks []func()
	done  bool
}

func (q *commitQueue) add(fn func()) bool {
	if fn == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.done {
		return false
	}
	q.hooks = append(q.hooks, fn)
	return true
}

// run executes queued hooks in registration order. It runs at most once.
func (q *commitQueue) run() int {
	hooks := q.drain()
	for _, fn := range hooks {
		fn()
	}
	return len(hooks)
}

// discard drops queued hooks without running them.
func (q *commitQueue) discard() int {
	return len(q.drain())
}

func (q *commitQueue) drain() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.done = true
	hooks := q.hooks
	q.hooks = nil
	return hooks
}

// AfterCommit schedules fn to run after the page handler serving ctx has
// returned with a non-5xx status. It returns false when ctx was not produced
// by Middleware or the response is already committed.
func AfterCommit(ctx context.Context, fn func()) bool {
	h, ok := FromContext(ctx)
	if !ok || h.queue == nil {
		return false
	}
	return h.queue.add(fn)
}

// statusRecorder remembers the status written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w}
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Status returns the written status; a handler that wrote nothing gets 200
// from net/http.
func (r *statusRecorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
