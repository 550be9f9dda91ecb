package utils

import (
	"bytes"
	"net/http"
	"sync"
	"time"
)

// Timeout wraps handlers with a wall-clock deadline. If the handler has
// not produced a response in time, the client gets a 408 and anything
// the handler writes afterwards is discarded. The handler itself is not
// cancelled; an in-flight database statement may still complete.
func Timeout(dt time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &timeoutWriter{header: make(http.Header)}
			done := make(chan struct{})

			go func() {
				next.ServeHTTP(tw, r)
				close(done)
			}()

			timer := time.NewTimer(dt)
			defer timer.Stop()

			select {
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				dst := w.Header()
				for k, v := range tw.header {
					dst[k] = v
				}
				if tw.code == 0 {
					tw.code = http.StatusOK
				}
				w.WriteHeader(tw.code)
				w.Write(tw.buf.Bytes())
			case <-timer.C:
				tw.mu.Lock()
				tw.timedOut = true
				tw.mu.Unlock()
				RespondError(w, http.StatusRequestTimeout, "Request timeout")
			}
		})
	}
}

// timeoutWriter buffers the handler's response so a late handler never
// touches the real connection after the 408 has gone out.
type timeoutWriter struct {
	mu       sync.Mutex
	header   http.Header
	buf      bytes.Buffer
	code     int
	timedOut bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.code != 0 {
		return
	}
	tw.code = code
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if tw.code == 0 {
		tw.code = http.StatusOK
	}
	return tw.buf.Write(b)
}
