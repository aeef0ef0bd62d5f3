package gateway

import (
	"io"
	"net/http"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// throttledTransport bounds the number of requests in flight and optionally
// paces how fast new ones are issued. A successful request stays in flight
// until its response body is drained or closed.
type throttledTransport struct {
	base    http.RoundTripper
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

func newThrottledTransport(base http.RoundTripper, maxInFlight int, requestsPerSecond float64) *throttledTransport {
	t := &throttledTransport{base: base}
	if maxInFlight > 0 {
		t.sem = semaphore.NewWeighted(int64(maxInFlight))
	}
	if requestsPerSecond > 0 {
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
	return t
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if t.sem == nil {
		return t.base.RoundTrip(req)
	}
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.sem.Release(1)
		return nil, err
	}
	// Error bodies are read and swapped out by the client without closing
	// the original, so non-2xx responses give their slot back right away.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.sem.Release(1)
		return resp, nil
	}
	resp.Body = &releasingBody{ReadCloser: resp.Body, release: func() { t.sem.Release(1) }}
	return resp, nil
}

// releasingBody releases its slot once, on the first read error (io.EOF
// included) or on Close, whichever comes first.
type releasingBody struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (b *releasingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil {
		b.once.Do(b.release)
	}
	return n, err
}

func (b *releasingBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(b.release)
	return err
}
