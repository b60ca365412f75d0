package fixtures

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/casualjim/trancepoint/events"
	"github.com/stretchr/testify/require"
)

// Response is a canned reply of the IngestServer.
type Response struct {
	Status int
	Header map[string]string
	Body   string
}

// RecordedRequest is one POST received by the IngestServer.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
	Batch  events.Batch
}

// IngestServer records every request and replies with the queued responses in
// order, then with 202 Accepted once the queue is empty.
type IngestServer struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []RecordedRequest
	responses []Response
	received  chan struct{}
}

// NewIngestServer starts a recording server that is closed when the test ends.
func NewIngestServer(t testing.TB, responses ...Response) *IngestServer {
	t.Helper()
	s := &IngestServer{
		responses: responses,
		received:  make(chan struct{}, 1024),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *IngestServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rec := RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	}
	if b, err := events.DecodeBatch(body); err == nil {
		rec.Batch = b
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	resp := Response{Status: http.StatusAccepted}
	if len(s.responses) > 0 {
		resp = s.responses[0]
		s.responses = s.responses[1:]
	}
	s.mu.Unlock()

	for k, v := range resp.Header {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)

	select {
	case s.received <- struct{}{}:
	default:
	}
}

// Requests returns a copy of the recorded requests.
func (s *IngestServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Calls is the number of requests received so far.
func (s *IngestServer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Events flattens the events of every recorded batch.
func (s *IngestServer) Events() []events.Event {
	var out []events.Event
	for _, r := range s.Requests() {
		out = append(out, r.Batch.Events...)
	}
	return out
}

// WaitForEvents blocks until at least n events arrived or fails the test after timeout.
func (s *IngestServer) WaitForEvents(t testing.TB, n int, timeout time.Duration) []events.Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		if evts := s.Events(); len(evts) >= n {
			return evts
		}
		select {
		case <-s.received:
		case <-time.After(10 * time.Millisecond):
		case <-deadline:
			require.FailNowf(t, "timed out waiting for events", "want %d, got %d", n, len(s.Events()))
			return nil
		}
	}
}
