package bridge

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
)

// ErrReportRejected is returned when a posted report fails validation.
var ErrReportRejected = errors.New("bridge report rejected")

const maxReportBody = 4 << 10

// Report is the browser's answer to an earlier directive. The zero value
// means the browser has not answered yet, which is a distinct condition
// from an answered "nothing stored" (Answered true, Found false).
type Report struct {
	ScopeID   string `json:"scope_id"`
	SessionID string `json:"session_id,omitempty"`
	Found     bool   `json:"found"`
	Answered  bool   `json:"-"`
}

// Usable reports whether this report carries a session identifier worth
// presenting to the verification endpoint.
func (r Report) Usable() bool {
	return r.Answered && r.Found && UsableSessionID(r.SessionID)
}

// ParseReport decodes a report from a callback request. Only POST bodies are
// accepted; a report in a URL would expose the session identifier.
func ParseReport(req *http.Request) (Report, error) {
	if req.Method != http.MethodPost {
		return Report{}, ErrReportRejected
	}
	if len(req.URL.RawQuery) != 0 {
		return Report{}, ErrReportRejected
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, maxReportBody))
	if err != nil {
		return Report{}, ErrReportRejected
	}

	var r Report
	if err := json.Unmarshal(body, &r); err != nil {
		return Report{}, ErrReportRejected
	}
	if r.ScopeID == "" {
		return Report{}, ErrReportRejected
	}

	// A value that fails the sanity check is recorded as an answered miss,
	// not an error: the browser did respond, it just holds garbage.
	if r.Found && !UsableSessionID(r.SessionID) {
		r.Found = false
		r.SessionID = ""
	}
	if !r.Found {
		r.SessionID = ""
	}
	r.Answered = true

	return r, nil
}

// Handler returns the callback endpoint the generated READ script posts
// into. Each accepted report is forwarded to sink.
func Handler(sink func(Report)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		r, err := ParseReport(req)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if sink != nil {
			sink(r)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// ReportBuffer holds the most recent report per scope until the next render
// pass consumes it. Reports arrive between passes, so the buffer is the
// hand-off point between the callback handler and the state machine.
type ReportBuffer struct {
	mu      sync.Mutex
	reports map[string]Report
}

// NewReportBuffer creates an empty buffer.
func NewReportBuffer() *ReportBuffer {
	return &ReportBuffer{reports: make(map[string]Report)}
}

// Put stores the report, replacing any unconsumed one for the same scope.
func (b *ReportBuffer) Put(r Report) {
	if b == nil || r.ScopeID == "" {
		return
	}
	b.mu.Lock()
	b.reports[r.ScopeID] = r
	b.mu.Unlock()
}

// Take removes and returns the pending report for scopeID. A zero Report is
// returned when the browser has not answered since the last Take.
func (b *ReportBuffer) Take(scopeID string) Report {
	if b == nil {
		return Report{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.reports[scopeID]
	if !ok {
		return Report{}
	}
	delete(b.reports, scopeID)
	return r
}
