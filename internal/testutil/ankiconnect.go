package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// AnkiCall is one request received by a FakeAnki.
type AnkiCall struct {
	Action string
	Params json.RawMessage
}

// AnkiHandler answers one AnkiConnect action. A non-empty errMsg is returned
// in the envelope's error field.
type AnkiHandler func(params json.RawMessage) (result any, errMsg string)

// FakeAnki is an httptest-backed AnkiConnect. Unhandled actions answer
// with a null result.
type FakeAnki struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]AnkiHandler
	calls    []AnkiCall
}

// NewFakeAnki starts a fake AnkiConnect that is closed when the test completes.
func NewFakeAnki(t *testing.T) *FakeAnki {
	t.Helper()
	f := &FakeAnki{handlers: map[string]AnkiHandler{}}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Action  string          `json:"action"`
			Version int             `json:"version"`
			Params  json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Version != 6 {
			t.Errorf("ankiconnect request %q has version %d, want 6", req.Action, req.Version)
		}

		f.mu.Lock()
		f.calls = append(f.calls, AnkiCall{Action: req.Action, Params: req.Params})
		h := f.handlers[req.Action]
		f.mu.Unlock()

		resp := map[string]any{"result": nil, "error": nil}
		if h != nil {
			result, errMsg := h(req.Params)
			if errMsg != "" {
				resp["error"] = errMsg
			} else {
				resp["result"] = result
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the endpoint to configure the client with.
func (f *FakeAnki) URL() string { return f.Server.URL }

// Handle registers the handler for action.
func (f *FakeAnki) Handle(action string, h AnkiHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[action] = h
}

// Result registers a fixed result for action.
func (f *FakeAnki) Result(action string, result any) {
	f.Handle(action, func(json.RawMessage) (any, string) { return result, "" })
}

// Calls returns a copy of the requests received so far.
func (f *FakeAnki) Calls() []AnkiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]AnkiCall(nil), f.calls...)
}

// Actions returns the action names received so far, in order.
func (f *FakeAnki) Actions() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, c.Action)
	}
	return out
}

// Count returns how many times action was requested.
func (f *FakeAnki) Count(action string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Action == action {
			n++
		}
	}
	return n
}

// LastParams decodes the params of the most recent call to action into v.
// It reports false when action was never requested.
func (f *FakeAnki) LastParams(action string, v any) bool {
	calls := f.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Action == action {
			return json.Unmarshal(calls[i].Params, v) == nil
		}
	}
	return false
}
