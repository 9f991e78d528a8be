// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ManuGH/tvschedule/internal/schedule"
)

var (
	testDate = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	kst      = time.FixedZone("KST", 9*60*60)
)

// fakeUpstream serves a fixed body and records the last request.
type fakeUpstream struct {
	*httptest.Server
	hits    atomic.Int32
	lastURL atomic.Value
}

func newFakeUpstream(t *testing.T, status int, body string) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		f.lastURL.Store(r.URL)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeUpstream) transport() Transport {
	return Transport{Client: f.Client(), UserAgent: "tvschedule-test"}
}

func (f *fakeUpstream) requestURL(t *testing.T) *url.URL {
	t.Helper()
	u, ok := f.lastURL.Load().(*url.URL)
	if !ok {
		t.Fatal("upstream was not called")
	}
	return u
}

func names(groups []schedule.Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Channel.Name)
	}
	return out
}
