package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const liveBody = `{
	"status": "success",
	"data": [
		{"id": "a1", "title": "Earthquake M6.1 strikes coast", "category": "Earthquake", "confidence": 100.0, "url": "https://example.com/1", "subreddit": "GDACS", "timestamp": 1700000300.0},
		{"id": "a2", "title": "Flooding closes highway", "category": "Flood", "confidence": 88.2, "url": "https://example.com/2", "subreddit": "Reddit", "timestamp": 1700000200}
	]
}`

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(srv.URL, 2*time.Second, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestFetchLiveSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/live-feed" {
			t.Errorf("path = %q, want /api/live-feed", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("method = %q, want GET", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "resqwatch") {
			t.Errorf("User-Agent = %q", ua)
		}
		fmt.Fprint(w, liveBody)
	}))
	defer srv.Close()

	alerts, err := newTestClient(t, srv).FetchLive(context.Background())
	if err != nil {
		t.Fatalf("FetchLive: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("len = %d, want 2", len(alerts))
	}
	if alerts[0].ID != "a1" || alerts[0].Timestamp != 1700000300 {
		t.Errorf("first alert = %+v", alerts[0])
	}
	if alerts[1].Confidence != 88.2 {
		t.Errorf("confidence = %v, want 88.2", alerts[1].Confidence)
	}
}

func TestFetchLiveDropsMalformedRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":[
			{"id":"ok","title":"t","category":"Fire","confidence":90,"timestamp":10},
			{"title":"no id","category":"Fire","confidence":90,"timestamp":10},
			{"id":"bad-conf","title":"t","category":"Fire","confidence":300,"timestamp":10},
			"not an object"
		]}`)
	}))
	defer srv.Close()

	alerts, err := newTestClient(t, srv).FetchLive(context.Background())
	if err != nil {
		t.Fatalf("FetchLive: %v", err)
	}
	if len(alerts) != 1 || alerts[0].ID != "ok" {
		t.Errorf("alerts = %+v, want only the valid record", alerts)
	}
}

func TestFetchLiveErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantIs     error
	}{
		{name: "http 500", status: 500, body: "boom", wantStatus: 500},
		{name: "bad json", status: 200, body: "{not json"},
		{name: "error envelope", status: 200, body: `{"status":"error","message":"model loading"}`, wantIs: ErrServiceStatus},
		{name: "unknown envelope status", status: 200, body: `{"status":"weird","data":[]}`, wantIs: ErrServiceStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			alerts, err := newTestClient(t, srv).FetchLive(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if alerts != nil {
				t.Errorf("alerts = %v, want nil on failure", alerts)
			}

			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not a *FetchError", err)
			}
			if fe.Op != OpLive {
				t.Errorf("Op = %q, want live", fe.Op)
			}
			if fe.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tt.wantStatus)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error %v does not wrap %v", err, tt.wantIs)
			}
		})
	}
}

func TestFetchLiveTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(srv.URL, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = c.FetchLive(context.Background())
	if !IsFetchError(err) {
		t.Errorf("timeout should surface as FetchError, got %v", err)
	}
}

func TestFetchLiveCancelledContext(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, liveBody)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv).FetchLive(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times, want 0", hits.Load())
	}
}

func TestSearchEncodesQuery(t *testing.T) {
	var gotRaw, gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search" {
			t.Errorf("path = %q, want /api/search", r.URL.Path)
		}
		gotRaw = r.URL.RawQuery
		gotQ = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"status":"success","data":[]}`)
	}))
	defer srv.Close()

	alerts, err := newTestClient(t, srv, WithSearchInterval(0)).Search(context.Background(), "  Wildfire in California & more  ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("len = %d, want 0", len(alerts))
	}
	if gotQ != "Wildfire in California & more" {
		t.Errorf("decoded q = %q", gotQ)
	}
	if gotRaw != "q=Wildfire%20in%20California%20%26%20more" {
		t.Errorf("raw query = %q", gotRaw)
	}
}

func TestSearchEmptyQueryNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Search(context.Background(), "   ")

	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("err = %v, want ErrEmptyQuery", err)
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Op != OpSearch {
		t.Errorf("err = %v, want search FetchError", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times, want 0", hits.Load())
	}
}

func TestSearchRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":[]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, WithSearchInterval(time.Hour))
	if _, err := c.Search(context.Background(), "first"); err != nil {
		t.Fatalf("first search: %v", err)
	}

	// The second search must wait an hour; a short deadline makes the
	// limiter give up immediately.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Search(ctx, "second")
	if !IsFetchError(err) {
		t.Errorf("throttled search should fail with FetchError, got %v", err)
	}
}

func TestNewClientValidatesURL(t *testing.T) {
	for _, bad := range []string{"", "ftp://host", "http://", "::not a url"} {
		if _, err := NewClient(bad, time.Second); err == nil {
			t.Errorf("NewClient(%q) should fail", bad)
		}
	}

	c, err := NewClient("http://127.0.0.1:8000/", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.BaseURL() != "http://127.0.0.1:8000" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", c.BaseURL())
	}
}

func TestFetchErrorMessage(t *testing.T) {
	err := &FetchError{Op: OpLive, Err: errors.New("connection refused")}
	if got := err.Error(); got != "feed: live: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}
