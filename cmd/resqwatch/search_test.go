package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/resqwatch/internal/alert"
	"github.com/abelbrown/resqwatch/internal/config"
)

func TestPrintAlerts(t *testing.T) {
	now := time.Unix(1700000600, 0)
	var buf bytes.Buffer
	printAlerts(&buf, []alert.Alert{
		{ID: "a", Title: "Wildfire near ridge", Category: alert.Fire, Confidence: 96.4, URL: "https://example.com/a", Timestamp: 1700000000},
	}, now)

	out := buf.String()
	for _, want := range []string{"Fire", "96% Verified", "10 minutes ago", "Wildfire near ridge", "https://example.com/a"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintAlertsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printAlerts(&buf, nil, time.Now())
	if strings.TrimSpace(buf.String()) != "No reports found." {
		t.Errorf("output = %q", buf.String())
	}
}

// runCLI executes the root command against a fake service.
func runCLI(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_url: "+srv.URL+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvAPIURL, "")

	flagCategory = ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", path))
	err := rootCmd.Execute()
	return out.String(), err
}

const searchBody = `{"status":"success","data":[
	{"id":"1","title":"Flooding downtown","category":"Flood","confidence":88,"timestamp":1700000000},
	{"id":"2","title":"Random chatter","category":"Other","confidence":99,"timestamp":1700000001},
	{"id":"1","title":"Flooding downtown (dup)","category":"Flood","confidence":88,"timestamp":1700000000},
	{"id":"3","title":"Shelter opened","category":"Aid Related","confidence":70,"timestamp":1700000002}
]}`

func TestSearchCommand(t *testing.T) {
	var gotQ string
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		fmt.Fprint(w, searchBody)
	}, "search", "flood", "warning")
	if err != nil {
		t.Fatalf("search: %v\n%s", err, out)
	}
	if gotQ != "flood warning" {
		t.Errorf("q = %q", gotQ)
	}
	if !strings.Contains(out, `Search Results for "flood warning" (2)`) {
		t.Errorf("missing header:\n%s", out)
	}
	if strings.Contains(out, "Random chatter") || strings.Contains(out, "(dup)") {
		t.Errorf("noise and duplicates must be dropped:\n%s", out)
	}
}

func TestSearchCommandCategory(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchBody)
	}, "search", "flood", "--category", "aid related")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if strings.Contains(out, "Flooding downtown") || !strings.Contains(out, "Shelter opened") {
		t.Errorf("category filter not applied:\n%s", out)
	}
}

func TestSearchCommandFailure(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, "search", "flood")
	if err == nil {
		t.Error("service failure should make the command fail")
	}
}

func TestLiveCommandShowsCritical(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":[
			{"id":"q","title":"M6 earthquake","category":"Earthquake","confidence":99,"timestamp":1700000100},
			{"id":"f","title":"Creek rising","category":"Flood","confidence":60,"timestamp":1700000200}
		]}`)
	}, "live")
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if !strings.Contains(out, "CRITICAL (1)") || !strings.Contains(out, "Live Reports (2)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	// Newest first.
	if strings.Index(out, "Creek rising") > strings.LastIndex(out, "M6 earthquake") {
		t.Errorf("live list should be newest first:\n%s", out)
	}
}
