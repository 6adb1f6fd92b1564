package alert

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeValidRecord(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "abc123",
		"title": "Wildfire spreads near town",
		"category": "Fire",
		"confidence": 97.5,
		"url": "https://example.com/a",
		"subreddit": "GDACS",
		"timestamp": 1700000000.75
	}`)

	a, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.ID != "abc123" {
		t.Errorf("ID = %q, want abc123", a.ID)
	}
	if a.Category != Fire {
		t.Errorf("Category = %q, want Fire", a.Category)
	}
	if a.Confidence != 97.5 {
		t.Errorf("Confidence = %v, want 97.5", a.Confidence)
	}
	if a.Timestamp != 1700000000 {
		t.Errorf("Timestamp = %d, want fractional part truncated", a.Timestamp)
	}
	if a.Subreddit != "GDACS" {
		t.Errorf("Subreddit = %q, want GDACS", a.Subreddit)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"missing id", `{"title":"t","category":"Fire","confidence":50,"timestamp":1}`, ErrMissingID},
		{"blank id", `{"id":"  ","title":"t","category":"Fire","confidence":50,"timestamp":1}`, ErrMissingID},
		{"missing title", `{"id":"a","category":"Fire","confidence":50,"timestamp":1}`, ErrMissingTitle},
		{"missing category", `{"id":"a","title":"t","confidence":50,"timestamp":1}`, ErrMissingCategory},
		{"missing confidence", `{"id":"a","title":"t","category":"Fire","timestamp":1}`, ErrMissingConfidence},
		{"confidence too high", `{"id":"a","title":"t","category":"Fire","confidence":101,"timestamp":1}`, ErrConfidenceRange},
		{"negative confidence", `{"id":"a","title":"t","category":"Fire","confidence":-1,"timestamp":1}`, ErrConfidenceRange},
		{"missing timestamp", `{"id":"a","title":"t","category":"Fire","confidence":50}`, ErrMissingTimestamp},
		{"zero timestamp", `{"id":"a","title":"t","category":"Fire","confidence":50,"timestamp":0}`, ErrBadTimestamp},
		{"timestamp past int64", `{"id":"a","title":"t","category":"Fire","confidence":50,"timestamp":1e19}`, ErrBadTimestamp},
		{"huge timestamp", `{"id":"a","title":"t","category":"Fire","confidence":50,"timestamp":1e300}`, ErrBadTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(json.RawMessage(tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeWrongTypes(t *testing.T) {
	_, err := Decode(json.RawMessage(`{"id": 12, "title": "t"}`))
	if err == nil {
		t.Fatal("expected error for numeric id")
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in     string
		want   Category
		wantOK bool
	}{
		{"", All, true},
		{"all", All, true},
		{"fire", Fire, true},
		{"Search and Rescue", SearchAndRescue, true},
		{"caution/advice", CautionAdvice, true},
		{"Other", "", false},
		{"nonsense", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFilter(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseFilter(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFilterChoicesExcludeNoise(t *testing.T) {
	choices := FilterChoices()
	if choices[0] != All {
		t.Errorf("first choice = %q, want All", choices[0])
	}
	if len(choices) != 16 {
		t.Errorf("len(choices) = %d, want 16", len(choices))
	}
	for _, c := range choices {
		if c == Noise {
			t.Error("noise label must not be offered as a filter")
		}
	}
}

func TestSevere(t *testing.T) {
	for _, c := range []Category{Fire, Earthquake, Violence} {
		if !c.Severe() {
			t.Errorf("%q should be severe", c)
		}
	}
	for _, c := range []Category{Flood, Storm, Noise, "Unknown"} {
		if c.Severe() {
			t.Errorf("%q should not be severe", c)
		}
	}
}
