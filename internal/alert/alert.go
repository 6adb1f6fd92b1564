// Package alert defines the classified incident report that flows through
// resqwatch, along with the category enumeration shared by the filter UI and
// the noise-exclusion rule.
package alert

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Alert is a single classified incident report. Immutable once received.
type Alert struct {
	ID         string
	Title      string
	Category   Category
	Confidence float64 // classifier certainty, 0..100
	URL        string
	Subreddit  string // source community label ("Reddit", "GDACS", "r/news")
	Timestamp  int64  // Unix seconds
}

// Time returns the alert timestamp as a time.Time.
func (a Alert) Time() time.Time {
	return time.Unix(a.Timestamp, 0)
}

// IsNoise reports whether the alert carries the noise label.
func (a Alert) IsNoise() bool {
	return a.Category == Noise
}

// wireAlert is the JSON shape returned by the feed service. Timestamps and
// confidences arrive as JSON numbers that may carry a fractional part.
type wireAlert struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
	URL        string   `json:"url"`
	Subreddit  string   `json:"subreddit"`
	Timestamp  *float64 `json:"timestamp"`
}

// Validation errors returned by Decode.
var (
	ErrMissingID         = errors.New("alert: missing id")
	ErrMissingTitle      = errors.New("alert: missing title")
	ErrMissingCategory   = errors.New("alert: missing category")
	ErrMissingConfidence = errors.New("alert: missing confidence")
	ErrConfidenceRange   = errors.New("alert: confidence out of range")
	ErrMissingTimestamp  = errors.New("alert: missing timestamp")
	ErrBadTimestamp      = errors.New("alert: invalid timestamp")
)

// Decode parses and validates a single raw record.
// Fractional timestamps are truncated to whole seconds.
func Decode(raw json.RawMessage) (Alert, error) {
	var w wireAlert
	if err := json.Unmarshal(raw, &w); err != nil {
		return Alert{}, fmt.Errorf("alert: decode: %w", err)
	}

	id := strings.TrimSpace(w.ID)
	switch {
	case id == "":
		return Alert{}, ErrMissingID
	case strings.TrimSpace(w.Title) == "":
		return Alert{}, fmt.Errorf("%w (id %s)", ErrMissingTitle, id)
	case strings.TrimSpace(w.Category) == "":
		return Alert{}, fmt.Errorf("%w (id %s)", ErrMissingCategory, id)
	case w.Confidence == nil:
		return Alert{}, fmt.Errorf("%w (id %s)", ErrMissingConfidence, id)
	case math.IsNaN(*w.Confidence) || *w.Confidence < 0 || *w.Confidence > 100:
		return Alert{}, fmt.Errorf("%w (id %s): %v", ErrConfidenceRange, id, *w.Confidence)
	case w.Timestamp == nil:
		return Alert{}, fmt.Errorf("%w (id %s)", ErrMissingTimestamp, id)
	case math.IsNaN(*w.Timestamp) || math.IsInf(*w.Timestamp, 0) ||
		*w.Timestamp <= 0 || *w.Timestamp >= math.MaxInt64:
		return Alert{}, fmt.Errorf("%w (id %s): %v", ErrBadTimestamp, id, *w.Timestamp)
	}

	return Alert{
		ID:         id,
		Title:      strings.TrimSpace(w.Title),
		Category:   Category(strings.TrimSpace(w.Category)),
		Confidence: *w.Confidence,
		URL:        strings.TrimSpace(w.URL),
		Subreddit:  strings.TrimSpace(w.Subreddit),
		Timestamp:  int64(*w.Timestamp),
	}, nil
}
