package licensegate

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// wirePayload is the schema-mapped view of a license server response
// body. Every field type is tolerant: values the server omitted, sent
// as the wrong JSON type, or sent unparseable decode to "absent" rather
// than failing the whole payload.
type wirePayload struct {
	Valid                flexBool `json:"valid"`
	Success              flexBool `json:"success"`
	Token                string   `json:"token"`
	Error                string   `json:"error"`
	Message              string   `json:"message"`
	ErrorCode            string   `json:"error_code"`
	ExpiresAt            flexTime `json:"expires_at"`
	ActivationsRemaining flexInt  `json:"activations_remaining"`
	RetryAfter           flexInt  `json:"retry_after"`
	Timestamp            flexTime `json:"timestamp"`
	RateLimit            struct {
		Remaining flexInt  `json:"remaining"`
		ResetAt   flexTime `json:"reset_at"`
	} `json:"rate_limit"`
}

// errorMessage returns the server's error detail, accepting either the
// "error" or "message" field name.
func (p *wirePayload) errorMessage() string {
	if p.Error != "" {
		return p.Error
	}
	return p.Message
}

// decodeWire parses a response body into a wirePayload. An empty body
// yields an empty payload; a body that is present but not valid JSON is
// the only decode failure.
func decodeWire(body []byte) (*wirePayload, error) {
	p := &wirePayload{}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(trimmed, p); err != nil {
		return nil, err
	}
	return p, nil
}

func isJSONNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}

// flexBool accepts a JSON bool or the strings "true"/"false"; anything
// else is absent.
type flexBool struct {
	Value *bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		b.Value = &v
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			b.Value = &parsed
		}
	}
	return nil
}

func (b flexBool) or(fallback bool) bool {
	if b.Value == nil {
		return fallback
	}
	return *b.Value
}

// flexInt accepts a JSON number or a numeric string; anything else is
// absent.
type flexInt struct {
	Value *int
}

func (i *flexInt) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		v := int(f)
		i.Value = &v
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			i.Value = &parsed
		}
	}
	return nil
}

// timeLayouts are tried in order when a timestamp arrives as a string.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// flexTime accepts epoch seconds (number or numeric string) or an
// ISO-8601-parseable string; unparseable values are absent.
type flexTime struct {
	Time *time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		sec, frac := math.Modf(f)
		parsed := time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
		t.Time = &parsed
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if epoch, err := strconv.ParseInt(s, 10, 64); err == nil && epoch > 0 {
		parsed := time.Unix(epoch, 0).UTC()
		t.Time = &parsed
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = &parsed
			return nil
		}
	}
	return nil
}
