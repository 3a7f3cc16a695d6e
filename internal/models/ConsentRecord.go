package models

import (
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

const ConsentCookieName = "84em_consent"

// ConsentRecord is the visitor's persisted choice. It lives only in the
// visitor's cookie jar; the server writes fresh ones and never deletes them.
type ConsentRecord struct {
	Accepted  bool   `json:"accepted"`
	Version   string `json:"version"`
	Timestamp int64  `json:"timestamp"`
}

// Encode serializes the record into a cookie-safe value: the JSON object,
// query-escaped because the cookie grammar forbids raw quotes.
func (cr ConsentRecord) Encode() (string, error) {
	raw, err := json.Marshal(cr)
	if err != nil {
		return "", fmt.Errorf("encode consent record: %w", err)
	}
	return url.QueryEscape(string(raw)), nil
}

// storedRecord mirrors ConsentRecord with loosely typed fields, since the
// cookie may also have been written by the client script.
type storedRecord struct {
	Accepted  any `json:"accepted"`
	Version   any `json:"version"`
	Timestamp any `json:"timestamp"`
}

// DecodeConsentRecord parses a cookie value. ok is false when the value is
// empty or cannot be understood.
func DecodeConsentRecord(value string) (ConsentRecord, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ConsentRecord{}, false
	}
	if !strings.HasPrefix(value, "{") {
		unescaped, err := url.QueryUnescape(value)
		if err != nil {
			return ConsentRecord{}, false
		}
		value = unescaped
	}

	var stored storedRecord
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return ConsentRecord{}, false
	}

	rec := ConsentRecord{Accepted: truthy(stored.Accepted)}
	if v, ok := stored.Version.(string); ok {
		rec.Version = v
	}
	if ts, ok := stored.Timestamp.(float64); ok {
		rec.Timestamp = int64(ts)
	}
	return rec, true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "" && t != "0"
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return false
	}
}
