package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// rowScanner is the common surface of *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// now is the single clock for assigned timestamps. UTC, millisecond
// precision — matches what round-trips through the DATETIME columns.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// encodeDoc serializes a structured-document field. A value that cannot
// serialize aborts the operation before any write.
func encodeDoc(field string, v any) (string, error) {
	if v == nil {
		return "{}", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", &SerializationError{Field: field, Err: err}
	}
	return string(data), nil
}

// decodeDoc deserializes a structured-document column into a map.
func decodeDoc(field, raw string) (map[string]any, error) {
	if raw == "" || raw == "null" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, &SerializationError{Field: field, Err: err}
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// encodeTags serializes a string list column ('[]' when empty).
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", &SerializationError{Field: "tags", Err: err}
	}
	return string(data), nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, &SerializationError{Field: "tags", Err: err}
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// nullable adapts a *string to a bind parameter: nil binds SQL NULL.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
