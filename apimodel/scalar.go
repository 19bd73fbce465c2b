package apimodel

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Scalar is a JSON string, number or boolean kept as text. The backend is not consistent
// about quoting values such as salary or experience.
type Scalar string

func (s Scalar) String() string {
	return string(s)
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	default:
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Scalar(data)
	}
	return nil
}

// StringList accepts either a JSON array of strings or a single comma-separated string
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		var out StringList
		for _, part := range strings.Split(joined, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*l = out
		return nil
	}

	var items []Scalar
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	*l = out
	return nil
}
