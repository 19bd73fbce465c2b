package utils

import (
	"net/url"
	"strconv"
)

// QueryValues converts a map of parameters into url.Values, dropping empty values
func QueryValues(params map[string]string) url.Values {
	values := url.Values{}
	for k, v := range params {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	return values
}

// IntString formats n, or returns "" for zero so it is dropped by QueryValues
func IntString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
