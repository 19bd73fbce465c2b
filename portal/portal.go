// Package portal exposes the job-portal resources as typed calls over the authenticated
// pipeline. Each call is a single request/response pair; expired access tokens are
// handled by the apiclient.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-jobportal-client/apiclient"
	"github.com/jrsteele09/go-jobportal-client/users"
	"github.com/pkg/errors"
)

// ID identifies a backend resource; the backend sends numbers but strings are accepted
type ID = users.ID

// Client groups the resource calls
type Client struct {
	api *apiclient.Client
}

func New(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// Pagination is returned alongside paged lists
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalJobs   int `json:"totalJobs,omitempty"`
	Total       int `json:"total,omitempty"`
	Limit       int `json:"limit,omitempty"`
}

// Message is the generic acknowledgement payload
type Message struct {
	Message string `json:"message"`
}

// path joins escaped segments onto base, e.g. path("/jobs", id) = /jobs/7
func path(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func getJSON[T any](ctx context.Context, c *Client, p string, query url.Values) (T, error) {
	var out T
	err := c.api.DoJSON(ctx, &apiclient.Request{Method: http.MethodGet, Path: p, Query: query}, &out)
	return out, err
}

func sendJSON[T any](ctx context.Context, c *Client, method, p string, body any) (T, error) {
	var out T
	err := c.api.DoJSON(ctx, &apiclient.Request{Method: method, Path: p, Body: body}, &out)
	return out, err
}

// send performs a call whose response only matters for its status
func send(ctx context.Context, c *Client, method, p string, body any) error {
	_, err := c.api.Do(ctx, &apiclient.Request{Method: method, Path: p, Body: body})
	return err
}

// listOf decodes either a bare JSON array or an object holding the array under key.
// Some list endpoints wrap their result and some do not.
func listOf[T any](raw json.RawMessage, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errors.Wrap(err, "[listOf] decode list")
		}
		return items, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, errors.Wrap(err, "[listOf] decode wrapper")
	}
	inner, ok := wrapped[key]
	if !ok {
		return nil, errors.Errorf("[listOf] response has no %q list", key)
	}
	var items []T
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, errors.Wrapf(err, "[listOf] decode %s", key)
	}
	return items, nil
}

// objectOf decodes raw as T, or the object under key when the response wraps it. An
// empty body yields the zero T.
func objectOf[T any](raw json.RawMessage, key string) (*T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return new(T), nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, errors.Wrap(err, "[objectOf] decode object")
	}
	if inner, ok := wrapped[key]; ok {
		if inner = bytes.TrimSpace(inner); len(inner) > 0 && inner[0] == '{' {
			raw = inner
		}
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(err, "[objectOf] decode %s", key)
	}
	return &out, nil
}

func getObject[T any](ctx context.Context, c *Client, p, key string) (*T, error) {
	raw, err := getJSON[json.RawMessage](ctx, c, p, nil)
	if err != nil {
		return nil, err
	}
	return objectOf[T](raw, key)
}

func sendObject[T any](ctx context.Context, c *Client, method, p, key string, body any) (*T, error) {
	raw, err := sendJSON[json.RawMessage](ctx, c, method, p, body)
	if err != nil {
		return nil, err
	}
	return objectOf[T](raw, key)
}

func getList[T any](ctx context.Context, c *Client, p, key string, query url.Values) ([]T, error) {
	raw, err := getJSON[json.RawMessage](ctx, c, p, query)
	if err != nil {
		return nil, err
	}
	return listOf[T](raw, key)
}
