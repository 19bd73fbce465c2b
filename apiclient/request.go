package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Request describes one backend call. It is never modified by the client.
type Request struct {
	Method    string      // HTTP method, GET when empty
	Path      string      // Path below the base URL, e.g. /jobs
	Query     url.Values  // Optional query string
	Body      any         // JSON-encoded when non-nil
	Header    http.Header // Extra headers
	Form      *Multipart  // Multipart upload; takes precedence over Body
	Anonymous bool        // Never attach a bearer token and never refresh on 401
	NoRefresh bool        // Attach the token if there is one but never refresh on 401
}

// Multipart is a multipart/form-data body
type Multipart struct {
	Fields map[string]string
	Files  []File
}

// File is one file part of a Multipart body
type File struct {
	Field   string    // Form field name, e.g. "resume"
	Name    string    // File name sent to the backend
	Content io.Reader // Read once when the request is prepared
}

// Response is a fully read backend response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if r == nil || len(bytes.TrimSpace(r.Body)) == 0 || v == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrap(err, "[Decode] invalid response body")
	}
	return nil
}

// pendingRequest carries a Request through the pipeline. The body is encoded once so
// the request can be resent after a refresh.
type pendingRequest struct {
	req         *Request
	body        []byte
	contentType string
	requestID   string
	token       *oauth2.Token // Credentials the request was last sent with
	attempted   bool          // A refresh has already been tried for this request
}

func newPendingRequest(req *Request) (*pendingRequest, error) {
	p := &pendingRequest{
		req:       req,
		requestID: uuid.NewString(),
	}

	switch {
	case req.Form != nil:
		body, contentType, err := encodeMultipart(req.Form)
		if err != nil {
			return nil, err
		}
		p.body, p.contentType = body, contentType
	case req.Body != nil:
		body, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, "[newPendingRequest] encode body")
		}
		p.body, p.contentType = body, "application/json"
	}
	return p, nil
}

func (p *pendingRequest) method() string {
	if p.req.Method == "" {
		return http.MethodGet
	}
	return p.req.Method
}

// accessToken is the token the request was sent with, "" when it went out unauthenticated
func (p *pendingRequest) accessToken() string {
	if p.token == nil {
		return ""
	}
	return p.token.AccessToken
}

func encodeMultipart(form *Multipart) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range form.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", errors.Wrapf(err, "[encodeMultipart] field %s", name)
		}
	}
	for _, f := range form.Files {
		if f.Content == nil {
			return nil, "", errors.Errorf("[encodeMultipart] file %s has no content", f.Field)
		}
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", errors.Wrapf(err, "[encodeMultipart] file %s", f.Field)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", errors.Wrapf(err, "[encodeMultipart] read %s", f.Name)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "[encodeMultipart] close")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
