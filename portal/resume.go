package portal

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-jobportal-client/apiclient"
	"github.com/jrsteele09/go-jobportal-client/internal/utils"
)

// Resume is the resume-builder document. It is edited as a whole and passed through as is.
type Resume map[string]any

// CandidateFilter narrows a resume search; empty fields are not sent
type CandidateFilter struct {
	Keywords   string
	Location   string
	Skills     []string
	Experience string
	Page       int
	Limit      int
}

func (f CandidateFilter) query() url.Values {
	return utils.QueryValues(map[string]string{
		"keywords":   f.Keywords,
		"location":   f.Location,
		"skills":     strings.Join(f.Skills, ","),
		"experience": f.Experience,
		"page":       utils.IntString(f.Page),
		"limit":      utils.IntString(f.Limit),
	})
}

// Resume returns the logged-in user's resume; nil when none was saved yet
func (c *Client) Resume(ctx context.Context) (Resume, error) {
	return getJSON[Resume](ctx, c, "/resume", nil)
}

func (c *Client) SaveResume(ctx context.Context, resume Resume) error {
	return send(ctx, c, http.MethodPut, "/resume", resume)
}

// DownloadResume returns the rendered resume and its content type
func (c *Client) DownloadResume(ctx context.Context) ([]byte, string, error) {
	resp, err := c.api.Do(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/resume/download"})
	if err != nil {
		return nil, "", err
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// SearchResumes finds candidates (HR only)
func (c *Client) SearchResumes(ctx context.Context, filter CandidateFilter) (*CandidateSearch, error) {
	result, err := getJSON[CandidateSearch](ctx, c, "/resume-search/search", filter.query())
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ResumeFilters returns the values the search can be narrowed by, keyed by filter name
func (c *Client) ResumeFilters(ctx context.Context) (map[string]any, error) {
	return getJSON[map[string]any](ctx, c, "/resume-search/filters", nil)
}

func (c *Client) Candidate(ctx context.Context, userID ID) (*Candidate, error) {
	return getObject[Candidate](ctx, c, path("/resume-search/candidate", userID.String()), "candidate")
}
