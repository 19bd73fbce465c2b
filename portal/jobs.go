package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-jobportal-client/internal/utils"
	"github.com/pkg/errors"
)

func (f JobFilter) query() url.Values {
	return utils.QueryValues(map[string]string{
		"search":   f.Search,
		"location": f.Location,
		"category": f.Category,
		"page":     utils.IntString(f.Page),
		"limit":    utils.IntString(f.Limit),
	})
}

// ListJobs returns one page of jobs matching filter
func (c *Client) ListJobs(ctx context.Context, filter JobFilter) (*JobList, error) {
	raw, err := getJSON[json.RawMessage](ctx, c, "/jobs", filter.query())
	if err != nil {
		return nil, err
	}

	jobs, err := listOf[Job](raw, "jobs")
	if err != nil {
		return nil, err
	}
	list := &JobList{Jobs: jobs}

	if raw = bytes.TrimSpace(raw); len(raw) > 0 && raw[0] == '{' {
		var page struct {
			Pagination *Pagination `json:"pagination"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, errors.Wrap(err, "[ListJobs] decode pagination")
		}
		list.Pagination = page.Pagination
	}
	return list, nil
}

func (c *Client) GetJob(ctx context.Context, id ID) (*Job, error) {
	return getObject[Job](ctx, c, path("/job", id.String()), "job")
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	return getList[string](ctx, c, "/jobs/categories", "categories", nil)
}

func (c *Client) Locations(ctx context.Context) ([]string, error) {
	return getList[string](ctx, c, "/jobs/locations", "locations", nil)
}

// CreateJob posts a vacancy (HR only)
func (c *Client) CreateJob(ctx context.Context, job JobInput) (*Job, error) {
	return sendObject[Job](ctx, c, http.MethodPost, "/jobs", "job", job)
}

// Apply submits an application for jobID
func (c *Client) Apply(ctx context.Context, jobID ID, application ApplicationInput) (*Message, error) {
	msg, err := sendJSON[Message](ctx, c, http.MethodPost, path("/apply", jobID.String()), application)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MyJobs lists the vacancies the logged-in employer posted
func (c *Client) MyJobs(ctx context.Context) ([]Job, error) {
	return getList[Job](ctx, c, "/jobs/my-jobs", "jobs", nil)
}

func (c *Client) UpdateJob(ctx context.Context, id ID, job JobInput) (*Job, error) {
	return sendObject[Job](ctx, c, http.MethodPut, path("/jobs", id.String()), "job", job)
}

func (c *Client) DeleteJob(ctx context.Context, id ID) error {
	return send(ctx, c, http.MethodDelete, path("/jobs", id.String()), nil)
}

// SavedJobs lists the jobs the logged-in user bookmarked
func (c *Client) SavedJobs(ctx context.Context) ([]Job, error) {
	return getList[Job](ctx, c, "/saved-jobs", "jobs", nil)
}

func (c *Client) SaveJob(ctx context.Context, jobID ID) error {
	return send(ctx, c, http.MethodPost, path("/saved-jobs", jobID.String()), nil)
}

func (c *Client) UnsaveJob(ctx context.Context, jobID ID) error {
	return send(ctx, c, http.MethodDelete, path("/saved-jobs", jobID.String()), nil)
}

// IsJobSaved reports whether jobID is bookmarked
func (c *Client) IsJobSaved(ctx context.Context, jobID ID) (bool, error) {
	check, err := getJSON[struct {
		IsSaved *bool `json:"isSaved"`
		Saved   *bool `json:"saved"`
	}](ctx, c, path("/saved-jobs/check", jobID.String()), nil)
	if err != nil {
		return false, err
	}
	return utils.Value(check.IsSaved) || utils.Value(check.Saved), nil
}
