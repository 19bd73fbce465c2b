package portal

import (
	"context"
	"net/http"
)

func (c *Client) JobAlerts(ctx context.Context) ([]JobAlert, error) {
	return getList[JobAlert](ctx, c, "/job-alerts", "alerts", nil)
}

func (c *Client) CreateJobAlert(ctx context.Context, alert JobAlert) error {
	return send(ctx, c, http.MethodPost, "/job-alerts", alert)
}

func (c *Client) DeleteJobAlert(ctx context.Context, id ID) error {
	return send(ctx, c, http.MethodDelete, path("/job-alerts", id.String()), nil)
}

// ToggleJobAlert pauses an active alert or resumes a paused one
func (c *Client) ToggleJobAlert(ctx context.Context, id ID) error {
	return send(ctx, c, http.MethodPatch, path("/job-alerts", id.String(), "toggle"), nil)
}
