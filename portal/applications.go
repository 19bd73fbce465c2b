package portal

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-jobportal-client/internal/utils"
)

const hrApplicants = "/applications/hr/applicants"

// MyApplications lists the logged-in job seeker's applications
func (c *Client) MyApplications(ctx context.Context) ([]Application, error) {
	return getList[Application](ctx, c, "/applications/my-applications", "applications", nil)
}

func (c *Client) MyApplication(ctx context.Context, id ID) (*Application, error) {
	return getObject[Application](ctx, c, path("/applications/my-applications", id.String()), "application")
}

func (c *Client) MyApplicationWorkflow(ctx context.Context, id ID) (*Workflow, error) {
	return getObject[Workflow](ctx, c, path("/applications/my-applications", id.String(), "workflow"), "workflow")
}

func (c *Client) WithdrawApplication(ctx context.Context, id ID) error {
	return send(ctx, c, http.MethodDelete, path("/applications/my-applications", id.String()), nil)
}

func (f ApplicantFilter) query() url.Values {
	return utils.QueryValues(map[string]string{
		"jobId":  f.JobID,
		"status": f.Status,
	})
}

// Applicants lists applications to the logged-in employer's jobs
func (c *Client) Applicants(ctx context.Context, filter ApplicantFilter) ([]Application, error) {
	return getList[Application](ctx, c, hrApplicants, "applicants", filter.query())
}

func (c *Client) UpdateApplicantStatus(ctx context.Context, id ID, update StatusUpdate) error {
	return send(ctx, c, http.MethodPut, path(hrApplicants, id.String(), "status"), update)
}

func (c *Client) ApplicationStats(ctx context.Context) (*ApplicationStats, error) {
	return getObject[ApplicationStats](ctx, c, "/applications/hr/stats", "stats")
}

func (c *Client) ApplicantWorkflow(ctx context.Context, id ID) (*Workflow, error) {
	return getObject[Workflow](ctx, c, path(hrApplicants, id.String(), "workflow"), "workflow")
}

// MoveToNextStage advances an applicant to the next pipeline stage
func (c *Client) MoveToNextStage(ctx context.Context, id ID, action StageAction) error {
	return send(ctx, c, http.MethodPost, path(hrApplicants, id.String(), "next-stage"), action)
}

// RejectApplicant ends the applicant's pipeline; action.RejectionReason is required by the backend
func (c *Client) RejectApplicant(ctx context.Context, id ID, action StageAction) error {
	return send(ctx, c, http.MethodPost, path(hrApplicants, id.String(), "reject"), action)
}

func (c *Client) ScheduleInterview(ctx context.Context, id ID, action StageAction) error {
	return send(ctx, c, http.MethodPost, path(hrApplicants, id.String(), "schedule-interview"), action)
}

func (c *Client) CompleteStage(ctx context.Context, id ID, action StageAction) error {
	return send(ctx, c, http.MethodPost, path(hrApplicants, id.String(), "complete-stage"), action)
}

// WorkflowStages lists the pipeline stages in order
func (c *Client) WorkflowStages(ctx context.Context) ([]WorkflowStage, error) {
	return getList[WorkflowStage](ctx, c, "/applications/hr/workflow-stages", "stages", nil)
}
