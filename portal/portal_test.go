package portal_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jrsteele09/go-jobportal-client/apiclient"
	"github.com/jrsteele09/go-jobportal-client/portal"
	"github.com/jrsteele09/go-jobportal-client/token"
	"github.com/jrsteele09/go-jobportal-client/token/memstore"
	"github.com/jrsteele09/go-jobportal-client/users"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	body   string
	auth   string
}

// recorder answers every request with the body registered for "METHOD /path"
type recorder struct {
	mu        sync.Mutex
	last      recorded
	responses map[string]string
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)

	r.mu.Lock()
	r.last = recorded{
		method: req.Method,
		path:   req.URL.EscapedPath(),
		query:  req.URL.RawQuery,
		body:   string(body),
		auth:   req.Header.Get("Authorization"),
	}
	resp, ok := r.responses[req.Method+" "+req.URL.EscapedPath()]
	r.mu.Unlock()

	if !ok {
		resp = `{}`
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, resp)
}

func (r *recorder) lastRequest() recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func setup(t *testing.T, responses map[string]string) (*portal.Client, *recorder) {
	t.Helper()
	rec := &recorder{responses: responses}
	server := httptest.NewServer(rec)
	t.Cleanup(server.Close)

	store := token.NewStore(memstore.New())
	store.Save("AT1", "RT1", &users.User{ID: "1", Name: "A", Email: "a@b.com", Role: users.RoleHR})

	api, err := apiclient.New(server.URL+"/api", store)
	require.NoError(t, err)
	return portal.New(api), rec
}

func TestListJobs(t *testing.T) {
	t.Run("wrapped with pagination", func(t *testing.T) {
		c, rec := setup(t, map[string]string{
			"GET /api/jobs": `{"jobs":[{"id":7,"title":"Go developer","salary":90000,"skills":"Go, SQL"}],"pagination":{"currentPage":2,"totalPages":5,"totalJobs":42}}`,
		})

		list, err := c.ListJobs(context.Background(), portal.JobFilter{Location: "Remote", Page: 2})
		require.NoError(t, err)
		require.Len(t, list.Jobs, 1)
		require.Equal(t, portal.ID("7"), list.Jobs[0].ID)
		require.Equal(t, "90000", list.Jobs[0].Salary.String())
		require.Equal(t, []string{"Go", "SQL"}, []string(list.Jobs[0].Skills))
		require.Equal(t, 42, list.Pagination.TotalJobs)

		last := rec.lastRequest()
		require.Equal(t, "location=Remote&page=2", last.query)
		require.Equal(t, "Bearer AT1", last.auth)
	})

	t.Run("bare array", func(t *testing.T) {
		c, _ := setup(t, map[string]string{
			"GET /api/jobs": `[{"id":1,"title":"A"},{"id":2,"title":"B"}]`,
		})

		list, err := c.ListJobs(context.Background(), portal.JobFilter{})
		require.NoError(t, err)
		require.Len(t, list.Jobs, 2)
		require.Nil(t, list.Pagination)
	})
}

func TestGetJob(t *testing.T) {
	c, rec := setup(t, map[string]string{
		"GET /api/job/7": `{"id":7,"title":"Go developer","company":"Acme"}`,
	})

	job, err := c.GetJob(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, "Acme", job.Company)
	require.Equal(t, "/api/job/7", rec.lastRequest().path)
}

func TestPathParametersAreEscaped(t *testing.T) {
	c, rec := setup(t, nil)

	require.NoError(t, c.DeleteResume(context.Background(), "my cv/../x.pdf"))
	require.Equal(t, "/api/upload/resume/my%20cv%2F..%2Fx.pdf", rec.lastRequest().path)
}

func TestIsJobSaved(t *testing.T) {
	c, _ := setup(t, map[string]string{
		"GET /api/saved-jobs/check/7": `{"isSaved":true}`,
		"GET /api/saved-jobs/check/8": `{"saved":false}`,
	})

	saved, err := c.IsJobSaved(context.Background(), "7")
	require.NoError(t, err)
	require.True(t, saved)

	saved, err = c.IsJobSaved(context.Background(), "8")
	require.NoError(t, err)
	require.False(t, saved)
}

func TestRoutes(t *testing.T) {
	ctx := context.Background()
	action := portal.StageAction{RejectionReason: "Position filled"}

	tests := []struct {
		name   string
		call   func(c *portal.Client) error
		method string
		path   string
		body   string
	}{
		{name: "categories", call: func(c *portal.Client) error { _, err := c.Categories(ctx); return err }, method: http.MethodGet, path: "/api/jobs/categories"},
		{name: "locations", call: func(c *portal.Client) error { _, err := c.Locations(ctx); return err }, method: http.MethodGet, path: "/api/jobs/locations"},
		{name: "create job", call: func(c *portal.Client) error {
			_, err := c.CreateJob(ctx, portal.JobInput{Title: "Go developer"})
			return err
		}, method: http.MethodPost, path: "/api/jobs", body: `"title":"Go developer"`},
		{name: "apply", call: func(c *portal.Client) error {
			_, err := c.Apply(ctx, "7", portal.ApplicationInput{Name: "A"})
			return err
		}, method: http.MethodPost, path: "/api/apply/7", body: `{"name":"A"}`},
		{name: "my jobs", call: func(c *portal.Client) error { _, err := c.MyJobs(ctx); return err }, method: http.MethodGet, path: "/api/jobs/my-jobs"},
		{name: "update job", call: func(c *portal.Client) error {
			_, err := c.UpdateJob(ctx, "7", portal.JobInput{Title: "Senior"})
			return err
		}, method: http.MethodPut, path: "/api/jobs/7"},
		{name: "delete job", call: func(c *portal.Client) error { return c.DeleteJob(ctx, "7") }, method: http.MethodDelete, path: "/api/jobs/7"},
		{name: "saved jobs", call: func(c *portal.Client) error { _, err := c.SavedJobs(ctx); return err }, method: http.MethodGet, path: "/api/saved-jobs"},
		{name: "save job", call: func(c *portal.Client) error { return c.SaveJob(ctx, "7") }, method: http.MethodPost, path: "/api/saved-jobs/7"},
		{name: "unsave job", call: func(c *portal.Client) error { return c.UnsaveJob(ctx, "7") }, method: http.MethodDelete, path: "/api/saved-jobs/7"},
		{name: "my applications", call: func(c *portal.Client) error { _, err := c.MyApplications(ctx); return err }, method: http.MethodGet, path: "/api/applications/my-applications"},
		{name: "my application", call: func(c *portal.Client) error { _, err := c.MyApplication(ctx, "3"); return err }, method: http.MethodGet, path: "/api/applications/my-applications/3"},
		{name: "my application workflow", call: func(c *portal.Client) error { _, err := c.MyApplicationWorkflow(ctx, "3"); return err }, method: http.MethodGet, path: "/api/applications/my-applications/3/workflow"},
		{name: "withdraw", call: func(c *portal.Client) error { return c.WithdrawApplication(ctx, "3") }, method: http.MethodDelete, path: "/api/applications/my-applications/3"},
		{name: "applicants", call: func(c *portal.Client) error {
			_, err := c.Applicants(ctx, portal.ApplicantFilter{Status: "pending"})
			return err
		}, method: http.MethodGet, path: "/api/applications/hr/applicants"},
		{name: "applicant status", call: func(c *portal.Client) error {
			return c.UpdateApplicantStatus(ctx, "3", portal.StatusUpdate{Status: "shortlisted"})
		}, method: http.MethodPut, path: "/api/applications/hr/applicants/3/status", body: `{"status":"shortlisted"}`},
		{name: "stats", call: func(c *portal.Client) error { _, err := c.ApplicationStats(ctx); return err }, method: http.MethodGet, path: "/api/applications/hr/stats"},
		{name: "applicant workflow", call: func(c *portal.Client) error { _, err := c.ApplicantWorkflow(ctx, "3"); return err }, method: http.MethodGet, path: "/api/applications/hr/applicants/3/workflow"},
		{name: "next stage", call: func(c *portal.Client) error { return c.MoveToNextStage(ctx, "3", portal.StageAction{Notes: "good"}) }, method: http.MethodPost, path: "/api/applications/hr/applicants/3/next-stage", body: `{"notes":"good"}`},
		{name: "reject", call: func(c *portal.Client) error { return c.RejectApplicant(ctx, "3", action) }, method: http.MethodPost, path: "/api/applications/hr/applicants/3/reject", body: `{"rejection_reason":"Position filled"}`},
		{name: "schedule interview", call: func(c *portal.Client) error {
			return c.ScheduleInterview(ctx, "3", portal.StageAction{ScheduledDate: "2026-11-02", ScheduledTime: "10:00"})
		}, method: http.MethodPost, path: "/api/applications/hr/applicants/3/schedule-interview", body: `{"scheduled_date":"2026-11-02","scheduled_time":"10:00"}`},
		{name: "complete stage", call: func(c *portal.Client) error { return c.CompleteStage(ctx, "3", portal.StageAction{Status: "passed"}) }, method: http.MethodPost, path: "/api/applications/hr/applicants/3/complete-stage", body: `{"status":"passed"}`},
		{name: "workflow stages", call: func(c *portal.Client) error { _, err := c.WorkflowStages(ctx); return err }, method: http.MethodGet, path: "/api/applications/hr/workflow-stages"},
		{name: "profile", call: func(c *portal.Client) error { _, err := c.Profile(ctx); return err }, method: http.MethodGet, path: "/api/enhanced-profile"},
		{name: "update profile", call: func(c *portal.Client) error { return c.UpdateProfile(ctx, portal.Profile{Headline: "Gopher"}) }, method: http.MethodPut, path: "/api/enhanced-profile", body: `{"headline":"Gopher"}`},
		{name: "add experience", call: func(c *portal.Client) error {
			return c.AddExperience(ctx, portal.Experience{Title: "Dev", Company: "Acme"})
		}, method: http.MethodPost, path: "/api/enhanced-profile/experience"},
		{name: "delete experience", call: func(c *portal.Client) error { return c.DeleteExperience(ctx, "4") }, method: http.MethodDelete, path: "/api/enhanced-profile/experience/4"},
		{name: "add education", call: func(c *portal.Client) error {
			return c.AddEducation(ctx, portal.Education{Institution: "Uni", Degree: "BSc"})
		}, method: http.MethodPost, path: "/api/enhanced-profile/education"},
		{name: "delete education", call: func(c *portal.Client) error { return c.DeleteEducation(ctx, "5") }, method: http.MethodDelete, path: "/api/enhanced-profile/education/5"},
		{name: "skills", call: func(c *portal.Client) error { return c.UpdateSkills(ctx, []string{"Go"}) }, method: http.MethodPut, path: "/api/enhanced-profile/skills", body: `{"skills":["Go"]}`},
		{name: "completion tips", call: func(c *portal.Client) error { _, err := c.CompletionTips(ctx); return err }, method: http.MethodGet, path: "/api/enhanced-profile/completion-tips"},
		{name: "delete photo", call: func(c *portal.Client) error { return c.DeletePhoto(ctx, "me.png") }, method: http.MethodDelete, path: "/api/upload/photo/me.png"},
		{name: "resume", call: func(c *portal.Client) error { _, err := c.Resume(ctx); return err }, method: http.MethodGet, path: "/api/resume"},
		{name: "save resume", call: func(c *portal.Client) error { return c.SaveResume(ctx, portal.Resume{"headline": "Gopher"}) }, method: http.MethodPut, path: "/api/resume", body: `{"headline":"Gopher"}`},
		{name: "resume filters", call: func(c *portal.Client) error { _, err := c.ResumeFilters(ctx); return err }, method: http.MethodGet, path: "/api/resume-search/filters"},
		{name: "candidate", call: func(c *portal.Client) error { _, err := c.Candidate(ctx, "9"); return err }, method: http.MethodGet, path: "/api/resume-search/candidate/9"},
		{name: "skill tests", call: func(c *portal.Client) error { _, err := c.SkillTests(ctx); return err }, method: http.MethodGet, path: "/api/skill-tests"},
		{name: "test questions", call: func(c *portal.Client) error { _, err := c.TestQuestions(ctx, "2"); return err }, method: http.MethodGet, path: "/api/skill-tests/2/questions"},
		{name: "my results", call: func(c *portal.Client) error { _, err := c.MyTestResults(ctx); return err }, method: http.MethodGet, path: "/api/skill-tests/results/my-tests"},
		{name: "job alerts", call: func(c *portal.Client) error { _, err := c.JobAlerts(ctx); return err }, method: http.MethodGet, path: "/api/job-alerts"},
		{name: "create alert", call: func(c *portal.Client) error {
			return c.CreateJobAlert(ctx, portal.JobAlert{Keywords: "golang", Frequency: "daily", IsActive: true})
		}, method: http.MethodPost, path: "/api/job-alerts", body: `{"keywords":"golang","frequency":"daily","is_active":true}`},
		{name: "delete alert", call: func(c *portal.Client) error { return c.DeleteJobAlert(ctx, "6") }, method: http.MethodDelete, path: "/api/job-alerts/6"},
		{name: "toggle alert", call: func(c *portal.Client) error { return c.ToggleJobAlert(ctx, "6") }, method: http.MethodPatch, path: "/api/job-alerts/6/toggle"},
		{name: "articles", call: func(c *portal.Client) error {
			_, err := c.Articles(ctx, portal.ArticleFilter{Category: "Interviews"})
			return err
		}, method: http.MethodGet, path: "/api/career-advice"},
		{name: "article", call: func(c *portal.Client) error { _, err := c.Article(ctx, "11"); return err }, method: http.MethodGet, path: "/api/career-advice/11"},
		{name: "article categories", call: func(c *portal.Client) error { _, err := c.ArticleCategories(ctx); return err }, method: http.MethodGet, path: "/api/career-advice/categories/list"},
		{name: "featured", call: func(c *portal.Client) error { _, err := c.FeaturedArticles(ctx); return err }, method: http.MethodGet, path: "/api/career-advice/featured/list"},
		{name: "plans", call: func(c *portal.Client) error { _, err := c.Plans(ctx); return err }, method: http.MethodGet, path: "/api/recruitment/plans"},
		{name: "solutions", call: func(c *portal.Client) error { _, err := c.Solutions(ctx); return err }, method: http.MethodGet, path: "/api/recruitment/solutions"},
		{name: "contact", call: func(c *portal.Client) error {
			_, err := c.Contact(ctx, portal.ContactMessage{Name: "A", Email: "a@b.com", Subject: "Hi", Message: "Hello"})
			return err
		}, method: http.MethodPost, path: "/api/contact", body: `"subject":"Hi"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setup(t, map[string]string{
				// list endpoints answer with bare arrays so listOf takes its array branch
				"GET /api/jobs/categories":                  `["IT"]`,
				"GET /api/jobs/locations":                   `["Remote"]`,
				"GET /api/jobs/my-jobs":                     `[]`,
				"GET /api/saved-jobs":                       `[]`,
				"GET /api/applications/my-applications":     `[]`,
				"GET /api/applications/hr/applicants":       `[]`,
				"GET /api/applications/hr/workflow-stages":  `[]`,
				"GET /api/enhanced-profile/completion-tips": `[]`,
				"GET /api/skill-tests":                      `[]`,
				"GET /api/skill-tests/results/my-tests":     `[]`,
				"GET /api/job-alerts":                       `[]`,
				"GET /api/career-advice":                    `[]`,
				"GET /api/career-advice/categories/list":    `[]`,
				"GET /api/career-advice/featured/list":      `[]`,
				"GET /api/recruitment/plans":                `[]`,
			})

			require.NoError(t, tt.call(c))

			last := rec.lastRequest()
			require.Equal(t, tt.method, last.method)
			require.Equal(t, tt.path, last.path)
			require.Equal(t, "Bearer AT1", last.auth)
			if tt.body != "" {
				require.Contains(t, last.body, tt.body)
			}
		})
	}
}

func TestWrappedLists(t *testing.T) {
	c, _ := setup(t, map[string]string{
		"GET /api/career-advice":                   `{"articles":[{"id":1,"title":"CV tips","views":"120"}]}`,
		"GET /api/applications/hr/workflow-stages": `{"stages":[{"id":"screening","name":"Screening"}]}`,
		"GET /api/job-alerts":                      `{"total":0}`,
	})

	articles, err := c.Articles(context.Background(), portal.ArticleFilter{})
	require.NoError(t, err)
	require.Equal(t, "CV tips", articles[0].Title)
	require.Equal(t, "120", articles[0].Views.String())

	stages, err := c.WorkflowStages(context.Background())
	require.NoError(t, err)
	require.Equal(t, "screening", stages[0].ID)

	_, err = c.JobAlerts(context.Background())
	require.Error(t, err, "an object without the expected list is not silently empty")
}

func TestSubmitTest(t *testing.T) {
	c, rec := setup(t, map[string]string{
		"POST /api/skill-tests/2/submit": `{"message":"Test submitted","result":{"id":10,"test_id":2,"score":80,"correct_answers":8,"total_questions":10,"passed":true}}`,
	})

	result, err := c.SubmitTest(context.Background(), "2", portal.TestSubmission{
		Answers:          []string{"a", "c"},
		QuestionIDs:      []portal.ID{"1", "2"},
		TimeTakenMinutes: 4,
	})
	require.NoError(t, err)
	require.Equal(t, 80, result.Score)
	require.True(t, result.Passed)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.lastRequest().body), &sent))
	require.Equal(t, []any{1.0, 2.0}, sent["question_ids"], "numeric ids go out as numbers")
	require.Equal(t, 4.0, sent["time_taken_minutes"])
}

func TestSearchResumes(t *testing.T) {
	c, rec := setup(t, map[string]string{
		"GET /api/resume-search/search": `{"candidates":[{"id":9,"name":"Ann","skills":["Go"]}],"pagination":{"currentPage":1,"totalPages":1,"total":1}}`,
	})

	result, err := c.SearchResumes(context.Background(), portal.CandidateFilter{Skills: []string{"Go", "SQL"}, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	require.Equal(t, 1, result.Pagination.Total)
	require.Equal(t, "limit=10&skills=Go%2CSQL", rec.lastRequest().query)
}

func TestUploadResume(t *testing.T) {
	type upload struct{ field, filename, content string }
	received := make(chan upload, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for field, files := range r.MultipartForm.File {
			f, err := files[0].Open()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			b, _ := io.ReadAll(f)
			_ = f.Close()
			received <- upload{field: field, filename: files[0].Filename, content: string(b)}
		}
		_, _ = io.WriteString(w, `{"url":"/uploads/cv.pdf","message":"Uploaded"}`)
	}))
	defer server.Close()

	api, err := apiclient.New(server.URL, token.NewStore(memstore.New()))
	require.NoError(t, err)

	result, err := portal.New(api).UploadResume(context.Background(), "cv.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	require.Equal(t, "/uploads/cv.pdf", result.URL)

	got := <-received
	require.Equal(t, "resume", got.field)
	require.Equal(t, "cv.pdf", got.filename)
	require.Equal(t, "%PDF", got.content)
}

func TestDownloadResume(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.7")
	}))
	defer server.Close()

	api, err := apiclient.New(server.URL, token.NewStore(memstore.New()))
	require.NoError(t, err)

	body, contentType, err := portal.New(api).DownloadResume(context.Background())
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.7", string(body))
	require.Equal(t, "application/pdf", contentType)
}

func TestErrorsPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"Job already saved"}`)
	}))
	defer server.Close()

	api, err := apiclient.New(server.URL, token.NewStore(memstore.New()))
	require.NoError(t, err)

	err = portal.New(api).SaveJob(context.Background(), "7")
	require.Error(t, err)
	require.Equal(t, "Job already saved", apiclient.ErrorMessage(err))
	require.Equal(t, http.StatusConflict, apiclient.StatusCode(err))
}
