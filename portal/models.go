package portal

import "github.com/jrsteele09/go-jobportal-client/apimodel"

// Job is a posted vacancy
type Job struct {
	ID          ID                  `json:"id"`
	Title       string              `json:"title"`
	Company     string              `json:"company"`
	Location    string              `json:"location"`
	Category    string              `json:"category"`
	JobType     string              `json:"job_type,omitempty"`
	Experience  apimodel.Scalar     `json:"experience,omitempty"`
	Salary      apimodel.Scalar     `json:"salary,omitempty"`
	Description string              `json:"description"`
	Skills      apimodel.StringList `json:"skills,omitempty"`
	Rating      apimodel.Scalar     `json:"rating,omitempty"`
	CreatedOn   string              `json:"created_on,omitempty"`
	SavedAt     string              `json:"saved_at,omitempty"`
}

// JobInput is the body of job create and update
type JobInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}

// JobFilter narrows GET /jobs; empty fields are not sent
type JobFilter struct {
	Search   string
	Location string
	Category string
	Page     int
	Limit    int
}

// JobList is one page of jobs
type JobList struct {
	Jobs       []Job       `json:"jobs"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ApplicationInput is the body of POST /apply/:jobId
type ApplicationInput struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	CoverLetter string `json:"cover_letter,omitempty"`
}

// Application is a job seeker's application as seen by either side
type Application struct {
	ID        ID     `json:"id"`
	JobID     ID     `json:"job_id"`
	JobTitle  string `json:"job_title,omitempty"`
	Title     string `json:"title,omitempty"`
	Company   string `json:"company,omitempty"`
	Location  string `json:"location,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	CreatedOn string `json:"created_on,omitempty"`
}

// ApplicantFilter narrows the HR applicant list
type ApplicantFilter struct {
	JobID  string
	Status string
}

// StatusUpdate is the body of PUT /applications/hr/applicants/:id/status
type StatusUpdate struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// ApplicationStats summarises an employer's applicants by status
type ApplicationStats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Shortlisted int `json:"shortlisted"`
	Interview   int `json:"interview"`
	Hired       int `json:"hired"`
	Rejected    int `json:"rejected"`
}

// StageEntry records one step of an application's workflow history
type StageEntry struct {
	Stage         string `json:"stage"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	Feedback      string `json:"feedback,omitempty"`
	ScheduledDate string `json:"scheduled_date,omitempty"`
	CompletedAt   string `json:"completed_at,omitempty"`
}

// Workflow is an application's position in the hiring pipeline
type Workflow struct {
	ApplicationID ID           `json:"application_id,omitempty"`
	CurrentStage  string       `json:"current_stage"`
	StageHistory  []StageEntry `json:"stage_history,omitempty"`
}

// WorkflowStage describes one pipeline stage
type WorkflowStage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// StageAction is the body of the workflow transitions. Only the fields a transition
// needs are sent.
type StageAction struct {
	Notes           string `json:"notes,omitempty"`
	Feedback        string `json:"feedback,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	ScheduledDate   string `json:"scheduled_date,omitempty"`
	ScheduledTime   string `json:"scheduled_time,omitempty"`
	Status          string `json:"status,omitempty"`
}

// Profile is the enhanced profile of the logged-in user
type Profile struct {
	Name                 string              `json:"name,omitempty"`
	Phone                string              `json:"phone,omitempty"`
	Headline             string              `json:"headline,omitempty"`
	Summary              string              `json:"summary,omitempty"`
	CurrentLocation      string              `json:"currentLocation,omitempty"`
	ExpectedSalary       apimodel.Scalar     `json:"expectedSalary,omitempty"`
	NoticePeriod         string              `json:"noticePeriod,omitempty"`
	LinkedinURL          string              `json:"linkedinUrl,omitempty"`
	GithubURL            string              `json:"githubUrl,omitempty"`
	PortfolioURL         string              `json:"portfolioUrl,omitempty"`
	IsOpenToWork         *bool               `json:"isOpenToWork,omitempty"`
	Photo                string              `json:"photo,omitempty"`
	Resume               string              `json:"resume,omitempty"`
	Skills               apimodel.StringList `json:"skills,omitempty"`
	Experience           []Experience        `json:"experience,omitempty"`
	Education            []Education         `json:"education,omitempty"`
	CompletionPercentage int                 `json:"completionPercentage,omitempty"`
}

type Experience struct {
	ID          ID     `json:"id,omitempty"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	ID          ID     `json:"id,omitempty"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Grade       string `json:"grade,omitempty"`
}

// UploadResult is returned by the upload endpoints
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Candidate is a resume-search hit
type Candidate struct {
	ID              ID                  `json:"id"`
	UserID          ID                  `json:"user_id,omitempty"`
	Name            string              `json:"name"`
	Headline        string              `json:"headline,omitempty"`
	Summary         string              `json:"summary,omitempty"`
	CurrentLocation string              `json:"currentLocation,omitempty"`
	Skills          apimodel.StringList `json:"skills,omitempty"`
}

// CandidateSearch is one page of resume-search results
type CandidateSearch struct {
	Candidates []Candidate `json:"candidates"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// SkillTest is an available assessment
type SkillTest struct {
	ID               ID     `json:"id"`
	Title            string `json:"title"`
	SkillName        string `json:"skill_name,omitempty"`
	Description      string `json:"description,omitempty"`
	Icon             string `json:"icon,omitempty"`
	DurationMinutes  int    `json:"duration_minutes"`
	PassingScore     int    `json:"passing_score,omitempty"`
	QuestionsPerTest int    `json:"questions_per_test,omitempty"`
}

type Question struct {
	ID         ID                  `json:"id"`
	Question   string              `json:"question"`
	Options    apimodel.StringList `json:"options"`
	Difficulty string              `json:"difficulty,omitempty"`
	Points     int                 `json:"points,omitempty"`
}

// TestPaper is a test with the questions drawn for this attempt
type TestPaper struct {
	Test      SkillTest  `json:"test"`
	Questions []Question `json:"questions"`
}

// TestSubmission is the body of POST /skill-tests/:id/submit
type TestSubmission struct {
	Answers          []string `json:"answers"`
	QuestionIDs      []ID     `json:"question_ids"`
	TimeTakenMinutes int      `json:"time_taken_minutes"`
}

type TestResult struct {
	ID             ID     `json:"id"`
	TestID         ID     `json:"test_id"`
	Title          string `json:"title,omitempty"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correct_answers"`
	TotalQuestions int    `json:"total_questions"`
	Passed         bool   `json:"passed"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// JobAlert is a saved search that emails matching jobs
type JobAlert struct {
	ID              ID     `json:"id,omitempty"`
	Keywords        string `json:"keywords"`
	Location        string `json:"location,omitempty"`
	Category        string `json:"category,omitempty"`
	ExperienceLevel string `json:"experience_level,omitempty"`
	SalaryRange     string `json:"salary_range,omitempty"`
	JobType         string `json:"job_type,omitempty"`
	Frequency       string `json:"frequency,omitempty"`
	IsActive        bool   `json:"is_active"`
}

// Article is a career-advice article
type Article struct {
	ID        ID              `json:"id"`
	Title     string          `json:"title"`
	Summary   string          `json:"summary,omitempty"`
	Content   string          `json:"content,omitempty"`
	Category  string          `json:"category,omitempty"`
	Author    string          `json:"author,omitempty"`
	Views     apimodel.Scalar `json:"views,omitempty"`
	Link      string          `json:"link,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
}

// Plan is a recruitment pricing plan
type Plan struct {
	ID               ID                  `json:"id"`
	Name             string              `json:"name"`
	Price            apimodel.Scalar     `json:"price"`
	Features         apimodel.StringList `json:"features,omitempty"`
	JobPostingsLimit apimodel.Scalar     `json:"job_postings_limit,omitempty"`
	ResumeViewsLimit apimodel.Scalar     `json:"resume_views_limit,omitempty"`
	FeaturedJobs     apimodel.Scalar     `json:"featured_jobs,omitempty"`
	PrioritySupport  bool                `json:"priority_support,omitempty"`
	CustomBranding   bool                `json:"custom_branding,omitempty"`
	AnalyticsAccess  bool                `json:"analytics_access,omitempty"`
}

// ContactMessage is the body of POST /contact
type ContactMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}
