package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-jobportal-client/auth"
	"github.com/jrsteele09/go-jobportal-client/portal"
	"github.com/jrsteele09/go-jobportal-client/users"
	"github.com/pkg/errors"
)

type command struct {
	name string
	help string
	run  func(a *app, ctx context.Context, args []string) error
}

var commands = []command{
	{"login", "log in (-email, -password, -hr)", cmdLogin},
	{"signup", "create an account (-name, -email, -password, -hr)", cmdSignup},
	{"logout", "end the session", cmdLogout},
	{"whoami", "show the logged-in user", cmdWhoAmI},
	{"forgot-password", "send a reset email (-email)", cmdForgotPassword},
	{"reset-password", "set a new password (-token, -password)", cmdResetPassword},
	{"verify-email", "confirm the account email (-token)", cmdVerifyEmail},
	{"resend-verification", "send the verification email again", cmdResendVerification},
	{"change-password", "change the password (-current, -new)", cmdChangePassword},
	{"jobs", "list jobs (-search, -location, -category, -page, -limit)", cmdJobs},
	{"job", "show one job: job <id>", cmdJob},
	{"apply", "apply to a job: apply [-cover text] <id>", cmdApply},
	{"saved", "list saved jobs", cmdSaved},
	{"save", "save a job: save <id>", cmdSave},
	{"unsave", "remove a saved job: unsave <id>", cmdUnsave},
	{"applications", "list my applications", cmdApplications},
	{"applicants", "list applicants to my jobs (-job, -status)", cmdApplicants},
	{"upload-resume", "upload a resume file: upload-resume <file>", cmdUploadResume},
	{"alerts", "list job alerts", cmdAlerts},
	{"tests", "list skill tests", cmdTests},
}

func (a *app) dispatch(ctx context.Context, name string, args []string) error {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd.run(a, ctx, args)
		}
	}
	usage()
	return errors.Errorf("unknown command %q", name)
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[printJSON]")
	}
	fmt.Println(string(b))
	return nil
}

// printResult turns a facade result into command output
func printResult(result auth.Result) error {
	if !result.Success {
		return errors.New(result.Error)
	}
	if result.Message != "" {
		fmt.Println(result.Message)
	}
	if result.User != nil {
		return printJSON(result.User)
	}
	return nil
}

// singleID parses the flags and expects exactly one positional resource id
func singleID(fs *flag.FlagSet, args []string) (portal.ID, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", errors.Errorf("%s expects one id", fs.Name())
	}
	return portal.ID(fs.Arg(0)), nil
}

func cmdLogin(a *app, ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	hr := fs.Bool("hr", false, "log in as an employer")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return printResult(a.session.Login(ctx, *email, *password, *hr))
}

func cmdSignup(a *app, ctx context.Context, args []string) error {
	fs := newFlagSet("signup")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	hr := fs.Bool("hr", false, "create an employer account")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return printResult(a.session.Signup(ctx, *name, *email, *password, *hr))
}

func cmdLogout(a *app, ctx context.Context, _ []string) error {
	return printResult(a.session.Logout(ctx))
}

func cmdWhoAmI(a *app, _ context.Context, _ []string) error {
	user := a.session.User()
	if user == nil {
		return errors.New(auth.NoUserMsg)
	}
	return printJSON(struct {
		*users.User
		Refreshes int64 `json:"refreshes"`
	}{user, a.api.Refreshes()})
}

func cmdForgotPassword(a *app, ctx context.Context, args []string) error {
	fs := newFlagSet("forgot-password")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return printResult(a.session.ForgotPassword(ctx, *email))
}

func cmdResetPassword(a *app, ctx context.Context, args []string) error {
	fs := newFlagSet("reset-password")
	resetToken := fs.String("token", "", "token from the reset email")
	password := fs.String("password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return printResult(a.session.ResetPassword(ctx, *resetToken, *password))
}

func cmdVerifyEmail(a *app, ctx context.Context, args []string) error {
	fs := newFlagSet("verify-email")
	verificationToken := fs.String("token", "", "token from the verification email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return printResult(a.session.VerifyEmail(ctx, *verificationToken))
}

func cmdResendVerification(a *app, ctx context.Context, _ []string) error {
	return printResult(a.session.ResendVerification(ctx))
}

func cmdChangePassword(a *app, ctx context.Context, args []string) error {
	fs := newFlagSet("change-password")
	current := fs.String("current", "", "current password")
	next := fs.String("new", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return printResult(a.session.ChangePassword(ctx, *current, *next))
}

func cmdJobs(a *app, ctx context.Context, args []string) error {
	fs := newFlagSet("jobs")
	var filter portal.JobFilter
	fs.StringVar(&filter.Search, "search", "", "title or company text")
	fs.StringVar(&filter.Location, "location", "", "location")
	fs.StringVar(&filter.Category, "category", "", "category")
	fs.IntVar(&filter.Page, "page", 0, "page number")
	fs.IntVar(&filter.Limit, "limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := a.portal.ListJobs(ctx, filter)
	if err != nil {
		return err
	}
	return printJSON(list)
}

func cmdJob(a *app, ctx context.Context, args []string) error {
	id, err := singleID(newFlagSet("job"), args)
	if err != nil {
		return err
	}
	job, err := a.portal.GetJob(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(job)
}

func cmdApply(a *app, ctx context.Context, args []string) error {
	fs := newFlagSet("apply")
	cover := fs.String("cover", "", "cover letter")
	id, err := singleID(fs, args)
	if err != nil {
		return err
	}

	var input portal.ApplicationInput
	if user := a.session.User(); user != nil {
		input.Name, input.Email = user.Name, user.Email
	}
	input.CoverLetter = *cover

	msg, err := a.portal.Apply(ctx, id, input)
	if err != nil {
		return err
	}
	fmt.Println(msg.Message)
	return nil
}

func cmdSaved(a *app, ctx context.Context, _ []string) error {
	jobs, err := a.portal.SavedJobs(ctx)
	if err != nil {
		return err
	}
	return printJSON(jobs)
}

func cmdSave(a *app, ctx context.Context, args []string) error {
	id, err := singleID(newFlagSet("save"), args)
	if err != nil {
		return err
	}
	return a.portal.SaveJob(ctx, id)
}

func cmdUnsave(a *app, ctx context.Context, args []string) error {
	id, err := singleID(newFlagSet("unsave"), args)
	if err != nil {
		return err
	}
	return a.portal.UnsaveJob(ctx, id)
}

func cmdApplications(a *app, ctx context.Context, _ []string) error {
	applications, err := a.portal.MyApplications(ctx)
	if err != nil {
		return err
	}
	return printJSON(applications)
}

func cmdApplicants(a *app, ctx context.Context, args []string) error {
	fs := newFlagSet("applicants")
	jobID := fs.String("job", "", "only applicants to this job")
	status := fs.String("status", "", "only applicants in this status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	applicants, err := a.portal.Applicants(ctx, portal.ApplicantFilter{JobID: *jobID, Status: *status})
	if err != nil {
		return err
	}
	return printJSON(applicants)
}

func cmdUploadResume(a *app, ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("upload-resume expects one file")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrap(err, "[cmdUploadResume]")
	}
	defer f.Close()

	result, err := a.portal.UploadResume(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func cmdAlerts(a *app, ctx context.Context, _ []string) error {
	alerts, err := a.portal.JobAlerts(ctx)
	if err != nil {
		return err
	}
	return printJSON(alerts)
}

func cmdTests(a *app, ctx context.Context, _ []string) error {
	tests, err := a.portal.SkillTests(ctx)
	if err != nil {
		return err
	}
	return printJSON(tests)
}
