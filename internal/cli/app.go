// Package cli implements the jobtrackr command-line client on top of
// client.Mirror.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jobtrackr/jobtrackr-go/internal/apperr"
	"github.com/jobtrackr/jobtrackr-go/internal/client"
	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

// ErrNotLoggedIn is returned by commands that need a session.
var ErrNotLoggedIn = errors.New("not logged in: run 'jobtrackr login' first")

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage")

const usage = `usage: jobtrackr <command> [args]

commands:
  register                  create an account and sign in
  login                     sign in
  logout                    forget the stored session
  whoami                    show the signed-in user
  jobs                      list jobs
  add-job                   add a job
  set-status <id> <status>  change a job's status
  delete-job <id>           delete a job
  analyze <id> [--ai]       score the resume against a job
  cover-letter <id>         draft a cover letter for a job
  resume                    print the stored resume
  edit-resume               replace the resume with text read from input
  forgot-password <email>   email a password reset link
  reset-password <token>    choose a new password with a reset token
`

// Commands that need a stored session.
var sessionCommands = map[string]bool{
	"whoami": true, "jobs": true, "add-job": true, "set-status": true,
	"delete-job": true, "resume": true, "edit-resume": true,
	"analyze": true, "cover-letter": true,
}

// App runs one command against a server.
type App struct {
	api    *client.API
	mirror *client.Mirror
	in     *bufio.Reader
	out    io.Writer
}

func NewApp(api *client.API, store client.Store, in io.Reader, out io.Writer) *App {
	return &App{
		api:    api,
		mirror: client.NewMirror(api, store),
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// Run executes args[0] with the remaining args.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		return a.logout(ctx)
	case "forgot-password":
		return a.forgotPassword(ctx, rest)
	case "reset-password":
		return a.resetPassword(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	}

	if !sessionCommands[cmd] {
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}

	ok, err := a.mirror.Restore(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotLoggedIn
	}

	err = a.session(ctx, cmd, rest)
	if apperr.KindOf(err) == apperr.KindAuth {
		// Stored token was rejected; drop it so the next run starts clean.
		_ = a.mirror.Logout(ctx)
		return fmt.Errorf("%w (session expired)", ErrNotLoggedIn)
	}
	return err
}

func (a *App) session(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "whoami":
		return a.whoami(ctx)
	case "jobs":
		return a.listJobs(ctx)
	case "add-job":
		return a.addJob(ctx)
	case "set-status":
		return a.setStatus(ctx, args)
	case "delete-job":
		return a.deleteJob(ctx, args)
	case "resume":
		return a.showResume(ctx)
	case "analyze":
		return a.analyze(ctx, args)
	case "cover-letter":
		return a.coverLetter(ctx, args)
	default:
		return a.editResume(ctx)
	}
}

func (a *App) register(ctx context.Context) error {
	name, err := prompt(a.in, a.out, "Name")
	if err != nil {
		return err
	}
	email, err := prompt(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.out, "Password")
	if err != nil {
		return err
	}

	user, err := a.mirror.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s (%s)\n", user.Name, user.Initials)
	return nil
}

func (a *App) login(ctx context.Context) error {
	email, err := prompt(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.out, "Password")
	if err != nil {
		return err
	}

	user, err := a.mirror.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.mirror.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	user, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> id=%d\n", user.Name, user.Email, user.ID)
	return nil
}

func (a *App) listJobs(ctx context.Context) error {
	jobs, err := a.mirror.BootstrapJobs(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tTITLE\tSTATUS")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", j.ID, j.Company, j.Title, j.Status)
	}
	return tw.Flush()
}

func (a *App) addJob(ctx context.Context) error {
	company, err := prompt(a.in, a.out, "Company")
	if err != nil {
		return err
	}
	title, err := prompt(a.in, a.out, "Title")
	if err != nil {
		return err
	}
	status, err := prompt(a.in, a.out, "Status (blank for Applied)")
	if err != nil {
		return err
	}
	desc, err := promptMultiline(a.in, a.out, "Job description")
	if err != nil {
		return err
	}

	job, err := a.mirror.CreateJob(ctx, model.JobRequest{
		Company:        company,
		Title:          title,
		Status:         status,
		JobDescription: desc,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created job %d\n", job.ID)
	return nil
}

func (a *App) setStatus(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: set-status <id> <status>", ErrUsage)
	}
	j, err := a.findJob(ctx, args[0])
	if err != nil {
		return err
	}

	updated, err := a.mirror.UpdateJob(ctx, j.ID, model.JobRequest{
		Company:        j.Company,
		Title:          j.Title,
		Status:         strings.Join(args[1:], " "),
		Notes:          j.Notes,
		JobDescription: j.JobDescription,
		AIAnalysis:     j.AIAnalysis,
		Deadline:       j.Deadline,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Job %d is now %s\n", updated.ID, updated.Status)
	return nil
}

func (a *App) deleteJob(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete-job <id>", ErrUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := a.mirror.DeleteJob(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted job %d\n", id)
	return nil
}

func (a *App) findJob(ctx context.Context, arg string) (model.Job, error) {
	id, err := parseID(arg)
	if err != nil {
		return model.Job{}, err
	}
	jobs, err := a.mirror.BootstrapJobs(ctx)
	if err != nil {
		return model.Job{}, err
	}
	for _, j := range jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return model.Job{}, apperr.New(apperr.KindNotFound, "job not found")
}

func (a *App) analyze(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 || (len(args) == 2 && args[1] != "--ai") {
		return fmt.Errorf("%w: analyze <id> [--ai]", ErrUsage)
	}
	job, err := a.findJob(ctx, args[0])
	if err != nil {
		return err
	}
	resume, err := a.mirror.BootstrapResume(ctx)
	if err != nil {
		return err
	}

	res, err := a.api.Analyze(ctx, model.AnalyzeRequest{
		JobDescription: job.JobDescription,
		ResumeText:     resume,
		UseAI:          len(args) == 2,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Match score: %d%%\n", res.MatchScore)
	fmt.Fprintf(a.out, "Matched: %s\n", strings.Join(res.MatchedSkills, ", "))
	fmt.Fprintf(a.out, "Missing: %s\n", strings.Join(res.MissingSkills, ", "))
	fmt.Fprintf(a.out, "Keyword density: %.1f%%\n", res.KeywordDensity)
	fmt.Fprintln(a.out, res.Summary)
	if res.AISuggestions != nil {
		fmt.Fprintf(a.out, "\nSuggestions:\n%s\n", *res.AISuggestions)
	}
	return nil
}

func (a *App) coverLetter(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: cover-letter <id>", ErrUsage)
	}
	job, err := a.findJob(ctx, args[0])
	if err != nil {
		return err
	}

	letter, err := a.api.CoverLetter(ctx, job.JobDescription)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, letter)
	return nil
}

func (a *App) showResume(ctx context.Context) error {
	text, err := a.mirror.BootstrapResume(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, text)
	return nil
}

func (a *App) editResume(ctx context.Context) error {
	text, err := promptMultiline(a.in, a.out, "Resume text")
	if err != nil {
		return err
	}
	if _, err := a.mirror.SaveResume(ctx, text); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Resume saved")
	return nil
}

func (a *App) forgotPassword(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: forgot-password <email>", ErrUsage)
	}
	resp, err := a.api.ForgotPassword(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	return nil
}

func (a *App) resetPassword(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: reset-password <token>", ErrUsage)
	}
	password, err := promptPassword(a.out, "New password")
	if err != nil {
		return err
	}

	resp, err := a.api.ResetPassword(ctx, args[0], password)
	if err != nil {
		var e *apperr.Error
		if errors.As(err, &e) && len(e.Details) > 1 {
			return fmt.Errorf("%s", strings.Join(e.Details, "; "))
		}
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid job id %q", ErrUsage, s)
	}
	return id, nil
}
