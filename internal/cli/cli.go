// Package cli implements the portal command line on top of a local
// portal.Portal. Each invocation runs one subcommand and exits; the session
// and records persist in the store between runs.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"patient-portal/internal/appointment"
	"patient-portal/internal/auth"
	"patient-portal/internal/model"
	"patient-portal/internal/portal"
)

var ErrUsage = errors.New("usage")

const usage = `usage: portal <command> [flags]

commands:
  register      -first -last -email -phone -dob -password
  login         -email -password
  logout
  whoami
  doctors
  slots         -doctor -date
  book          -doctor -date -time -reason
  appointments  [-upcoming]
  remind        -doctor -date [-instructions] -med name[:dosage[:duration[:frequency]]]...
  reminders
  theme         [toggle]
`

type command func(ctx context.Context, p *portal.Portal, args []string, out io.Writer) error

var commands = map[string]command{
	"register":     register,
	"login":        login,
	"logout":       logout,
	"whoami":       whoami,
	"doctors":      doctors,
	"slots":        slots,
	"book":         book,
	"appointments": appointments,
	"remind":       remind,
	"reminders":    reminders,
	"theme":        themeCmd,
}

// Run executes one subcommand. Usage problems return an error wrapping
// ErrUsage after the usage text is written to out.
func Run(ctx context.Context, p *portal.Portal, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return fmt.Errorf("%w: no command", ErrUsage)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprint(out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return cmd(ctx, p, args[1:], out)
}

func newFlags(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func signedIn(p *portal.Portal) (model.User, error) {
	u, ok := p.Session()
	if !ok {
		return model.User{}, fmt.Errorf("%w: run `portal login` first", portal.ErrNotSignedIn)
	}
	return u, nil
}

func register(ctx context.Context, p *portal.Portal, args []string, out io.Writer) error {
	fs := newFlags("register", out)
	var reg model.Registration
	fs.StringVar(&reg.FirstName, "first", "", "first name")
	fs.StringVar(&reg.LastName, "last", "", "last name")
	fs.StringVar(&reg.Email, "email", "", "email address")
	fs.StringVar(&reg.Phone, "phone", "", "phone number")
	fs.StringVar(&reg.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	fs.StringVar(&reg.Password, "password", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}

	if err := auth.ValidateRegistration(reg); err != nil {
		return err
	}
	ok, err := p.Register(ctx, reg)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s is already registered", reg.Email)
	}
	fmt.Fprintf(out, "registered and signed in as %s\n", reg.Email)
	return nil
}

func login(ctx context.Context, p *portal.Portal, args []string, out io.Writer) error {
	fs := newFlags("login", out)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("%w: -email and -password are required", ErrUsage)
	}

	outcome, err := p.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	switch outcome {
	case model.LoginSuccess:
		u, _ := p.Session()
		fmt.Fprintf(out, "welcome back, %s\n", displayName(u))
		return nil
	case model.LoginNotRegistered:
		return fmt.Errorf("no account for %s, run `portal register`", *email)
	default:
		return errors.New("incorrect password")
	}
}

func logout(ctx context.Context, p *portal.Portal, _ []string, out io.Writer) error {
	if err := p.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "signed out")
	return nil
}

func whoami(ctx context.Context, p *portal.Portal, _ []string, out io.Writer) error {
	u, err := signedIn(p)
	if err != nil {
		return err
	}
	next, ok, err := p.NextAppointment(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "name\t%s\n", displayName(u))
	fmt.Fprintf(w, "email\t%s\n", u.Email)
	fmt.Fprintf(w, "phone\t%s\n", u.Phone)
	fmt.Fprintf(w, "born\t%s\n", u.DateOfBirth)
	fmt.Fprintf(w, "id\t%s\n", u.ID)
	if ok {
		fmt.Fprintf(w, "next visit\t%s %s with %s\n", next.Date, next.Time, next.DoctorName)
	}
	return w.Flush()
}

func displayName(u model.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

func doctors(_ context.Context, p *portal.Portal, _ []string, out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSPECIALTY\tRATING\tEXPERIENCE")
	for _, d := range p.Doctors() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n", d.ID, d.Name, d.Specialty, d.Rating, d.Experience)
	}
	return w.Flush()
}

func slots(_ context.Context, p *portal.Portal, args []string, out io.Writer) error {
	fs := newFlags("slots", out)
	doctor := fs.String("doctor", "", "doctor id")
	date := fs.String("date", "", "date (YYYY-MM-DD)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *doctor == "" || *date == "" {
		return fmt.Errorf("%w: -doctor and -date are required", ErrUsage)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tOPEN")
	for _, s := range p.Slots(*doctor, *date) {
		open := "no"
		if s.Available {
			open = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\n", s.Time, open)
	}
	return w.Flush()
}

func book(ctx context.Context, p *portal.Portal, args []string, out io.Writer) error {
	fs := newFlags("book", out)
	var b appointment.Booking
	fs.StringVar(&b.DoctorID, "doctor", "", "doctor id")
	fs.StringVar(&b.Date, "date", "", "date (YYYY-MM-DD)")
	fs.StringVar(&b.Time, "time", "", `slot time, e.g. "9:30 AM"`)
	fs.StringVar(&b.Reason, "reason", "", "reason for the visit")
	if err := parse(fs, args); err != nil {
		return err
	}

	a, err := p.BookAppointment(ctx, b)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "booked %s with %s on %s at %s\n", a.ID, a.DoctorName, a.Date, a.Time)
	return nil
}

func appointments(ctx context.Context, p *portal.Portal, args []string, out io.Writer) error {
	fs := newFlags("appointments", out)
	upcoming := fs.Bool("upcoming", false, "only upcoming, soonest first")
	if err := parse(fs, args); err != nil {
		return err
	}

	var (
		list []model.Appointment
		err  error
	)
	if *upcoming {
		list, err = p.UpcomingAppointments(ctx)
	} else {
		list, err = p.Appointments(ctx)
	}
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "no appointments")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTIME\tDOCTOR\tSPECIALTY\tSTATUS\tREASON")
	for _, a := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", a.Date, a.Time, a.DoctorName, a.Specialty, a.Status, a.Reason)
	}
	return w.Flush()
}

// medsFlag collects repeated -med values.
type medsFlag []model.Medication

func (m *medsFlag) String() string {
	names := make([]string, len(*m))
	for i, med := range *m {
		names[i] = med.Name
	}
	return strings.Join(names, ",")
}

// Set parses name[:dosage[:duration[:frequency]]].
func (m *medsFlag) Set(v string) error {
	parts := strings.SplitN(v, ":", 4)
	med := model.Medication{Name: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		med.Dosage = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		med.Duration = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		med.Frequency = strings.TrimSpace(parts[3])
	}
	*m = append(*m, med)
	return nil
}

func remind(ctx context.Context, p *portal.Portal, args []string, out io.Writer) error {
	fs := newFlags("remind", out)
	var r model.Reminder
	var meds medsFlag
	fs.StringVar(&r.DoctorName, "doctor", "", "prescribing doctor")
	fs.StringVar(&r.Date, "date", "", "date (YYYY-MM-DD)")
	fs.StringVar(&r.Instructions, "instructions", "", "free-text instructions")
	fs.Var(&meds, "med", "medication as name[:dosage[:duration[:frequency]]] (repeatable)")
	if err := parse(fs, args); err != nil {
		return err
	}
	r.Medications = meds

	saved, err := p.AddReminder(ctx, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "saved reminder %s (%d medications)\n", saved.ID, len(saved.Medications))
	return nil
}

func reminders(ctx context.Context, p *portal.Portal, _ []string, out io.Writer) error {
	list, err := p.Reminders(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "no reminders")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDOCTOR\tMEDICATION\tDOSAGE\tFREQUENCY\tDURATION")
	for _, r := range list {
		for _, m := range r.Medications {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Date, r.DoctorName, m.Name, m.Dosage, m.Frequency, m.Duration)
		}
		if r.Instructions != "" {
			fmt.Fprintf(w, "\t\t(%s)\t\t\t\n", r.Instructions)
		}
	}
	return w.Flush()
}

func themeCmd(ctx context.Context, p *portal.Portal, args []string, out io.Writer) error {
	switch {
	case len(args) == 0:
		fmt.Fprintln(out, p.Theme())
		return nil
	case len(args) == 1 && args[0] == "toggle":
		p.OnThemeChange(func(t model.Theme) {
			fmt.Fprintf(out, "switched to %s mode\n", t)
		})
		_, err := p.ToggleTheme(ctx)
		return err
	default:
		return fmt.Errorf("%w: theme [toggle]", ErrUsage)
	}
}
