// Package portal wires the patient-facing state into one object a client
// surface can drive: the signed-in account, its appointments and
// reminders, the doctor catalog and the display theme.
package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"patient-portal/internal/appointment"
	"patient-portal/internal/auth"
	"patient-portal/internal/catalog"
	"patient-portal/internal/model"
	"patient-portal/internal/reminder"
	"patient-portal/internal/store"
	"patient-portal/internal/theme"
)

var ErrNotSignedIn = errors.New("not signed in")

// Accounts is the session side of the portal. *auth.Manager implements it
// against local storage; a networked client could stand in for it.
type Accounts interface {
	Login(ctx context.Context, email, password string) (model.LoginOutcome, error)
	Register(ctx context.Context, reg model.Registration) (bool, error)
	Logout(ctx context.Context) error
	IsEmailRegistered(ctx context.Context, email string) (bool, error)
	Session() (model.User, bool)
	Ready() bool
	Loading() bool
}

type Options struct {
	// AuthDelay simulates network latency on login and register.
	AuthDelay time.Duration
	// Now overrides the clock used to reject bookings in the past.
	Now func() time.Time
}

type Portal struct {
	accounts     Accounts
	appointments *appointment.Service
	reminders    *reminder.Service
	catalog      *catalog.Catalog
	theme        *theme.State
}

// Open builds a portal over kv, restores the persisted session and theme,
// and moves any records left under the old unscoped keys.
func Open(ctx context.Context, kv store.KV, opts Options) (*Portal, error) {
	mgr := auth.NewManager(auth.NewDirectory(kv), kv, opts.AuthDelay)
	if err := mgr.Init(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	cat := catalog.New()
	p := &Portal{
		accounts:     mgr,
		appointments: appointment.New(kv, cat, opts.Now),
		reminders:    reminder.New(kv),
		catalog:      cat,
	}

	var sessionID string
	if u, ok := mgr.Session(); ok {
		sessionID = u.ID
	}
	if err := migrateLegacy(ctx, kv, p.appointments, p.reminders, sessionID); err != nil {
		return nil, fmt.Errorf("migrate legacy records: %w", err)
	}

	th, err := theme.Load(ctx, kv, store.KeyTheme)
	if err != nil {
		return nil, err
	}
	p.theme = th
	return p, nil
}

// New assembles a portal from already-built parts.
func New(accounts Accounts, appts *appointment.Service, rems *reminder.Service, cat *catalog.Catalog, th *theme.State) *Portal {
	return &Portal{accounts: accounts, appointments: appts, reminders: rems, catalog: cat, theme: th}
}

func (p *Portal) Login(ctx context.Context, email, password string) (model.LoginOutcome, error) {
	return p.accounts.Login(ctx, email, password)
}

func (p *Portal) Register(ctx context.Context, reg model.Registration) (bool, error) {
	return p.accounts.Register(ctx, reg)
}

func (p *Portal) Logout(ctx context.Context) error {
	return p.accounts.Logout(ctx)
}

func (p *Portal) IsEmailRegistered(ctx context.Context, email string) (bool, error) {
	return p.accounts.IsEmailRegistered(ctx, email)
}

func (p *Portal) Session() (model.User, bool) { return p.accounts.Session() }
func (p *Portal) Ready() bool                 { return p.accounts.Ready() }
func (p *Portal) Loading() bool               { return p.accounts.Loading() }

func (p *Portal) sessionID() (string, error) {
	u, ok := p.accounts.Session()
	if !ok {
		return "", ErrNotSignedIn
	}
	return u.ID, nil
}

func (p *Portal) AddAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	uid, err := p.sessionID()
	if err != nil {
		return a, err
	}
	return p.appointments.Add(ctx, uid, a)
}

func (p *Portal) BookAppointment(ctx context.Context, b appointment.Booking) (model.Appointment, error) {
	uid, err := p.sessionID()
	if err != nil {
		return model.Appointment{}, err
	}
	return p.appointments.Book(ctx, uid, b)
}

// Appointments returns every stored appointment of the signed-in user.
func (p *Portal) Appointments(ctx context.Context) ([]model.Appointment, error) {
	uid, err := p.sessionID()
	if err != nil {
		return nil, err
	}
	return p.appointments.List(ctx, uid)
}

func (p *Portal) UpcomingAppointments(ctx context.Context) ([]model.Appointment, error) {
	all, err := p.Appointments(ctx)
	if err != nil {
		return nil, err
	}
	uid, _ := p.sessionID()
	return appointment.Upcoming(all, uid), nil
}

func (p *Portal) NextAppointment(ctx context.Context) (model.Appointment, bool, error) {
	up, err := p.UpcomingAppointments(ctx)
	if err != nil || len(up) == 0 {
		return model.Appointment{}, false, err
	}
	return up[0], true, nil
}

func (p *Portal) AddReminder(ctx context.Context, r model.Reminder) (model.Reminder, error) {
	uid, err := p.sessionID()
	if err != nil {
		return r, err
	}
	return p.reminders.Add(ctx, uid, r)
}

func (p *Portal) Reminders(ctx context.Context) ([]model.Reminder, error) {
	uid, err := p.sessionID()
	if err != nil {
		return nil, err
	}
	return p.reminders.List(ctx, uid)
}

func (p *Portal) Theme() model.Theme { return p.theme.Current() }

func (p *Portal) ToggleTheme(ctx context.Context) (model.Theme, error) {
	return p.theme.Toggle(ctx)
}

// OnThemeChange registers a display hint listener.
func (p *Portal) OnThemeChange(fn func(model.Theme)) { p.theme.Subscribe(fn) }

func (p *Portal) Doctors() []model.Doctor { return p.catalog.Doctors() }

func (p *Portal) Slots(doctorID, date string) []model.TimeSlot {
	return p.catalog.Slots(doctorID, date)
}
