package appointment

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"patient-portal/internal/catalog"
	"patient-portal/internal/collection"
	"patient-portal/internal/model"
	"patient-portal/internal/store"
)

const DateLayout = "2006-01-02"

var (
	ErrForeignOwner  = errors.New("appointment belongs to another user")
	ErrUnknownDoctor = errors.New("unknown doctor")
	ErrSlotTaken     = errors.New("time slot not available")
)

// ValidationError lists booking fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid booking: " + strings.Join(e.Fields, ", ")
}

// Booking is what the booking form submits.
type Booking struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
}

type Service struct {
	list    *collection.List[model.Appointment]
	catalog *catalog.Catalog
	now     func() time.Time
}

// New returns a service storing appointments under appointments_<userId>.
// now may be nil to use the wall clock.
func New(kv store.KV, cat *catalog.Catalog, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		list:    collection.New(kv, store.KeyAppointments, func(a *model.Appointment) *string { return &a.ID }),
		catalog: cat,
		now:     now,
	}
}

// Add stores a as one of userID's appointments. An empty UserID is filled
// in; a different one is rejected. Status defaults to upcoming.
func (s *Service) Add(ctx context.Context, userID string, a model.Appointment) (model.Appointment, error) {
	if a.UserID == "" {
		a.UserID = userID
	}
	if a.UserID != userID {
		return a, ErrForeignOwner
	}
	if a.Status == "" {
		a.Status = model.StatusUpcoming
	}
	return s.list.Add(ctx, userID, a)
}

// Book validates b against the catalog and creates an upcoming appointment.
func (s *Service) Book(ctx context.Context, userID string, b Booking) (model.Appointment, error) {
	var missing []string
	if strings.TrimSpace(b.DoctorID) == "" {
		missing = append(missing, "doctorId")
	}
	if strings.TrimSpace(b.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(b.Time) == "" {
		missing = append(missing, "time")
	}
	if strings.TrimSpace(b.Reason) == "" {
		missing = append(missing, "reason")
	}
	if len(missing) > 0 {
		return model.Appointment{}, &ValidationError{Fields: missing}
	}

	day, err := time.Parse(DateLayout, b.Date)
	if err != nil {
		return model.Appointment{}, &ValidationError{Fields: []string{"date"}}
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(today) {
		return model.Appointment{}, &ValidationError{Fields: []string{"date"}}
	}

	doc, ok := s.catalog.Doctor(b.DoctorID)
	if !ok {
		return model.Appointment{}, ErrUnknownDoctor
	}
	if !s.catalog.SlotAvailable(doc.ID, b.Date, b.Time) {
		return model.Appointment{}, ErrSlotTaken
	}

	return s.Add(ctx, userID, model.Appointment{
		DoctorID:   doc.ID,
		DoctorName: doc.Name,
		Specialty:  doc.Specialty,
		Date:       b.Date,
		Time:       b.Time,
		Reason:     strings.TrimSpace(b.Reason),
		Status:     model.StatusUpcoming,
		UserID:     userID,
	})
}

// List returns userID's appointments, newest booking first.
func (s *Service) List(ctx context.Context, userID string) ([]model.Appointment, error) {
	return s.list.All(ctx, userID)
}

// Import appends records carried over from the unscoped layout, skipping
// ids userID already has.
func (s *Service) Import(ctx context.Context, userID string, recs []model.Appointment) (int, error) {
	return s.list.Merge(ctx, userID, recs)
}

// Upcoming filters all to userID's upcoming appointments ordered by date.
// Appointments with unparseable dates sort last.
func Upcoming(all []model.Appointment, userID string) []model.Appointment {
	out := make([]model.Appointment, 0, len(all))
	for _, a := range all {
		if a.Status == model.StatusUpcoming && a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, erri := time.Parse(DateLayout, out[i].Date)
		dj, errj := time.Parse(DateLayout, out[j].Date)
		switch {
		case erri != nil:
			return false
		case errj != nil:
			return true
		}
		return di.Before(dj)
	})
	return out
}

// Next is the earliest upcoming appointment for userID.
func Next(all []model.Appointment, userID string) (model.Appointment, bool) {
	up := Upcoming(all, userID)
	if len(up) == 0 {
		return model.Appointment{}, false
	}
	return up[0], true
}
