package reminder

import (
	"context"
	"fmt"
	"strings"

	"patient-portal/internal/collection"
	"patient-portal/internal/model"
	"patient-portal/internal/store"
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid reminder: " + strings.Join(e.Fields, ", ")
}

// Validate requires a doctor, a date and at least one named medication.
func Validate(r model.Reminder) error {
	var bad []string
	if strings.TrimSpace(r.DoctorName) == "" {
		bad = append(bad, "doctorName")
	}
	if strings.TrimSpace(r.Date) == "" {
		bad = append(bad, "date")
	}
	if len(r.Medications) == 0 {
		bad = append(bad, "medications")
	}
	for i, m := range r.Medications {
		if strings.TrimSpace(m.Name) == "" {
			bad = append(bad, fmt.Sprintf("medications[%d].name", i))
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

type Service struct {
	list *collection.List[model.Reminder]
}

// New returns a service storing reminders under reminders_<userId>.
func New(kv store.KV) *Service {
	return &Service{
		list: collection.New(kv, store.KeyReminders, func(r *model.Reminder) *string { return &r.ID }),
	}
}

// Add stores r for userID. An invalid reminder is not stored.
func (s *Service) Add(ctx context.Context, userID string, r model.Reminder) (model.Reminder, error) {
	if err := Validate(r); err != nil {
		return r, err
	}
	return s.list.Add(ctx, userID, r)
}

func (s *Service) List(ctx context.Context, userID string) ([]model.Reminder, error) {
	return s.list.All(ctx, userID)
}

func (s *Service) Import(ctx context.Context, userID string, recs []model.Reminder) (int, error) {
	return s.list.Merge(ctx, userID, recs)
}
