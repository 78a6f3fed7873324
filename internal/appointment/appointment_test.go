package appointment_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"patient-portal/internal/appointment"
	"patient-portal/internal/catalog"
	"patient-portal/internal/model"
	"patient-portal/internal/store"
)

var fixedNow = time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)

func newService() (*appointment.Service, *catalog.Catalog) {
	cat := catalog.New()
	return appointment.New(store.NewMemory(), cat, func() time.Time { return fixedNow }), cat
}

func openSlot(t *testing.T, cat *catalog.Catalog, doctorID, date string) string {
	t.Helper()
	for _, s := range cat.Slots(doctorID, date) {
		if s.Available {
			return s.Time
		}
	}
	t.Fatalf("no open slot for %s on %s", doctorID, date)
	return ""
}

func takenSlot(cat *catalog.Catalog, doctorID, date string) (string, bool) {
	for _, s := range cat.Slots(doctorID, date) {
		if !s.Available {
			return s.Time, true
		}
	}
	return "", false
}

func TestFilterByUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	const n, m = 3, 5
	for i := 0; i < n; i++ {
		if _, err := svc.Add(ctx, "A", model.Appointment{DoctorID: "1", Date: fmt.Sprintf("2030-02-%02d", i+1)}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < m; i++ {
		if _, err := svc.Add(ctx, "B", model.Appointment{DoctorID: "2", Date: fmt.Sprintf("2030-03-%02d", i+1)}); err != nil {
			t.Fatal(err)
		}
	}

	listA, err := svc.List(ctx, "A")
	if err != nil {
		t.Fatal(err)
	}
	listB, _ := svc.List(ctx, "B")
	all := append(append([]model.Appointment{}, listA...), listB...)

	got := appointment.Upcoming(all, "A")
	if len(got) != n {
		t.Fatalf("expected %d for A, got %d", n, len(got))
	}
	for _, a := range got {
		if a.UserID != "A" {
			t.Errorf("B's appointment leaked: %+v", a)
		}
	}
	if len(appointment.Upcoming(all, "B")) != m {
		t.Errorf("expected %d for B", m)
	}
}

func TestAddDefaultsAndOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	a, err := svc.Add(ctx, "u1", model.Appointment{DoctorID: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == "" || a.UserID != "u1" || a.Status != model.StatusUpcoming {
		t.Errorf("unexpected defaults %+v", a)
	}

	_, err = svc.Add(ctx, "u1", model.Appointment{UserID: "u2"})
	if !errors.Is(err, appointment.ErrForeignOwner) {
		t.Fatalf("expected ErrForeignOwner, got %v", err)
	}
	list, _ := svc.List(ctx, "u1")
	if len(list) != 1 {
		t.Errorf("rejected add changed list: %d", len(list))
	}
}

func TestBook(t *testing.T) {
	ctx := context.Background()
	svc, cat := newService()
	date := "2030-01-15"
	slot := openSlot(t, cat, "3", date)

	a, err := svc.Book(ctx, "u1", appointment.Booking{DoctorID: "3", Date: date, Time: slot, Reason: " rash "})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if a.DoctorName != "Mahesh PV" || a.Specialty != "Dermatologist" {
		t.Errorf("doctor not resolved: %+v", a)
	}
	if a.Status != model.StatusUpcoming || a.UserID != "u1" || a.Reason != "rash" {
		t.Errorf("unexpected appointment %+v", a)
	}
	list, _ := svc.List(ctx, "u1")
	if len(list) != 1 || list[0].ID != a.ID {
		t.Errorf("booking not stored: %+v", list)
	}
}

func TestBookValidation(t *testing.T) {
	ctx := context.Background()
	svc, cat := newService()
	date := "2030-01-20"
	slot := openSlot(t, cat, "1", date)

	tests := []struct {
		name  string
		b     appointment.Booking
		field string
	}{
		{"missing doctor", appointment.Booking{Date: date, Time: slot, Reason: "x"}, "doctorId"},
		{"missing date", appointment.Booking{DoctorID: "1", Time: slot, Reason: "x"}, "date"},
		{"missing time", appointment.Booking{DoctorID: "1", Date: date, Reason: "x"}, "time"},
		{"missing reason", appointment.Booking{DoctorID: "1", Date: date, Time: slot, Reason: "  "}, "reason"},
		{"bad date", appointment.Booking{DoctorID: "1", Date: "20/01/2030", Time: slot, Reason: "x"}, "date"},
		{"past date", appointment.Booking{DoctorID: "1", Date: "2030-01-09", Time: slot, Reason: "x"}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Book(ctx, "u1", tt.b)
			var ve *appointment.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, f := range ve.Fields {
				found = found || f == tt.field
			}
			if !found {
				t.Errorf("expected field %s in %v", tt.field, ve.Fields)
			}
		})
	}

	if _, err := svc.Book(ctx, "u1", appointment.Booking{DoctorID: "99", Date: date, Time: slot, Reason: "x"}); !errors.Is(err, appointment.ErrUnknownDoctor) {
		t.Errorf("expected ErrUnknownDoctor, got %v", err)
	}
	if taken, ok := takenSlot(cat, "1", date); ok {
		if _, err := svc.Book(ctx, "u1", appointment.Booking{DoctorID: "1", Date: date, Time: taken, Reason: "x"}); !errors.Is(err, appointment.ErrSlotTaken) {
			t.Errorf("expected ErrSlotTaken, got %v", err)
		}
	}
	if _, err := svc.Book(ctx, "u1", appointment.Booking{DoctorID: "1", Date: "2030-01-10", Time: openSlot(t, cat, "1", "2030-01-10"), Reason: "today"}); err != nil {
		t.Errorf("booking today should be allowed: %v", err)
	}
}

func TestUpcomingSortsAndFilters(t *testing.T) {
	all := []model.Appointment{
		{ID: "late", Date: "2030-05-01", Status: model.StatusUpcoming, UserID: "u"},
		{ID: "done", Date: "2030-01-01", Status: model.StatusCompleted, UserID: "u"},
		{ID: "junk", Date: "someday", Status: model.StatusUpcoming, UserID: "u"},
		{ID: "early", Date: "2030-02-01", Status: model.StatusUpcoming, UserID: "u"},
		{ID: "gone", Date: "2030-01-15", Status: model.StatusCancelled, UserID: "u"},
		{ID: "other", Date: "2030-01-02", Status: model.StatusUpcoming, UserID: "v"},
	}
	got := appointment.Upcoming(all, "u")
	want := []string{"early", "late", "junk"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %+v", want, got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if all[0].ID != "late" {
		t.Error("Upcoming reordered its input")
	}

	next, ok := appointment.Next(all, "u")
	if !ok || next.ID != "early" {
		t.Errorf("expected early, got %+v %v", next, ok)
	}
	if _, ok := appointment.Next(all, "nobody"); ok {
		t.Error("expected no next appointment")
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	_, _ = svc.Add(ctx, "u1", model.Appointment{ID: "x"})
	n, err := svc.Import(ctx, "u1", []model.Appointment{{ID: "x"}, {ID: "y", UserID: "u1"}})
	if err != nil || n != 1 {
		t.Fatalf("expected 1 imported, got %d %v", n, err)
	}
}
