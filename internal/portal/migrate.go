package portal

import (
	"context"
	"errors"
	"log"

	"patient-portal/internal/appointment"
	"patient-portal/internal/catalog"
	"patient-portal/internal/model"
	"patient-portal/internal/reminder"
	"patient-portal/internal/store"
)

// MigrateLegacy moves records stored under the old global keys into
// user-scoped keys. Appointments are split by their userId; ones without an
// owner are dropped. Reminders carry no owner, so they go to sessionUserID
// and stay where they are when nobody is signed in.
func MigrateLegacy(ctx context.Context, kv store.KV, sessionUserID string) error {
	return migrateLegacy(ctx, kv, appointment.New(kv, catalog.New(), nil), reminder.New(kv), sessionUserID)
}

func migrateLegacy(ctx context.Context, kv store.KV, appts *appointment.Service, rems *reminder.Service, sessionUserID string) error {
	if err := migrateAppointments(ctx, kv, appts); err != nil {
		return err
	}
	if sessionUserID == "" {
		return nil
	}
	return migrateReminders(ctx, kv, rems, sessionUserID)
}

func migrateAppointments(ctx context.Context, kv store.KV, appts *appointment.Service) error {
	legacy, ok, err := legacyList[model.Appointment](ctx, kv, store.KeyAppointments)
	if err != nil || !ok {
		return err
	}

	byUser := make(map[string][]model.Appointment)
	var order []string
	dropped := 0
	for _, a := range legacy {
		if a.UserID == "" {
			dropped++
			continue
		}
		if _, seen := byUser[a.UserID]; !seen {
			order = append(order, a.UserID)
		}
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}
	for _, uid := range order {
		n, err := appts.Import(ctx, uid, byUser[uid])
		if err != nil {
			return err
		}
		log.Printf("portal: moved %d legacy appointments to %s", n, store.ScopedKey(store.KeyAppointments, uid))
	}
	if dropped > 0 {
		log.Printf("portal: dropped %d legacy appointments without an owner", dropped)
	}
	return kv.Remove(ctx, store.KeyAppointments)
}

func migrateReminders(ctx context.Context, kv store.KV, rems *reminder.Service, userID string) error {
	legacy, ok, err := legacyList[model.Reminder](ctx, kv, store.KeyReminders)
	if err != nil || !ok {
		return err
	}
	n, err := rems.Import(ctx, userID, legacy)
	if err != nil {
		return err
	}
	log.Printf("portal: moved %d legacy reminders to %s", n, store.ScopedKey(store.KeyReminders, userID))
	return kv.Remove(ctx, store.KeyReminders)
}

// legacyList reports ok when key exists. A malformed value is removed, as
// there is nothing left to recover from it.
func legacyList[T any](ctx context.Context, kv store.KV, key string) ([]T, bool, error) {
	if _, err := kv.Get(ctx, key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	recs, ok, err := store.Load[[]T](ctx, kv, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, kv.Remove(ctx, key)
	}
	return recs, true, nil
}
