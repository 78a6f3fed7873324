package handler

import (
	"context"
	"log"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"patient-portal/internal/api"
	"patient-portal/internal/appointment"
	"patient-portal/internal/auth"
	"patient-portal/internal/catalog"
	"patient-portal/internal/middleware"
	"patient-portal/internal/reminder"
	"patient-portal/internal/store"
)

// Handler serves PortalService for many users at once; the caller's
// identity comes from the token checked by middleware.Auth.
type Handler struct {
	kv        store.KV
	dir       *auth.Directory
	appts     *appointment.Service
	reminders *reminder.Service
	catalog   *catalog.Catalog
	secret    string

	themeMu sync.Mutex
}

var _ api.PortalServer = (*Handler)(nil)

func New(kv store.KV, secret string) *Handler {
	return NewWithClock(kv, secret, time.Now)
}

// NewWithClock is New with the clock used to reject past bookings.
func NewWithClock(kv store.KV, secret string, now func() time.Time) *Handler {
	cat := catalog.New()
	return &Handler{
		kv:        kv,
		dir:       auth.NewDirectory(kv),
		appts:     appointment.New(kv, cat, now),
		reminders: reminder.New(kv),
		catalog:   cat,
		secret:    secret,
	}
}

func uid(ctx context.Context) (string, error) {
	id, ok := middleware.UserID(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "no user")
	}
	return id, nil
}

// internal details go to the log, never to the caller
func internalErr(op string, err error) error {
	log.Printf("%s: %v", op, err)
	return status.Error(codes.Internal, "internal error")
}
