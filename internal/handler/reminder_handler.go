package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"patient-portal/internal/api"
	"patient-portal/internal/reminder"
	"patient-portal/internal/store"
	"patient-portal/internal/theme"
)

func (h *Handler) CreateReminder(ctx context.Context, req *api.CreateReminderRequest) (*api.CreateReminderResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}

	r, err := h.reminders.Add(ctx, userID, req.Reminder)
	var ve *reminder.ValidationError
	if errors.As(err, &ve) {
		return nil, status.Error(codes.InvalidArgument, ve.Error())
	}
	if err != nil {
		return nil, internalErr("create reminder", err)
	}
	return &api.CreateReminderResponse{Reminder: r}, nil
}

func (h *Handler) ListReminders(ctx context.Context, _ *api.ListRemindersRequest) (*api.ListRemindersResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	rs, err := h.reminders.List(ctx, userID)
	if err != nil {
		return nil, internalErr("list reminders", err)
	}
	return &api.ListRemindersResponse{Reminders: rs}, nil
}

// themes are kept per user on the server, under theme_<userId>
func (h *Handler) userTheme(ctx context.Context) (*theme.State, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	st, err := theme.Load(ctx, h.kv, store.ScopedKey(store.KeyTheme, userID))
	if err != nil {
		return nil, internalErr("load theme", err)
	}
	return st, nil
}

func (h *Handler) GetTheme(ctx context.Context, _ *api.GetThemeRequest) (*api.ThemeResponse, error) {
	st, err := h.userTheme(ctx)
	if err != nil {
		return nil, err
	}
	return &api.ThemeResponse{Theme: st.Current()}, nil
}

func (h *Handler) ToggleTheme(ctx context.Context, _ *api.ToggleThemeRequest) (*api.ThemeResponse, error) {
	// load and flip must not interleave with another toggle
	h.themeMu.Lock()
	defer h.themeMu.Unlock()

	st, err := h.userTheme(ctx)
	if err != nil {
		return nil, err
	}
	t, err := st.Toggle(ctx)
	if err != nil {
		return nil, internalErr("toggle theme", err)
	}
	return &api.ThemeResponse{Theme: t}, nil
}
