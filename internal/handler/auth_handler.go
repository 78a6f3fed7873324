package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"patient-portal/internal/api"
	"patient-portal/internal/auth"
	"patient-portal/internal/model"
)

func (h *Handler) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	reg := model.Registration{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Password:    req.Password,
	}
	if err := auth.ValidateRegistration(reg); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	u, err := h.dir.Register(ctx, reg)
	if errors.Is(err, auth.ErrEmailTaken) {
		return nil, status.Error(codes.AlreadyExists, "email already registered")
	}
	if err != nil {
		return nil, internalErr("register", err)
	}

	tok, err := auth.MakeToken(u.ID, u.Email, h.secret)
	if err != nil {
		return nil, internalErr("make token", err)
	}
	return &api.RegisterResponse{User: u, Token: tok}, nil
}

// Login reports the outcome in the response rather than as an error so the
// client can tell an unknown email from a wrong password. Empty fields get
// an outcome too.
func (h *Handler) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	u, outcome, err := h.dir.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, internalErr("authenticate", err)
	}
	if outcome != model.LoginSuccess {
		return &api.LoginResponse{Outcome: outcome}, nil
	}

	tok, err := auth.MakeToken(u.ID, u.Email, h.secret)
	if err != nil {
		return nil, internalErr("make token", err)
	}
	return &api.LoginResponse{Outcome: outcome, User: &u, Token: tok}, nil
}

func (h *Handler) CheckEmail(ctx context.Context, req *api.CheckEmailRequest) (*api.CheckEmailResponse, error) {
	if req.Email == "" {
		return nil, status.Error(codes.InvalidArgument, "email required")
	}
	ok, err := h.dir.IsEmailRegistered(ctx, req.Email)
	if err != nil {
		return nil, internalErr("check email", err)
	}
	return &api.CheckEmailResponse{Registered: ok}, nil
}

func (h *Handler) GetProfile(ctx context.Context, _ *api.GetProfileRequest) (*api.GetProfileResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	u, ok, err := h.dir.Lookup(ctx, userID)
	if err != nil {
		return nil, internalErr("lookup", err)
	}
	if !ok {
		return nil, status.Error(codes.NotFound, "not found")
	}
	return &api.GetProfileResponse{User: u}, nil
}
