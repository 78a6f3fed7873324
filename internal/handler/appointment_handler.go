package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"patient-portal/internal/api"
	"patient-portal/internal/appointment"
	"patient-portal/internal/model"
)

func (h *Handler) ListDoctors(context.Context, *api.ListDoctorsRequest) (*api.ListDoctorsResponse, error) {
	return &api.ListDoctorsResponse{Doctors: h.catalog.Doctors()}, nil
}

func (h *Handler) ListSlots(_ context.Context, req *api.ListSlotsRequest) (*api.ListSlotsResponse, error) {
	if req.DoctorID == "" || req.Date == "" {
		return nil, status.Error(codes.InvalidArgument, "doctorId and date required")
	}
	if _, ok := h.catalog.Doctor(req.DoctorID); !ok {
		return nil, status.Error(codes.NotFound, "unknown doctor")
	}
	return &api.ListSlotsResponse{Slots: h.catalog.Slots(req.DoctorID, req.Date)}, nil
}

func (h *Handler) CreateAppointment(ctx context.Context, req *api.CreateAppointmentRequest) (*api.AppointmentResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}

	a := req.Appointment
	if a.Status != "" && a.Status != model.StatusUpcoming {
		return nil, status.Error(codes.InvalidArgument, "new appointments must be upcoming")
	}
	apt, err := h.appts.Add(ctx, userID, a)
	if errors.Is(err, appointment.ErrForeignOwner) {
		return nil, status.Error(codes.PermissionDenied, "appointment owner mismatch")
	}
	if err != nil {
		return nil, internalErr("create appointment", err)
	}
	return &api.AppointmentResponse{Appointment: apt}, nil
}

func (h *Handler) BookAppointment(ctx context.Context, req *api.BookAppointmentRequest) (*api.AppointmentResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}

	apt, err := h.appts.Book(ctx, userID, appointment.Booking{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Time:     req.Time,
		Reason:   req.Reason,
	})
	var ve *appointment.ValidationError
	switch {
	case errors.As(err, &ve):
		return nil, status.Error(codes.InvalidArgument, ve.Error())
	case errors.Is(err, appointment.ErrUnknownDoctor):
		return nil, status.Error(codes.NotFound, "unknown doctor")
	case errors.Is(err, appointment.ErrSlotTaken):
		return nil, status.Error(codes.FailedPrecondition, "time slot not available")
	case err != nil:
		return nil, internalErr("book appointment", err)
	}
	return &api.AppointmentResponse{Appointment: apt}, nil
}

func (h *Handler) ListAppointments(ctx context.Context, req *api.ListAppointmentsRequest) (*api.ListAppointmentsResponse, error) {
	userID, err := uid(ctx)
	if err != nil {
		return nil, err
	}

	apts, err := h.appts.List(ctx, userID)
	if err != nil {
		return nil, internalErr("list appointments", err)
	}
	if req.UpcomingOnly {
		apts = appointment.Upcoming(apts, userID)
	}
	return &api.ListAppointmentsResponse{Appointments: apts}, nil
}
