package api

import "patient-portal/internal/model"

type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the outcome; User and Token are set on success only.
type LoginResponse struct {
	Outcome model.LoginOutcome `json:"outcome"`
	User    *model.User        `json:"user,omitempty"`
	Token   string             `json:"token,omitempty"`
}

type CheckEmailRequest struct {
	Email string `json:"email"`
}

type CheckEmailResponse struct {
	Registered bool `json:"registered"`
}

type ListDoctorsRequest struct{}

type ListDoctorsResponse struct {
	Doctors []model.Doctor `json:"doctors"`
}

type ListSlotsRequest struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
}

type ListSlotsResponse struct {
	Slots []model.TimeSlot `json:"slots"`
}

type GetProfileRequest struct{}

type GetProfileResponse struct {
	User model.User `json:"user"`
}

type CreateAppointmentRequest struct {
	Appointment model.Appointment `json:"appointment"`
}

type BookAppointmentRequest struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
}

type AppointmentResponse struct {
	Appointment model.Appointment `json:"appointment"`
}

// ListAppointmentsRequest with UpcomingOnly returns the upcoming view,
// sorted by date, instead of the stored order.
type ListAppointmentsRequest struct {
	UpcomingOnly bool `json:"upcomingOnly"`
}

type ListAppointmentsResponse struct {
	Appointments []model.Appointment `json:"appointments"`
}

type CreateReminderRequest struct {
	Reminder model.Reminder `json:"reminder"`
}

type CreateReminderResponse struct {
	Reminder model.Reminder `json:"reminder"`
}

type ListRemindersRequest struct{}

type ListRemindersResponse struct {
	Reminders []model.Reminder `json:"reminders"`
}

type GetThemeRequest struct{}

type ToggleThemeRequest struct{}

type ThemeResponse struct {
	Theme model.Theme `json:"theme"`
}
