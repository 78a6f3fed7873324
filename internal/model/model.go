package model

// User is the public profile of a registered patient. It never carries
// password material and is what the session holds.
type User struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
}

// Account is a User as stored in the registered-user list.
// LegacyPassword is only present on records written before hashing was added.
type Account struct {
	User
	PasswordHash   string `json:"passwordHash,omitempty"`
	LegacyPassword string `json:"password,omitempty"`
}

type Registration struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Password    string `json:"password"`
}

type LoginOutcome string

const (
	LoginSuccess         LoginOutcome = "success"
	LoginNotRegistered   LoginOutcome = "not_registered"
	LoginInvalidPassword LoginOutcome = "invalid_password"
)

type AppointmentStatus string

const (
	StatusUpcoming  AppointmentStatus = "upcoming"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID         string            `json:"id"`
	DoctorID   string            `json:"doctorId"`
	DoctorName string            `json:"doctorName"`
	Specialty  string            `json:"specialty"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Reason     string            `json:"reason"`
	Status     AppointmentStatus `json:"status"`
	UserID     string            `json:"userId"`
}

type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Duration  string `json:"duration"`
	Frequency string `json:"frequency"`
}

type Reminder struct {
	ID           string       `json:"id"`
	DoctorName   string       `json:"doctorName"`
	Date         string       `json:"date"`
	Instructions string       `json:"instructions"`
	Medications  []Medication `json:"medications"`
}

type Doctor struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Specialty  string  `json:"specialty"`
	Avatar     string  `json:"avatar"`
	Rating     float64 `json:"rating"`
	Experience string  `json:"experience"`
}

type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)
