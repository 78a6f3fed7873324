// Package catalog holds the read-only list of bookable doctors and their
// daily time slots.
package catalog

import (
	"hash/fnv"
	"math/rand/v2"

	"patient-portal/internal/model"
)

var doctors = []model.Doctor{
	{ID: "1", Name: "Kushagra", Specialty: "Cardiologist", Avatar: "avatars/kushagra.jpg", Rating: 4.7, Experience: "13 years"},
	{ID: "2", Name: "Ojas Varshney", Specialty: "Neurologist", Avatar: "avatars/ojas-varshney.jpg", Rating: 4.9, Experience: "11 years"},
	{ID: "3", Name: "Mahesh PV", Specialty: "Dermatologist", Avatar: "avatars/mahesh-pv.jpg", Rating: 4.5, Experience: "16 years"},
	{ID: "4", Name: "Sandeep Kumar", Specialty: "Orthopedic Surgeon", Avatar: "avatars/sandeep-kumar.jpg", Rating: 4.8, Experience: "10 years"},
}

var slotTimes = []string{
	"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM", "4:00 PM", "4:30 PM",
}

// share of slots left open on any given day
const availability = 0.7

type Catalog struct {
	doctors []model.Doctor
}

func New() *Catalog {
	return &Catalog{doctors: doctors}
}

func (c *Catalog) Doctors() []model.Doctor {
	return append([]model.Doctor(nil), c.doctors...)
}

func (c *Catalog) Doctor(id string) (model.Doctor, bool) {
	for _, d := range c.doctors {
		if d.ID == id {
			return d, true
		}
	}
	return model.Doctor{}, false
}

// Slots lists the day's times for a doctor. Availability is pseudo-random
// but fixed per (doctor, date), so what is shown as free stays bookable.
func (c *Catalog) Slots(doctorID, date string) []model.TimeSlot {
	h := fnv.New64a()
	h.Write([]byte(doctorID))
	h.Write([]byte{0})
	h.Write([]byte(date))
	rng := rand.New(rand.NewPCG(h.Sum64(), 0x9e3779b97f4a7c15))

	out := make([]model.TimeSlot, len(slotTimes))
	for i, t := range slotTimes {
		out[i] = model.TimeSlot{Time: t, Available: rng.Float64() < availability}
	}
	return out
}

// SlotAvailable reports whether time is an open slot for the doctor on date.
func (c *Catalog) SlotAvailable(doctorID, date, time string) bool {
	for _, s := range c.Slots(doctorID, date) {
		if s.Time == time {
			return s.Available
		}
	}
	return false
}
