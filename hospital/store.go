package hospital

import "strings"

// Store exposes read-only access to patients, appointments and bills.
// Every accessor returns a copy, so a Store is safe for concurrent use.
type Store struct {
	patients     []PatientProfile
	appointments []Appointment
	bills        []Bill
}

// NewStore returns a store seeded with the demo fixtures.
func NewStore() *Store {
	return NewStoreWith(defaultPatients, defaultAppointments, defaultBills)
}

func NewStoreWith(patients []PatientProfile, appointments []Appointment, bills []Bill) *Store {
	return &Store{
		patients:     append([]PatientProfile(nil), patients...),
		appointments: append([]Appointment(nil), appointments...),
		bills:        append([]Bill(nil), bills...),
	}
}

// FindPatient resolves query against patient ids (exact) or names
// (case-insensitive substring). The first patient in fixture order that
// matches either way wins. An empty query never matches.
func (s *Store) FindPatient(query string) (PatientProfile, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return PatientProfile{}, false
	}
	needle := strings.ToLower(query)
	for _, p := range s.patients {
		if p.ID == query || strings.Contains(strings.ToLower(p.Name), needle) {
			return p, true
		}
	}
	return PatientProfile{}, false
}

func (s *Store) BillsForPatient(patientID string) []Bill {
	out := []Bill{}
	for _, b := range s.bills {
		if b.PatientID == patientID {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) AppointmentsForPatient(patientID string) []Appointment {
	out := []Appointment{}
	for _, a := range s.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) Patients() []PatientProfile {
	return append([]PatientProfile(nil), s.patients...)
}

func (s *Store) Appointments() []Appointment {
	return append([]Appointment(nil), s.appointments...)
}

func (s *Store) Bills() []Bill {
	return append([]Bill(nil), s.bills...)
}
