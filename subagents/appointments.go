package subagents

import "fmt"

var availableSlots = []string{"10:00 AM", "02:00 PM", "04:30 PM"}

func (e *Executor) appointments(args AppointmentArgs) Result {
	switch args.Action {
	case AppointmentCheckAvailability:
		return Success(map[string]interface{}{
			"available_slots": append([]string(nil), availableSlots...),
			"doctor":          orDefault(args.Doctor, "General Practitioner"),
		})

	case AppointmentBook:
		who := "Patient"
		if patient, ok := e.store.FindPatient(args.PatientID); ok {
			who = patient.Name
		}
		return Success(map[string]interface{}{
			"message":          fmt.Sprintf("Appointment Confirmed for %s.", who),
			"doctor":           orDefault(args.Doctor, "Dr. On Call"),
			"time":             orDefault(args.Time, "Next available"),
			"confirmationCode": fmt.Sprintf("APT-%d", e.randInt(10000)),
		})
	}

	return Success(map[string]interface{}{
		"message": fmt.Sprintf("Appointment action '%s' completed.", args.Action),
	})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
