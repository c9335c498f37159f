package subagents

import "fmt"

func (e *Executor) medicalRecords(args MedicalRecordsArgs) Result {
	patient, ok := e.store.FindPatient(args.PatientID)
	if !ok {
		return Failure("Patient record not found. Please ask user for correct ID or full name.")
	}

	return Success(map[string]interface{}{
		"data": map[string]interface{}{
			"summary":    fmt.Sprintf("Medical Record for %s (ID: %s)", patient.Name, patient.ID),
			"conditions": patient.Condition,
			"recentLabs": "Blood pressure normal, Hba1c 6.5%.",
			"notes":      "Patient is compliant with medication.",
		},
	})
}
