package subagents

import (
	"encoding/json"
	"fmt"
)

func (e *Executor) patientManagement(args PatientManagementArgs) Result {
	if args.Action != PatientRegisterNew {
		return Success(map[string]interface{}{
			"message": "Patient information updated in registry.",
		})
	}

	var details map[string]interface{}
	if err := json.Unmarshal([]byte(args.Details), &details); err != nil {
		return Failure(fmt.Sprintf("details must be a JSON object: %v", err))
	}

	name, _ := details["name"].(string)
	if name == "" {
		name = "Unknown"
	}

	return Success(map[string]interface{}{
		"message":      "Patient Registered Successfully.",
		"newPatientId": fmt.Sprintf("P%d", e.randInt(1000)),
		"name":         name,
	})
}
