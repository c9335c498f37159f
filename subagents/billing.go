package subagents

import "fmt"

func (e *Executor) billing(args BillingArgs) Result {
	patient, ok := e.store.FindPatient(args.PatientID)
	if !ok {
		return Failure("Patient not found for billing.")
	}

	if args.Action == BillingCheckStatus {
		return Success(map[string]interface{}{
			"patient":           patient.Name,
			"outstanding_bills": e.store.BillsForPatient(patient.ID),
		})
	}

	// Payments, invoices and insurance checks are only acknowledged.
	return Success(map[string]interface{}{
		"message": fmt.Sprintf("Action %s processed for %s. Invoice generated successfully.", args.Action, patient.Name),
	})
}
