// Package hospital holds the static reference data the sub-agents look up.
// Nothing in here is ever mutated.
package hospital

type PatientProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dob"`
	Condition   string `json:"condition"`
}

type Appointment struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
	Doctor    string `json:"doctor"`
	Time      string `json:"time"`
	Status    string `json:"status"`
}

type BillStatus string

const (
	BillPaid    BillStatus = "Paid"
	BillPending BillStatus = "Pending"
)

type Bill struct {
	ID          string     `json:"id"`
	PatientID   string     `json:"patientId"`
	Amount      int64      `json:"amount"`
	Status      BillStatus `json:"status"`
	Description string     `json:"description"`
}
