package hospital

var defaultPatients = []PatientProfile{
	{ID: "P001", Name: "Budi Santoso", DateOfBirth: "1980-05-12", Condition: "Hypertension, Type 2 Diabetes"},
	{ID: "P002", Name: "Siti Aminah", DateOfBirth: "1992-08-22", Condition: "Prenatal Care"},
	{ID: "P003", Name: "Joko Widodo", DateOfBirth: "1975-01-30", Condition: "Post-surgery Recovery"},
}

var defaultAppointments = []Appointment{
	{ID: "APT101", PatientID: "P001", Doctor: "Dr. Hartono", Time: "2023-10-25 10:00 AM", Status: "Confirmed"},
	{ID: "APT102", PatientID: "P002", Doctor: "Dr. Linda", Time: "2023-10-26 02:00 PM", Status: "Pending"},
}

var defaultBills = []Bill{
	{ID: "INV500", PatientID: "P001", Amount: 1500000, Status: BillPending, Description: "General Checkup & Lab"},
	{ID: "INV501", PatientID: "P003", Amount: 5000000, Status: BillPaid, Description: "Surgery Downpayment"},
}
