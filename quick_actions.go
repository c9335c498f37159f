package nexus

import "github.com/Desarso/nexus/models"

// QuickActions are the canned requests offered next to the chat box.
var QuickActions = []models.QuickAction{
	{Label: "Check Medical Records", SubLabel: "History, labs & diagnoses", Prompt: "Show the latest medical records for patient Budi Santoso"},
	{Label: "Doctor Schedule", SubLabel: "Book or change an appointment", Prompt: "I want to book an appointment with Dr. Hartono for Budi Santoso tomorrow"},
	{Label: "Billing Info", SubLabel: "Payment & insurance status", Prompt: "Check the billing status for patient Budi Santoso"},
	{Label: "Patient Registration", SubLabel: "New enrollment", Prompt: "I want to register a new patient named Andi Wijaya"},
}
