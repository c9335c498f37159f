package subagents

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"

	"github.com/Desarso/nexus/models"
)

//go:generate go run ../cmd/gen_schema -type=MedicalRecordsArgs -name=medical_records_agent "-desc=Retrieves and summarises a patient's medical history, lab results and diagnoses." -out=schemas
//go:generate go run ../cmd/gen_schema -type=BillingArgs -name=billing_insurance_agent "-desc=Handles billing questions, processes payments and checks insurance coverage." -out=schemas
//go:generate go run ../cmd/gen_schema -type=PatientManagementArgs -name=patient_management_agent "-desc=Registers new patients or updates existing patient data." -out=schemas
//go:generate go run ../cmd/gen_schema -type=AppointmentArgs -name=appointment_scheduler_agent "-desc=Handles booking, rescheduling and cancelling appointments, and checks doctor availability." -out=schemas

//go:embed schemas/*.json
var schemaFiles embed.FS

// ToolNames lists the sub-agents in the order they are declared to the model.
var ToolNames = []string{
	MedicalRecordsAgent,
	BillingInsuranceAgent,
	PatientManagementAgent,
	AppointmentSchedulerAgent,
}

var labels = map[string]string{
	MedicalRecordsAgent:       "Medical Records Sub-agent",
	BillingInsuranceAgent:     "Billing & Insurance Sub-agent",
	PatientManagementAgent:    "Patient Management Sub-agent",
	AppointmentSchedulerAgent: "Appointment Scheduler Sub-agent",
}

// Label is the human readable name shown while a sub-agent is running.
func Label(toolName string) string {
	if l, ok := labels[toolName]; ok {
		return l
	}
	return "Sub-agent"
}

// Declaration reads the generated schema for one sub-agent.
func Declaration(name string) (models.FunctionDeclaration, error) {
	schemaPath := path.Join("schemas", name+".json")
	schemaBytes, err := schemaFiles.ReadFile(schemaPath)
	if err != nil {
		return models.FunctionDeclaration{}, fmt.Errorf("failed to read embedded schema file '%s': %w", schemaPath, err)
	}

	var decl models.FunctionDeclaration
	if err := json.Unmarshal(schemaBytes, &decl); err != nil {
		return models.FunctionDeclaration{}, fmt.Errorf("failed to unmarshal schema from '%s': %w", schemaPath, err)
	}
	if decl.Name != name {
		return models.FunctionDeclaration{}, fmt.Errorf("schema '%s' declares tool '%s'", schemaPath, decl.Name)
	}
	return decl, nil
}

// Declarations returns the four sub-agent declarations in ToolNames order.
func Declarations() ([]models.FunctionDeclaration, error) {
	decls := make([]models.FunctionDeclaration, 0, len(ToolNames))
	for _, name := range ToolNames {
		decl, err := Declaration(name)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}
