package subagents

import (
	"errors"
	"testing"
)

func TestParseInvocation_Variants(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]interface{}
		want Invocation
	}{
		{
			name: "medical records",
			tool: MedicalRecordsAgent,
			args: map[string]interface{}{"patientId": " P001 ", "query": "labs"},
			want: MedicalRecordsArgs{PatientID: "P001", Query: "labs"},
		},
		{
			name: "billing with details",
			tool: BillingInsuranceAgent,
			args: map[string]interface{}{"patientId": "P003", "action": "process_payment", "details": "cash"},
			want: BillingArgs{PatientID: "P003", Action: BillingProcessPayment, Details: "cash"},
		},
		{
			name: "patient management with object details",
			tool: PatientManagementAgent,
			args: map[string]interface{}{"action": "register_new", "details": map[string]interface{}{"name": "Ani"}},
			want: PatientManagementArgs{Action: PatientRegisterNew, Details: `{"name":"Ani"}`},
		},
		{
			name: "numeric patient id keeps its digits",
			tool: MedicalRecordsAgent,
			args: map[string]interface{}{"patientId": float64(1000000), "query": "labs"},
			want: MedicalRecordsArgs{PatientID: "1000000", Query: "labs"},
		},
		{
			name: "appointment optional fields omitted",
			tool: AppointmentSchedulerAgent,
			args: map[string]interface{}{"action": "book"},
			want: AppointmentArgs{Action: AppointmentBook},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInvocation(tt.tool, tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
			if got.ToolName() != tt.tool {
				t.Errorf("expected tool name %s, got %s", tt.tool, got.ToolName())
			}
		})
	}
}

func TestParseInvocation_Errors(t *testing.T) {
	tests := []struct {
		name  string
		tool  string
		args  map[string]interface{}
		field string
	}{
		{"missing query", MedicalRecordsAgent, map[string]interface{}{"patientId": "P001"}, "query"},
		{"missing patient", BillingInsuranceAgent, map[string]interface{}{"action": "check_status"}, "patientId"},
		{"bad billing action", BillingInsuranceAgent, map[string]interface{}{"patientId": "P001", "action": "refund"}, "action"},
		{"missing details", PatientManagementAgent, map[string]interface{}{"action": "register_new"}, "details"},
		{"missing action", AppointmentSchedulerAgent, map[string]interface{}{"doctor": "Dr. Linda"}, "action"},
		{"wrong type", MedicalRecordsAgent, map[string]interface{}{"patientId": []string{"P001"}, "query": "x"}, "patientId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInvocation(tt.tool, tt.args)
			var argErr *ArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("expected ArgumentError, got %v", err)
			}
			if argErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, argErr.Field)
			}
		})
	}
}

func TestParseInvocation_UnknownTool(t *testing.T) {
	_, err := ParseInvocation("radiology_agent", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}
