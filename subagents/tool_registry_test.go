package subagents

import (
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestDeclarations(t *testing.T) {
	decls, err := Declarations()
	if err != nil {
		t.Fatalf("failed to load declarations: %v", err)
	}
	if len(decls) != 4 {
		t.Fatalf("expected 4 declarations, got %d", len(decls))
	}
	for i, decl := range decls {
		if decl.Name != ToolNames[i] {
			t.Errorf("expected %s at %d, got %s", ToolNames[i], i, decl.Name)
		}
		if decl.Description == "" {
			t.Errorf("%s: description should not be empty", decl.Name)
		}
		if strings.HasPrefix(decl.Description, `"`) || !strings.Contains(decl.Description, " ") {
			t.Errorf("%s: description looks truncated: %q", decl.Name, decl.Description)
		}
		if decl.Parameters.Type != "object" {
			t.Errorf("%s: expected object type, got %q", decl.Name, decl.Parameters.Type)
		}
	}
}

// go generate only keeps a quoted value together when the quote opens the word.
func TestGenerateDirectives_QuoteDescriptions(t *testing.T) {
	src, err := os.ReadFile("tool_registry.go")
	if err != nil {
		t.Fatal(err)
	}
	directives := 0
	for _, line := range strings.Split(string(src), "\n") {
		if !strings.HasPrefix(line, "//go:generate") {
			continue
		}
		directives++
		if strings.Contains(line, `-desc="`) {
			t.Errorf("description must be quoted as a whole word: %s", line)
		}
		if !strings.Contains(line, ` "-desc=`) {
			t.Errorf("missing quoted -desc flag: %s", line)
		}
	}
	if directives != len(ToolNames) {
		t.Errorf("expected %d generate directives, got %d", len(ToolNames), directives)
	}
}

func TestDeclarations_RequiredFields(t *testing.T) {
	want := map[string][]string{
		MedicalRecordsAgent:       {"patientId", "query"},
		BillingInsuranceAgent:     {"action", "patientId"},
		PatientManagementAgent:    {"action", "details"},
		AppointmentSchedulerAgent: {"action"},
	}
	for name, required := range want {
		decl, err := Declaration(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !reflect.DeepEqual(decl.Parameters.Required, required) {
			t.Errorf("%s: expected required=%v, got %v", name, required, decl.Parameters.Required)
		}
		for _, r := range required {
			if _, ok := decl.Parameters.Properties[r]; !ok {
				t.Errorf("%s: required field %s has no property", name, r)
			}
		}
	}
}

func TestDeclarations_ActionEnums(t *testing.T) {
	decl, err := Declaration(AppointmentSchedulerAgent)
	if err != nil {
		t.Fatal(err)
	}
	enum := decl.Parameters.Properties["action"].Enum
	want := []string{"book", "reschedule", "cancel", "check_availability"}
	if !reflect.DeepEqual(enum, want) {
		t.Errorf("expected %v, got %v", want, enum)
	}
}

func TestLabel(t *testing.T) {
	if Label(BillingInsuranceAgent) != "Billing & Insurance Sub-agent" {
		t.Errorf("unexpected label %q", Label(BillingInsuranceAgent))
	}
	if Label("something_else") != "Sub-agent" {
		t.Errorf("expected generic label, got %q", Label("something_else"))
	}
}
