package subagents

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MedicalRecordsAgent       = "medical_records_agent"
	BillingInsuranceAgent     = "billing_insurance_agent"
	PatientManagementAgent    = "patient_management_agent"
	AppointmentSchedulerAgent = "appointment_scheduler_agent"
)

var ErrUnknownTool = errors.New("unknown tool")

// ArgumentError reports a model-supplied argument that failed validation.
type ArgumentError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: argument '%s' %s", e.Tool, e.Field, e.Reason)
}

// Invocation is one validated tool call. Exactly four types implement it.
type Invocation interface {
	ToolName() string
}

type BillingAction string

const (
	BillingCheckStatus    BillingAction = "check_status"
	BillingProcessPayment BillingAction = "process_payment"
	BillingCreateInvoice  BillingAction = "create_invoice"
	BillingCheckInsurance BillingAction = "check_insurance"
)

type PatientAction string

const (
	PatientRegisterNew     PatientAction = "register_new"
	PatientUpdateInfo      PatientAction = "update_info"
	PatientGetDemographics PatientAction = "get_demographics"
)

type AppointmentAction string

const (
	AppointmentBook              AppointmentAction = "book"
	AppointmentReschedule        AppointmentAction = "reschedule"
	AppointmentCancel            AppointmentAction = "cancel"
	AppointmentCheckAvailability AppointmentAction = "check_availability"
)

type MedicalRecordsArgs struct {
	PatientID string `json:"patientId" desc:"Patient ID or patient name"`
	Query     string `json:"query" desc:"The specific information requested (e.g. 'diabetes history', 'latest lab results')"`
}

type BillingArgs struct {
	PatientID string        `json:"patientId" desc:"Patient ID"`
	Action    BillingAction `json:"action" desc:"Billing action to perform" enum:"check_status,process_payment,create_invoice,check_insurance"`
	Details   string        `json:"details,omitempty" desc:"Additional details if needed"`
}

type PatientManagementArgs struct {
	Action  PatientAction `json:"action" desc:"Registry action to perform" enum:"register_new,update_info,get_demographics"`
	Details string        `json:"details" desc:"JSON-encoded object with the patient's name, contact details, etc."`
}

type AppointmentArgs struct {
	PatientID string            `json:"patientId,omitempty" desc:"Patient ID or name"`
	Action    AppointmentAction `json:"action" desc:"Scheduling action to perform" enum:"book,reschedule,cancel,check_availability"`
	Doctor    string            `json:"doctor,omitempty" desc:"Doctor name (optional)"`
	Time      string            `json:"time,omitempty" desc:"Requested time (optional)"`
}

func (MedicalRecordsArgs) ToolName() string    { return MedicalRecordsAgent }
func (BillingArgs) ToolName() string           { return BillingInsuranceAgent }
func (PatientManagementArgs) ToolName() string { return PatientManagementAgent }
func (AppointmentArgs) ToolName() string       { return AppointmentSchedulerAgent }

// ParseInvocation turns the model's loosely typed argument bag into one of
// the four concrete invocation shapes, checking required fields and action
// values on the way.
func ParseInvocation(name string, args map[string]interface{}) (Invocation, error) {
	p := argParser{tool: name, args: args}

	switch name {
	case MedicalRecordsAgent:
		inv := MedicalRecordsArgs{
			PatientID: p.required("patientId"),
			Query:     p.required("query"),
		}
		return inv, p.err

	case BillingInsuranceAgent:
		inv := BillingArgs{
			PatientID: p.required("patientId"),
			Action:    BillingAction(p.oneOf("action", string(BillingCheckStatus), string(BillingProcessPayment), string(BillingCreateInvoice), string(BillingCheckInsurance))),
			Details:   p.optional("details"),
		}
		return inv, p.err

	case PatientManagementAgent:
		inv := PatientManagementArgs{
			Action:  PatientAction(p.oneOf("action", string(PatientRegisterNew), string(PatientUpdateInfo), string(PatientGetDemographics))),
			Details: p.required("details"),
		}
		return inv, p.err

	case AppointmentSchedulerAgent:
		inv := AppointmentArgs{
			PatientID: p.optional("patientId"),
			Action:    AppointmentAction(p.oneOf("action", string(AppointmentBook), string(AppointmentReschedule), string(AppointmentCancel), string(AppointmentCheckAvailability))),
			Doctor:    p.optional("doctor"),
			Time:      p.optional("time"),
		}
		return inv, p.err
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

// argParser records the first validation failure and keeps going so the
// call sites stay linear.
type argParser struct {
	tool string
	args map[string]interface{}
	err  error
}

func (p *argParser) fail(field, reason string) {
	if p.err == nil {
		p.err = &ArgumentError{Tool: p.tool, Field: field, Reason: reason}
	}
}

func (p *argParser) optional(field string) string {
	v, ok := p.args[field]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int, int64, bool:
		return fmt.Sprint(val)
	case map[string]interface{}, []interface{}:
		// Models occasionally send structured details instead of a JSON string.
		b, err := json.Marshal(val)
		if err != nil {
			p.fail(field, "could not be encoded")
			return ""
		}
		return string(b)
	default:
		p.fail(field, fmt.Sprintf("has unsupported type %T", v))
		return ""
	}
}

func (p *argParser) required(field string) string {
	v := p.optional(field)
	if v == "" {
		p.fail(field, "is required")
	}
	return v
}

func (p *argParser) oneOf(field string, allowed ...string) string {
	v := p.required(field)
	if v == "" {
		return ""
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	p.fail(field, fmt.Sprintf("must be one of %s, got '%s'", strings.Join(allowed, ", "), v))
	return v
}
