package nexus

import (
	"context"
	"fmt"

	models "github.com/Desarso/nexus/models"
	"github.com/Desarso/nexus/subagents"
)

// DefaultSystemInstruction is the fixed directive sent with every inference call.
const DefaultSystemInstruction = `You are the central coordinator of a hospital system (Hospital System Nexus).
Your role is to analyse staff requests and forward them to the right sub-agent using function calling:
1. Patient Management sub-agent (patient_management_agent)
2. Appointment Scheduler sub-agent (appointment_scheduler_agent)
3. Medical Records sub-agent (medical_records_agent)
4. Billing and Insurance sub-agent (billing_insurance_agent)

Critical instructions:
- Determine the user's intent accurately to pick the correct sub-agent.
- Call only ONE sub-agent per logical request.
- Pass all relevant information from the user's original query into the function arguments.
- Do NOT try to handle requests yourself (for example answering medical diagnoses or checking schedules); always delegate to a sub-agent.
- After a tool responds, relay the information to the user in a professional, empathetic and clear tone.
- If the user asks something unrelated to the hospital, politely decline and remind them of your role.`

// Model is an inference backend.
type Model interface {
	Generate(ctx context.Context, request models.Model_Request) (models.Model_Response, error)
}

type Agent struct {
	Model              Model
	Model_Name         string
	System_Instruction string
	Tools              []models.FunctionDeclaration
	Executor           *subagents.Executor
}

// Create_Agent wires a backend to the sub-agent executor. An empty tool list
// means the four hospital sub-agents.
func Create_Agent(model Model, executor *subagents.Executor, tools []models.FunctionDeclaration) (*Agent, error) {
	if model == nil {
		return nil, fmt.Errorf("agent requires a model")
	}
	if executor == nil {
		executor = subagents.NewExecutor(nil)
	}
	if len(tools) == 0 {
		decls, err := subagents.Declarations()
		if err != nil {
			return nil, fmt.Errorf("failed to load sub-agent declarations: %w", err)
		}
		tools = decls
	}
	return &Agent{
		Model:              model,
		System_Instruction: DefaultSystemInstruction,
		Tools:              tools,
		Executor:           executor,
	}, nil
}

// Run sends the whole history, the directive and the tool declarations to the backend.
func (agent *Agent) Run(ctx context.Context, history []models.Turn) (models.Model_Response, error) {
	request := models.Model_Request{
		Model:              agent.Model_Name,
		Contents:           history,
		System_Instruction: agent.System_Instruction,
		Tools:              agent.Tools,
	}
	return agent.Model.Generate(ctx, request)
}

// ExecuteTool runs one sub-agent by name. Domain failures come back as an
// error Result; the Go error is reserved for cancellation.
func (agent *Agent) ExecuteTool(ctx context.Context, name string, args map[string]any) (subagents.Result, error) {
	return agent.Executor.Execute(ctx, name, args)
}
