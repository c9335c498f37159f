package models

import "strings"

type Model_Response struct {
	Candidates []Candidate `json:"candidates"`
}

type Candidate struct {
	Parts        []Part `json:"parts"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// FirstCandidate returns the candidate the orchestrator acts on.
func (r Model_Response) FirstCandidate() (Candidate, bool) {
	if len(r.Candidates) == 0 {
		return Candidate{}, false
	}
	return r.Candidates[0], true
}

// Text concatenates the non-thought text parts of the first candidate.
func (r Model_Response) Text() string {
	c, ok := r.FirstCandidate()
	if !ok {
		return ""
	}
	return c.Text()
}

func (c Candidate) Text() string {
	var sb strings.Builder
	for _, p := range c.Parts {
		if p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// FunctionCalls returns the tool-call requests in the order the model emitted them.
func (c Candidate) FunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, p := range c.Parts {
		if p.FunctionCall != nil {
			calls = append(calls, *p.FunctionCall)
		}
	}
	return calls
}
