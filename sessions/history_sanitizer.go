package sessions

import (
	"github.com/Desarso/nexus/models"
)

// SanitizeHistory returns a copy of turns that is safe to send to the model.
// The session's own history is never rewritten; only the view sent to the
// backend is cleaned.
//
// Valid turn patterns:
//   - user_message -> model_message
//   - user_message -> function_call -> function_response -> model_message
//
// The result always starts with a user or model message, and every
// function_call is followed by a function_response. A turn that failed after
// the model asked for a tool but before the results were recorded leaves a
// dangling function_call behind; those are dropped here.
func SanitizeHistory(turns []models.Turn) []models.Turn {
	if len(turns) == 0 {
		return []models.Turn{}
	}

	startIdx := findValidStartIndex(turns)
	if startIdx == -1 {
		return []models.Turn{}
	}
	return sanitizeToolCycles(turns[startIdx:])
}

// findValidStartIndex skips leading function_call/function_response turns,
// which can only be fragments of an earlier cycle.
func findValidStartIndex(turns []models.Turn) int {
	for i, turn := range turns {
		switch turn.Kind {
		case models.KindFunctionCall, models.KindFunctionResponse:
			continue
		default:
			return i
		}
	}
	return -1
}

func sanitizeToolCycles(turns []models.Turn) []models.Turn {
	result := make([]models.Turn, 0, len(turns))
	i := 0

	for i < len(turns) {
		switch turns[i].Kind {
		case models.KindFunctionCall:
			cycle, next, valid := collectCompleteCycle(turns, i)
			if valid {
				result = append(result, cycle...)
			}
			i = next

		case models.KindFunctionResponse:
			// orphaned
			i++

		default:
			result = append(result, turns[i])
			i++
		}
	}

	return result
}

// collectCompleteCycle gathers consecutive function_call turns and the
// function_response turns that follow them. The cycle is complete when at
// least one response follows, since one response turn may carry the results
// of several calls.
func collectCompleteCycle(turns []models.Turn, startIdx int) ([]models.Turn, int, bool) {
	i := startIdx
	for i < len(turns) && turns[i].Kind == models.KindFunctionCall {
		i++
	}
	callEnd := i
	for i < len(turns) && turns[i].Kind == models.KindFunctionResponse {
		i++
	}
	if i == callEnd {
		return nil, i, false
	}
	return turns[startIdx:i], i, true
}

// DetectCorruptedHistory lists problems that would make the backend reject
// the history. It is empty for a clean history.
func DetectCorruptedHistory(turns []models.Turn) []string {
	issues := []string{}
	if len(turns) == 0 {
		return issues
	}

	switch turns[0].Kind {
	case models.KindFunctionResponse:
		issues = append(issues, "History starts with function_response (orphaned)")
	case models.KindFunctionCall:
		issues = append(issues, "History starts with function_call (truncated mid-cycle)")
	}

	pendingCalls := 0
	for i, turn := range turns {
		switch turn.Kind {
		case models.KindFunctionCall:
			pendingCalls++
		case models.KindFunctionResponse:
			if pendingCalls == 0 {
				issues = append(issues, "function_response without preceding function_call")
			}
			pendingCalls = 0
		default:
			if pendingCalls > 0 {
				issues = append(issues, "function_call without response before next message")
				pendingCalls = 0
			}
		}
		if i > 0 && turn.Kind == models.KindUserMessage && turns[i-1].Kind == models.KindUserMessage {
			issues = append(issues, "Two consecutive user_messages")
		}
	}
	if pendingCalls > 0 {
		issues = append(issues, "Orphaned function_call(s) without responses at end of history")
	}

	return issues
}
