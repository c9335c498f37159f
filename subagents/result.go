package subagents

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is what every sub-agent hands back. It is always structured so it
// can be returned to the model as function-response content.
type Result struct {
	Status Status
	Fields map[string]interface{}
}

func Success(fields map[string]interface{}) Result {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return Result{Status: StatusSuccess, Fields: fields}
}

func Failure(message string) Result {
	return Result{Status: StatusError, Fields: map[string]interface{}{"message": message}}
}

func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

func (r Result) Message() string {
	msg, _ := r.Fields["message"].(string)
	return msg
}

// Map flattens the result into {"status": ..., <fields>}.
func (r Result) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.Fields)+1)
	for k, v := range r.Fields {
		m[k] = v
	}
	m["status"] = string(r.Status)
	return m
}
