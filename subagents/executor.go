package subagents

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/Desarso/nexus/hospital"
	"github.com/rs/zerolog"
)

// DefaultDelay stands in for the round trip to a real backend service.
const DefaultDelay = 800 * time.Millisecond

// Executor simulates the four hospital subsystems behind one dispatch point.
type Executor struct {
	store   *hospital.Store
	delay   time.Duration
	logger  zerolog.Logger
	randInt func(n int) int
}

type Option func(*Executor)

func WithDelay(d time.Duration) Option {
	return func(e *Executor) { e.delay = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

func NewExecutor(store *hospital.Store, opts ...Option) *Executor {
	if store == nil {
		store = hospital.NewStore()
	}
	e := &Executor{
		store:   store,
		delay:   DefaultDelay,
		logger:  zerolog.Nop(),
		randInt: rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute waits out the simulated latency, validates the arguments and runs
// the named sub-agent. Domain problems (unknown patient, bad arguments,
// unknown tool) come back as an error Result; the returned error is only set
// when ctx ends before the call resolves.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]interface{}) (Result, error) {
	if err := e.wait(ctx); err != nil {
		return Result{}, err
	}

	e.logger.Info().Str("tool", name).Interface("args", args).Msg("mock execution")

	inv, err := ParseInvocation(name, args)
	if err != nil {
		if errors.Is(err, ErrUnknownTool) {
			return Failure("Unknown tool called."), nil
		}
		e.logger.Warn().Err(err).Str("tool", name).Msg("invalid tool arguments")
		return Failure(err.Error()), nil
	}
	return e.Dispatch(inv), nil
}

// Dispatch runs an already validated invocation without the simulated delay.
func (e *Executor) Dispatch(inv Invocation) Result {
	switch v := inv.(type) {
	case MedicalRecordsArgs:
		return e.medicalRecords(v)
	case BillingArgs:
		return e.billing(v)
	case PatientManagementArgs:
		return e.patientManagement(v)
	case AppointmentArgs:
		return e.appointments(v)
	default:
		return Failure("Unknown tool called.")
	}
}

func (e *Executor) wait(ctx context.Context) error {
	if e.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(e.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
