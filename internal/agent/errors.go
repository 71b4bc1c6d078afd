package agent

import (
	"errors"
	"fmt"
	"time"

	"github.com/Cyclone1070/agentkit/internal/provider"
)

// Sentinel errors returned by Run. Use errors.Is to match them.
var (
	ErrTimeout        = errors.New("execution timeout")
	ErrMaxIterations  = errors.New("max iterations exceeded")
	ErrUnexpectedStop = errors.New("unexpected stop reason")
)

// TimeoutError reports that the wall-clock bound of a run was exceeded.
type TimeoutError struct {
	Elapsed time.Duration
	Limit   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("execution timeout: %s elapsed, limit %s", e.Elapsed.Round(time.Millisecond), e.Limit)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// MaxIterationsError reports that the loop bound was hit without a terminal response.
type MaxIterationsError struct {
	Max int
}

func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("max iterations (%d) reached", e.Max)
}

func (e *MaxIterationsError) Is(target error) bool { return target == ErrMaxIterations }

// UnexpectedStopError reports a stop signal that is neither end_turn nor tool_use.
type UnexpectedStopError struct {
	Reason provider.StopReason
}

func (e *UnexpectedStopError) Error() string {
	return fmt.Sprintf("unexpected stop reason %q", e.Reason)
}

func (e *UnexpectedStopError) Is(target error) bool { return target == ErrUnexpectedStop }
