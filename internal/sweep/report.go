package sweep

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/kinetics"
)

// Outcome is the result of one case. Exactly one of Trajectory and Err is set;
// Partial may accompany Err when integration got under way.
type Outcome struct {
	Index      int
	Label      string
	Value      float64
	Params     kinetics.Params
	Trajectory *dynamo.Trajectory
	Partial    *dynamo.Trajectory
	Err        error
	Elapsed    time.Duration
}

// OK reports whether the case produced a full trajectory.
func (o Outcome) OK() bool { return o.Err == nil }

// Report holds outcomes in case order.
type Report struct {
	Outcomes []Outcome
}

// Err joins every failed case's error, labeled with the case. It is nil when
// all cases succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if !o.OK() {
			errs = append(errs, fmt.Errorf("case %d (%s): %w", o.Index, o.Label, o.Err))
		}
	}
	return errors.Join(errs...)
}

// Trajectories returns one entry per case, nil where the case failed.
func (r *Report) Trajectories() []*dynamo.Trajectory {
	out := make([]*dynamo.Trajectory, len(r.Outcomes))
	for i, o := range r.Outcomes {
		out[i] = o.Trajectory
	}
	return out
}

func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

type Status int

const (
	StatusStarted Status = iota
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusStarted:
		return "started"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Event reports progress of one case.
type Event struct {
	Index   int
	Label   string
	Status  Status
	Err     error
	Elapsed time.Duration
}
