package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"gooze.dev/pkg/mutest/internal/adapter"
	m "gooze.dev/pkg/mutest/internal/model"
)

// BreakPolicy decides which outcomes stop further trials at a location.
type BreakPolicy struct {
	OnSurvival bool
	OnDetected bool
	OnError    bool
	OnUnknown  bool
}

// Breaks reports whether status ends the current location.
func (p BreakPolicy) Breaks(status m.Status) bool {
	switch status {
	case m.Survived:
		return p.OnSurvival
	case m.Detected:
		return p.OnDetected
	case m.Error:
		return p.OnError
	case m.Unknown:
		return p.OnUnknown
	}

	return false
}

// DefaultBreakPolicy stops a location at its first survivor.
func DefaultBreakPolicy() BreakPolicy {
	return BreakPolicy{OnSurvival: true}
}

// TrialRunner executes one mutation trial.
type TrialRunner interface {
	RunTrial(ctx context.Context, tree *adapter.SourceTree, loc m.LocIndex, op m.Operator, command []string) (m.TrialResult, error)
}

// OperatorSource lists the replacement operators legal at a location.
type OperatorSource func(loc m.LocIndex) []m.Operator

// TrialObserver is notified as trials progress.
type TrialObserver interface {
	TrialStarted(ctx context.Context, pair m.SamplePair, op m.Operator)
	TrialCompleted(ctx context.Context, record m.TrialRecord)
}

// TrialArgs is the input of one controller run.
type TrialArgs struct {
	Index          *SourceIndex
	Sample         m.SampleSpace
	LocsIdentified int
	TestCommand    []string
	WhoTestsWhat   adapter.WhoTestsWhat
	Break          BreakPolicy
	// Start is when the run began; the zero value means when Run is called.
	Start time.Time
}

// TrialController runs the mutation trials of a sample.
type TrialController interface {
	Run(ctx context.Context, args TrialArgs) (m.ResultsSummary, error)
}

type trialController struct {
	runner    TrialRunner
	operators OperatorSource
	rng       *rand.Rand
	observer  TrialObserver
	now       func() time.Time
}

// NewTrialController constructs a TrialController. observer may be nil.
func NewTrialController(runner TrialRunner, operators OperatorSource, rng *rand.Rand, observer TrialObserver) TrialController {
	return &trialController{
		runner:    runner,
		operators: operators,
		rng:       rng,
		observer:  observer,
		now:       time.Now,
	}
}

func (c *trialController) Run(ctx context.Context, args TrialArgs) (m.ResultsSummary, error) {
	start := args.Start
	if start.IsZero() {
		start = c.now()
	}

	slog.Info("Starting individual mutation trials", "locations", len(args.Sample))

	var records []m.TrialRecord

	for _, pair := range args.Sample {
		var err error

		records, err = c.runLocation(ctx, args, pair, records)
		if err != nil {
			return m.ResultsSummary{}, err
		}
	}

	summary := m.NewResultsSummary(records, len(args.Sample), args.LocsIdentified, c.now().Sub(start))
	slog.Info("Mutation trials finished", "trials", summary.Len(), "runtime", summary.TotalRuntime())

	return summary, nil
}

func (c *trialController) runLocation(ctx context.Context, args TrialArgs, pair m.SamplePair, records []m.TrialRecord) ([]m.TrialRecord, error) {
	tree := args.Index.Tree(pair.File)
	if tree == nil {
		return records, fmt.Errorf("no source tree for file %d (%s)", pair.File, pair.Path)
	}

	pool := append([]m.Operator(nil), c.operators(pair.Loc)...)
	command := BuildTrialCommand(args.TestCommand, pair.Path, pair.Loc, args.WhoTestsWhat)

	for len(pool) > 0 {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		op := c.draw(&pool)

		if c.observer != nil {
			c.observer.TrialStarted(ctx, pair, op)
		}

		started := c.now()

		result, err := c.runner.RunTrial(ctx, tree, pair.Loc, op, command)
		if err != nil {
			slog.Error("Mutation trial failed", "path", pair.Path, "location", pair.Loc.String(), "operator", op, "error", err)
			return records, fmt.Errorf("trial %s at %s:%s: %w", op, pair.Path, pair.Loc, err)
		}

		record := m.TrialRecord{
			Path:     pair.Path,
			Loc:      pair.Loc,
			Operator: op,
			Status:   result.Status,
			Output:   result.Output,
			Diff:     result.Diff,
			Started:  started,
			Duration: result.Duration,
		}
		records = append(records, record)

		if c.observer != nil {
			c.observer.TrialCompleted(ctx, record)
		}

		logOutcome(record)

		if args.Break.Breaks(result.Status) {
			slog.Info("Break on "+result.Status.String(), "path", pair.Path, "location", pair.Loc.String())
			break
		}
	}

	return records, nil
}

// draw removes and returns a uniformly chosen operator from pool.
func (c *trialController) draw(pool *[]m.Operator) m.Operator {
	ops := *pool
	j := c.rng.IntN(len(ops))
	op := ops[j]
	ops[j] = ops[len(ops)-1]
	*pool = ops[:len(ops)-1]

	return op
}

func logOutcome(record m.TrialRecord) {
	attrs := []any{"path", record.Path, "location", record.Loc.String(), "operator", record.Operator}

	switch record.Status {
	case m.Survived:
		slog.Info("Mutant survived", attrs...)
	case m.Detected:
		slog.Info("Mutant detected", attrs...)
	case m.Error:
		slog.Warn("Mutant trial errored", attrs...)
	case m.Unknown:
		slog.Warn("Mutant trial outcome unknown", attrs...)
	}
}
