package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osintforge/intelx-mcp/intelx"
)

// scriptedJob replays a fixed sequence of poll outcomes.
type scriptedJob struct {
	outcomes   []intelx.Outcome
	round      int
	terminated int
	wanted     []int
}

func (j *scriptedJob) bindings() Bindings {
	return Bindings{
		Submit: func(ctx context.Context) (intelx.Handle, error) {
			return intelx.Handle{ID: "scripted-job", Kind: intelx.KindSearch}, nil
		},
		Poll: func(ctx context.Context, h intelx.Handle, wanted int) (intelx.Outcome, error) {
			j.wanted = append(j.wanted, wanted)
			out := j.outcomes[j.round%len(j.outcomes)]
			j.round++
			return out, nil
		},
		Terminate: func(ctx context.Context, h intelx.Handle) error {
			j.terminated++
			return nil
		},
		Interval: time.Millisecond,
	}
}

func records(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{"systemid": "sys"}
	}
	return out
}

func TestRunCompletesWithoutTerminate(t *testing.T) {
	job := &scriptedJob{outcomes: []intelx.Outcome{
		{State: intelx.StateContinue},
		{State: intelx.StateContinue, Records: records(3)},
		{State: intelx.StateComplete, Records: records(2)},
	}}

	res, err := Run(context.Background(), job.bindings(), 10)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Accumulated) != 5 {
		t.Errorf("accumulated %d records, want 5", len(res.Accumulated))
	}
	if res.Cause != CauseComplete {
		t.Errorf("cause = %v, want complete", res.Cause)
	}
	if job.terminated != 0 {
		t.Errorf("terminate called %d times, want 0 (upstream closed the job)", job.terminated)
	}
	if res.RoundCount != 3 {
		t.Errorf("rounds = %d, want 3", res.RoundCount)
	}
}

func TestRunBudgetExhaustionTerminates(t *testing.T) {
	job := &scriptedJob{outcomes: []intelx.Outcome{
		{State: intelx.StateContinue, Records: records(10)},
	}}

	res, err := Run(context.Background(), job.bindings(), 5)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// the overshooting round is trimmed to the budget
	if len(res.Accumulated) != 5 {
		t.Errorf("accumulated %d records, want exactly the budget of 5", len(res.Accumulated))
	}
	if res.Cause != CauseBudget {
		t.Errorf("cause = %v, want budget", res.Cause)
	}
	if job.terminated != 1 {
		t.Errorf("terminate called %d times, want 1", job.terminated)
	}
}

func TestRunWantedCountTracksBudget(t *testing.T) {
	job := &scriptedJob{outcomes: []intelx.Outcome{
		{State: intelx.StateContinue, Records: records(3)},
		{State: intelx.StateContinue, Records: records(3)},
		{State: intelx.StateComplete},
	}}

	if _, err := Run(context.Background(), job.bindings(), 10); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []int{10, 7, 4}
	if len(job.wanted) != len(want) {
		t.Fatalf("polled %d times, want %d", len(job.wanted), len(want))
	}
	for i, w := range want {
		if job.wanted[i] != w {
			t.Errorf("round %d wanted %d, want %d", i, job.wanted[i], w)
		}
	}
}

func TestRunEmptyContinueKeepsPolling(t *testing.T) {
	job := &scriptedJob{outcomes: []intelx.Outcome{
		{State: intelx.StateContinue},
		{State: intelx.StateContinue},
		{State: intelx.StateContinue},
		{State: intelx.StateComplete, Records: records(1)},
	}}

	res, err := Run(context.Background(), job.bindings(), 10)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.RoundCount != 4 {
		t.Errorf("rounds = %d, want 4 (empty continue rounds keep the session running)", res.RoundCount)
	}
	if len(res.Accumulated) != 1 {
		t.Errorf("accumulated %d records, want 1", len(res.Accumulated))
	}
}

func TestRunExpiredStops(t *testing.T) {
	job := &scriptedJob{outcomes: []intelx.Outcome{
		{State: intelx.StateExpired},
	}}

	res, err := Run(context.Background(), job.bindings(), 10)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Cause != CauseExpired {
		t.Errorf("cause = %v, want expired", res.Cause)
	}
	if job.terminated != 0 {
		t.Errorf("terminate called %d times, want 0", job.terminated)
	}
}

func TestRunSubmitFailureIsFatal(t *testing.T) {
	submitErr := errors.New("bad buckets")
	b := Bindings{
		Submit: func(ctx context.Context) (intelx.Handle, error) {
			return intelx.Handle{}, submitErr
		},
		Interval: time.Millisecond,
	}

	if _, err := Run(context.Background(), b, 10); !errors.Is(err, submitErr) {
		t.Fatalf("expected submit error, got %v", err)
	}
}

func TestRunPollFailureDiscardsPartial(t *testing.T) {
	pollErr := errors.New("bad gateway")
	terminated := 0
	round := 0
	b := Bindings{
		Submit: func(ctx context.Context) (intelx.Handle, error) {
			return intelx.Handle{ID: "job-1"}, nil
		},
		Poll: func(ctx context.Context, h intelx.Handle, wanted int) (intelx.Outcome, error) {
			round++
			if round == 1 {
				return intelx.Outcome{State: intelx.StateContinue, Records: records(4)}, nil
			}
			return intelx.Outcome{}, pollErr
		},
		Terminate: func(ctx context.Context, h intelx.Handle) error {
			terminated++
			return nil
		},
		Interval: time.Millisecond,
	}

	res, err := Run(context.Background(), b, 10)
	if !errors.Is(err, pollErr) {
		t.Fatalf("expected poll error, got %v", err)
	}
	if res != nil {
		t.Fatal("expected no partial result on poll failure")
	}
	if terminated != 0 {
		t.Errorf("terminate called %d times, want 0 (handle may be unrecoverable)", terminated)
	}
}

func TestRunTerminateFailureSwallowed(t *testing.T) {
	b := Bindings{
		Submit: func(ctx context.Context) (intelx.Handle, error) {
			return intelx.Handle{ID: "job-1"}, nil
		},
		Poll: func(ctx context.Context, h intelx.Handle, wanted int) (intelx.Outcome, error) {
			return intelx.Outcome{State: intelx.StateContinue, Records: records(5)}, nil
		},
		Terminate: func(ctx context.Context, h intelx.Handle) error {
			return errors.New("terminate unreachable")
		},
		Interval: time.Millisecond,
	}

	res, err := Run(context.Background(), b, 5)
	if err != nil {
		t.Fatalf("terminate failure must not surface: %v", err)
	}
	if res.Cause != CauseBudget {
		t.Errorf("cause = %v, want budget", res.Cause)
	}
}

func TestRunNormalizeAppliedPerRound(t *testing.T) {
	b := Bindings{
		Submit: func(ctx context.Context) (intelx.Handle, error) {
			return intelx.Handle{ID: "job-1"}, nil
		},
		Poll: func(ctx context.Context, h intelx.Handle, wanted int) (intelx.Outcome, error) {
			return intelx.Outcome{State: intelx.StateComplete, Records: []map[string]any{
				{"systemid": "sys-1", "noise": "dropped"},
			}}, nil
		},
		Normalize: func(records []map[string]any) []map[string]any {
			out := make([]map[string]any, len(records))
			for i, r := range records {
				out[i] = map[string]any{"systemid": r["systemid"]}
			}
			return out
		},
		Interval: time.Millisecond,
	}

	res, err := Run(context.Background(), b, 10)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, ok := res.Accumulated[0]["noise"]; ok {
		t.Error("normalize was not applied to accumulated records")
	}
}

func TestRunKeepRounds(t *testing.T) {
	job := &scriptedJob{outcomes: []intelx.Outcome{
		{State: intelx.StateContinue, Records: records(2)},
		{State: intelx.StateComplete, Records: records(1)},
	}}
	b := job.bindings()
	b.KeepRounds = true

	res, err := Run(context.Background(), b, 10)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Rounds) != 2 {
		t.Fatalf("retained %d rounds, want 2", len(res.Rounds))
	}
	if len(res.Rounds[0].Records) != 2 || len(res.Rounds[1].Records) != 1 {
		t.Errorf("unexpected per-round records: %+v", res.Rounds)
	}
}

func TestRunContextCancelled(t *testing.T) {
	b := Bindings{
		Submit: func(ctx context.Context) (intelx.Handle, error) {
			return intelx.Handle{ID: "job-1"}, nil
		},
		Poll: func(ctx context.Context, h intelx.Handle, wanted int) (intelx.Outcome, error) {
			return intelx.Outcome{State: intelx.StateContinue}, nil
		},
		Interval: 10 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	if _, err := Run(ctx, b, 10); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
