package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/testutil"
)

type stubTask struct {
	name    string
	fail    bool
	enabled bool
	ran     *atomic.Int32
}

func (t *stubTask) Name() string    { return t.name }
func (t *stubTask) IsEnabled() bool { return t.enabled }

func (t *stubTask) Execute(ctx context.Context) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.ran.Add(1)
	if t.fail {
		return nil, fmt.Errorf("task blew up")
	}
	return nil, nil
}

func TestExecuteRunsEveryTaskDespiteFailures(t *testing.T) {
	var ran atomic.Int32
	tasks := []domain.ExecutableTask{
		&stubTask{name: "ok", enabled: true, ran: &ran},
		&stubTask{name: "bad", enabled: true, fail: true, ran: &ran},
		&stubTask{name: "also-ok", enabled: true, ran: &ran},
	}

	err := NewParallelExecutor().Execute(context.Background(), tasks)
	testutil.AssertError(t, err)

	var agg *AggregatedError
	testutil.AssertTrue(t, errors.As(err, &agg), "task failures aggregate")
	testutil.AssertEqual(t, 1, len(agg.Errors))
	testutil.AssertEqual(t, "bad", agg.Errors[0].TaskName)
	testutil.AssertEqual(t, int32(3), ran.Load())
}

func TestExecuteSkipsDisabledTasks(t *testing.T) {
	var ran atomic.Int32
	tasks := []domain.ExecutableTask{
		&stubTask{name: "on", enabled: true, ran: &ran},
		&stubTask{name: "off", enabled: false, ran: &ran},
	}

	err := NewParallelExecutor().Execute(context.Background(), tasks)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, int32(1), ran.Load())
}

func TestExecutePropagatesCancellation(t *testing.T) {
	var ran atomic.Int32
	tasks := []domain.ExecutableTask{
		&stubTask{name: "a", enabled: true, ran: &ran},
		&stubTask{name: "b", enabled: true, ran: &ran},
		&stubTask{name: "c", enabled: true, ran: &ran},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewParallelExecutor().Execute(ctx, tasks)
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.Is(err, context.Canceled), "cancellation must reach the caller")
	testutil.AssertEqual(t, int32(0), ran.Load())
}
