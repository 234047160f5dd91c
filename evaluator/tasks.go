package evaluator

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
	"github.com/hexza-lang/hexza/scope"
)

// TaskState is the lifecycle state of a Task.
type TaskState uint8

const (
	TaskPending TaskState = iota
	TaskRunning
	TaskDone
	TaskFailed
)

func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskDone:
		return "done"
	case TaskFailed:
		return "failed"
	default:
		return fmt.Sprintf("TaskState(%d)", uint8(s))
	}
}

// Task is a suspended call of an async function. Its body advances one
// statement per Step, so several tasks can be interleaved by a scheduler.
type Task struct {
	id       uuid.UUID
	fn       *Function
	frame    *scope.Scope
	next     int
	state    TaskState
	stepping bool
	last     object.Object
	result   object.Object
	returned bool
	err      error
}

var _ object.Object = (*Task)(nil)

func (e *Interpreter) newTask(fn *Function, args []object.Object) (*Task, error) {
	frame, err := fn.frame(args)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	e.logger.Debug().Str("task", id.String()).Str("function", fn.name).Msg("created task")
	return &Task{id: id, fn: fn, frame: frame, last: object.Nil}, nil
}

func (t *Task) ID() uuid.UUID {
	return t.id
}

func (t *Task) State() TaskState {
	return t.state
}

// Done reports whether the task has finished, successfully or not.
func (t *Task) Done() bool {
	return t.state == TaskDone || t.state == TaskFailed
}

// Result returns the outcome of a finished task.
func (t *Task) Result() (object.Object, error) {
	return t.result, t.err
}

// Step runs the next statement of the task body. It returns the task's
// error if the task failed during this step.
func (t *Task) Step(ctx context.Context) error {
	if t.Done() {
		return nil
	}
	if t.stepping {
		return t.fail(errors.Newf(errors.CallError, "task %s awaited from inside itself", t.fn.name))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	t.stepping = true
	defer func() { t.stepping = false }()
	t.state = TaskRunning

	e := t.fn.owner
	if e.depth >= e.maxDepth {
		return t.fail(errors.Newf(errors.CallError, "maximum call depth exceeded (%d)", e.maxDepth))
	}
	e.depth++
	defer func() { e.depth-- }()

	ctx = e.withCallFunc(ctx)
	if t.fn.expr != nil {
		value, err := e.eval(ctx, t.fn.expr, t.frame)
		if err != nil {
			return t.fail(err)
		}
		t.finish(value, true)
		return nil
	}
	stmts := t.fn.body.Stmts
	if t.next >= len(stmts) {
		t.finish(t.last, false)
		return nil
	}
	stmt := stmts[t.next]
	t.next++
	c, err := e.execStmt(ctx, stmt, t.frame)
	if err != nil {
		return t.fail(err)
	}
	switch c.kind {
	case completionReturn:
		t.finish(c.value, true)
	case completionBreak, completionContinue:
		return t.fail(e.controlError(c))
	default:
		t.last = c.value
		if t.next >= len(stmts) {
			t.finish(t.last, false)
		}
	}
	return nil
}

// Await steps the task until it finishes and returns its result. Awaiting a
// finished task returns the cached result.
func (t *Task) Await(ctx context.Context) (object.Object, error) {
	for !t.Done() {
		if err := t.Step(ctx); err != nil {
			return nil, err
		}
	}
	return t.result, t.err
}

func (t *Task) finish(value object.Object, returned bool) {
	t.state = TaskDone
	t.result = value
	t.returned = returned
}

func (t *Task) fail(err error) error {
	if isContextError(err) {
		return err
	}
	t.state = TaskFailed
	t.err = err
	return err
}

func (t *Task) Type() object.Type {
	return object.TASK
}

func (t *Task) Inspect() string {
	return fmt.Sprintf("task(%s %s)", t.fn.name, t.state)
}

func (t *Task) String() string {
	return t.Inspect()
}

func (t *Task) Interface() any {
	return t.id.String()
}

func (t *Task) Equals(other object.Object) bool {
	return t == other
}

func (t *Task) IsTruthy() bool {
	return true
}

// RunTasks drives the tasks to completion, one statement of each task per
// round. The errors of all failed tasks are returned together.
func RunTasks(ctx context.Context, tasks ...*Task) error {
	var result *multierror.Error
	for {
		pending := 0
		for _, t := range tasks {
			if t.Done() {
				continue
			}
			if err := t.Step(ctx); err != nil {
				if isContextError(err) {
					return err
				}
				result = multierror.Append(result, fmt.Errorf("task %s: %w", t.fn.name, err))
				continue
			}
			if !t.Done() {
				pending++
			}
		}
		if pending == 0 {
			return result.ErrorOrNil()
		}
	}
}
