package depot

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type operation struct {
	typ    operationType
	entity Entity
	apply  func() error
}

type operationType int

const (
	opDestroy operationType = iota
	opAddComponent
	opRemoveComponent
)

func (t operationType) String() string {
	switch t {
	case opDestroy:
		return "destroy"
	case opAddComponent:
		return "add_component"
	case opRemoveComponent:
		return "remove_component"
	}
	return "unknown"
}

type opQueue struct {
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[Entity]struct{}
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[Entity]struct{}),
	}
}

func (q *opQueue) Len() int {
	return len(q.componentOps) + len(q.destroyOps)
}

// EnqueueDestroy queues at most one destruction per entity.
func (q *opQueue) EnqueueDestroy(en Entity, apply func() error) {
	if _, exists := q.pendingDestroy[en]; exists {
		return
	}
	q.pendingDestroy[en] = struct{}{}
	q.destroyOps = append(q.destroyOps, operation{
		typ:    opDestroy,
		entity: en,
		apply:  apply,
	})
}

// EnqueueComponentOp queues a component change. Changes for an entity that is
// queued for destruction are dropped when the queue is processed.
func (q *opQueue) EnqueueComponentOp(typ operationType, en Entity, apply func() error) {
	if _, doomed := q.pendingDestroy[en]; doomed {
		return
	}
	q.componentOps = append(q.componentOps, operation{
		typ:    typ,
		entity: en,
		apply:  apply,
	})
}

// processOperationQueue applies component changes in enqueue order, then
// destructions. Every operation is attempted; failures are combined.
func (e *Engine) processOperationQueue() error {
	if e.opQueue.Len() == 0 {
		return nil
	}
	q := e.opQueue
	e.opQueue = newOpQueue()

	var errs error
	applied, dropped := 0, 0
	for _, op := range q.componentOps {
		if _, doomed := q.pendingDestroy[op.entity]; doomed {
			dropped++
			continue
		}
		if err := op.apply(); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "queued %s on entity %d", op.typ, op.entity))
			continue
		}
		applied++
	}
	for _, op := range q.destroyOps {
		if err := op.apply(); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "queued %s on entity %d", op.typ, op.entity))
			continue
		}
		applied++
	}
	e.logger.Debug("deferred operations processed",
		zap.Int("applied", applied),
		zap.Int("dropped", dropped),
		zap.Int("failed", len(multierr.Errors(errs))),
	)
	return errs
}
