package clist

import (
	"fmt"

	"github.com/golang/glog"

	"clist/assert"
	"clist/sync2"
)

const (
	glogLevelEngine = glog.Level(6)
	glogLevelOp     = glog.Level(10)
)

type OpType int

const (
	OpPushFront OpType = iota
	OpPushBack
	OpInsertBefore
	OpErase
)

func (ot OpType) String() string {
	switch ot {
	case OpPushFront:
		return "push_front"
	case OpPushBack:
		return "push_back"
	case OpInsertBefore:
		return "insert_before"
	case OpErase:
		return "erase"
	default:
		panic("unreachable code")
	}
}

func (ot OpType) IsInsert() bool {
	return ot != OpErase
}

type OpStatus int32

const (
	OpStatusInitialized OpStatus = iota
	OpStatusPending
	OpStatusFailed
	OpStatusSucceeded
)

func (s OpStatus) String() string {
	switch s {
	case OpStatusInitialized:
		return "OpStatusInitialized"
	case OpStatusPending:
		return "OpStatusPending"
	case OpStatusFailed:
		return "OpStatusFailed"
	case OpStatusSucceeded:
		return "OpStatusSucceeded"
	default:
		panic("unreachable code")
	}
}

func (s OpStatus) Succeeded() bool {
	return s == OpStatusSucceeded
}

func (s OpStatus) Done() bool {
	return s == OpStatusSucceeded || s == OpStatusFailed
}

var OpIDCounter = sync2.NewAtomicInt64(0)

// Op is one list mutation of a workload. Values are unique within a
// workload, so a value names exactly one element.
type Op struct {
	ID int64

	typ    OpType
	anchor int64
	val    int64

	status  sync2.AtomicInt32
	stamp   sync2.AtomicInt64
	retries int
	err     error
}

func NewOp(typ OpType, anchor, val int64) *Op {
	return &Op{
		ID:     OpIDCounter.Add(1),
		typ:    typ,
		anchor: anchor,
		val:    val,
		status: sync2.NewAtomicInt32(int32(OpStatusInitialized)),
	}
}

func PushFrontOp(val int64) *Op {
	return NewOp(OpPushFront, 0, val)
}

func PushBackOp(val int64) *Op {
	return NewOp(OpPushBack, 0, val)
}

func InsertBeforeOp(anchor, val int64) *Op {
	return NewOp(OpInsertBefore, anchor, val)
}

func EraseOp(val int64) *Op {
	return NewOp(OpErase, 0, val)
}

func (op *Op) Type() OpType {
	return op.typ
}

func (op *Op) Value() int64 {
	return op.val
}

func (op *Op) String() string {
	if op.typ == OpInsertBefore {
		return fmt.Sprintf("%d:%s(%d, %d)", op.ID, op.typ, op.anchor, op.val)
	}
	return fmt.Sprintf("%d:%s(%d)", op.ID, op.typ, op.val)
}

func (op *Op) GetStatus() OpStatus {
	return OpStatus(op.status.Get())
}

func (op *Op) SetStatus(status OpStatus) {
	op.status.Set(int32(status))
}

// Err is only meaningful once the op is done.
func (op *Op) Err() error {
	return op.err
}

func (op *Op) Stamp() int64 {
	return op.stamp.Get()
}

func (op *Op) Retries() int {
	return op.retries
}

func (op *Op) Start() {
	assert.Must(op.GetStatus() == OpStatusInitialized)
	op.SetStatus(OpStatusPending)
	op.retries = 0
	op.err = nil
}

func (op *Op) Done(err error) {
	assert.Must(op.GetStatus() == OpStatusPending)
	op.err = err
	if err != nil {
		op.SetStatus(OpStatusFailed)
	} else {
		op.SetStatus(OpStatusSucceeded)
	}
	glog.V(glogLevelOp).Infof("Done op(%s), status: '%s'", op.String(), op.GetStatus().String())
}

// Reset makes a done op runnable again.
func (op *Op) Reset() {
	op.SetStatus(OpStatusInitialized)
	op.stamp.Set(0)
	op.retries = 0
	op.err = nil
}

type OpError struct {
	Err       error
	Retryable bool
}

func NewOpError(err error, retryable bool) *OpError {
	assert.Must(err != nil)
	return &OpError{
		Err:       err,
		Retryable: retryable,
	}
}

func (e *OpError) Error() string {
	return e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func (e *OpError) IsRetryable() bool {
	return e.Retryable
}

var ErrValueNotFound = fmt.Errorf("value not found")
