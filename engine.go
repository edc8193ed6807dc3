package clist

import (
	"context"
	"fmt"
)

type Engine interface {
	ExecuteOps(ctx context.Context, s Store, ops []*Op) error
}

func executeOp(s Store, op *Op) error {
	switch op.typ {
	case OpPushFront:
		return s.PushFront(op.val)
	case OpPushBack:
		return s.PushBack(op.val)
	case OpInsertBefore:
		return s.InsertBefore(op.anchor, op.val)
	case OpErase:
		return s.Erase(op.val)
	default:
		return NewOpError(fmt.Errorf("unknown op type %d", op.typ), false)
	}
}
