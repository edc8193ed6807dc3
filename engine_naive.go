package clist

import (
	"context"
	"fmt"
)

// EngineNaive executes ops one by one in slice order.
type EngineNaive struct {
	// FailFast stops at the first failed op instead of recording it.
	FailFast bool
}

func (te *EngineNaive) ExecuteOps(ctx context.Context, s Store, ops []*Op) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		op.Start()
		err := executeOp(s, op)
		op.Done(err)
		if err != nil && te.FailFast {
			return fmt.Errorf("op(%s) failed, detail: '%s'", op.String(), err.Error())
		}
	}
	return nil
}

// ReplaySerially runs ops in order on a fresh reference store seeded with
// initial and returns the final values.
func ReplaySerially(initial []int64, ops []*Op) ([]int64, error) {
	s := NewReferenceStore()
	for _, v := range initial {
		_ = s.PushBack(v)
	}
	for _, op := range ops {
		op.Reset()
	}
	var ten EngineNaive
	if err := ten.ExecuteOps(context.Background(), s, ops); err != nil {
		return nil, err
	}
	return s.Values(), nil
}
