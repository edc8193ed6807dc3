package clist

import "math/rand"

// GenerateOps builds a workload for cfg: the initial values the store is
// seeded with, and Threads*OpsPerThread ops drawn according to cfg.Mix.
// Inserted values never repeat; erase and insert_before targets are drawn
// from every value the workload knows, so some of them miss at run time.
func GenerateOps(cfg *WorkloadConfig, rng *rand.Rand) (initial []int64, ops []*Op) {
	initial = make([]int64, cfg.InitialSize)
	for i := range initial {
		initial[i] = int64(i)
	}
	known := append([]int64(nil), initial...)
	next := int64(cfg.InitialSize)

	total := cfg.Mix.total()
	n := cfg.Threads * cfg.OpsPerThread
	ops = make([]*Op, 0, n)
	for i := 0; i < n; i++ {
		r := rng.Intn(total)
		switch {
		case r < cfg.Mix.PushFront:
			ops = append(ops, PushFrontOp(next))
		case r < cfg.Mix.PushFront+cfg.Mix.PushBack || len(known) == 0:
			ops = append(ops, PushBackOp(next))
		case r < cfg.Mix.PushFront+cfg.Mix.PushBack+cfg.Mix.InsertBefore:
			ops = append(ops, InsertBeforeOp(known[rng.Intn(len(known))], next))
		default:
			ops = append(ops, EraseOp(known[rng.Intn(len(known))]))
			continue
		}
		known = append(known, next)
		next++
	}
	return initial, ops
}
