package clist

import (
	"math/rand"
	"testing"
)

func TestGenerateOps(t *testing.T) {
	cfg := DefaultWorkloadConfig()
	cfg.Threads = 4
	cfg.OpsPerThread = 250
	cfg.InitialSize = 10

	initial, ops := GenerateOps(cfg, rand.New(rand.NewSource(3)))
	if len(initial) != 10 || len(ops) != 1000 {
		t.Fatalf("expect 10 initial and 1000 ops, got %d and %d", len(initial), len(ops))
	}

	known := make(map[int64]bool)
	for _, v := range initial {
		known[v] = true
	}
	counts := make(map[OpType]int)
	for _, op := range ops {
		counts[op.Type()]++
		switch op.Type() {
		case OpErase:
			if !known[op.Value()] {
				t.Fatalf("op(%s) targets a value never inserted before it", op.String())
			}
		case OpInsertBefore:
			if !known[op.anchor] {
				t.Fatalf("op(%s) anchors on a value never inserted before it", op.String())
			}
			fallthrough
		default:
			if known[op.Value()] {
				t.Fatalf("op(%s) inserts a duplicated value", op.String())
			}
			known[op.Value()] = true
		}
	}
	for _, typ := range []OpType{OpPushFront, OpPushBack, OpInsertBefore, OpErase} {
		if counts[typ] == 0 {
			t.Errorf("no %s op generated", typ)
		}
	}
}

func TestGenerateOps_Deterministic(t *testing.T) {
	cfg := DefaultWorkloadConfig()
	cfg.Threads, cfg.OpsPerThread = 2, 100
	_, a := GenerateOps(cfg, rand.New(rand.NewSource(cfg.Seed)))
	_, b := GenerateOps(cfg, rand.New(rand.NewSource(cfg.Seed)))
	for i := range a {
		if a[i].Type() != b[i].Type() || a[i].Value() != b[i].Value() || a[i].anchor != b[i].anchor {
			t.Fatalf("op %d differs: %s vs %s", i, a[i].String(), b[i].String())
		}
	}
}
