package clist

import (
	"fmt"
	"sort"
	"strconv"
)

func Permutate(ops []*Op) chan []*Op {
	// Must be empty here
	ch := make(chan []*Op)
	go func() {
		if len(ops) > 0 {
			permutate(ops, 0, ch)
		}
		close(ch)
	}()
	return ch
}

func permutate(ops []*Op, idx int, ch chan []*Op) {
	l := len(ops)
	if idx == l-1 {
		ch <- ops
		// Wait till ops is consumed
		ch <- nil
		return
	}
	for j := idx; j < l; j++ {
		swap(ops, idx, j)
		permutate(ops, idx+1, ch)
		swap(ops, idx, j)
	}
}

func swap(ops []*Op, i, j int) {
	ops[i], ops[j] = ops[j], ops[i]
}

func SerializeOps(ops []*Op) string {
	bytes := make([]byte, 0, 100)
	for i, op := range ops {
		if i >= 1 {
			bytes = append(bytes, ", "...)
		}
		bytes = append(bytes, op.String()...)
	}
	return string(bytes)
}

func SerializeValues(values []int64) string {
	bytes := make([]byte, 0, 100)
	bytes = append(bytes, '[')
	for i, v := range values {
		if i >= 1 {
			bytes = append(bytes, ' ')
		}
		bytes = strconv.AppendInt(bytes, v, 10)
	}
	bytes = append(bytes, ']')
	return string(bytes)
}

func ResetOps(ops []*Op) {
	for _, op := range ops {
		op.Reset()
	}
}

// GetAllPossibleSerialResults replays every order of ops on a reference
// list seeded with initial. ops itself is left in its original order.
func GetAllPossibleSerialResults(initial []int64, ops []*Op) ([][]int64, error) {
	permuted := append([]*Op(nil), ops...)
	var results [][]int64
	for oneOrderOps := range Permutate(permuted) {
		if oneOrderOps == nil {
			continue
		}
		values, err := ReplaySerially(initial, oneOrderOps)
		if err != nil {
			return nil, fmt.Errorf("replay failed for order %s, detail: '%s'", SerializeOps(oneOrderOps), err.Error())
		}
		results = append(results, values)
	}
	ResetOps(ops)
	return results, nil
}

func areEqualValues(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func ContainsResult(results [][]int64, values []int64) bool {
	for _, r := range results {
		if areEqualValues(r, values) {
			return true
		}
	}
	return false
}

// ExpectedValues derives the final multiset from the initial values and the
// recorded status of each op, sorted ascending.
func ExpectedValues(initial []int64, ops []*Op) []int64 {
	counts := make(map[int64]int, len(initial)+len(ops))
	for _, v := range initial {
		counts[v]++
	}
	for _, op := range ops {
		if !op.GetStatus().Succeeded() {
			continue
		}
		if op.typ.IsInsert() {
			counts[op.val]++
		} else {
			counts[op.val]--
		}
	}
	expected := make([]int64, 0, len(counts))
	for v, c := range counts {
		for i := 0; i < c; i++ {
			expected = append(expected, v)
		}
	}
	sort.Slice(expected, func(i, j int) bool { return expected[i] < expected[j] })
	return expected
}

// CheckExactlyOnce reports whether values holds exactly the expected
// multiset.
func CheckExactlyOnce(values, expected []int64) error {
	got := append([]int64(nil), values...)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if len(got) != len(expected) {
		return fmt.Errorf("expect %d values, got %d", len(expected), len(got))
	}
	for i := range got {
		if got[i] != expected[i] {
			return fmt.Errorf("value mismatch at sorted position %d: expect %d, got %d", i, expected[i], got[i])
		}
	}
	return nil
}
