package sample

import (
	"time"

	"github.com/ja7ad/numastat/pkg/numa"
)

// Source refreshes stats buffers in place. *numa.Reader implements it.
type Source interface {
	ReadNodeMemory(node int, st *numa.NodeMemoryStats, cycle uint64)
	ReadNodeCounters(node int, st *numa.NodeCounterStats, cycle uint64)
	ReadSystemCounters(st *numa.SystemCounterStats, cycle uint64)
}

var _ Source = (*numa.Reader)(nil)

// Assemble refreshes r from src for the given cycle. Nodes are read in
// order, memory before counters for each node, and the global counters
// last. The timestamp is taken once, after all reads.
func Assemble(r *Row, src Source, cycle uint64, now func() time.Time) {
	for i := range r.Memory {
		src.ReadNodeMemory(i, &r.Memory[i], cycle)
		src.ReadNodeCounters(i, &r.Counters[i], cycle)
	}
	src.ReadSystemCounters(&r.System, cycle)
	r.Time = now()
}
