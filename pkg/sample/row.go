// Package sample assembles one sampling cycle into an ordered CSV record.
package sample

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ja7ad/numastat/pkg/numa"
)

const (
	memColumnsPerNode     = 2
	counterColumnsPerNode = 7
	systemColumns         = 8
)

// Row is one cycle's worth of NUMA state. Memory and Counters always have
// one element per node, in node order.
type Row struct {
	Time     time.Time
	Memory   []numa.NodeMemoryStats
	Counters []numa.NodeCounterStats
	System   numa.SystemCounterStats
}

// NewRow allocates the per-node buffers for nodes nodes. The buffers are
// meant to be refreshed in place for the whole run.
func NewRow(nodes int) *Row {
	return &Row{
		Memory:   make([]numa.NodeMemoryStats, nodes),
		Counters: make([]numa.NodeCounterStats, nodes),
	}
}

// Nodes returns the node count the row was built for.
func (r *Row) Nodes() int { return len(r.Memory) }

// Columns returns the number of CSV columns for nodes nodes.
func Columns(nodes int) int {
	return 1 + (memColumnsPerNode+counterColumnsPerNode)*nodes + systemColumns
}

// Header returns the CSV header for nodes nodes.
func Header(nodes int) []string {
	h := make([]string, 0, Columns(nodes))
	h = append(h, "timestamp")
	for i := 0; i < nodes; i++ {
		h = append(h,
			fmt.Sprintf("node_%d_mem_total", i),
			fmt.Sprintf("node_%d_mem_used", i),
		)
	}
	for i := 0; i < nodes; i++ {
		for _, k := range numa.NodeCounterKeys {
			h = append(h, fmt.Sprintf("node_%d_%s", i, k))
		}
	}
	return append(h, numa.SystemCounterKeys...)
}

// FormatTimestamp renders t as "<unix seconds>.<9 digit nanoseconds>".
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%d.%09d", t.Unix(), t.Nanosecond())
}

// Record serializes r in Header order.
func (r *Row) Record() []string {
	rec := make([]string, 0, Columns(r.Nodes()))
	rec = append(rec, FormatTimestamp(r.Time))
	for i := range r.Memory {
		rec = append(rec, u64(r.Memory[i].MemTotal), u64(r.Memory[i].MemUsed))
	}
	for i := range r.Counters {
		for _, v := range r.Counters[i].Readings() {
			rec = append(rec, u64(*v))
		}
	}
	for _, v := range r.System.Readings() {
		rec = append(rec, u64(*v))
	}
	return rec
}

func u64(v numa.Reading) string {
	return strconv.FormatUint(v.Value, 10)
}

// Stale counts the readings in r that were not refreshed in cycle.
func (r *Row) Stale(cycle uint64) int {
	n := 0
	for i := range r.Memory {
		if r.Memory[i].MemTotal.StaleAt(cycle) {
			n++
		}
		if r.Memory[i].MemUsed.StaleAt(cycle) {
			n++
		}
	}
	for i := range r.Counters {
		for _, v := range r.Counters[i].Readings() {
			if v.StaleAt(cycle) {
				n++
			}
		}
	}
	for _, v := range r.System.Readings() {
		if v.StaleAt(cycle) {
			n++
		}
	}
	return n
}
