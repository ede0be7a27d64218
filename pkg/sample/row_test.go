package sample

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ja7ad/numastat/pkg/numa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource fills every reading with a value derived from its position and
// records the call order.
type fakeSource struct {
	calls []string
}

func (f *fakeSource) ReadNodeMemory(node int, st *numa.NodeMemoryStats, cycle uint64) {
	f.calls = append(f.calls, fmt.Sprintf("mem%d", node))
	st.MemTotal = numa.Reading{Value: uint64(1000 * (node + 1)), Cycle: cycle}
	st.MemUsed = numa.Reading{Value: uint64(100 * (node + 1)), Cycle: cycle}
}

func (f *fakeSource) ReadNodeCounters(node int, st *numa.NodeCounterStats, cycle uint64) {
	f.calls = append(f.calls, fmt.Sprintf("cnt%d", node))
	for i, r := range st.Readings() {
		*r = numa.Reading{Value: uint64(10*node + i), Cycle: cycle}
	}
}

func (f *fakeSource) ReadSystemCounters(st *numa.SystemCounterStats, cycle uint64) {
	f.calls = append(f.calls, "sys")
	for i, r := range st.Readings() {
		*r = numa.Reading{Value: uint64(900 + i), Cycle: cycle}
	}
}

func TestColumns(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8} {
		assert.Equal(t, 1+9*n+8, Columns(n))
		assert.Len(t, Header(n), Columns(n), "nodes=%d", n)
		assert.Len(t, NewRow(n).Record(), Columns(n), "nodes=%d", n)
	}
}

func TestHeader_TwoNodes(t *testing.T) {
	want := "timestamp," +
		"node_0_mem_total,node_0_mem_used,node_1_mem_total,node_1_mem_used," +
		"node_0_nr_free_pages,node_0_numa_hit,node_0_numa_miss,node_0_numa_foreign,node_0_numa_interleave,node_0_numa_local,node_0_numa_other," +
		"node_1_nr_free_pages,node_1_numa_hit,node_1_numa_miss,node_1_numa_foreign,node_1_numa_interleave,node_1_numa_local,node_1_numa_other," +
		"numa_pte_updates,numa_huge_pte_updates,numa_pages_migrated,pgmigrate_success,pgmigrate_fail,thp_migration_success,thp_migration_fail,thp_migration_split"
	assert.Equal(t, want, strings.Join(Header(2), ","))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "1700000000.000000042", FormatTimestamp(time.Unix(1700000000, 42)))
	assert.Equal(t, "1700000000.123456789", FormatTimestamp(time.Unix(1700000000, 123456789)))
	assert.Equal(t, "0.000000000", FormatTimestamp(time.Unix(0, 0)))
}

func TestAssemble_OrderAndRecord(t *testing.T) {
	src := &fakeSource{}
	row := NewRow(2)
	at := time.Unix(1700000000, 5)

	Assemble(row, src, 1, func() time.Time { return at })

	assert.Equal(t, []string{"mem0", "cnt0", "mem1", "cnt1", "sys"}, src.calls)

	rec := row.Record()
	require.Len(t, rec, Columns(2))
	assert.Equal(t, []string{
		"1700000000.000000005",
		"1000", "100", "2000", "200",
		"0", "1", "2", "3", "4", "5", "6",
		"10", "11", "12", "13", "14", "15", "16",
		"900", "901", "902", "903", "904", "905", "906", "907",
	}, rec)
}

func TestAssemble_ReusesBuffers(t *testing.T) {
	row := NewRow(3)
	mem := &row.Memory[0]
	Assemble(row, &fakeSource{}, 1, time.Now)
	Assemble(row, &fakeSource{}, 2, time.Now)
	assert.Same(t, mem, &row.Memory[0])
	assert.Equal(t, uint64(2), row.Memory[2].MemTotal.Cycle)
	assert.Equal(t, 3, row.Nodes())
}

func TestRow_Stale(t *testing.T) {
	row := NewRow(2)
	assert.Equal(t, 2*9+8, row.Stale(1), "never-read readings are stale")

	Assemble(row, &fakeSource{}, 1, time.Now)
	assert.Equal(t, 0, row.Stale(1))
	assert.Equal(t, 2*9+8, row.Stale(2))

	row.Memory[1].MemUsed = numa.Reading{Value: 5, Cycle: 2}
	assert.Equal(t, 2*9+8-1, row.Stale(2))
}
