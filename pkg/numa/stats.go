package numa

// NodeMemoryStats holds the memory totals of one NUMA node, in kB as the
// kernel reports them.
type NodeMemoryStats struct {
	MemTotal Reading
	MemUsed  Reading // MemTotal - MemFree, computed at read time
}

// NodeCounterStats holds the allocation counters of one NUMA node from
// node<N>/vmstat. They are point-in-time snapshots; no deltas are taken.
type NodeCounterStats struct {
	FreePages  Reading
	Hit        Reading
	Miss       Reading
	Foreign    Reading
	Interleave Reading
	Local      Reading
	Other      Reading
}

// SystemCounterStats holds the system-wide page migration counters from
// /proc/vmstat.
type SystemCounterStats struct {
	PteUpdates          Reading
	HugePteUpdates      Reading
	PagesMigrated       Reading
	MigrateSuccess      Reading
	MigrateFail         Reading
	ThpMigrationSuccess Reading
	ThpMigrationFail    Reading
	ThpMigrationSplit   Reading
}

// NodeCounterKeys lists the node<N>/vmstat keys in column order.
var NodeCounterKeys = []string{
	"nr_free_pages",
	"numa_hit",
	"numa_miss",
	"numa_foreign",
	"numa_interleave",
	"numa_local",
	"numa_other",
}

// SystemCounterKeys lists the /proc/vmstat keys in column order.
var SystemCounterKeys = []string{
	"numa_pte_updates",
	"numa_huge_pte_updates",
	"numa_pages_migrated",
	"pgmigrate_success",
	"pgmigrate_fail",
	"thp_migration_success",
	"thp_migration_fail",
	"thp_migration_split",
}

// Readings returns the counters in NodeCounterKeys order.
func (s *NodeCounterStats) Readings() []*Reading {
	return []*Reading{
		&s.FreePages, &s.Hit, &s.Miss, &s.Foreign,
		&s.Interleave, &s.Local, &s.Other,
	}
}

// Readings returns the counters in SystemCounterKeys order.
func (s *SystemCounterStats) Readings() []*Reading {
	return []*Reading{
		&s.PteUpdates, &s.HugePteUpdates, &s.PagesMigrated,
		&s.MigrateSuccess, &s.MigrateFail,
		&s.ThpMigrationSuccess, &s.ThpMigrationFail, &s.ThpMigrationSplit,
	}
}
