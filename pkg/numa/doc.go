// Package numa reads NUMA memory and page-migration counters from the
// text pseudo-files the Linux kernel exposes.
//
// Sources
//
//   - <sys>/devices/system/node/node<N>/meminfo: "Node N Key: value kB"
//     lines. MemTotal and MemFree are parsed; used memory is derived as
//     MemTotal - MemFree.
//   - <sys>/devices/system/node/node<N>/vmstat: "key value" lines, of
//     which nr_free_pages and the numa_* allocation counters are kept.
//   - <proc>/vmstat: "key value" lines, of which the NUMA balancing and
//     page migration counters are kept.
//
// # Stale values
//
// Stats buffers are allocated once by the caller and refreshed in place
// every cycle. Each counter is a Reading that records the cycle in which
// it was last read. When a key is missing, or the whole source cannot be
// opened, the MissPolicy decides the outcome:
//
//   - CarryForward keeps the previous value (the reading becomes stale).
//   - ResetOnMiss returns the reading to zero / never-read.
//
// Before the first successful read every Reading is zero.
//
// # Matching
//
// Each recognized key is consumed at most once per read; the first
// occurrence wins and later duplicates are ignored. Scanning stops once
// all keys of a source have been matched. Unrecognized keys and
// unparsable values are skipped.
//
// Example
//
//	r := numa.NewReader("/sys", "/proc", numa.CarryForward, logr.Discard())
//	mem := make([]numa.NodeMemoryStats, nodes)
//	for cycle := uint64(1); ; cycle++ {
//	    for n := range mem {
//	        r.ReadNodeMemory(n, &mem[n], cycle)
//	    }
//	    ...
//	}
package numa
