package numa

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
)

// nodeMeminfo is one parse of node<N>/meminfo. MemFree is only needed to
// derive the used amount and is never stored in NodeMemoryStats.
type nodeMeminfo struct {
	total, free         uint64
	haveTotal, haveFree bool
}

// scanNodeMeminfo extracts MemTotal and MemFree for node from rd.
//
// The sysfs format prefixes every key with the node id:
//
//	Node 0 MemTotal:       65842340 kB
//	Node 0 MemFree:        60016588 kB
//	Node 0 MemUsed:         5825752 kB
//
// A key matches when "Node <node> <Key>:" occurs anywhere in the line;
// the value is the first unsigned integer after it. The first occurrence
// of each key wins and scanning stops once both have been found.
func scanNodeMeminfo(rd io.Reader, node int, log logr.Logger) (nodeMeminfo, error) {
	var (
		mi       nodeMeminfo
		totalKey = fmt.Sprintf("Node %d MemTotal:", node)
		freeKey  = fmt.Sprintf("Node %d MemFree:", node)
		sc       = bufio.NewScanner(rd)
	)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case !mi.haveTotal && strings.Contains(line, totalKey):
			if v, ok := valueAfter(line, totalKey); ok {
				mi.total, mi.haveTotal = v, true
			} else {
				log.V(2).Info("skipping unparsable meminfo line", "line", line)
			}
		case !mi.haveFree && strings.Contains(line, freeKey):
			if v, ok := valueAfter(line, freeKey); ok {
				mi.free, mi.haveFree = v, true
			} else {
				log.V(2).Info("skipping unparsable meminfo line", "line", line)
			}
		}
		if mi.haveTotal && mi.haveFree {
			break
		}
	}
	return mi, sc.Err()
}

func valueAfter(line, key string) (uint64, bool) {
	i := strings.Index(line, key)
	fs := strings.Fields(line[i+len(key):])
	if len(fs) == 0 {
		return 0, false
	}
	v, err := strconv.ParseUint(fs[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// apply folds one parse into st. MemUsed is recomputed only when MemTotal
// and MemFree were both found in this parse, so the two columns always
// originate from the same read.
func (st *NodeMemoryStats) apply(mi nodeMeminfo, cycle uint64, p MissPolicy) {
	if mi.haveTotal {
		st.MemTotal.set(mi.total, cycle)
	} else {
		st.MemTotal.miss(p)
	}

	if mi.haveTotal && mi.haveFree {
		var used uint64
		if mi.free <= mi.total {
			used = mi.total - mi.free
		}
		st.MemUsed.set(used, cycle)
	} else {
		st.MemUsed.miss(p)
	}
}

// ReadNodeMemoryFile refreshes st from the node<N>/meminfo file at path.
func ReadNodeMemoryFile(path string, node int, st *NodeMemoryStats, cycle uint64, p MissPolicy, log logr.Logger) error {
	if node < 0 {
		return fmt.Errorf("%w: %d", ErrBadNode, node)
	}
	f, err := os.Open(path)
	if err != nil {
		st.apply(nodeMeminfo{}, cycle, p)
		return err
	}
	defer f.Close()

	mi, err := scanNodeMeminfo(f, node, log)
	st.apply(mi, cycle, p)
	if err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}
	return nil
}
