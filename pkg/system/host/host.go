//go:build linux

// Package host describes the machine the sampler runs on: a short summary
// for the start banner and the kernel's list of online NUMA nodes.
package host

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ja7ad/numastat/pkg/types"
)

// Summary is a best-effort description of the host. Fields that could not
// be determined are left zero.
type Summary struct {
	Hostname string
	Kernel   string
	CPUs     int
	Memory   types.Kilobytes
	// Nodes is nil when the online node list was unreadable.
	Nodes []int
}

// Summarize collects a Summary. It never fails; missing pieces stay empty.
func Summarize(sysRoot, procRoot string) Summary {
	s := Summary{CPUs: runtime.NumCPU()}
	s.Hostname, _ = os.Hostname()

	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		s.Kernel = unix.ByteSliceToString(uts.Release[:])
	}
	if kb, err := MemTotal(procRoot); err == nil {
		s.Memory = kb
	}
	if nodes, err := OnlineNodes(sysRoot); err == nil {
		s.Nodes = nodes
	}
	return s
}

// OnlineNodesPath returns <sysRoot>/devices/system/node/online.
func OnlineNodesPath(sysRoot string) string {
	return filepath.Join(sysRoot, "devices", "system", "node", "online")
}

// OnlineNodes reads the kernel's online node list.
func OnlineNodes(sysRoot string) ([]int, error) {
	b, err := os.ReadFile(OnlineNodesPath(sysRoot))
	if err != nil {
		return nil, err
	}
	return ParseNodeList(string(b))
}

// MaxNodes is the kernel's largest MAX_NUMNODES (NODES_SHIFT 10).
const MaxNodes = 1024

// ParseNodeList parses the kernel list format, e.g. "0-1,4,6-7", into
// sorted, de-duplicated ids.
func ParseNodeList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrNodeList)
	}

	seen := make(map[int]struct{})
	for _, part := range strings.Split(s, ",") {
		lo, hi, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(lo)
		if err != nil || a < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNodeList, part)
		}
		b := a
		if isRange {
			b, err = strconv.Atoi(hi)
			if err != nil || b < a {
				return nil, fmt.Errorf("%w: %q", ErrNodeList, part)
			}
		}
		if b >= MaxNodes {
			return nil, fmt.Errorf("%w: %q beyond %d nodes", ErrNodeList, part, MaxNodes)
		}
		for i := a; i <= b; i++ {
			seen[i] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}

// MemTotal reads MemTotal from <procRoot>/meminfo.
func MemTotal(procRoot string) (types.Kilobytes, error) {
	f, err := os.Open(filepath.Join(procRoot, "meminfo"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || fields[0] != "MemTotal:" {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMemInfo, sc.Text())
		}
		return types.Kilobytes(v), nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, ErrMemInfo
}

// CheckNodes reports whether node ids [0, nodes) are all online. It
// returns true when the online list is unknown.
func (s Summary) CheckNodes(nodes int) bool {
	if s.Nodes == nil {
		return true
	}
	online := make(map[int]bool, len(s.Nodes))
	for _, id := range s.Nodes {
		online[id] = true
	}
	for i := 0; i < nodes; i++ {
		if !online[i] {
			return false
		}
	}
	return true
}
