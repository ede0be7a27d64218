package numa

import (
	"fmt"
	"path/filepath"

	"github.com/go-logr/logr"
)

const (
	// DefaultSysRoot is where sysfs is mounted on a normal host.
	DefaultSysRoot = "/sys"
	// DefaultProcRoot is where procfs is mounted on a normal host.
	DefaultProcRoot = "/proc"
)

// Reader resolves the per-node and global sources below configurable
// sysfs/procfs roots and refreshes stats buffers from them. A Reader holds
// no open files between calls.
type Reader struct {
	sysRoot  string
	procRoot string
	policy   MissPolicy
	log      logr.Logger
}

// NewReader returns a Reader rooted at sysRoot and procRoot. Empty roots
// fall back to DefaultSysRoot and DefaultProcRoot.
func NewReader(sysRoot, procRoot string, policy MissPolicy, log logr.Logger) *Reader {
	if sysRoot == "" {
		sysRoot = DefaultSysRoot
	}
	if procRoot == "" {
		procRoot = DefaultProcRoot
	}
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Reader{
		sysRoot:  sysRoot,
		procRoot: procRoot,
		policy:   policy,
		log:      log,
	}
}

// Policy returns the miss policy applied by r.
func (r *Reader) Policy() MissPolicy { return r.policy }

// NodeMeminfoPath returns <sys>/devices/system/node/node<N>/meminfo.
func (r *Reader) NodeMeminfoPath(node int) string {
	return filepath.Join(r.sysRoot, "devices", "system", "node", fmt.Sprintf("node%d", node), "meminfo")
}

// NodeVmstatPath returns <sys>/devices/system/node/node<N>/vmstat.
func (r *Reader) NodeVmstatPath(node int) string {
	return filepath.Join(r.sysRoot, "devices", "system", "node", fmt.Sprintf("node%d", node), "vmstat")
}

// VmstatPath returns <proc>/vmstat.
func (r *Reader) VmstatPath() string {
	return filepath.Join(r.procRoot, "vmstat")
}

// ReadNodeMemory refreshes st for node. Source errors are logged and
// otherwise ignored: one missing pseudo-file must not stop sampling.
func (r *Reader) ReadNodeMemory(node int, st *NodeMemoryStats, cycle uint64) {
	path := r.NodeMeminfoPath(node)
	if err := ReadNodeMemoryFile(path, node, st, cycle, r.policy, r.log); err != nil {
		r.log.V(1).Info("node meminfo unavailable", "node", node, "path", path, "error", err.Error())
	}
}

// ReadNodeCounters refreshes st for node.
func (r *Reader) ReadNodeCounters(node int, st *NodeCounterStats, cycle uint64) {
	path := r.NodeVmstatPath(node)
	if err := ReadNodeCountersFile(path, st, cycle, r.policy, r.log); err != nil {
		r.log.V(1).Info("node vmstat unavailable", "node", node, "path", path, "error", err.Error())
	}
}

// ReadSystemCounters refreshes st from the global vmstat.
func (r *Reader) ReadSystemCounters(st *SystemCounterStats, cycle uint64) {
	path := r.VmstatPath()
	if err := ReadSystemCountersFile(path, st, cycle, r.policy, r.log); err != nil {
		r.log.V(1).Info("vmstat unavailable", "path", path, "error", err.Error())
	}
}
