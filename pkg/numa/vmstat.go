package numa

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-logr/logr"
)

// scanStat fills dst[i] from the first "keys[i] value" pair found in rd.
// Scanning stops as soon as every key has been matched once. The returned
// slice reports which keys were matched.
//
// The input is a stream of whitespace separated "key value" pairs, the
// format shared by /proc/vmstat and /sys/devices/system/node/node<N>/vmstat.
// Line breaks carry no meaning: several pairs may share a line and a value
// may follow its key on the next line. Unknown keys are skipped, and so is
// a value that is not an unsigned integer.
func scanStat(rd io.Reader, keys []string, dst []*Reading, cycle uint64, log logr.Logger) ([]bool, error) {
	found := make([]bool, len(keys))
	left := len(keys)
	pending := -1 // index of the key whose value is the next token

	sc := bufio.NewScanner(rd)
	sc.Split(bufio.ScanWords)
	for left > 0 && sc.Scan() {
		tok := sc.Text()
		if pending >= 0 {
			i := pending
			pending = -1
			v, err := strconv.ParseUint(tok, 10, 64)
			if err == nil {
				dst[i].set(v, cycle)
				found[i] = true
				left--
				continue
			}
			log.V(2).Info("skipping unparsable counter", "key", keys[i], "value", tok)
			// tok may itself be the next key
		}
		for i, k := range keys {
			if !found[i] && tok == k {
				pending = i
				break
			}
		}
	}
	return found, sc.Err()
}

// readStatFile opens path and runs scanStat over it, applying p to every
// reading that was not refreshed. If path cannot be opened every reading
// is treated as missed.
func readStatFile(path string, keys []string, dst []*Reading, cycle uint64, p MissPolicy, log logr.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		for _, r := range dst {
			r.miss(p)
		}
		return err
	}
	defer f.Close()

	found, err := scanStat(f, keys, dst, cycle, log)
	for i, ok := range found {
		if !ok {
			dst[i].miss(p)
		}
	}
	if err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}
	return nil
}

// ReadNodeCountersFile refreshes st from a node<N>/vmstat style file.
// Counters whose key is absent follow p; an open error leaves st subject
// to p as a whole and is returned for the caller to log.
func ReadNodeCountersFile(path string, st *NodeCounterStats, cycle uint64, p MissPolicy, log logr.Logger) error {
	return readStatFile(path, NodeCounterKeys, st.Readings(), cycle, p, log)
}

// ReadSystemCountersFile refreshes st from a /proc/vmstat style file.
func ReadSystemCountersFile(path string, st *SystemCounterStats, cycle uint64, p MissPolicy, log logr.Logger) error {
	return readStatFile(path, SystemCounterKeys, st.Readings(), cycle, p, log)
}
