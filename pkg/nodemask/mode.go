package nodemask

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is a memory policy mode as defined in linux/mempolicy.h.
type Mode int

const (
	ModeDefault            Mode = 0
	ModePreferred          Mode = 1
	ModeBind               Mode = 2
	ModeInterleave         Mode = 3
	ModeLocal              Mode = 4
	ModePreferredMany      Mode = 5
	ModeWeightedInterleave Mode = 6
)

var modeNames = map[string]Mode{
	"default":             ModeDefault,
	"preferred":           ModePreferred,
	"bind":                ModeBind,
	"interleave":          ModeInterleave,
	"local":               ModeLocal,
	"preferred-many":      ModePreferredMany,
	"weighted-interleave": ModeWeightedInterleave,
}

func (m Mode) String() string {
	for name, v := range modeNames {
		if v == m {
			return name
		}
	}
	return strconv.Itoa(int(m))
}

// ParseMode accepts a mode name or a non-negative integer. Integers are
// passed through unchecked so custom kernels can define their own modes.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeNames[strings.ToLower(s)]; ok {
		return m, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMode, s)
	}
	return Mode(v), nil
}
