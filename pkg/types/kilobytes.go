package types

import "fmt"

// Kilobytes is a memory quantity in kB (1024 bytes), the unit used by
// the kernel's meminfo files.
type Kilobytes uint64

// Bytes converts k to bytes.
func (k Kilobytes) Bytes() uint64 { return uint64(k) * 1024 }

// Humanized returns k with an automatic unit (kB, MB, GB, TB).
func (k Kilobytes) Humanized() string {
	v := float64(k)
	switch {
	case k >= 1<<30:
		return fmt.Sprintf("%.2f TB", v/(1<<30))
	case k >= 1<<20:
		return fmt.Sprintf("%.2f GB", v/(1<<20))
	case k >= 1<<10:
		return fmt.Sprintf("%.2f MB", v/(1<<10))
	default:
		return fmt.Sprintf("%d kB", k)
	}
}

// Percent returns used as a percentage of k, or zero when k is zero.
func (k Kilobytes) Percent(used Kilobytes) float64 {
	if k == 0 {
		return 0
	}
	return float64(used) / float64(k) * 100
}
