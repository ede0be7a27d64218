// Package nodemask builds NUMA node-affinity bit-sets and hands them to a
// memory policy system call.
//
// Node i lives in word i/64 at bit offset i%64, the layout the kernel
// expects for an unsigned long nodemask on 64-bit platforms.
package nodemask

import (
	"fmt"
	"strconv"
	"strings"
)

const wordBits = 64

// Mask is a node bit-set.
type Mask []uint64

// New returns an empty mask with room for n nodes.
func New(n int) Mask {
	if n <= 0 {
		return Mask{}
	}
	return make(Mask, (n+wordBits-1)/wordBits)
}

// All returns a mask with nodes [0, n) set.
func All(n int) Mask {
	m := New(n)
	for i := 0; i < n; i++ {
		m.Set(i)
	}
	return m
}

// Set marks node i, growing the mask if needed. Negative ids are ignored.
func (m *Mask) Set(i int) {
	if i < 0 {
		return
	}
	w := i / wordBits
	for len(*m) <= w {
		*m = append(*m, 0)
	}
	(*m)[w] |= 1 << uint(i%wordBits)
}

// Clear unmarks node i.
func (m Mask) Clear(i int) {
	if i < 0 || i/wordBits >= len(m) {
		return
	}
	m[i/wordBits] &^= 1 << uint(i%wordBits)
}

// IsSet reports whether node i is marked.
func (m Mask) IsSet(i int) bool {
	if i < 0 || i/wordBits >= len(m) {
		return false
	}
	return m[i/wordBits]&(1<<uint(i%wordBits)) != 0
}

// Len returns the number of node ids the mask can hold.
func (m Mask) Len() int { return len(m) * wordBits }

// Nodes returns the marked node ids in ascending order.
func (m Mask) Nodes() []int {
	var out []int
	for i := 0; i < m.Len(); i++ {
		if m.IsSet(i) {
			out = append(out, i)
		}
	}
	return out
}

// String renders the mask in the kernel list format, e.g. "0-3,6".
func (m Mask) String() string {
	nodes := m.Nodes()
	var b strings.Builder
	for i := 0; i < len(nodes); {
		j := i
		for j+1 < len(nodes) && nodes[j+1] == nodes[j]+1 {
			j++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(nodes[i]))
		if j > i {
			fmt.Fprintf(&b, "-%d", nodes[j])
		}
		i = j + 1
	}
	return b.String()
}
