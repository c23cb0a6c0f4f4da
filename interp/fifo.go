package interp

import "github.com/aby-mpc/bytecode-interpreter/circuit"

// HandleFifo carries caller handles into a callee in positional order
// during CALL/return rewiring (§3 Rewire queues, §4.6).
type HandleFifo struct {
	items []circuit.Handle
}

func (q *HandleFifo) PushAll(hs []circuit.Handle) { q.items = append(q.items, hs...) }

func (q *HandleFifo) Pop() (circuit.Handle, bool) {
	if len(q.items) == 0 {
		return circuit.Handle{}, false
	}
	h := q.items[0]
	q.items = q.items[1:]
	return h, true
}

func (q *HandleFifo) Empty() bool { return len(q.items) == 0 }
func (q *HandleFifo) Len() int    { return len(q.items) }

// NameFifo carries caller wire names to be bound to callee return handles
// during CALL/return rewiring (§3, §4.6).
type NameFifo struct {
	items []string
}

func (q *NameFifo) Pop() (string, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	n := q.items[0]
	q.items = q.items[1:]
	return n, true
}

func (q *NameFifo) Empty() bool { return len(q.items) == 0 }
func (q *NameFifo) Len() int    { return len(q.items) }
