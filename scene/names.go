package scene

import "strconv"

// nameRegistry hands out unique object names. Requesting a base name that is
// already held yields base_N where N counts up until every holder of the base
// name has been released.
type nameRegistry struct {
	gen  uint64
	next map[string]int
	live map[string]int
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{
		gen:  1,
		next: make(map[string]int),
		live: make(map[string]int),
	}
}

// reserve returns the unique name for base and the registry generation the
// reservation belongs to.
func (r *nameRegistry) reserve(base string) (string, uint64) {
	name := base
	if n, ok := r.next[base]; ok {
		name = base + "_" + strconv.Itoa(n)
	}
	r.next[base]++
	r.live[base]++
	return name, r.gen
}

// release drops one holder of base. Reservations from before the last reset
// are ignored.
func (r *nameRegistry) release(base string, gen uint64) {
	if gen != r.gen {
		return
	}
	n, ok := r.live[base]
	if !ok {
		return
	}
	if n <= 1 {
		delete(r.live, base)
		delete(r.next, base)
		return
	}
	r.live[base] = n - 1
}

func (r *nameRegistry) reset() {
	r.gen++
	clear(r.next)
	clear(r.live)
}
