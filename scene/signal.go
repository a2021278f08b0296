package scene

import (
	"slices"
	"sort"
)

type subscription[T any] struct {
	fn       func(T)
	priority Priority
	seq      uint64
	owner    *Procs
	blocked  bool
	active   bool
}

func (s *subscription[T]) live() bool {
	return s.active && !s.blocked && (s.owner == nil || !s.owner.closed)
}

// bus is the ordered subscriber list of a single phase. Subscribers are kept
// sorted by (priority, seq) so iteration order is the dispatch order. While an
// emit is in progress the list is copied on write, so callbacks may connect or
// disconnect freely.
type bus[T any] struct {
	subs     []*subscription[T]
	seq      uint64
	emitting int
}

func (b *bus[T]) connect(fn func(T), priority Priority, owner *Procs) *subscription[T] {
	b.seq++
	s := &subscription[T]{
		fn:       fn,
		priority: priority,
		seq:      b.seq,
		owner:    owner,
		active:   true,
	}

	i := sort.Search(len(b.subs), func(i int) bool {
		return b.subs[i].priority > priority
	})

	if b.emitting > 0 {
		b.subs = slices.Clone(b.subs)
	}
	b.subs = slices.Insert(b.subs, i, s)
	return s
}

func (b *bus[T]) disconnect(s *subscription[T]) {
	if s == nil || !s.active {
		return
	}
	s.active = false

	i := sort.Search(len(b.subs), func(i int) bool {
		o := b.subs[i]
		return o.priority > s.priority || (o.priority == s.priority && o.seq >= s.seq)
	})
	if i >= len(b.subs) || b.subs[i] != s {
		return
	}

	if b.emitting > 0 {
		b.subs = slices.Clone(b.subs)
	}
	b.subs = slices.Delete(b.subs, i, i+1)
}

func (b *bus[T]) emit(v T) {
	subs := b.subs
	b.emitting++
	defer func() { b.emitting-- }()

	for _, s := range subs {
		if s.live() {
			s.fn(v)
		}
	}
}

func (b *bus[T]) len() int { return len(b.subs) }

// buses holds one subscriber list per phase. Only the delta phases use the
// float list; the others use the void list.
type buses struct {
	delta [timingCount]bus[float32]
	void  [timingCount]bus[struct{}]
}

func (b *buses) fire(t Timing, dt float32) {
	if t.HasDelta() {
		b.delta[t].emit(dt)
		return
	}
	b.void[t].emit(struct{}{})
}

func (b *buses) subscribers(t Timing) int {
	if t.HasDelta() {
		return b.delta[t].len()
	}
	return b.void[t].len()
}
