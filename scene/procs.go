package scene

import (
	"fmt"
	"iter"
)

// Slot is a named callback registration bound to one phase and priority.
// A dirty slot has its subscription rebuilt before the phase fires again.
type Slot[T any] struct {
	name     string
	timing   Timing
	priority Priority
	fn       func(T)
	bus      *bus[T]
	sub      *subscription[T]
	dirty    bool
}

func (s *Slot[T]) Name() string       { return s.name }
func (s *Slot[T]) Timing() Timing     { return s.timing }
func (s *Slot[T]) Priority() Priority { return s.priority }
func (s *Slot[T]) Dirty() bool        { return s.dirty }

// Bound reports whether the slot currently has a live subscription.
func (s *Slot[T]) Bound() bool { return s.sub != nil && s.sub.active }

func (s *Slot[T]) bind(b *bus[T], owner *Procs) {
	s.unbind()
	s.dirty = false
	if s.fn == nil {
		return
	}
	s.bus = b
	s.sub = b.connect(s.fn, s.priority, owner)
	s.sub.blocked = owner.blockedFor(s.timing)
}

func (s *Slot[T]) unbind() {
	if s.sub == nil {
		return
	}
	s.bus.disconnect(s.sub)
	s.sub = nil
	s.bus = nil
}

func (s *Slot[T]) info() ProcInfo {
	return ProcInfo{
		Name:     s.name,
		Timing:   s.timing,
		Priority: s.priority,
		Bound:    s.fn != nil,
	}
}

// ProcInfo describes a slot without exposing its callback.
type ProcInfo struct {
	Name     string
	Timing   Timing
	Priority Priority
	Bound    bool
}

// ProcOwner is anything carrying a process slot registry: every Object and
// every Component.
type ProcOwner interface {
	procs() *Procs
}

// Procs is the process slot registry embedded in Object and ComponentBase.
// Delta phases (Update, LateUpdate) and void phases keep separate namespaces.
type Procs struct {
	delta      map[string]*Slot[float32]
	void       map[string]*Slot[struct{}]
	deltaOrder []*Slot[float32]
	voidOrder  []*Slot[struct{}]

	world *World

	held          bool
	updateBlocked bool
	drawBlocked   bool
	closed        bool
}

func (p *Procs) procs() *Procs { return p }

// SetProc installs fn under name at a void phase. An existing slot with the
// same name is retargeted to the new timing and priority.
func (p *Procs) SetProc(name string, fn func(), t Timing, priority Priority) *Slot[struct{}] {
	if t.HasDelta() || !t.Valid() {
		p.violation("SetProc %q: %s requires SetUpdateProc", name, t)
		return nil
	}
	s := p.voidSlot(name, t)
	s.timing = t
	s.priority = priority
	s.fn = nil
	if fn != nil {
		s.fn = func(struct{}) { fn() }
	}
	markDirtySlot(p, s)
	return s
}

// SetUpdateProc installs fn under name at a delta phase.
func (p *Procs) SetUpdateProc(name string, fn func(dt float32), t Timing, priority Priority) *Slot[float32] {
	if !t.HasDelta() {
		p.violation("SetUpdateProc %q: %s carries no delta", name, t)
		return nil
	}
	s := p.deltaSlot(name, t)
	s.timing = t
	s.priority = priority
	s.fn = fn
	markDirtySlot(p, s)
	return s
}

// ResetProc tears down the slot named name in either namespace. Missing names
// are ignored.
func (p *Procs) ResetProc(name string) {
	if s, ok := p.delta[name]; ok {
		s.unbind()
		s.fn = nil
		s.dirty = false
		delete(p.delta, name)
		p.deltaOrder = removeSlot(p.deltaOrder, s)
		return
	}
	if s, ok := p.void[name]; ok {
		s.unbind()
		s.fn = nil
		s.dirty = false
		delete(p.void, name)
		p.voidOrder = removeSlot(p.voidOrder, s)
	}
}

// Proc returns the slot registered under name.
func (p *Procs) Proc(name string) (ProcInfo, bool) {
	if s, ok := p.delta[name]; ok {
		return s.info(), true
	}
	if s, ok := p.void[name]; ok {
		return s.info(), true
	}
	return ProcInfo{}, false
}

// GetProc returns the void-phase slot named name, creating an empty one at t
// when it does not exist yet.
func (p *Procs) GetProc(name string, t Timing) *Slot[struct{}] {
	if t.HasDelta() || !t.Valid() {
		p.violation("GetProc %q: %s requires GetUpdateProc", name, t)
		return nil
	}
	return p.voidSlot(name, t)
}

// GetUpdateProc is GetProc for the delta phases.
func (p *Procs) GetUpdateProc(name string, t Timing) *Slot[float32] {
	if !t.HasDelta() {
		p.violation("GetUpdateProc %q: %s carries no delta", name, t)
		return nil
	}
	return p.deltaSlot(name, t)
}

// ProcInfos iterates every slot in creation order, delta slots first.
func (p *Procs) ProcInfos() iter.Seq[ProcInfo] {
	return func(yield func(ProcInfo) bool) {
		for _, s := range p.deltaOrder {
			if !yield(s.info()) {
				return
			}
		}
		for _, s := range p.voidOrder {
			if !yield(s.info()) {
				return
			}
		}
	}
}

// RestoreProc recreates a slot identity without a callback. The owner's
// InitSerialize must install the callback again.
func (p *Procs) RestoreProc(info ProcInfo) {
	if info.Timing.HasDelta() {
		s := p.deltaSlot(info.Name, info.Timing)
		s.timing = info.Timing
		s.priority = info.Priority
		s.dirty = true
		return
	}
	s := p.voidSlot(info.Name, info.Timing)
	s.timing = info.Timing
	s.priority = info.Priority
	s.dirty = true
}

func (p *Procs) deltaSlot(name string, t Timing) *Slot[float32] {
	if s, ok := p.delta[name]; ok {
		return s
	}
	if p.delta == nil {
		p.delta = make(map[string]*Slot[float32])
	}
	s := &Slot[float32]{name: name, timing: t, dirty: true}
	p.delta[name] = s
	p.deltaOrder = append(p.deltaOrder, s)
	return s
}

func (p *Procs) voidSlot(name string, t Timing) *Slot[struct{}] {
	if s, ok := p.void[name]; ok {
		return s
	}
	if p.void == nil {
		p.void = make(map[string]*Slot[struct{}])
	}
	s := &Slot[struct{}]{name: name, timing: t, dirty: true}
	p.void[name] = s
	p.voidOrder = append(p.voidOrder, s)
	return s
}

func markDirtySlot[T any](p *Procs, s *Slot[T]) {
	s.dirty = true
	if p.world != nil {
		p.world.cmds.rebind(p)
	}
}

// ensureSystem makes sure the built-in slot for t exists and carries a
// callback, falling back to the owner's hook method.
func (p *Procs) ensureSystem(h lifecycle, t Timing) {
	name := systemProcName(t)
	if t.HasDelta() {
		s := p.deltaSlot(name, t)
		if s.fn == nil {
			s.fn = deltaHook(h, t)
			s.dirty = true
		}
		return
	}
	s := p.voidSlot(name, t)
	if s.fn == nil {
		s.fn = voidHook(h, t)
		s.dirty = true
	}
}

// hasSystem reports whether the built-in slot for t exists. It does once a
// priority was set early or the slot was restored from a snapshot.
func (p *Procs) hasSystem(t Timing) bool {
	name := systemProcName(t)
	if t.HasDelta() {
		_, ok := p.delta[name]
		return ok
	}
	_, ok := p.void[name]
	return ok
}

// setSystemPriority changes the priority of the built-in slot for t.
func (p *Procs) setSystemPriority(t Timing, priority Priority) {
	name := systemProcName(t)
	if t.HasDelta() {
		s := p.deltaSlot(name, t)
		if s.priority != priority {
			s.priority = priority
			s.dirty = true
		}
		return
	}
	s := p.voidSlot(name, t)
	if s.priority != priority {
		s.priority = priority
		s.dirty = true
	}
}

// unboundSlot returns the name of the first slot without a callback.
func (p *Procs) unboundSlot() (string, bool) {
	for _, s := range p.deltaOrder {
		if s.fn == nil {
			return s.name, true
		}
	}
	for _, s := range p.voidOrder {
		if s.fn == nil {
			return s.name, true
		}
	}
	return "", false
}

func (p *Procs) rebind(b *buses) {
	for _, s := range p.deltaOrder {
		if s.dirty {
			s.bind(&b.delta[s.timing], p)
		}
	}
	for _, s := range p.voidOrder {
		if s.dirty {
			s.bind(&b.void[s.timing], p)
		}
	}
}

func (p *Procs) unbindAll() {
	for _, s := range p.deltaOrder {
		s.unbind()
	}
	for _, s := range p.voidOrder {
		s.unbind()
	}
}

// hasDirty reports whether any slot waits for rebinding.
func (p *Procs) hasDirty() bool {
	for _, s := range p.deltaOrder {
		if s.dirty {
			return true
		}
	}
	for _, s := range p.voidOrder {
		if s.dirty {
			return true
		}
	}
	return false
}

func (p *Procs) blockedFor(t Timing) bool {
	switch {
	case p.held:
		return true
	case t.IsUpdate():
		return p.updateBlocked
	case t.IsDraw():
		return p.drawBlocked
	}
	return false
}

// gate blocks or unblocks subscriptions without disconnecting them.
func (p *Procs) gate(held, update, draw bool) {
	if p.held == held && p.updateBlocked == update && p.drawBlocked == draw {
		return
	}
	p.held = held
	p.updateBlocked = update
	p.drawBlocked = draw
	for _, s := range p.deltaOrder {
		if s.sub != nil {
			s.sub.blocked = p.blockedFor(s.timing)
		}
	}
	for _, s := range p.voidOrder {
		if s.sub != nil {
			s.sub.blocked = p.blockedFor(s.timing)
		}
	}
}

func (p *Procs) violation(format string, args ...any) {
	if p.world != nil {
		p.world.violation(format, args...)
		return
	}
	panic(fmt.Sprintf(format, args...))
}

func removeSlot[T any](order []*Slot[T], s *Slot[T]) []*Slot[T] {
	for i, o := range order {
		if o == s {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// lifecycle is the hook set shared by objects and components.
type lifecycle interface {
	PreUpdate()
	Update(dt float32)
	LateUpdate(dt float32)
	PrePhysics()
	PostUpdate()
	PreDraw()
	Draw()
	LateDraw()
	PostDraw()
}

func deltaHook(h lifecycle, t Timing) func(float32) {
	switch t {
	case TimingUpdate:
		return h.Update
	case TimingLateUpdate:
		return h.LateUpdate
	}
	return nil
}

func voidHook(h lifecycle, t Timing) func(struct{}) {
	var fn func()
	switch t {
	case TimingPreUpdate:
		fn = h.PreUpdate
	case TimingPrePhysics:
		fn = h.PrePhysics
	case TimingPostUpdate:
		fn = h.PostUpdate
	case TimingPreDraw:
		fn = h.PreDraw
	case TimingDraw:
		fn = h.Draw
	case TimingLateDraw:
		fn = h.LateDraw
	case TimingPostDraw:
		fn = h.PostDraw
	default:
		return nil
	}
	return func(struct{}) { fn() }
}
