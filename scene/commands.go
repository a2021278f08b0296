package scene

// commands buffers work that must not run in the middle of a dispatch.
// Rebinds are flushed before every phase fires; deferred functions run after
// end-of-frame reclamation.
type commands struct {
	rebinds []*Procs
	defers  []func()
}

func (c *commands) rebind(p *Procs) {
	c.rebinds = append(c.rebinds, p)
}

// Defer queues fn to run once the current frame has been drawn.
func (c *commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

func (c *commands) flushRebinds(b *buses) {
	if len(c.rebinds) == 0 {
		return
	}
	for _, p := range c.rebinds {
		if !p.closed && p.world != nil {
			p.rebind(b)
		}
	}
	clear(c.rebinds)
	c.rebinds = c.rebinds[:0]
}

func (c *commands) flushDefers() {
	for i := 0; i < len(c.defers); i++ {
		c.defers[i]()
	}
	clear(c.defers)
	c.defers = c.defers[:0]
}

func (c *commands) reset() {
	clear(c.rebinds)
	c.rebinds = c.rebinds[:0]
	clear(c.defers)
	c.defers = c.defers[:0]
}
