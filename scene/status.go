package scene

// Bit is the constraint for flag enums stored in a Status. Values are bit
// positions, not masks.
type Bit interface {
	~uint8 | ~uint16 | ~uint32
}

// Status is a small fixed-capacity set of named flags. The type parameter ties
// each Status to one flag enum so bits from different enums cannot be mixed.
type Status[B Bit] struct {
	bits uint64
}

// Set turns b on or off.
func (s *Status[B]) Set(b B, on bool) {
	if on {
		s.bits |= 1 << uint64(b)
	} else {
		s.bits &^= 1 << uint64(b)
	}
}

// On sets b.
func (s *Status[B]) On(b B) { s.Set(b, true) }

// Off clears b.
func (s *Status[B]) Off(b B) { s.Set(b, false) }

// Is reports whether b is set.
func (s Status[B]) Is(b B) bool {
	return s.bits&(1<<uint64(b)) != 0
}

// Raw returns the underlying bit pattern for persistence.
func (s Status[B]) Raw() uint64 { return s.bits }

// SetRaw replaces the bit pattern, typically after a restore.
func (s *Status[B]) SetRaw(v uint64) { s.bits = v }
