package scene

import "strconv"

// Priority orders callbacks within a phase. Lower values run first; equal
// values run in registration order.
type Priority int32

const (
	PriorityHighest Priority = -200
	PriorityHigh    Priority = -100
	PriorityNormal  Priority = 0
	PriorityLow     Priority = 100
	PriorityLowest  Priority = 200
)

func (p Priority) String() string {
	switch p {
	case PriorityHighest:
		return "Highest"
	case PriorityHigh:
		return "High"
	case PriorityNormal:
		return "Normal"
	case PriorityLow:
		return "Low"
	case PriorityLowest:
		return "Lowest"
	}
	return strconv.Itoa(int(p))
}
