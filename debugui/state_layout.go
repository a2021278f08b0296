package debugui

import (
	"reflect"
	"strings"
	"sync"
)

// StateField is one field of a saved component state, labelled with the key
// the snapshot file uses for it.
type StateField struct {
	Label string
	Index []int
}

// StateLayouts caches the field layout of SaveState result types so the
// inspector walks each type once.
type StateLayouts struct {
	mu      sync.RWMutex
	layouts map[reflect.Type][]StateField
}

func NewStateLayouts() *StateLayouts {
	return &StateLayouts{layouts: make(map[reflect.Type][]StateField)}
}

// Of returns the layout of t, or nil when t is not a struct.
func (l *StateLayouts) Of(t reflect.Type) []StateField {
	l.mu.RLock()
	fields, ok := l.layouts[t]
	l.mu.RUnlock()
	if ok {
		return fields
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if fields, ok := l.layouts[t]; ok {
		return fields
	}
	if t.Kind() == reflect.Struct {
		fields = appendFields(nil, t, nil)
	}
	l.layouts[t] = fields
	return fields
}

// appendFields follows yaml.v3 naming: the tag name when set, otherwise the
// lowercased field name. Inline structs contribute their own fields.
func appendFields(out []StateField, t reflect.Type, parent []int) []StateField {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("yaml")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		index := append(append([]int(nil), parent...), i)
		if hasOption(opts, "inline") && f.Type.Kind() == reflect.Struct {
			out = appendFields(out, f.Type, index)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		out = append(out, StateField{Label: name, Index: index})
	}
	return out
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == want {
			return true
		}
	}
	return false
}

var stateLayouts = NewStateLayouts()
