// Package persist saves the objects of a World's current scene to YAML and
// restores them. Restored objects and components skip Init; their
// InitSerialize runs at the next PreUpdate and must reinstall any callbacks
// their process slots had.
package persist

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"gopkg.in/yaml.v3"

	"github.com/plus3/scenery/scene"
)

// SchemaVersion is written to every snapshot. Load rejects other versions.
const SchemaVersion = 1

var (
	ErrSchemaVersion = errors.New("unsupported snapshot version")
	ErrUnknownType   = errors.New("unknown type")
)

type Snapshot struct {
	Version int            `yaml:"version"`
	Objects []ObjectRecord `yaml:"objects"`
}

type ObjectRecord struct {
	Type           string            `yaml:"type"`
	Name           string            `yaml:"name"`
	Status         uint64            `yaml:"status"`
	UpdatePriority scene.Priority    `yaml:"update_priority"`
	DrawPriority   scene.Priority    `yaml:"draw_priority"`
	Procs          []ProcRecord      `yaml:"procs,omitempty"`
	State          yaml.Node         `yaml:"state,omitempty"`
	Components     []ComponentRecord `yaml:"components,omitempty"`
}

type ComponentRecord struct {
	Type   string       `yaml:"type"`
	Status uint64       `yaml:"status"`
	Procs  []ProcRecord `yaml:"procs,omitempty"`
	State  yaml.Node    `yaml:"state,omitempty"`
}

// ProcRecord is the identity of a process slot. Callbacks are not saved.
type ProcRecord struct {
	Name     string         `yaml:"name"`
	Timing   string         `yaml:"timing"`
	Priority scene.Priority `yaml:"priority"`
}

// Transient is implemented by actors that are never saved, such as tooling
// overlays.
type Transient interface {
	Transient() bool
}

// Capture builds a snapshot of the objects in w's current scene.
func Capture(w *scene.World, reg *Registry) (*Snapshot, error) {
	snap := &Snapshot{Version: SchemaVersion}
	for o := range w.Objects() {
		if o.Status().Is(scene.ObjectExited) {
			continue
		}
		if t, ok := o.Actor().(Transient); ok && t.Transient() {
			continue
		}
		rec, err := captureObject(o, reg)
		if err != nil {
			return nil, err
		}
		snap.Objects = append(snap.Objects, rec)
	}
	return snap, nil
}

func captureObject(o *scene.Object, reg *Registry) (ObjectRecord, error) {
	a := o.Actor()
	typ, ok := reg.nameOf(a)
	if !ok {
		return ObjectRecord{}, fmt.Errorf("object %q (%T): %w", o.Name(), a, ErrUnknownType)
	}
	rec := ObjectRecord{
		Type:           typ,
		Name:           o.Name(),
		Status:         o.Status().Raw(),
		UpdatePriority: o.UpdatePriority(),
		DrawPriority:   o.DrawPriority(),
		Procs:          captureProcs(o),
	}
	if err := encodeState(&rec.State, a); err != nil {
		return ObjectRecord{}, fmt.Errorf("object %q: %w", o.Name(), err)
	}

	for c := range o.Components() {
		ctyp, ok := reg.nameOf(c)
		if !ok {
			return ObjectRecord{}, fmt.Errorf("object %q component %T: %w", o.Name(), c, ErrUnknownType)
		}
		crec := ComponentRecord{
			Type:   ctyp,
			Status: c.Status().Raw(),
			Procs:  captureProcs(c),
		}
		if err := encodeState(&crec.State, c); err != nil {
			return ObjectRecord{}, fmt.Errorf("object %q component %s: %w", o.Name(), ctyp, err)
		}
		rec.Components = append(rec.Components, crec)
	}
	return rec, nil
}

// procOwner is satisfied by every Object and component through their
// embedded process slot registry.
type procOwner interface {
	ProcInfos() iter.Seq[scene.ProcInfo]
	RestoreProc(info scene.ProcInfo)
}

func captureProcs(v any) []ProcRecord {
	p, ok := v.(procOwner)
	if !ok {
		return nil
	}
	var out []ProcRecord
	for info := range p.ProcInfos() {
		out = append(out, ProcRecord{Name: info.Name, Timing: info.Timing.String(), Priority: info.Priority})
	}
	return out
}

func restoreProcs(v any, recs []ProcRecord) error {
	p, ok := v.(procOwner)
	if !ok {
		return nil
	}
	for _, r := range recs {
		t, err := scene.ParseTiming(r.Timing)
		if err != nil {
			return fmt.Errorf("proc %q: %w", r.Name, err)
		}
		p.RestoreProc(scene.ProcInfo{Name: r.Name, Timing: t, Priority: r.Priority})
	}
	return nil
}

func encodeState(n *yaml.Node, v any) error {
	s, ok := v.(scene.StateSaver)
	if !ok {
		return nil
	}
	return n.Encode(s.SaveState())
}

func decodeState(n *yaml.Node, v any) error {
	s, ok := v.(scene.StateSaver)
	if !ok || n.Kind == 0 {
		return nil
	}
	return s.LoadState(n.Decode)
}

// Save writes a snapshot of w's current scene.
func Save(out io.Writer, w *scene.World, reg *Registry) error {
	snap, err := Capture(w, reg)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return enc.Close()
}

// Load reads a snapshot and restores its objects into w's current scene.
func Load(in io.Reader, w *scene.World, reg *Registry) error {
	var snap Snapshot
	if err := yaml.NewDecoder(in).Decode(&snap); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if err := Apply(&snap, w, reg); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	return nil
}

// Apply restores the objects of snap into w's current scene. Types are
// checked before anything is created, so an unknown type leaves w untouched.
func Apply(snap *Snapshot, w *scene.World, reg *Registry) error {
	if snap.Version != SchemaVersion {
		return fmt.Errorf("version %d, want %d: %w", snap.Version, SchemaVersion, ErrSchemaVersion)
	}
	for _, rec := range snap.Objects {
		if _, ok := reg.actors[rec.Type]; !ok {
			return fmt.Errorf("object %q type %q: %w", rec.Name, rec.Type, ErrUnknownType)
		}
		for _, c := range rec.Components {
			if _, ok := reg.components[c.Type]; !ok {
				return fmt.Errorf("object %q component %q: %w", rec.Name, c.Type, ErrUnknownType)
			}
		}
	}

	for _, rec := range snap.Objects {
		if err := restoreObject(rec, w, reg); err != nil {
			return err
		}
	}
	return nil
}

func restoreObject(rec ObjectRecord, w *scene.World, reg *Registry) error {
	a := reg.actors[rec.Type]()
	if err := decodeState(&rec.State, a); err != nil {
		return fmt.Errorf("object %q: %w", rec.Name, err)
	}
	w.Restore(a, rec.Name, rec.Status, rec.UpdatePriority, rec.DrawPriority)
	o := a.Base()
	if err := restoreProcs(o, rec.Procs); err != nil {
		return fmt.Errorf("object %q: %w", rec.Name, err)
	}

	for _, crec := range rec.Components {
		c := reg.components[crec.Type]()
		scene.RestoreComponent(o, c, crec.Status)
		if err := decodeState(&crec.State, c); err != nil {
			return fmt.Errorf("object %q component %s: %w", rec.Name, crec.Type, err)
		}
		if err := restoreProcs(c, crec.Procs); err != nil {
			return fmt.Errorf("object %q component %s: %w", rec.Name, crec.Type, err)
		}
	}
	return nil
}
