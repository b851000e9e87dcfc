package knmap

import (
	"github.com/google/uuid"

	"github.com/mogaika/knmap_packer/config"
	"github.com/mogaika/knmap_packer/utils"
	"github.com/mogaika/knmap_packer/vfs"
)

// Entry is one creator-defined map. Scene and Image are nil while unset or
// when the backing resource could not be resolved. Mutate entries through the
// Registry so the dirty flag stays in sync with the cache file.
type Entry struct {
	id       uuid.UUID
	Selected bool
	Name     string
	Scene    vfs.File
	Image    vfs.File
}

func (e *Entry) ID() uuid.UUID { return e.id }

// ids are session-local handles, they are not persisted in the cache.
func newEntryID() uuid.UUID { return uuid.New() }

// Registry owns the ordered map list for one editing session.
// Insertion order is significant: it controls display and build order.
type Registry struct {
	cfg     *config.Config
	creator string
	entries []*Entry
	dirty   bool
	nameGen utils.RandomNameGenerator
}

func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		cfg:     cfg,
		creator: cfg.CreatorName,
		entries: make([]*Entry, 0),
	}
}

func (r *Registry) Creator() string { return r.creator }

func (r *Registry) SetCreator(name string) {
	if r.creator != name {
		r.creator = name
		r.dirty = true
	}
}

// Dirty reports whether in-memory state diverged from the last saved cache.
// The application layer decides when to persist.
func (r *Registry) Dirty() bool { return r.dirty }

func (r *Registry) MarkSaved() { r.dirty = false }

func (r *Registry) Entries() []*Entry {
	result := make([]*Entry, len(r.entries))
	copy(result, r.entries)
	return result
}

func (r *Registry) Get(id uuid.UUID) *Entry {
	for _, e := range r.entries {
		if e.id == id {
			return e
		}
	}
	return nil
}

// AddEntry appends a fresh deselected entry with a generated name.
func (r *Registry) AddEntry() *Entry {
	e := &Entry{
		id:   newEntryID(),
		Name: r.nameGen.RandomName(),
	}
	r.entries = append(r.entries, e)
	r.dirty = true
	return e
}

// RemoveEntry is idempotent: removing an unknown handle does nothing.
func (r *Registry) RemoveEntry(id uuid.UUID) {
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			r.dirty = true
			return
		}
	}
}

func (r *Registry) SetSelected(id uuid.UUID, selected bool) {
	if e := r.Get(id); e != nil && e.Selected != selected {
		e.Selected = selected
		r.dirty = true
	}
}

func (r *Registry) Rename(id uuid.UUID, name string) {
	if e := r.Get(id); e != nil && e.Name != name {
		e.Name = name
		r.dirty = true
	}
}

func (r *Registry) SetScene(id uuid.UUID, scene vfs.File) {
	if e := r.Get(id); e != nil {
		e.Scene = scene
		r.dirty = true
	}
}

func (r *Registry) SetImage(id uuid.UUID, image vfs.File) {
	if e := r.Get(id); e != nil {
		e.Image = image
		r.dirty = true
	}
}

// SelectedEntries recomputes the filtered view on every call,
// preserving registry order.
func (r *Registry) SelectedEntries() []*Entry {
	result := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Selected {
			result = append(result, e)
		}
	}
	return result
}

// BundleIdentifier derives the per-platform bundle name for an entry.
func BundleIdentifier(e *Entry, platform config.Platform) (string, error) {
	suffix, err := platform.Suffix()
	if err != nil {
		return "", err
	}
	return e.Name + suffix, nil
}
