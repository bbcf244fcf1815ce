package system

import (
	"log"

	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
	"github.com/milk9111/portal/portal"
	"github.com/milk9111/portal/prefabs"
	"github.com/milk9111/portal/save"
)

// PortalStore is the part of save.Store the persistence system uses.
type PortalStore interface {
	LoadPortal(key string) (save.PortalRecord, bool, error)
	SavePortal(key string, rec save.PortalRecord) error
}

// PersistenceSystem writes the logical state of persistent portals after
// each flip.
type PersistenceSystem struct {
	store PortalStore
}

func NewPersistenceSystem(store PortalStore) *PersistenceSystem {
	return &PersistenceSystem{store: store}
}

func (p *PersistenceSystem) Update(w *ecs.World) {
	if p == nil || p.store == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.PortalComponent, component.PersistentComponent, func(_ ecs.Entity, pc *component.Portal, persist *component.Persistent) {
		if !persist.Dirty || pc.Controller == nil {
			return
		}
		persist.Dirty = false

		rec, _, err := p.store.LoadPortal(persist.Key)
		if err != nil {
			log.Printf("portal: %s: load saved state: %v", pc.Name, err)
		}
		rec.Open = pc.Controller.State() == portal.Open
		rec.Transitions++
		if err := p.store.SavePortal(persist.Key, rec); err != nil {
			log.Printf("portal: %s: save state: %v", pc.Name, err)
		}
	})
}

// RestoreSaved overrides the spec's start state with the saved one. It
// reports whether a saved state was found.
func RestoreSaved(store PortalStore, spec *prefabs.PortalSpec) bool {
	if store == nil || spec == nil || spec.PersistKey == "" {
		return false
	}
	rec, ok, err := store.LoadPortal(spec.PersistKey)
	if err != nil {
		log.Printf("portal: %s: load saved state: %v", spec.Name, err)
		return false
	}
	if !ok {
		return false
	}
	open := rec.Open
	spec.StartOpen = &open
	return true
}
