package system

import (
	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
	"github.com/milk9111/portal/portal"
)

// TriggerSystem turns key presses into portal requests: the open key only
// acts while closed and the close key only while open. Both are ignored
// while a transition runs.
type TriggerSystem struct{}

func NewTriggerSystem() *TriggerSystem {
	return &TriggerSystem{}
}

func (s *TriggerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var input *component.Input
	if e, ok := ecs.First(w, component.InputComponent); ok {
		input, _ = ecs.Get(w, e, component.InputComponent)
	}

	ecs.ForEach2(w, component.PortalComponent, component.TriggerKeysComponent, func(e ecs.Entity, p *component.Portal, keys *component.TriggerKeys) {
		if ecs.Has(w, e, component.TriggerScriptComponent) {
			return
		}
		ctrl := p.Controller
		if ctrl == nil || ctrl.IsTransitioning() {
			return
		}

		if prox, ok := ecs.Get(w, e, component.ProximityComponent); ok && prox.HasWant {
			prox.HasWant = false
			if ctrl.State() != prox.Want {
				requestState(p, prox.Want)
				return
			}
		}

		switch {
		case input.Pressed(keys.Open) && ctrl.State() == portal.Closed:
			p.OpenRequested = true
		case input.Pressed(keys.Close) && ctrl.State() == portal.Open:
			p.CloseRequested = true
		}
	})
}

func requestState(p *component.Portal, target portal.State) {
	if target == portal.Open {
		p.OpenRequested = true
	} else {
		p.CloseRequested = true
	}
}
