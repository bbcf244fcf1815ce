package system

import (
	"log"

	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
	"github.com/milk9111/portal/portal"
)

// PortalEvent is the payload of the portal events pushed to the world.
type PortalEvent struct {
	Portal    ecs.Entity
	Name      string
	State     portal.State
	Direction portal.Direction
}

// PortalSystem is the tick source of every portal controller. Each update
// it advances running transitions by one tick period and then applies the
// requests raised by the trigger systems, so a transition started this
// tick shows its first pose before it advances. Flips are reported from
// the controller's state observer installed by entity.BuildPortal.
type PortalSystem struct {
	dt    float64
	Debug bool
}

func NewPortalSystem(tickPeriod float64) *PortalSystem {
	return &PortalSystem{dt: tickPeriod}
}

func (s *PortalSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.PortalComponent, func(e ecs.Entity, p *component.Portal) {
		ctrl := p.Controller
		if ctrl == nil {
			p.ClearRequests()
			return
		}

		ctrl.Tick(s.dt)
		if p.Flipped {
			p.Flipped = false
			s.push(w, ecs.EventPortalFlipped, e, p)
		}
		if p.WasTransitioning && !ctrl.IsTransitioning() {
			s.push(w, ecs.EventPortalSettled, e, p)
		}

		if s.apply(p) {
			s.push(w, ecs.EventPortalTriggered, e, p)
		}
		p.ClearRequests()
		p.WasTransitioning = ctrl.IsTransitioning()
	})
}

// apply hands at most one request to the controller. Open wins over close
// when both were raised; the controller rejects the one that does not fit.
func (s *PortalSystem) apply(p *component.Portal) bool {
	ctrl := p.Controller
	switch {
	case p.OpenRequested && ctrl.RequestOpen():
		return true
	case p.CloseRequested && ctrl.RequestClose():
		return true
	case p.ToggleRequested && ctrl.Toggle():
		return true
	}
	return false
}

func (s *PortalSystem) push(w *ecs.World, typ string, e ecs.Entity, p *component.Portal) {
	evt := PortalEvent{
		Portal:    e,
		Name:      p.Name,
		State:     p.Controller.State(),
		Direction: p.Controller.Direction(),
	}
	if s.Debug {
		log.Printf("portal: %s %s state=%s dir=%s progress=%.3f", p.Name, typ, evt.State, evt.Direction, p.Controller.Progress())
	}
	w.Events().Push(ecs.Event{Type: typ, Data: evt})
}
