package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
	"github.com/milk9111/portal/portal"
)

type proximitySensor struct {
	shape  *cp.Shape
	center cp.Vector
	radius float64
}

// ProximitySystem keeps one static circle per proximity portal in a
// chipmunk space and point-queries it with every visitor position.
type ProximitySystem struct {
	space   *cp.Space
	sensors map[ecs.Entity]*proximitySensor
}

func NewProximitySystem() *ProximitySystem {
	return &ProximitySystem{
		space:   cp.NewSpace(),
		sensors: map[ecs.Entity]*proximitySensor{},
	}
}

func (s *ProximitySystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	s.syncSensors(w)

	inside := map[ecs.Entity]bool{}
	ecs.ForEach2(w, component.VisitorComponent, component.TransformComponent, func(_ ecs.Entity, _ *component.Visitor, t *component.Transform) {
		x, y := t.Center()
		pt := cp.Vector{X: x, Y: y}
		// Every circle whose bounds hold the point, then the exact test, so
		// overlapping portals all see the visitor.
		s.space.BBQuery(cp.NewBBForCircle(pt, 0), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
			if shape.PointQuery(pt).Distance > 0 {
				return
			}
			if e, ok := shape.UserData.(ecs.Entity); ok {
				inside[e] = true
			}
		}, nil)
	})

	ecs.ForEach(w, component.ProximityComponent, func(e ecs.Entity, prox *component.Proximity) {
		now := inside[e]
		prox.Entered = now && !prox.Inside
		prox.Left = !now && prox.Inside
		prox.Inside = now

		switch {
		case prox.Entered:
			prox.Want, prox.HasWant = portal.Open, true
		case prox.Left:
			prox.Want, prox.HasWant = portal.Closed, true
		}
	})
}

func (s *ProximitySystem) syncSensors(w *ecs.World) {
	seen := map[ecs.Entity]bool{}
	ecs.ForEach2(w, component.ProximityComponent, component.TransformComponent, func(e ecs.Entity, prox *component.Proximity, t *component.Transform) {
		if prox.Radius <= 0 {
			return
		}
		seen[e] = true

		x, y := t.Center()
		center := cp.Vector{X: x, Y: y}
		if sensor, ok := s.sensors[e]; ok {
			if sensor.center == center && sensor.radius == prox.Radius {
				return
			}
			s.space.RemoveShape(sensor.shape)
		}

		// The space never steps, so plain static shapes are enough.
		shape := cp.NewCircle(s.space.StaticBody, prox.Radius, center)
		shape.UserData = e
		s.space.AddShape(shape)
		s.sensors[e] = &proximitySensor{shape: shape, center: center, radius: prox.Radius}
	})

	for e, sensor := range s.sensors {
		if !seen[e] {
			s.space.RemoveShape(sensor.shape)
			delete(s.sensors, e)
		}
	}
}

// Sensors reports how many proximity circles are in the space.
func (s *ProximitySystem) Sensors() int {
	return len(s.sensors)
}

// VisitorSystem moves visitors with the input axis, kept on screen.
type VisitorSystem struct {
	dt            float64
	width, height float64
}

func NewVisitorSystem(tickPeriod, width, height float64) *VisitorSystem {
	return &VisitorSystem{dt: tickPeriod, width: width, height: height}
}

func (s *VisitorSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	e, ok := ecs.First(w, component.InputComponent)
	if !ok {
		return
	}
	input, ok := ecs.Get(w, e, component.InputComponent)
	if !ok || (input.MoveX == 0 && input.MoveY == 0) {
		return
	}

	ecs.ForEach2(w, component.VisitorComponent, component.TransformComponent, func(_ ecs.Entity, v *component.Visitor, t *component.Transform) {
		t.X = clampRange(t.X+input.MoveX*v.Speed*s.dt, 0, s.width-t.W)
		t.Y = clampRange(t.Y+input.MoveY*v.Speed*s.dt, 0, s.height-t.H)
	})
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
