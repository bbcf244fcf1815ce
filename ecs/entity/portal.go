package entity

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
	"github.com/milk9111/portal/portal"
	"github.com/milk9111/portal/prefabs"
)

// BuildPortal creates one entity per part plus a root entity owning the
// transition controller. The parts' materials start in the spec's opened
// pose; the controller captures it before seating the start state.
func BuildPortal(w *ecs.World, spec *prefabs.PortalSpec, shader *ebiten.Shader, tickPeriod float64) (ecs.Entity, error) {
	if w == nil || spec == nil {
		return 0, fmt.Errorf("portal: nil world or spec")
	}
	if err := spec.Validate(); err != nil {
		return 0, err
	}

	created := make([]ecs.Entity, 0, len(spec.Parts)+1)
	fail := func(err error) (ecs.Entity, error) {
		for _, e := range created {
			ecs.DestroyEntity(w, e)
		}
		return 0, err
	}

	root := ecs.CreateEntity(w)
	created = append(created, root)

	materials := make([]portal.Material, 0, len(spec.Parts))
	partIDs := make([]uint64, 0, len(spec.Parts))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for i, ps := range spec.Parts {
		e := ecs.CreateEntity(w)
		created = append(created, e)

		tr := &component.Transform{X: ps.Transform.X, Y: ps.Transform.Y, W: ps.Transform.W, H: ps.Transform.H}
		if err := ecs.Add(w, e, component.TransformComponent, tr); err != nil {
			return fail(fmt.Errorf("portal: part %d: add transform: %w", i, err))
		}
		if err := ecs.Add(w, e, component.RenderLayerComponent, &component.RenderLayer{Index: spec.RenderLayer.Index}); err != nil {
			return fail(fmt.Errorf("portal: part %d: add render layer: %w", i, err))
		}

		mat := component.NewMaterial(shader, map[string]float32{
			portal.UniformCircleClip:  float32(ps.Uniforms.CircleClip),
			portal.UniformCircleWidth: float32(ps.Uniforms.CircleWidth),
			portal.UniformFeather:     float32(ps.Uniforms.Feather),
		})
		mat.Uniforms["Size"] = []float32{float32(tr.W), float32(tr.H)}
		if err := ecs.Add(w, e, component.MaterialComponent, mat); err != nil {
			return fail(fmt.Errorf("portal: part %d: add material: %w", i, err))
		}

		name := ps.Name
		if name == "" {
			name = fmt.Sprintf("%s_part_%d", spec.Name, i)
		}
		part := &component.PortalPart{Name: name, Owner: uint64(root), Index: i, Tint: ps.Tint.Vec4()}
		if err := ecs.Add(w, e, component.PortalPartComponent, part); err != nil {
			return fail(fmt.Errorf("portal: part %d: add part: %w", i, err))
		}

		materials = append(materials, mat)
		partIDs = append(partIDs, uint64(e))
		minX, minY = math.Min(minX, tr.X), math.Min(minY, tr.Y)
		maxX, maxY = math.Max(maxX, tr.X+tr.W), math.Max(maxY, tr.Y+tr.H)
	}

	ctrl, err := portal.NewController(materials, ConfigFromSpec(spec, tickPeriod))
	if err != nil {
		return fail(fmt.Errorf("portal: %s: %w", spec.Name, err))
	}

	p := &component.Portal{Name: spec.Name, Controller: ctrl, Parts: partIDs}
	if err := ecs.Add(w, root, component.PortalComponent, p); err != nil {
		return fail(fmt.Errorf("portal: add portal: %w", err))
	}
	bounds := &component.Transform{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	if err := ecs.Add(w, root, component.TransformComponent, bounds); err != nil {
		return fail(fmt.Errorf("portal: add transform: %w", err))
	}

	if spec.TriggerScript != "" {
		err = ecs.Add(w, root, component.TriggerScriptComponent, &component.TriggerScript{Path: spec.TriggerScript})
	} else {
		err = ecs.Add(w, root, component.TriggerKeysComponent, &component.TriggerKeys{Open: spec.Keys.Open, Close: spec.Keys.Close})
	}
	if err != nil {
		return fail(fmt.Errorf("portal: add trigger: %w", err))
	}

	if spec.Proximity.Radius > 0 {
		if err := ecs.Add(w, root, component.ProximityComponent, &component.Proximity{Radius: spec.Proximity.Radius}); err != nil {
			return fail(fmt.Errorf("portal: add proximity: %w", err))
		}
	}
	var persist *component.Persistent
	if spec.PersistKey != "" {
		persist = &component.Persistent{Key: spec.PersistKey}
		if err := ecs.Add(w, root, component.PersistentComponent, persist); err != nil {
			return fail(fmt.Errorf("portal: add persistent: %w", err))
		}
	}

	ctrl.OnStateChange(func(portal.State) {
		p.Flipped = true
		if persist != nil {
			persist.Dirty = true
		}
	})

	return root, nil
}

// ConfigFromSpec maps a prefab onto controller timing.
func ConfigFromSpec(spec *prefabs.PortalSpec, tickPeriod float64) portal.Config {
	cfg := portal.DefaultConfig()
	cfg.Duration = spec.Duration
	if tickPeriod > 0 {
		cfg.TickPeriod = tickPeriod
	}
	cfg.StartOpen = spec.Opened()
	cfg.FlipOnComplete = spec.FlipOnComplete
	cfg.Closed = portal.Params{
		CircleClip:  spec.Closed.CircleClip,
		CircleWidth: spec.Closed.CircleWidth,
		Feather:     spec.Closed.Feather,
	}
	return cfg
}

// DestroyPortal removes a portal root and its parts.
func DestroyPortal(w *ecs.World, root ecs.Entity) {
	if p, ok := ecs.Get(w, root, component.PortalComponent); ok {
		for _, id := range p.Parts {
			ecs.DestroyEntity(w, ecs.Entity(id))
		}
	}
	ecs.DestroyEntity(w, root)
}

// NewInput creates the entity that receives keyboard state.
func NewInput(w *ecs.World) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.InputComponent, &component.Input{JustPressed: map[string]bool{}}); err != nil {
		return 0, fmt.Errorf("input: add input: %w", err)
	}
	return e, nil
}

// NewVisitor creates the marker proximity portals react to.
func NewVisitor(w *ecs.World, x, y float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{X: x, Y: y, W: 16, H: 16}); err != nil {
		return 0, fmt.Errorf("visitor: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.VisitorComponent, &component.Visitor{Speed: 240}); err != nil {
		return 0, fmt.Errorf("visitor: add visitor: %w", err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent, &component.RenderLayer{Index: 10}); err != nil {
		return 0, fmt.Errorf("visitor: add render layer: %w", err)
	}
	return e, nil
}
