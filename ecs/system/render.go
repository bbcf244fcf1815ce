package system

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
	"golang.org/x/image/colornames"
)

// RenderSystem shades every portal part with its material and draws the
// visitor marker and proximity rings on top.
type RenderSystem struct {
	frames    int
	tps       float64
	ShowRings bool
}

func NewRenderSystem(tps float64) *RenderSystem {
	if tps <= 0 {
		tps = 60
	}
	return &RenderSystem{tps: tps, ShowRings: true}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	r.frames++
	now := float32(float64(r.frames) / r.tps)

	for _, e := range r.sortedParts(w) {
		t, _ := ecs.Get(w, e, component.TransformComponent)
		mat, _ := ecs.Get(w, e, component.MaterialComponent)
		if mat.Shader == nil || t.W <= 0 || t.H <= 0 {
			continue
		}
		tint := [4]float32{1, 1, 1, 1}
		if part, ok := ecs.Get(w, e, component.PortalPartComponent); ok {
			tint = part.Tint
		}

		op := &ebiten.DrawRectShaderOptions{
			Uniforms: mat.DrawUniforms(map[string]any{
				"Time": now,
				"Tint": tint[:],
			}),
		}
		op.GeoM.Translate(t.X, t.Y)
		screen.DrawRectShader(int(t.W), int(t.H), mat.Shader, op)
	}

	if r.ShowRings {
		ecs.ForEach2(w, component.ProximityComponent, component.TransformComponent, func(_ ecs.Entity, prox *component.Proximity, t *component.Transform) {
			x, y := t.Center()
			clr := color.Color(colornames.Slategray)
			if prox.Inside {
				clr = colornames.Gold
			}
			vector.StrokeCircle(screen, float32(x), float32(y), float32(prox.Radius), 1, clr, true)
		})
	}

	ecs.ForEach2(w, component.VisitorComponent, component.TransformComponent, func(_ ecs.Entity, _ *component.Visitor, t *component.Transform) {
		x, y := t.Center()
		vector.FillCircle(screen, float32(x), float32(y), float32(t.W/2), colornames.White, true)
	})
}

// sortedParts returns shaded entities ordered by render layer, then id.
func (r *RenderSystem) sortedParts(w *ecs.World) []ecs.Entity {
	entities := w.Query(component.TransformComponent, component.MaterialComponent)
	sort.SliceStable(entities, func(i, j int) bool {
		li := 0
		if layer, ok := ecs.Get(w, entities[i], component.RenderLayerComponent); ok {
			li = layer.Index
		}
		lj := 0
		if layer, ok := ecs.Get(w, entities[j], component.RenderLayerComponent); ok {
			lj = layer.Index
		}
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})
	return entities
}
