package component

import "github.com/hajimehoshi/ebiten/v2"

// Material is a Kage shader and the uniform values it is drawn with. It is
// the write-back target of the portal driver. Uniforms are stored as
// float32, the width Ebitengine uploads.
type Material struct {
	Shader   *ebiten.Shader
	Uniforms map[string]any
}

func NewMaterial(shader *ebiten.Shader, uniforms map[string]float32) *Material {
	m := &Material{Shader: shader, Uniforms: make(map[string]any, len(uniforms)+4)}
	for k, v := range uniforms {
		m.Uniforms[k] = v
	}
	return m
}

// Float reads a scalar uniform.
func (m *Material) Float(name string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m.Uniforms[name].(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func (m *Material) SetFloat(name string, v float64) {
	if m == nil {
		return
	}
	if m.Uniforms == nil {
		m.Uniforms = map[string]any{}
	}
	m.Uniforms[name] = float32(v)
}

// DrawUniforms merges per-frame values over the stored uniforms without
// mutating them.
func (m *Material) DrawUniforms(frame map[string]any) map[string]any {
	out := make(map[string]any, len(m.Uniforms)+len(frame))
	for k, v := range m.Uniforms {
		out[k] = v
	}
	for k, v := range frame {
		out[k] = v
	}
	return out
}

var MaterialComponent = NewComponentKind[Material]("material")
