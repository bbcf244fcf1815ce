package portal

import "github.com/milk9111/portal/common"

// Uniform names as declared in assets/shaders/portal.kage.
const (
	UniformCircleClip  = "CircleClip"
	UniformCircleWidth = "CircleWidth"
	UniformFeather     = "Feather"
)

// Params is the animated uniform triple of one portal part.
type Params struct {
	CircleClip  float64
	CircleWidth float64
	Feather     float64
}

// Material is anything exposing float uniforms by name. The driver is the
// only writer.
type Material interface {
	Float(name string) (float64, bool)
	SetFloat(name string, v float64)
}

func readParams(m Material) (Params, error) {
	var p Params
	var ok bool
	if p.CircleClip, ok = m.Float(UniformCircleClip); !ok {
		return Params{}, missingUniform(UniformCircleClip)
	}
	if p.CircleWidth, ok = m.Float(UniformCircleWidth); !ok {
		return Params{}, missingUniform(UniformCircleWidth)
	}
	if p.Feather, ok = m.Float(UniformFeather); !ok {
		return Params{}, missingUniform(UniformFeather)
	}
	return p, nil
}

func writeParams(m Material, p Params) {
	m.SetFloat(UniformCircleClip, p.CircleClip)
	m.SetFloat(UniformCircleWidth, p.CircleWidth)
	m.SetFloat(UniformFeather, p.Feather)
}

// Lerp interpolates each field independently.
func (p Params) Lerp(to Params, t float64) Params {
	return Params{
		CircleClip:  common.Lerp(p.CircleClip, to.CircleClip, t),
		CircleWidth: common.Lerp(p.CircleWidth, to.CircleWidth, t),
		Feather:     common.Lerp(p.Feather, to.Feather, t),
	}
}
