package component

// Transform places an entity's top-left corner in screen space. W/H size
// the quad a part is shaded onto.
type Transform struct {
	X float64
	Y float64
	W float64
	H float64
}

// Center returns the midpoint of the transform's quad.
func (t Transform) Center() (float64, float64) {
	return t.X + t.W/2, t.Y + t.H/2
}

var TransformComponent = NewComponentKind[Transform]("transform")

// RenderLayer is used to sort draw order deterministically.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponentKind[RenderLayer]("render_layer")
