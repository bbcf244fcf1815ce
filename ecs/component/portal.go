package component

import "github.com/milk9111/portal/portal"

// Portal is the root entity of one portal: it owns the transition
// controller and the per-tick trigger requests.
type Portal struct {
	Name       string
	Controller *portal.Controller
	// Parts are the part entities in registry order.
	Parts []uint64

	OpenRequested   bool
	CloseRequested  bool
	ToggleRequested bool

	// WasTransitioning is last tick's flight flag, used to report settles.
	WasTransitioning bool
	// Flipped is set by the controller's state observer and cleared once
	// the flip has been reported.
	Flipped bool
}

// ClearRequests drops this tick's trigger requests.
func (p *Portal) ClearRequests() {
	p.OpenRequested = false
	p.CloseRequested = false
	p.ToggleRequested = false
}

var PortalComponent = NewComponentKind[Portal]("portal")

// PortalPart marks one animated mesh of a portal.
type PortalPart struct {
	Name  string
	Owner uint64
	Index int
	// Tint is the RGBA colour fed to the shader.
	Tint [4]float32
}

var PortalPartComponent = NewComponentKind[PortalPart]("portal_part")
