package component

import "github.com/milk9111/portal/portal"

// Proximity opens a portal when a visitor enters Radius around its centre
// and closes it when the visitor leaves.
type Proximity struct {
	Radius float64
	Inside bool
	// Entered/Left are set for the tick the visitor crossed the edge.
	Entered bool
	Left    bool

	// Want is the state requested by the last crossing, held until the
	// portal is idle. Portals with a trigger script ignore it.
	Want    portal.State
	HasWant bool
}

var ProximityComponent = NewComponentKind[Proximity]("proximity")

// Visitor tags the marker that proximity sensors react to.
type Visitor struct {
	Speed float64
}

var VisitorComponent = NewComponentKind[Visitor]("visitor")
