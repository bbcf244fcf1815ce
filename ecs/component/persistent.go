package component

// Persistent marks a portal whose logical state survives restarts under
// Key.
type Persistent struct {
	Key string
	// Dirty is set when the state changed and has not been saved yet.
	Dirty bool
}

var PersistentComponent = NewComponentKind[Persistent]("persistent")
