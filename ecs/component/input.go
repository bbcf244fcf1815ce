package component

// Input stores the keys that went down this tick, by Ebitengine key name
// ("W", "Q", "Space").
type Input struct {
	JustPressed map[string]bool
	// MoveX/MoveY steer the visitor marker.
	MoveX float64
	MoveY float64
}

func (i *Input) Pressed(key string) bool {
	return i != nil && i.JustPressed[key]
}

var InputComponent = NewComponentKind[Input]("input")

// TriggerKeys binds keys to open/close requests on a portal.
type TriggerKeys struct {
	Open  string
	Close string
}

var TriggerKeysComponent = NewComponentKind[TriggerKeys]("trigger_keys")

// TriggerScript replaces TriggerKeys with a tengo script deciding when to
// request transitions.
type TriggerScript struct {
	Path string
}

var TriggerScriptComponent = NewComponentKind[TriggerScript]("trigger_script")
