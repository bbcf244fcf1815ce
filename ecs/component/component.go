package component

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

// Kind is the type-erased view of a ComponentKind used by queries.
type Kind interface {
	ID() ComponentID
}

// ComponentKind identifies the storage of one component type. Kinds are
// created once, as package-level vars, and compared by id.
type ComponentKind[T any] struct {
	id ComponentID
}

// NewComponentKind allocates a kind and records name for debug output.
func NewComponentKind[T any](name string) ComponentKind[T] {
	id := ComponentID(nextComponentID.Add(1))
	kindNames.Store(id, name)
	return ComponentKind[T]{id: id}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

func (k ComponentKind[T]) Name() string {
	return KindName(k.id)
}

// KindName returns the debug name a kind was registered with.
func KindName(id ComponentID) string {
	if v, ok := kindNames.Load(id); ok {
		return v.(string)
	}
	return "unknown"
}

var (
	nextComponentID atomic.Uint32
	kindNames       sync.Map
)
