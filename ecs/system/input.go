package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
)

// KeySource reports the keys that went down this tick and the held
// movement axis.
type KeySource interface {
	JustPressed() []string
	Axis() (float64, float64)
}

type InputSystem struct {
	source KeySource
}

// NewInputSystem reads the keyboard through Ebitengine. A nil source uses
// the keyboard.
func NewInputSystem(source KeySource) *InputSystem {
	if source == nil {
		source = keyboard{}
	}
	return &InputSystem{source: source}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil {
		return
	}

	pressed := i.source.JustPressed()
	moveX, moveY := i.source.Axis()

	ecs.ForEach(w, component.InputComponent, func(e ecs.Entity, input *component.Input) {
		if input.JustPressed == nil {
			input.JustPressed = map[string]bool{}
		}
		clear(input.JustPressed)
		for _, key := range pressed {
			input.JustPressed[key] = true
		}
		input.MoveX = moveX
		input.MoveY = moveY
	})
}

type keyboard struct{}

func (keyboard) JustPressed() []string {
	keys := inpututil.AppendJustPressedKeys(nil)
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.String())
	}
	return names
}

func (keyboard) Axis() (float64, float64) {
	const stickDeadzone = 0.2

	x, y := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		x -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		x += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		y -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		y += 1
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			x, y = lx, ly
		}
	}
	return x, y
}
