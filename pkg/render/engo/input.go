// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-starstrike/pkg/event"
)

// ButtonReader reports edge transitions of a named button. engo.Input
// satisfies it through engoButtons.
type ButtonReader interface {
	JustPressed(name string) bool
	JustReleased(name string) bool
}

type engoButtons struct{}

func (engoButtons) JustPressed(name string) bool {
	return engo.Input.Button(name).JustPressed()
}

func (engoButtons) JustReleased(name string) bool {
	return engo.Input.Button(name).JustReleased()
}

// boundActions are the button names registered by SetupInputBindings. Each
// one is also the action name published on input:action.
var boundActions = []string{
	event.ActionLeft,
	event.ActionRight,
	event.ActionUp,
	event.ActionDown,
	event.ActionFire,
	event.ActionPause,
}

// InputSystem turns keyboard edges into input:action events
type InputSystem struct {
	bus     *event.Bus
	buttons ButtonReader
}

// NewInputSystem creates an input system reading engo's keyboard state.
func NewInputSystem(bus *event.Bus) *InputSystem {
	return NewInputSystemWithReader(bus, engoButtons{})
}

// NewInputSystemWithReader creates an input system over any button source.
func NewInputSystemWithReader(bus *event.Bus, buttons ButtonReader) *InputSystem {
	return &InputSystem{bus: bus, buttons: buttons}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update publishes one event per button that changed this frame.
func (is *InputSystem) Update(dt float32) {
	for _, action := range boundActions {
		if is.buttons.JustPressed(action) {
			event.Publish(is.bus, event.InputAction, event.InputActionEvent{Action: action, Pressed: true})
		}
		if is.buttons.JustReleased(action) {
			event.Publish(is.bus, event.InputAction, event.InputActionEvent{Action: action, Pressed: false})
		}
	}
}

// SetupInputBindings configures the keyboard bindings
func SetupInputBindings() {
	// Movement
	engo.Input.RegisterButton(event.ActionLeft, engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton(event.ActionRight, engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton(event.ActionUp, engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton(event.ActionDown, engo.KeyS, engo.KeyArrowDown)

	engo.Input.RegisterButton(event.ActionFire, engo.KeySpace)
	engo.Input.RegisterButton(event.ActionPause, engo.KeyEscape, engo.KeyP)
}
