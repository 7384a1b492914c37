// Package command decouples control triggers from device mutations:
// commands are immutable bindings of an operation to its target, and a
// Remote replays whichever command is currently set.
package command

import (
	"sync"

	"codeberg.org/mutker/homectl/internal/device"
	"codeberg.org/mutker/homectl/internal/errors"
)

// Command is an executable binding of one operation to one device.
type Command interface {
	Execute() error
}

// Toggle flips its target on or off.
type Toggle struct {
	target *device.Device
}

// NewToggle binds a toggle operation to a device. A nil target is
// allowed here; Execute fails fast on it.
func NewToggle(target *device.Device) *Toggle {
	return &Toggle{target: target}
}

func (c *Toggle) Execute() error {
	if c.target == nil {
		return errors.New().New(ErrNilTarget)
	}

	c.target.Toggle()

	return nil
}

// Simulate sets its target's level.
type Simulate struct {
	target *device.Device
	level  int
}

// NewSimulate binds a level change to a device. The level is expected
// to be validated by the caller.
func NewSimulate(target *device.Device, level int) *Simulate {
	return &Simulate{target: target, level: level}
}

func (c *Simulate) Execute() error {
	if c.target == nil {
		return errors.New().New(ErrNilTarget)
	}

	c.target.Simulate(c.level)

	return nil
}

// Remote holds at most one current command and executes it on demand,
// without knowing its concrete type.
type Remote struct {
	mu      sync.Mutex
	current Command
}

func NewRemote() *Remote {
	return &Remote{}
}

// SetCommand replaces the current command.
func (r *Remote) SetCommand(c Command) {
	r.mu.Lock()
	r.current = c
	r.mu.Unlock()
}

// PressButton executes the current command. With no command set it is
// a safe no-op.
func (r *Remote) PressButton() error {
	r.mu.Lock()
	current := r.current
	r.mu.Unlock()

	if current == nil {
		return nil
	}

	return current.Execute()
}
