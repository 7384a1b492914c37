// Package device models simulated smart-home appliances: their on/off
// and level state, the power they draw, and the observers reacting to
// state changes.
package device

import (
	"fmt"
	"sync"
	"time"

	"codeberg.org/mutker/homectl/internal/ident"
)

// Observer receives a notification message whenever a device it is
// attached to changes state.
type Observer interface {
	Receive(message string)
}

// State is an atomic snapshot of a device's mutable state together
// with its identity.
type State struct {
	ID         string
	Name       string
	Brand      string
	Kind       Kind
	On         bool
	Online     bool
	Level      int
	PowerUsage int
}

// Device is a simulated appliance. All mutations go through Toggle and
// Simulate; PowerUsage is derived and never set directly. A device is
// safe for concurrent use.
type Device struct {
	id    string
	name  string
	brand string
	kind  Kind

	mu         sync.Mutex
	on         bool
	online     bool
	level      int
	powerUsage int

	observers observerList
}

var (
	devIDMu sync.Mutex
	lastDev time.Time
)

// nextDeviceID hands out second-precision timestamp ids, bumping into
// the next second when two devices are built within the same one.
func nextDeviceID() string {
	devIDMu.Lock()
	defer devIDMu.Unlock()

	now := time.Now().Truncate(time.Second)
	if !now.After(lastDev) {
		now = lastDev.Add(time.Second)
	}
	lastDev = now

	return ident.DeviceID(now)
}

// New builds a device of the given kind with a generated id and the
// kind's default level. It starts switched off and online.
func New(kind Kind, brand, name string) *Device {
	return Restore(State{
		ID:     nextDeviceID(),
		Name:   name,
		Brand:  brand,
		Kind:   kind,
		Online: true,
		Level:  kind.DefaultLevel(),
	})
}

// Restore rebuilds a device from a persisted snapshot. Observers are
// transient and start empty. The power/on invariant is re-derived
// rather than trusted from the snapshot.
func Restore(s State) *Device {
	d := &Device{
		id:     s.ID,
		name:   s.Name,
		brand:  s.Brand,
		kind:   s.Kind,
		on:     s.On,
		online: s.Online,
		level:  s.Level,
	}
	if d.on {
		d.powerUsage = PowerPolicy(d.kind, d.level)
	}

	return d
}

func (d *Device) ID() string    { return d.id }
func (d *Device) Name() string  { return d.name }
func (d *Device) Brand() string { return d.brand }
func (d *Device) Kind() Kind    { return d.kind }

// State returns a consistent snapshot of the device. A reader never
// sees a half-applied mutation.
func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return State{
		ID:         d.id,
		Name:       d.name,
		Brand:      d.brand,
		Kind:       d.kind,
		On:         d.on,
		Online:     d.online,
		Level:      d.level,
		PowerUsage: d.powerUsage,
	}
}

// Toggle flips the on/off state and re-derives power usage. It always
// succeeds, regardless of the online flag, and notifies observers.
func (d *Device) Toggle() {
	d.mu.Lock()
	d.on = !d.on
	if d.on {
		d.powerUsage = PowerPolicy(d.kind, d.level)
	} else {
		d.powerUsage = 0
	}
	state := "OFF"
	if d.on {
		state = "ON"
	}
	d.mu.Unlock()

	d.observers.notify(fmt.Sprintf("%s is now %s", d.name, state))
}

// Simulate sets the level unconditionally; bounds are the caller's
// responsibility. Power usage is only re-derived while the device is
// on. Observers are notified with a kind-specific message.
func (d *Device) Simulate(level int) {
	d.mu.Lock()
	d.level = level
	if d.on {
		d.powerUsage = PowerPolicy(d.kind, d.level)
	}
	d.mu.Unlock()

	var msg string
	switch d.kind {
	case KindAC:
		msg = fmt.Sprintf("%s: temperature set to %d°C", d.name, level)
	case KindFan:
		msg = fmt.Sprintf("%s: speed set to level %d", d.name, level)
	case KindSpeaker:
		msg = fmt.Sprintf("%s: volume set to %d%%", d.name, level)
	case KindUnknown:
		msg = fmt.Sprintf("%s: level adjusted to %d", d.name, level)
	default:
		msg = fmt.Sprintf("%s: level adjusted to %d", d.name, level)
	}

	d.observers.notify(msg)
}

// SetOnline flips the connectivity flag. It is orthogonal to on/off
// and does not affect power usage or notify observers.
func (d *Device) SetOnline(online bool) {
	d.mu.Lock()
	d.online = online
	d.mu.Unlock()
}

// Attach registers an observer. Attaching nil is a no-op; attaching
// the same observer twice is allowed and duplicates its notifications.
func (d *Device) Attach(o Observer) {
	d.observers.attach(o)
}

// Detach removes one registration of an observer. Detaching nil or an
// unattached observer is a no-op.
func (d *Device) Detach(o Observer) {
	d.observers.detach(o)
}
