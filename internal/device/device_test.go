package device_test

import (
	"sync"
	"testing"

	"codeberg.org/mutker/homectl/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	messages []string
}

func (o *recordingObserver) Receive(msg string) {
	o.mu.Lock()
	o.messages = append(o.messages, msg)
	o.mu.Unlock()
}

func (o *recordingObserver) received() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]string, len(o.messages))
	copy(out, o.messages)
	return out
}

func TestToggleDerivesPower(t *testing.T) {
	ac := device.New(device.KindAC, "Arctic", "Living Room AC")

	s := ac.State()
	require.False(t, s.On)
	require.Equal(t, 0, s.PowerUsage)
	require.Equal(t, 24, s.Level)

	ac.Toggle()
	s = ac.State()
	assert.True(t, s.On)
	assert.Equal(t, device.PowerPolicy(device.KindAC, 24), s.PowerUsage)

	ac.Simulate(22)
	s = ac.State()
	assert.Equal(t, 22, s.Level)
	assert.Equal(t, 690, s.PowerUsage)

	ac.Toggle()
	s = ac.State()
	assert.False(t, s.On)
	assert.Equal(t, 0, s.PowerUsage)
}

func TestSimulateWhileOffKeepsPowerZero(t *testing.T) {
	sp := device.New(device.KindSpeaker, "Boom", "Kitchen Speaker")

	sp.Simulate(80)

	s := sp.State()
	assert.False(t, s.On)
	assert.Equal(t, 80, s.Level)
	assert.Equal(t, 0, s.PowerUsage)
}

func TestSimulateAcceptsAbsurdLevels(t *testing.T) {
	fan := device.New(device.KindFan, "Breeze", "Bedroom Fan")
	fan.Toggle()

	fan.Simulate(-7)

	s := fan.State()
	assert.Equal(t, -7, s.Level)
	assert.Equal(t, 0, s.PowerUsage, "off-table speed draws nothing")
}

func TestObserverMessages(t *testing.T) {
	ac := device.New(device.KindAC, "Arctic", "Living Room AC")
	obs := &recordingObserver{}
	ac.Attach(obs)

	ac.Toggle()
	ac.Simulate(22)
	ac.Toggle()

	require.Equal(t, []string{
		"Living Room AC is now ON",
		"Living Room AC: temperature set to 22°C",
		"Living Room AC is now OFF",
	}, obs.received())
}

func TestSimulateMessagePerKind(t *testing.T) {
	cases := []struct {
		kind device.Kind
		want string
	}{
		{device.KindFan, "dev: speed set to level 4"},
		{device.KindSpeaker, "dev: volume set to 4%"},
		{device.KindUnknown, "dev: level adjusted to 4"},
	}

	for _, tc := range cases {
		d := device.New(tc.kind, "brand", "dev")
		obs := &recordingObserver{}
		d.Attach(obs)
		d.Simulate(4)
		assert.Equal(t, []string{tc.want}, obs.received())
	}
}

func TestDuplicateAttachDuplicatesNotifications(t *testing.T) {
	fan := device.New(device.KindFan, "Breeze", "Bedroom Fan")
	obs := &recordingObserver{}

	fan.Attach(obs)
	fan.Attach(obs)
	fan.Toggle()

	assert.Len(t, obs.received(), 2, "double attach is documented to double-notify")
}

func TestAttachDetachNil(t *testing.T) {
	fan := device.New(device.KindFan, "Breeze", "Bedroom Fan")

	fan.Attach(nil)
	fan.Detach(nil)
	fan.Toggle() // must not panic
}

func TestDetachStopsNotifications(t *testing.T) {
	fan := device.New(device.KindFan, "Breeze", "Bedroom Fan")
	obs := &recordingObserver{}

	fan.Attach(obs)
	fan.Toggle()
	fan.Detach(obs)
	fan.Toggle()

	assert.Len(t, obs.received(), 1)
}

func TestRestoreRederivesPower(t *testing.T) {
	// A stale snapshot claiming on with zero power must come back
	// consistent.
	d := device.Restore(device.State{
		ID:    "dev-1",
		Name:  "AC",
		Kind:  device.KindAC,
		On:    true,
		Level: 30,
	})

	s := d.State()
	assert.True(t, s.On)
	assert.Equal(t, 50, s.PowerUsage)
}

func TestConcurrentMutationKeepsInvariant(t *testing.T) {
	ac := device.New(device.KindAC, "Arctic", "AC")

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			ac.Toggle()
			ac.Simulate(17 + i%14)
		}
		close(stop)
	}()

	for {
		s := ac.State()
		if s.On {
			assert.Equal(t, device.PowerPolicy(s.Kind, s.Level), s.PowerUsage)
		} else {
			assert.Equal(t, 0, s.PowerUsage)
		}
		select {
		case <-stop:
			wg.Wait()
			return
		default:
		}
	}
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	a := device.New(device.KindAC, "b", "a")
	b := device.New(device.KindFan, "b", "b")
	c := device.New(device.KindSpeaker, "b", "c")

	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, b.ID(), c.ID())
}
