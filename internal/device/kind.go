package device

import "math"

// Kind is the closed set of appliance types. Adding a kind means
// extending every switch below, which the compiler will point at.
type Kind int

const (
	KindUnknown Kind = iota
	KindAC
	KindFan
	KindSpeaker
)

// Fan power draw is a discrete table; speeds outside 1-5 draw nothing.
var fanPowerTable = map[int]int{
	1: 15,
	2: 25,
	3: 35,
	4: 45,
	5: 55,
}

func (k Kind) String() string {
	switch k {
	case KindAC:
		return "AC"
	case KindFan:
		return "FAN"
	case KindSpeaker:
		return "SPEAKER"
	case KindUnknown:
		return "UNKNOWN"
	}

	return "UNKNOWN"
}

// ParseKind maps a stored type string back to a Kind. Unrecognized
// strings are tolerated and map to KindUnknown.
func ParseKind(s string) Kind {
	switch s {
	case "AC":
		return KindAC
	case "FAN":
		return KindFan
	case "SPEAKER":
		return KindSpeaker
	}

	return KindUnknown
}

// DefaultLevel returns the level a freshly built appliance starts at:
// AC 24°C, fan speed 3, speaker volume 50%.
func (k Kind) DefaultLevel() int {
	switch k {
	case KindAC:
		return 24
	case KindFan:
		return 3
	case KindSpeaker:
		return 50
	case KindUnknown:
		return 0
	}

	return 0
}

// PowerPolicy computes the wattage an appliance of the given kind
// draws while switched on at the given level. Unknown kinds draw
// nothing.
func PowerPolicy(kind Kind, level int) int {
	switch kind {
	case KindAC:
		extra := 30 - level
		if extra < 0 {
			extra = 0
		}
		return 50 + extra*80
	case KindFan:
		return fanPowerTable[level]
	case KindSpeaker:
		// Floored, not truncated: levels are accepted unvalidated and
		// may be negative.
		return 5 + int(math.Floor(float64(level)*0.5))
	case KindUnknown:
		return 0
	}

	return 0
}
