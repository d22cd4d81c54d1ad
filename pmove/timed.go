package pmove

// TimedKind names the single timed condition an actor may be under.
type TimedKind uint8

const (
	TimedNone TimedKind = iota
	// TimedPushed suppresses ground detection after being launched.
	TimedPushed
	// TimedTrickJump grants a bonus to a jump issued shortly after a soft landing.
	TimedTrickJump
	// TimedWaterJump keeps the actor on its trajectory out of the water.
	TimedWaterJump
	// TimedLand blocks jumping after a landing.
	TimedLand
	// TimedTeleport freezes the actor after a teleport.
	TimedTeleport
)

func (k TimedKind) String() string {
	switch k {
	case TimedPushed:
		return "pushed"
	case TimedTrickJump:
		return "trick jump"
	case TimedWaterJump:
		return "water jump"
	case TimedLand:
		return "land"
	case TimedTeleport:
		return "teleport"
	}
	return "none"
}

// Timed is at most one active TimedKind together with its remaining duration.
// The zero value is no timer at all.
type Timed struct {
	kind      TimedKind
	remaining uint32
}

// NewTimed arms kind for msec milliseconds. A zero duration yields no timer.
func NewTimed(kind TimedKind, msec uint32) Timed {
	if kind == TimedNone || msec == 0 {
		return Timed{}
	}
	return Timed{kind: kind, remaining: msec}
}

func (t Timed) Kind() TimedKind {
	return t.kind
}

// Remaining returns the milliseconds left before the timer expires.
func (t Timed) Remaining() uint32 {
	return t.remaining
}

func (t Timed) Active() bool {
	return t.kind != TimedNone
}

func (t Timed) Is(kind TimedKind) bool {
	return t.kind == kind && kind != TimedNone
}

// Tick advances the timer by msec, expiring it once the duration has elapsed.
func (t Timed) Tick(msec uint32) Timed {
	if !t.Active() {
		return t
	}
	if msec >= t.remaining {
		return Timed{}
	}
	t.remaining -= msec
	return t
}
