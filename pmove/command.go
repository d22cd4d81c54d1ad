package pmove

import "github.com/go-gl/mathgl/mgl32"

// Buttons is the set of action buttons held for a command.
type Buttons uint8

const (
	ButtonAttack Buttons = 1 << iota
	ButtonHook
	ButtonWalk
)

// Command is one tick of player intent.
type Command struct {
	// Msec is the duration the command covers.
	Msec uint8
	// Angles are the raw view angles (pitch, yaw, roll) in degrees.
	Angles mgl32.Vec3

	Forward, Right, Up float32
	Buttons            Buttons
}

// Idle reports whether the command requests no motion at all.
func (c Command) Idle() bool {
	return c.Forward == 0 && c.Right == 0 && c.Up == 0
}
