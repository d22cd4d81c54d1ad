package pmove

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// Products are rounded to float32 before they are added, whatever the platform.
func TestBoundsHeightsRoundProducts(t *testing.T) {
	b := Bounds{Mins: mgl32.Vec3{-15, -15, -23.7}, Maxs: mgl32.Vec3{15, 15, 31.3}}
	height := b.Maxs[2] - b.Mins[2]

	tests := []struct {
		name      string
		got, want float32
	}{
		{"standing view", standingViewHeight(b), b.Mins[2] + float32(height*0.9)},
		{"ducked view", duckedViewHeight(b), b.Mins[2] + float32(height*0.5)},
		{"ducked top", b.Ducked().Maxs[2], b.Maxs[2] + float32(b.Mins[2]*0.5)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %x, want %x", tt.name, tt.got, tt.want)
		}
	}
}
