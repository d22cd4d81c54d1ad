package pmove

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// The helpers below wrap every product in an explicit float32 conversion. Go
// may otherwise fuse x*y+z into a single instruction on some architectures,
// which would break bit-identical results between peers.

func dot(a, b mgl32.Vec3) float32 {
	return float32(a[0]*b[0]) + float32(a[1]*b[1]) + float32(a[2]*b[2])
}

func cross(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(a[1]*b[2]) - float32(a[2]*b[1]),
		float32(a[2]*b[0]) - float32(a[0]*b[2]),
		float32(a[0]*b[1]) - float32(a[1]*b[0]),
	}
}

// ma returns v + s*dir.
func ma(v mgl32.Vec3, s float32, dir mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		v[0] + float32(s*dir[0]),
		v[1] + float32(s*dir[1]),
		v[2] + float32(s*dir[2]),
	}
}

func length(v mgl32.Vec3) float32 {
	return math32.Sqrt(dot(v, v))
}

func horizontalLengthSqr(v mgl32.Vec3) float32 {
	return float32(v[0]*v[0]) + float32(v[1]*v[1])
}

// normalize returns the unit vector of v and its length. A zero vector yields a
// zero direction instead of NaNs.
func normalize(v mgl32.Vec3) (mgl32.Vec3, float32) {
	l := length(v)
	if l == 0 {
		return mgl32.Vec3{}, 0
	}
	inv := 1 / l
	return mgl32.Vec3{v[0] * inv, v[1] * inv, v[2] * inv}, l
}

// clipVelocity removes the component of in that points into a plane with the
// given normal. Bounce above 1 pushes the result slightly away from the plane.
func clipVelocity(in, normal mgl32.Vec3, bounce float32) mgl32.Vec3 {
	backoff := dot(in, normal)
	if backoff < 0 {
		backoff *= bounce
	} else {
		backoff /= bounce
	}
	return mgl32.Vec3{
		in[0] - float32(normal[0]*backoff),
		in[1] - float32(normal[1]*backoff),
		in[2] - float32(normal[2]*backoff),
	}
}

// clipToPlanes reprojects velocity so that it no longer points into any of
// planes. Velocity caught between two planes is redirected along their crease;
// a third conflicting plane stops it entirely, in which case locked is true.
func clipToPlanes(velocity mgl32.Vec3, planes []mgl32.Vec3, bounce float32) (clipped mgl32.Vec3, locked bool) {
	for i := range planes {
		if dot(velocity, planes[i]) >= 0 {
			continue
		}
		clipped = clipVelocity(velocity, planes[i], bounce)

		for j := range planes {
			if j == i || dot(clipped, planes[j]) >= 0 {
				continue
			}
			clipped = clipVelocity(clipped, planes[j], bounce)
			if dot(clipped, planes[i]) >= 0 {
				continue
			}

			crease, _ := normalize(cross(planes[i], planes[j]))
			clipped = crease.Mul(dot(crease, velocity))

			for k := range planes {
				if k == i || k == j {
					continue
				}
				if dot(clipped, planes[k]) < 0 {
					return mgl32.Vec3{}, true
				}
			}
		}
		return clipped, false
	}
	return velocity, false
}

// angleVectors returns the forward, right and up vectors of angles given in
// degrees as (pitch, yaw, roll). Positive pitch looks down.
func angleVectors(angles mgl32.Vec3) (forward, right, up mgl32.Vec3) {
	sp, cp := sincos(angles[0])
	sy, cy := sincos(angles[1])
	sr, cr := sincos(angles[2])

	forward = mgl32.Vec3{float32(cp * cy), float32(cp * sy), -sp}
	right = mgl32.Vec3{
		float32(float32(-sr*sp)*cy) + float32(cr*sy),
		float32(float32(-sr*sp)*sy) - float32(cr*cy),
		float32(-sr * cp),
	}
	up = mgl32.Vec3{
		float32(float32(cr*sp)*cy) + float32(sr*sy),
		float32(float32(cr*sp)*sy) - float32(sr*cy),
		float32(cr * cp),
	}
	return forward, right, up
}

func sincos(degrees float32) (float32, float32) {
	rad := mgl32.DegToRad(degrees)
	return math32.Sin(rad), math32.Cos(rad)
}

// normalizeAngle wraps a into (-180, 180].
func normalizeAngle(a float32) float32 {
	a = math32.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
