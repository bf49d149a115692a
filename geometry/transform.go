package geometry

import "github.com/go-gl/mathgl/mgl64"

// Transform places mesh vertices in world space: scale, then rotate, then
// translate.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Apply transforms a single point
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	scaled := mgl64.Vec3{p[0] * t.Scale[0], p[1] * t.Scale[1], p[2] * t.Scale[2]}
	return t.Rotation.Rotate(scaled).Add(t.Position)
}

// Mat4 returns the equivalent homogeneous matrix
func (t Transform) Mat4() mgl64.Mat4 {
	s := mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	r := t.Rotation.Mat4()
	tr := mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	return tr.Mul4(r).Mul4(s)
}
