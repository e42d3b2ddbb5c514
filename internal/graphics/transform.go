package graphics

import "github.com/go-gl/mathgl/mgl32"

// Transform accumulates a model matrix. Every builder call right-multiplies
// the current matrix, so operations apply to vertices in reverse call order.
// The zero value is the identity.
type Transform struct {
	m   mgl32.Mat4
	set bool
}

// Identity returns a transform holding the identity matrix
func Identity() Transform {
	return Transform{}
}

func (t Transform) then(m mgl32.Mat4) Transform {
	return Transform{m: t.Matrix().Mul4(m), set: true}
}

// Translate appends a translation by v
func (t Transform) Translate(v mgl32.Vec3) Transform {
	return t.then(mgl32.Translate3D(v[0], v[1], v[2]))
}

// Rotate appends a rotation of radians around axis. A zero axis leaves the
// matrix unchanged.
func (t Transform) Rotate(radians float32, axis mgl32.Vec3) Transform {
	if axis.Len() == 0 {
		return t
	}
	return t.then(mgl32.HomogRotate3D(radians, axis.Normalize()))
}

// Scale appends a non-uniform scale by v
func (t Transform) Scale(v mgl32.Vec3) Transform {
	return t.then(mgl32.Scale3D(v[0], v[1], v[2]))
}

// Matrix returns the accumulated model matrix
func (t Transform) Matrix() mgl32.Mat4 {
	if !t.set {
		return mgl32.Ident4()
	}
	return t.m
}
