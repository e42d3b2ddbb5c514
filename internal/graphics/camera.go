package graphics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the process-wide view: a position looking along front, turned
// by yaw around the up axis.
type Camera struct {
	AspectRatio float32
	FOV         float32 // degrees
	NearPlane   float32
	FarPlane    float32

	pos       mgl32.Vec3
	up        mgl32.Vec3
	front     mgl32.Vec3
	direction mgl32.Vec3
	yaw       float32 // degrees

	view       mgl32.Mat4
	projection mgl32.Mat4
}

// NewCamera creates a camera hovering above the origin, looking down -Z
func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       45.0,
		NearPlane: 0.1,
		FarPlane:  1000.0,
		pos:       mgl32.Vec3{0, 5, 0},
		up:        mgl32.Vec3{0, 1, 0},
		front:     mgl32.Vec3{0, 0, -1},
		yaw:       -90,
	}
	c.SetViewport(width, height)
	c.Update()
	return c
}

// SetLens changes the projection parameters
func (c *Camera) SetLens(fov, near, far float32) {
	c.FOV = fov
	c.NearPlane = near
	c.FarPlane = far
	c.updateProjection()
}

// SetViewport updates the aspect ratio for a new framebuffer size
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
	c.updateProjection()
}

func (c *Camera) updateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// Update recomputes the view matrix from position, front and up
func (c *Camera) Update() {
	c.view = mgl32.LookAtV(c.pos, c.pos.Add(c.front), c.up)
}

// MoveLocalZ moves the camera along its facing direction
func (c *Camera) MoveLocalZ(step float32) {
	c.pos = c.pos.Add(c.front.Mul(step))
}

// RotateLocalY turns the camera around the vertical axis by degrees
func (c *Camera) RotateLocalY(degrees float32) {
	c.yaw += degrees
	rad := mgl32.DegToRad(c.yaw)
	c.direction[0] = math32.Cos(rad)
	c.direction[2] = math32.Sin(rad)
	c.front = c.direction.Normalize()
}

// SetPosition places the camera
func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.pos = pos
}

func (c *Camera) Position() mgl32.Vec3   { return c.pos }
func (c *Camera) Front() mgl32.Vec3      { return c.front }
func (c *Camera) Up() mgl32.Vec3         { return c.up }
func (c *Camera) Yaw() float32           { return c.yaw }
func (c *Camera) View() mgl32.Mat4       { return c.view }
func (c *Camera) Projection() mgl32.Mat4 { return c.projection }
