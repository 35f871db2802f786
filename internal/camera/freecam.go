package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var worldUp = mgl32.Vec3{0, 1, 0}

// FreeCam is a flying camera with mouse look. Yaw and pitch are in degrees;
// yaw 0 looks down +X.
type FreeCam struct {
	Position    mgl32.Vec3
	Yaw         float64
	Pitch       float64
	Speed       float32 // units per second
	Sensitivity float64
	FOV         float32
	Near, Far   float32

	firstMouse   bool
	lastX, lastY float64
}

// NewFreeCam creates a camera at pos looking down +X.
func NewFreeCam(pos mgl32.Vec3) *FreeCam {
	return &FreeCam{
		Position:    pos,
		Speed:       20,
		Sensitivity: 0.1,
		FOV:         60,
		Near:        0.1,
		Far:         1000,
		firstMouse:  true,
	}
}

// HandleMouseMovement turns the camera by the cursor delta since the last call.
func (c *FreeCam) HandleMouseMovement(xpos, ypos float64) {
	if c.firstMouse {
		c.lastX, c.lastY = xpos, ypos
		c.firstMouse = false
		return
	}
	dx := (xpos - c.lastX) * c.Sensitivity
	dy := (c.lastY - ypos) * c.Sensitivity
	c.lastX, c.lastY = xpos, ypos

	c.Yaw += dx
	c.Pitch = min(max(c.Pitch+dy, -89), 89)
}

// Front returns the unit view direction.
func (c *FreeCam) Front() mgl32.Vec3 {
	y := mgl32.DegToRad(float32(c.Yaw))
	p := mgl32.DegToRad(float32(c.Pitch))
	fx := float32(math.Cos(float64(y)) * math.Cos(float64(p)))
	fy := float32(math.Sin(float64(p)))
	fz := float32(math.Sin(float64(y)) * math.Cos(float64(p)))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

// Right returns the horizontal unit vector to the camera's right.
func (c *FreeCam) Right() mgl32.Vec3 {
	return c.Front().Cross(worldUp).Normalize()
}

// Move flies the camera. forward, right and up are in [-1, 1].
// Forward motion follows the look direction projected onto the ground plane.
func (c *FreeCam) Move(dt float64, forward, right, up float32) {
	f := c.Front()
	flat := mgl32.Vec3{f.X(), 0, f.Z()}
	if flat.Len() > 0 {
		flat = flat.Normalize()
	}
	dir := flat.Mul(forward).Add(c.Right().Mul(right)).Add(worldUp.Mul(up))
	if dir.Len() == 0 {
		return
	}
	c.Position = c.Position.Add(dir.Normalize().Mul(c.Speed * float32(dt)))
}

// View returns the view matrix.
func (c *FreeCam) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), worldUp)
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *FreeCam) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}
