package components

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/math"
)

const (
	/** @brief The name of the default orbiting camera. */
	DEFAULT_CAMERA_NAME string = "main"
	/** @brief The name of the top-down camera drawn in the minimap. */
	MINIMAP_CAMERA_NAME string = "minimap"
)

const (
	DefaultFOV         float32 = 60
	DefaultNearClip    float32 = 0.1
	DefaultFarClip     float32 = 100
	DefaultOrbitRadius float32 = 15
	DefaultHeight      float32 = 3
	MinFOV             float32 = 15
	MaxFOV             float32 = 90
	MinHeight          float32 = 0.5
	MaxHeight          float32 = 30
)

/**
 * @brief A perspective camera looking at Target. When Orbit is set the
 * position is derived from OrbitAngle, OrbitRadius and Height around the
 * target; otherwise Position is used as given.
 */
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	/** @brief Vertical field of view in degrees. */
	FOV      float32
	NearClip float32
	FarClip  float32

	Orbit       bool
	OrbitAngle  float32
	OrbitRadius float32
	Height      float32

	MinFOV, MaxFOV       float32
	MinHeight, MaxHeight float32
}

type CameraLookup struct {
	ID             uint16
	ReferenceCount uint16
	Camera         *Camera
}

// NewCamera returns the orbiting main camera with its position already
// placed on the orbit.
func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

// NewTopDownCamera looks straight down at the origin with -Z as up, so the
// table keeps its orientation in the minimap.
func NewTopDownCamera() *Camera {
	camera := NewCamera()
	camera.Orbit = false
	camera.Position = mgl32.Vec3{0, 30, 0}
	camera.Up = mgl32.Vec3{0, 0, -1}
	camera.FOV = 45
	return camera
}

func (c *Camera) Reset() {
	*c = Camera{
		Position:    mgl32.Vec3{0, 5, 20},
		Up:          mgl32.Vec3{0, 1, 0},
		FOV:         DefaultFOV,
		NearClip:    DefaultNearClip,
		FarClip:     DefaultFarClip,
		Orbit:       true,
		OrbitRadius: DefaultOrbitRadius,
		Height:      DefaultHeight,
		MinFOV:      MinFOV,
		MaxFOV:      MaxFOV,
		MinHeight:   MinHeight,
		MaxHeight:   MaxHeight,
	}
	c.UpdatePosition()
}

func (c *Camera) GetView() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjection(aspectRatio float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspectRatio, c.NearClip, c.FarClip)
}

// Zoom narrows the field of view by yOffset degrees.
func (c *Camera) Zoom(yOffset float64) {
	c.FOV = math.Clamp(c.FOV-float32(yOffset), c.MinFOV, c.MaxFOV)
	core.LogDebug("FOV (Zoom) = %f", c.FOV)
}

// RotateAroundTarget advances the orbit angle by radians.
func (c *Camera) RotateAroundTarget(radians float32) {
	c.OrbitAngle = math.Wrap(c.OrbitAngle+radians, 2*math32.Pi)
	c.UpdatePosition()
}

func (c *Camera) AddHeight(delta float32) {
	c.Height = math.Clamp(c.Height+delta, c.MinHeight, c.MaxHeight)
	c.UpdatePosition()
}

func (c *Camera) UpdatePosition() {
	if !c.Orbit {
		return
	}
	sin, cos := math32.Sincos(c.OrbitAngle)
	c.Position = mgl32.Vec3{
		c.Target.X() + c.OrbitRadius*sin,
		c.Target.Y() + c.Height,
		c.Target.Z() + c.OrbitRadius*cos,
	}
}
