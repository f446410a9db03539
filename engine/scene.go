package engine

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/components"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

const (
	// Degrees of zoom per key press.
	keyZoomStep float64 = 5
	// Radians per second while an arrow key is held.
	keyRotateSpeed float32 = 1.5
	// Height units per second while an arrow key is held.
	keyHeightSpeed float32 = 3
)

// RenderDataSource provides the draws of one frame.
type RenderDataSource interface {
	RenderData() []metadata.GeometryRenderData
}

// Scene turns input into camera motion and builds the two views of a frame:
// the main orbit view over the whole window and the top-down minimap in the
// top-right corner.
type Scene struct {
	MainCamera    *components.Camera
	MinimapCamera *components.Camera
	ClearColour   mgl32.Vec4

	source RenderDataSource
	input  *core.Input

	width  uint32
	height uint32

	minimapEnabled bool
	minimapSize    int32
	minimapMargin  int32

	dragging bool
	prevX    float64
	prevY    float64
}

func NewScene(mainCamera, minimapCamera *components.Camera, source RenderDataSource, input *core.Input, minimap MinimapCameraConfig) *Scene {
	return &Scene{
		MainCamera:     mainCamera,
		MinimapCamera:  minimapCamera,
		ClearColour:    mgl32.Vec4{0, 0, 0, 1},
		source:         source,
		input:          input,
		minimapEnabled: minimap.Enabled,
		minimapSize:    minimap.Size,
		minimapMargin:  minimap.Margin,
	}
}

// Register hooks the scene onto the input events it reacts to.
func (s *Scene) Register(events *core.EventSystem) {
	events.Register(core.EVENT_CODE_BUTTON_PRESSED, s, s.onButton)
	events.Register(core.EVENT_CODE_BUTTON_RELEASED, s, s.onButton)
	events.Register(core.EVENT_CODE_MOUSE_MOVED, s, s.onMouseMove)
	events.Register(core.EVENT_CODE_MOUSE_WHEEL, s, s.onMouseWheel)
	events.Register(core.EVENT_CODE_KEY_PRESSED, s, s.onKey)
}

func (s *Scene) Unregister(events *core.EventSystem) {
	events.Unregister(core.EVENT_CODE_BUTTON_PRESSED, s)
	events.Unregister(core.EVENT_CODE_BUTTON_RELEASED, s)
	events.Unregister(core.EVENT_CODE_MOUSE_MOVED, s)
	events.Unregister(core.EVENT_CODE_MOUSE_WHEEL, s)
	events.Unregister(core.EVENT_CODE_KEY_PRESSED, s)
}

func (s *Scene) OnResize(width, height uint32) {
	s.width = width
	s.height = height
}

func (s *Scene) Size() (uint32, uint32) {
	return s.width, s.height
}

func (s *Scene) MinimapEnabled() bool {
	return s.minimapEnabled
}

func (s *Scene) onButton(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok || me.Button != core.BUTTON_LEFT {
		return false
	}
	if context.Type == core.EVENT_CODE_BUTTON_PRESSED {
		s.dragging = true
		s.prevX, s.prevY = me.PosX, me.PosY
	} else {
		s.dragging = false
	}
	return true
}

// onMouseMove rotates the orbit by dx/width·π and raises it by -dy/height
// while the left button is held.
func (s *Scene) onMouseMove(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok || !s.dragging || s.width == 0 || s.height == 0 {
		return false
	}
	dx := float32(me.PosX - s.prevX)
	dy := float32(me.PosY - s.prevY)
	s.prevX, s.prevY = me.PosX, me.PosY

	s.MainCamera.RotateAroundTarget(dx / float32(s.width) * math32.Pi)
	s.MainCamera.AddHeight(-dy / float32(s.height))
	return true
}

func (s *Scene) onMouseWheel(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		return false
	}
	s.MainCamera.Zoom(me.Scroll)
	return true
}

func (s *Scene) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	switch ke.KeyCode {
	case core.KEY_R:
		s.resetMainCamera()
	case core.KEY_M:
		s.minimapEnabled = !s.minimapEnabled
		core.LogDebug("minimap enabled: %t", s.minimapEnabled)
	case core.KEY_PLUS:
		s.MainCamera.Zoom(keyZoomStep)
	case core.KEY_MINUS:
		s.MainCamera.Zoom(-keyZoomStep)
	default:
		return false
	}
	return true
}

// resetMainCamera returns the orbit to angle zero.
func (s *Scene) resetMainCamera() {
	s.MainCamera.OrbitAngle = 0
	s.MainCamera.RotateAroundTarget(0)
}

// Update applies held arrow keys: left/right orbit, up/down change height.
func (s *Scene) Update(deltaTime float64) {
	if s.input == nil {
		return
	}
	dt := float32(deltaTime)
	if s.input.IsKeyDown(core.KEY_LEFT) || s.input.IsKeyDown(core.KEY_A) {
		s.MainCamera.RotateAroundTarget(-keyRotateSpeed * dt)
	}
	if s.input.IsKeyDown(core.KEY_RIGHT) || s.input.IsKeyDown(core.KEY_D) {
		s.MainCamera.RotateAroundTarget(keyRotateSpeed * dt)
	}
	if s.input.IsKeyDown(core.KEY_UP) || s.input.IsKeyDown(core.KEY_W) {
		s.MainCamera.AddHeight(keyHeightSpeed * dt)
	}
	if s.input.IsKeyDown(core.KEY_DOWN) || s.input.IsKeyDown(core.KEY_S) {
		s.MainCamera.AddHeight(-keyHeightSpeed * dt)
	}
}

// MinimapViewport places a size×size square margin pixels away from the
// top-right corner, in OpenGL's bottom-left window coordinates. A window too
// small to hold it gives an empty viewport.
func MinimapViewport(width, height uint32, size, margin int32) metadata.Viewport {
	x := int32(width) - size - margin
	y := int32(height) - size - margin
	if size <= 0 || x < 0 || y < 0 {
		return metadata.Viewport{}
	}
	return metadata.Viewport{X: x, Y: y, Width: size, Height: size}
}

// BuildPacket draws every geometry once in the main view and once more in the
// minimap.
func (s *Scene) BuildPacket(deltaTime float64) *metadata.RenderPacket {
	var geometries []metadata.GeometryRenderData
	if s.source != nil {
		geometries = s.source.RenderData()
	}

	packet := &metadata.RenderPacket{
		DeltaTime:  deltaTime,
		ClearColor: s.ClearColour,
	}

	mainViewport := metadata.Viewport{Width: int32(s.width), Height: int32(s.height)}
	packet.Views = append(packet.Views, s.view("world", s.MainCamera, mainViewport, geometries))

	if s.minimapEnabled {
		viewport := MinimapViewport(s.width, s.height, s.minimapSize, s.minimapMargin)
		if !viewport.Empty() {
			packet.Views = append(packet.Views, s.view("minimap", s.MinimapCamera, viewport, geometries))
		}
	}
	return packet
}

func (s *Scene) view(name string, camera *components.Camera, viewport metadata.Viewport, geometries []metadata.GeometryRenderData) metadata.RenderViewPacket {
	return metadata.RenderViewPacket{
		Name:       name,
		Viewport:   viewport,
		View:       camera.GetView(),
		Projection: camera.GetProjection(viewport.Aspect()),
		Geometries: geometries,
	}
}
