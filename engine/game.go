package engine

import (
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
	"github.com/spaghettifunk/bilhar/engine/systems"
)

// Game is the application plugged into the engine. Only FnInitialize is
// required.
type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(packet *metadata.RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
