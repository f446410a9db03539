package engine

import (
	"fmt"

	"github.com/spaghettifunk/bilhar/engine/assets"
	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/platform"
	"github.com/spaghettifunk/bilhar/engine/renderer"
	"github.com/spaghettifunk/bilhar/engine/renderer/opengl"
	"github.com/spaghettifunk/bilhar/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

const (
	eventQueueSize = 256
	// How often the frame metrics are written into the window title, in seconds.
	titleInterval = 0.5
	// Sleep while minimized, in milliseconds.
	suspendedSleep = 50
)

const BuiltinShaderName = "Shader.Builtin.Flat"

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *ApplicationConfig
	isRunning     bool
	isSuspended   bool
	events        *core.EventSystem
	input         *core.Input
	platform      *platform.Platform
	renderer      *renderer.Renderer
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	scene         *Scene
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	lastTitle     float64
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		return nil, err
	}
	core.SetLogLevel(g.ApplicationConfig.Level())

	events := core.NewEventSystem(eventQueueSize)
	input := core.NewInput(events)

	am, err := assets.NewAssetManager(events)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	r := renderer.New(opengl.New())
	sm, err := systems.NewSystemManager(am, r)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	g.SystemManager = sm

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		config:        g.ApplicationConfig,
		events:        events,
		input:         input,
		platform:      platform.New(events, input),
		renderer:      r,
		assetManager:  am,
		systemManager: sm,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
		isRunning:     true,
		width:         g.ApplicationConfig.Window.Width,
		height:        g.ApplicationConfig.Window.Height,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.config

	// register some events
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)
	e.events.Register(core.EVENT_CODE_ASSET_CHANGED, e, e.onAssetChanged)

	if err := e.platform.Startup(cfg.Window.Title, cfg.Window.X, cfg.Window.Y, cfg.Window.Width, cfg.Window.Height, cfg.Window.VSync); err != nil {
		return err
	}
	e.width, e.height = e.platform.FramebufferSize()

	if err := e.assetManager.Initialize(cfg.AssetsDir); err != nil {
		return err
	}

	shaderConfig, err := e.systemManager.Shaders().Load(BuiltinShaderName, cfg.AssetPath(cfg.Shaders.Vertex), cfg.AssetPath(cfg.Shaders.Fragment))
	if err != nil {
		core.LogError("failed to load the builtin shader: %s", err)
		return err
	}
	if err := e.renderer.Initialize(cfg.Window.Title, e.width, e.height, shaderConfig); err != nil {
		return err
	}

	cameras := e.systemManager.Cameras()
	cfg.Cameras.Main.ApplyMain(cameras.GetDefault())
	cfg.Cameras.Minimap.ApplyMinimap(cameras.GetMinimap())
	e.scene = NewScene(cameras.GetDefault(), cameras.GetMinimap(), e.systemManager.Meshes(), e.input, cfg.Cameras.Minimap)
	e.scene.Register(e.events)
	e.scene.OnResize(e.width, e.height)

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized (%dx%d, %d assets indexed)", cfg.Window.Title, e.width, e.height, e.assetManager.Count())
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
		}
		// Deliver events posted from other goroutines: quit requests and asset changes.
		e.events.Dispatch()
		if !e.isRunning {
			break
		}

		if e.isSuspended {
			e.platform.Sleep(suspendedSleep)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := platform.GetAbsoluteTime()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down: %s", err)
				e.isRunning = false
				return err
			}
		}
		e.scene.Update(delta)

		packet := e.scene.BuildPacket(delta)
		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(packet, delta); err != nil {
				core.LogError("Game render failed, shutting down: %s", err)
				e.isRunning = false
				return err
			}
		}

		if err := e.renderer.DrawFrame(packet); err != nil {
			e.isRunning = false
			return err
		}
		e.platform.SwapBuffers()

		// Figure out how long the frame took and, if below the limit,
		// give the rest back to the OS.
		frameElapsedTime := platform.GetAbsoluteTime() - frameStartTime
		if limit := e.config.Window.FrameLimit; limit > 0 {
			remainingMS := (1.0/limit - frameElapsedTime) * 1000
			if remainingMS > 1 {
				e.platform.Sleep(remainingMS - 1)
			}
		}
		e.metrics.Update(platform.GetAbsoluteTime() - frameStartTime)
		if currentTime-e.lastTitle >= titleInterval {
			e.lastTitle = currentTime
			fps, frameTime := e.metrics.Frame()
			e.platform.SetTitle(fmt.Sprintf("%s - %.0f FPS (%.2f ms)", e.config.Window.Title, fps, frameTime))
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		// As a safety, input is the last thing to be updated before
		// this frame ends.
		e.input.Update()

		// Update last time
		e.lastTime = currentTime
	}

	return nil
}

// RequestQuit stops the loop before its next frame. Safe to call from any goroutine.
func (e *Engine) RequestQuit() {
	if err := e.events.Post(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT}); err != nil {
		core.LogWarn("quit request dropped: %s", err)
	}
}

// Shutdown releases GPU resources while the context is still alive, then
// closes the window.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if e.scene != nil {
		e.scene.Unregister(e.events)
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	e.events.Shutdown()
	return e.platform.Shutdown()
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Fire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	e.scene.OnResize(width, height)
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := e.renderer.OnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	return false
}

// onAssetChanged runs on the render thread through Dispatch, so it can touch
// the GPU.
func (e *Engine) onAssetChanged(context core.EventContext) bool {
	ae, ok := context.Data.(*core.AssetEvent)
	if !ok {
		return false
	}
	if ae.Removed {
		core.LogDebug("asset %s removed, keeping what is loaded", ae.Path)
		return false
	}
	if names := e.systemManager.Meshes().Reload(ae.Path); len(names) > 0 {
		core.LogInfo("reloaded %v after %s changed", names, ae.Path)
	}
	return false
}
