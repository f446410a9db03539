package systems

import (
	"fmt"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/components"
)

type CameraSystem struct {
	Config *CameraSystemConfig
	Lookup map[string]*components.CameraLookup
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *components.Camera
	// The top-down camera drawn in the minimap; never released either.
	MinimapCamera *components.Camera
	nextID        uint16
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/**
	 * @brief NOTE: The maximum number of named cameras that can be managed by
	 * the system, not counting the default and minimap cameras.
	 */
	MaxCameraCount uint16
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &CameraSystem{
		Config:        config,
		Lookup:        make(map[string]*components.CameraLookup, config.MaxCameraCount),
		DefaultCamera: components.NewCamera(),
		MinimapCamera: components.NewTopDownCamera(),
	}, nil
}

func (cs *CameraSystem) Shutdown() error {
	cs.Lookup = make(map[string]*components.CameraLookup)
	return nil
}

/**
 * @brief Acquires a pointer to a camera by name.
 * If one is not found, a new one is created and returned.
 * Internal reference counter is incremented.
 */
func (cs *CameraSystem) Acquire(name string) (*components.Camera, error) {
	switch name {
	case components.DEFAULT_CAMERA_NAME:
		return cs.DefaultCamera, nil
	case components.MINIMAP_CAMERA_NAME:
		return cs.MinimapCamera, nil
	}

	lookup, ok := cs.Lookup[name]
	if !ok {
		if len(cs.Lookup) >= int(cs.Config.MaxCameraCount) {
			err := fmt.Errorf("func CameraSystemAcquire failed to acquire new slot for '%s'. Adjust camera system config to allow more", name)
			core.LogError(err.Error())
			return nil, err
		}
		core.LogDebug("Creating new camera named '%s'...", name)
		cs.nextID++
		lookup = &components.CameraLookup{
			ID:     cs.nextID,
			Camera: components.NewCamera(),
		}
		cs.Lookup[name] = lookup
	}
	lookup.ReferenceCount++
	return lookup.Camera, nil
}

/**
 * @brief Releases a camera with the given name. Internal reference
 * counter is decremented. If this reaches 0, the camera is dropped.
 */
func (cs *CameraSystem) Release(name string) {
	if name == components.DEFAULT_CAMERA_NAME || name == components.MINIMAP_CAMERA_NAME {
		core.LogDebug("Cannot release built-in camera '%s'. Nothing was done.", name)
		return
	}
	lookup, ok := cs.Lookup[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup for '%s'. Nothing was done.", name)
		return
	}
	lookup.ReferenceCount--
	if lookup.ReferenceCount < 1 {
		delete(cs.Lookup, name)
	}
}

func (cs *CameraSystem) GetDefault() *components.Camera {
	return cs.DefaultCamera
}

func (cs *CameraSystem) GetMinimap() *components.Camera {
	return cs.MinimapCamera
}
