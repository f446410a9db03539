package systems

type SystemManager struct {
	cameraSystem  *CameraSystem
	meshSystem    *MeshSystem
	shaderSystem  *ShaderSystem
	textureSystem *TextureSystem
}

func NewSystemManager(am AssetLoader, r GPUResources) (*SystemManager, error) {
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: 100,
	})
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: 1000,
	}, am, r)
	if err != nil {
		return nil, err
	}
	ssys, err := NewShaderSystem(&ShaderSystemConfig{
		MaxShaderCount: 16,
	}, am)
	if err != nil {
		return nil, err
	}
	ms, err := NewMeshSystem(am, ts, r)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		cameraSystem:  cs,
		textureSystem: ts,
		shaderSystem:  ssys,
		meshSystem:    ms,
	}, nil
}

func (sm *SystemManager) Cameras() *CameraSystem {
	return sm.cameraSystem
}

func (sm *SystemManager) Meshes() *MeshSystem {
	return sm.meshSystem
}

func (sm *SystemManager) Shaders() *ShaderSystem {
	return sm.shaderSystem
}

func (sm *SystemManager) Textures() *TextureSystem {
	return sm.textureSystem
}

// Shutdown releases meshes before the textures their materials point at.
func (sm *SystemManager) Shutdown() error {
	if err := sm.meshSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.shaderSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.textureSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.cameraSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
