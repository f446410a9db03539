package systems

import (
	"fmt"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of shader configs held in the system. */
	MaxShaderCount uint16
}

// ShaderSystem reads shader stage sources and keeps the resulting configs by name.
type ShaderSystem struct {
	// This system's configuration.
	Config *ShaderSystemConfig
	// A lookup table for shader name->config
	Lookup map[string]*metadata.ShaderConfig

	assetManager AssetLoader
}

func NewShaderSystem(config *ShaderSystemConfig, am AssetLoader) (*ShaderSystem, error) {
	if config.MaxShaderCount == 0 {
		err := fmt.Errorf("NewShaderSystem - config.MaxShaderCount must be greater than 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &ShaderSystem{
		Config:       config,
		Lookup:       make(map[string]*metadata.ShaderConfig),
		assetManager: am,
	}, nil
}

// Load reads the vertex and fragment sources into a config named name. A
// config that was already loaded is returned as is.
func (ss *ShaderSystem) Load(name, vertexPath, fragmentPath string) (*metadata.ShaderConfig, error) {
	if cfg, ok := ss.Lookup[name]; ok {
		return cfg, nil
	}
	if len(ss.Lookup) >= int(ss.Config.MaxShaderCount) {
		return nil, fmt.Errorf("shader system is full, cannot load '%s'", name)
	}

	cfg := &metadata.ShaderConfig{Name: name}
	for _, s := range []struct {
		stage metadata.ShaderStage
		path  string
	}{
		{metadata.ShaderStageVertex, vertexPath},
		{metadata.ShaderStageFragment, fragmentPath},
	} {
		res, err := ss.assetManager.Load(s.path, metadata.ResourceTypeShader, nil)
		if err != nil {
			return nil, fmt.Errorf("shader '%s' %s stage: %w", name, s.stage, err)
		}
		source, ok := res.Data.(string)
		if !ok || source == "" {
			return nil, fmt.Errorf("shader '%s' %s stage: %s is empty", name, s.stage, s.path)
		}
		cfg.Stages = append(cfg.Stages, metadata.ShaderStageConfig{
			Stage:    s.stage,
			FileName: s.path,
			Source:   source,
		})
	}
	ss.Lookup[name] = cfg
	return cfg, nil
}

func (ss *ShaderSystem) Get(name string) (*metadata.ShaderConfig, bool) {
	cfg, ok := ss.Lookup[name]
	return cfg, ok
}

func (ss *ShaderSystem) Shutdown() error {
	ss.Lookup = make(map[string]*metadata.ShaderConfig)
	return nil
}
