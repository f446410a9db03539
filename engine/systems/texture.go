package systems

import (
	"fmt"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
}

// TextureSystem uploads each image once and hands out its handle. It is the
// texture collaborator of the model loader.
type TextureSystem struct {
	Config *TextureSystemConfig
	// Hashtable for texture lookups, keyed by path.
	RegisteredTextures map[string]*metadata.Texture

	assetManager AssetLoader
	renderer     GPUResources
}

func NewTextureSystem(config *TextureSystemConfig, am AssetLoader, r GPUResources) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &TextureSystem{
		Config:             config,
		RegisteredTextures: make(map[string]*metadata.Texture),
		assetManager:       am,
		renderer:           r,
	}, nil
}

// LoadTexture returns the handle of the texture at path, decoding and
// uploading it the first time it is asked for.
func (ts *TextureSystem) LoadTexture(path string) (uint32, error) {
	t, err := ts.Acquire(path)
	if err != nil {
		return 0, err
	}
	return t.ID, nil
}

func (ts *TextureSystem) Acquire(path string) (*metadata.Texture, error) {
	if t, ok := ts.RegisteredTextures[path]; ok {
		return t, nil
	}
	if uint32(len(ts.RegisteredTextures)) >= ts.Config.MaxTextureCount {
		return nil, fmt.Errorf("texture system is full (%d textures), cannot load %s", ts.Config.MaxTextureCount, path)
	}

	res, err := ts.assetManager.Load(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true})
	if err != nil {
		return nil, err
	}
	img, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		return nil, fmt.Errorf("%s did not load as an image", path)
	}

	t := &metadata.Texture{
		Name:            core.IdentifierFromName(path).String(),
		Path:            path,
		Width:           img.Width,
		Height:          img.Height,
		ChannelCount:    img.ChannelCount,
		HasTransparency: img.HasTransparency,
	}
	if err := ts.renderer.CreateTexture(img.Pixels, t); err != nil {
		return nil, fmt.Errorf("uploading %s: %w", path, err)
	}
	ts.RegisteredTextures[path] = t
	core.LogDebug("loaded texture %s (%dx%d, handle %d)", path, t.Width, t.Height, t.ID)
	return t, nil
}

func (ts *TextureSystem) Get(path string) (*metadata.Texture, bool) {
	t, ok := ts.RegisteredTextures[path]
	return t, ok
}

// Invalidate drops the texture at path so the next load reads it again.
func (ts *TextureSystem) Invalidate(path string) bool {
	t, ok := ts.RegisteredTextures[path]
	if !ok {
		return false
	}
	ts.renderer.DestroyTexture(t)
	delete(ts.RegisteredTextures, path)
	return true
}

// Detach drops the texture at path from the cache without destroying it, so
// the next load uploads the file again while the old handle stays valid.
func (ts *TextureSystem) Detach(path string) (*metadata.Texture, bool) {
	t, ok := ts.RegisteredTextures[path]
	if ok {
		delete(ts.RegisteredTextures, path)
	}
	return t, ok
}

// Retire settles a texture taken out by Detach. If nothing uploaded its path
// again it goes back into the cache. Otherwise it is destroyed and the
// replacement is returned.
func (ts *TextureSystem) Retire(old *metadata.Texture) (*metadata.Texture, bool) {
	fresh, ok := ts.RegisteredTextures[old.Path]
	if !ok {
		ts.RegisteredTextures[old.Path] = old
		return nil, false
	}
	ts.renderer.DestroyTexture(old)
	return fresh, true
}

func (ts *TextureSystem) Count() int {
	return len(ts.RegisteredTextures)
}

func (ts *TextureSystem) Shutdown() error {
	// Destroy all loaded textures.
	for path, t := range ts.RegisteredTextures {
		ts.renderer.DestroyTexture(t)
		delete(ts.RegisteredTextures, path)
	}
	return nil
}
