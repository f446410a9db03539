package systems

import "github.com/spaghettifunk/bilhar/engine/renderer/metadata"

// AssetLoader is the part of the asset manager the systems read files through.
type AssetLoader interface {
	Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
}

// GPUResources is the part of the renderer that owns GPU objects.
type GPUResources interface {
	CreateGeometry(geometry *metadata.Geometry, vertices []float32) error
	DestroyGeometry(geometry *metadata.Geometry)
	CreateTexture(pixels []uint8, texture *metadata.Texture) error
	DestroyTexture(texture *metadata.Texture)
}
