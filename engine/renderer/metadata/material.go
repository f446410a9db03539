package metadata

import "github.com/go-gl/mathgl/mgl32"

const (
	DefaultAmbient   float32 = 0.2
	DefaultDiffuse   float32 = 0.8
	DefaultSpecular  float32 = 1.0
	DefaultShininess float32 = 32.0
)

/**
 * @brief A material as declared by a newmtl block of a material library.
 */
type Material struct {
	/** @brief The name of the material. */
	Name string
	/** @brief Ka */
	Ambient mgl32.Vec3
	/** @brief Kd */
	Diffuse mgl32.Vec3
	/** @brief Ks */
	Specular mgl32.Vec3
	/** @brief Ns */
	Shininess float32
	/** @brief The resolved map_Kd path, empty when not declared. */
	DiffuseTexturePath string
	/** @brief The renderer handle for the diffuse texture, zero until resolved. */
	DiffuseTexture uint32
}

func NewMaterial(name string) *Material {
	return &Material{
		Name:      name,
		Ambient:   mgl32.Vec3{DefaultAmbient, DefaultAmbient, DefaultAmbient},
		Diffuse:   mgl32.Vec3{DefaultDiffuse, DefaultDiffuse, DefaultDiffuse},
		Specular:  mgl32.Vec3{DefaultSpecular, DefaultSpecular, DefaultSpecular},
		Shininess: DefaultShininess,
	}
}

func (m *Material) HasTexture() bool {
	return m != nil && m.DiffuseTexture != 0
}

// MaterialLibrary is the result of reading one .mtl file.
type MaterialLibrary struct {
	Path      string
	Materials map[string]*Material
	// TexturePaths lists every resolved map_Kd path in file order.
	TexturePaths []string
	Warnings     []error
}

func NewMaterialLibrary(path string, materials map[string]*Material) *MaterialLibrary {
	if materials == nil {
		materials = make(map[string]*Material)
	}
	return &MaterialLibrary{Path: path, Materials: materials}
}
