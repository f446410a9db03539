package metadata

import "fmt"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Unknown or unsupported file. */
	ResourceTypeNone ResourceType = iota
	/** @brief Text resource type. */
	ResourceTypeText
	/** @brief Image resource type. */
	ResourceTypeImage
	/** @brief Material library (.mtl). */
	ResourceTypeMaterial
	/** @brief Shader stage source. */
	ResourceTypeShader
	/** @brief Wavefront model (.obj). */
	ResourceTypeModel
	/** @brief TOML configuration. */
	ResourceTypeConfig
)

func (rt ResourceType) String() string {
	switch rt {
	case ResourceTypeText:
		return "text"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeMaterial:
		return "material"
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeModel:
		return "model"
	case ResourceTypeConfig:
		return "config"
	case ResourceTypeNone:
		return "none"
	}
	return fmt.Sprintf("ResourceType(%d)", int(rt))
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The kind of data held. */
	Type ResourceType
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}
