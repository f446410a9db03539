package metadata

/**
 * @brief Geometry uploaded to the GPU.
 */
type Geometry struct {
	/** @brief The vertex array object. */
	ID uint32
	/** @brief The vertex buffer object backing the array. */
	InternalID uint32
	/** @brief The number of vertices to draw. */
	VertexCount int32
	/** @brief The geometry name. */
	Name string
}
