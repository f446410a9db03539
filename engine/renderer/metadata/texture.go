package metadata

/**
 * @brief Represents a texture.
 */
type Texture struct {
	/** @brief The renderer handle. Zero means no texture. */
	ID uint32
	/** @brief The texture Name. */
	Name string
	/** @brief The file the pixels came from. */
	Path string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The number of channels uploaded. */
	ChannelCount uint8
	/** @brief Set when any pixel has alpha below 255. */
	HasTransparency bool
	/** @brief The texture Generation. Incremented every time the data is reloaded. */
	Generation uint32
}
