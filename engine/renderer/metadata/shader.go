package metadata

/** @brief Shader stages supported by the renderer. */
type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	}
	return "unknown"
}

/** @brief Source of one stage. */
type ShaderStageConfig struct {
	Stage    ShaderStage
	FileName string
	Source   string
}

/** @brief Holds the configuration of a shader program. */
type ShaderConfig struct {
	Name   string
	Stages []ShaderStageConfig
}

/**
 * @brief A linked shader program.
 */
type Shader struct {
	/** @brief The program handle. */
	ID uint32
	/** @brief The shader name. */
	Name string
	/** @brief Uniform locations cached by name; -1 means the program has no such uniform. */
	UniformLocations map[string]int32
}

func NewShader(id uint32, name string) *Shader {
	return &Shader{ID: id, Name: name, UniformLocations: make(map[string]int32)}
}

// UniformLocation returns the cached location of name, asking lookup the
// first time. Missing uniforms are cached as -1 too.
func (s *Shader) UniformLocation(name string, lookup func(program uint32, name string) int32) int32 {
	if loc, ok := s.UniformLocations[name]; ok {
		return loc
	}
	loc := lookup(s.ID, name)
	s.UniformLocations[name] = loc
	return loc
}
