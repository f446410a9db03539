package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

func glStage(stage metadata.ShaderStage) (uint32, error) {
	switch stage {
	case metadata.ShaderStageVertex:
		return gl.VERTEX_SHADER, nil
	case metadata.ShaderStageFragment:
		return gl.FRAGMENT_SHADER, nil
	}
	return 0, fmt.Errorf("unsupported shader stage %d", stage)
}

// ShaderCreate compiles every stage and links them. Any failure deletes the
// stages compiled so far.
func (r *OpenGLRenderer) ShaderCreate(config *metadata.ShaderConfig) (*metadata.Shader, error) {
	compiled := make([]uint32, 0, len(config.Stages))
	cleanup := func() {
		for _, s := range compiled {
			gl.DeleteShader(s)
		}
	}

	for _, stage := range config.Stages {
		kind, err := glStage(stage.Stage)
		if err != nil {
			cleanup()
			return nil, err
		}
		s, err := compileShader(stage.Source, kind)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("%s (%s): %w", stage.FileName, stage.Stage, err)
		}
		compiled = append(compiled, s)
	}

	program := gl.CreateProgram()
	for _, s := range compiled {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		cleanup()
		return nil, fmt.Errorf("%w: %s: %v", core.ErrShaderLink, config.Name, strings.TrimRight(log, "\x00"))
	}
	for _, s := range compiled {
		gl.DetachShader(program, s)
	}
	cleanup()

	core.LogDebug("shader %s linked as program %d", config.Name, program)
	return metadata.NewShader(program, config.Name), nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(src)
	defer free()
	length := int32(len(src))
	gl.ShaderSource(shader, 1, csource, &length)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %v", core.ErrShaderCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (r *OpenGLRenderer) ShaderUse(shader *metadata.Shader) error {
	if shader == nil || shader.ID == 0 {
		return fmt.Errorf("cannot use an uncreated shader")
	}
	gl.UseProgram(shader.ID)
	return nil
}

func (r *OpenGLRenderer) ShaderDestroy(shader *metadata.Shader) {
	if shader == nil || shader.ID == 0 {
		return
	}
	gl.DeleteProgram(shader.ID)
	shader.ID = 0
	shader.UniformLocations = make(map[string]int32)
}

func uniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// SetUniform writes to the currently used program. Uniforms the program does
// not declare are skipped.
func (r *OpenGLRenderer) SetUniform(shader *metadata.Shader, name string, value interface{}) error {
	loc := shader.UniformLocation(name, uniformLocation)
	if loc < 0 {
		return nil
	}
	switch v := value.(type) {
	case mgl32.Mat4:
		gl.UniformMatrix4fv(loc, 1, false, &v[0])
	case mgl32.Vec3:
		gl.Uniform3fv(loc, 1, &v[0])
	case mgl32.Vec4:
		gl.Uniform4fv(loc, 1, &v[0])
	case float32:
		gl.Uniform1f(loc, v)
	case int32:
		gl.Uniform1i(loc, v)
	case bool:
		i := int32(0)
		if v {
			i = 1
		}
		gl.Uniform1i(loc, i)
	default:
		return fmt.Errorf("uniform %s: unsupported type %T", name, value)
	}
	return nil
}
