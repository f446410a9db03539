package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

type MaterialLoadParams struct {
	Textures TextureLoader
}

type MaterialLoader struct{}

func (ml *MaterialLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	var textures TextureLoader
	if p, ok := params.(*MaterialLoadParams); ok && p != nil {
		textures = p.Textures
	}
	lib := metadata.NewMaterialLibrary(path, nil)
	if err := LoadMTL(lib, textures); err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:     path,
		FullPath: path,
		Type:     metadata.ResourceTypeMaterial,
		DataSize: uint64(len(lib.Materials)) * uint64(unsafe.Sizeof(metadata.Material{})),
		Data:     lib,
	}, nil
}

func (ml *MaterialLoader) Unload(*metadata.Resource) error {
	return nil
}

// LoadMTL reads lib.Path into lib. On open failure lib is left as it was.
func LoadMTL(lib *metadata.MaterialLibrary, textures TextureLoader) error {
	f, err := os.Open(lib.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", core.ErrFileOpen, lib.Path, err)
	}
	defer f.Close()

	return ParseMTL(f, lib, textures)
}

// ParseMTL reads material records from r into lib. A newmtl that reuses a
// name replaces the earlier material.
func ParseMTL(r io.Reader, lib *metadata.MaterialLibrary, textures TextureLoader) error {
	p := &mtlParser{lib: lib, textures: textures}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		p.line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		p.text = scanner.Text()
		p.record(fields)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", lib.Path, err)
	}
	return nil
}

type mtlParser struct {
	lib      *metadata.MaterialLibrary
	textures TextureLoader
	line     int
	text     string
	current  *metadata.Material
}

func (p *mtlParser) warn(token string, err error, detail string) {
	p.lib.Warnings = append(p.lib.Warnings, &core.RecordError{
		Path:   p.lib.Path,
		Line:   p.line,
		Token:  token,
		Detail: detail,
		Err:    err,
	})
}

func (p *mtlParser) record(fields []string) {
	token := fields[0]
	switch token {
	case "newmtl":
		if len(fields) < 2 {
			p.warn(token, core.ErrMalformedRecord, "missing material name")
			return
		}
		p.current = metadata.NewMaterial(fields[1])
		p.lib.Materials[p.current.Name] = p.current
		return
	case "Ka", "Kd", "Ks", "Ns", "map_Kd":
	default:
		return
	}

	if p.current == nil {
		p.warn(token, core.ErrUndeclaredMaterial, "property before any newmtl")
		return
	}

	switch token {
	case "Ka":
		p.current.Ambient = p.colour(fields, p.current.Ambient)
	case "Kd":
		p.current.Diffuse = p.colour(fields, p.current.Diffuse)
	case "Ks":
		p.current.Specular = p.colour(fields, p.current.Specular)
	case "Ns":
		ns := []float32{p.current.Shininess}
		p.parse(fields, ns)
		p.current.Shininess = ns[0]
	case "map_Kd":
		if len(fields) < 2 {
			p.warn(token, core.ErrMalformedRecord, "missing file name")
			return
		}
		name := textureFileName(lineArgs(p.text, token))
		if name == "" {
			p.warn(token, core.ErrMalformedRecord, "missing file name")
			return
		}
		texPath := ResolveRelative(p.lib.Path, name)
		p.current.DiffuseTexturePath = texPath
		p.lib.TexturePaths = append(p.lib.TexturePaths, texPath)
		if p.textures == nil {
			return
		}
		handle, err := p.textures.LoadTexture(texPath)
		if err != nil {
			p.warn(token, err, texPath)
			return
		}
		p.current.DiffuseTexture = handle
	}
}

// colour parses an r g b triple. Components that do not parse keep their
// current value.
func (p *mtlParser) colour(fields []string, current mgl32.Vec3) mgl32.Vec3 {
	out := []float32{current[0], current[1], current[2]}
	p.parse(fields, out)
	return mgl32.Vec3{out[0], out[1], out[2]}
}

func (p *mtlParser) parse(fields []string, out []float32) {
	bad := parseFloats(fields[1:], out)
	if len(fields)-1 < len(out) {
		p.warn(fields[0], core.ErrMalformedRecord, fmt.Sprintf("expected %d values, got %d", len(out), len(fields)-1))
	} else if bad != "" {
		p.warn(fields[0], core.ErrMalformedRecord, fmt.Sprintf("%q is not a number", bad))
	}
}
