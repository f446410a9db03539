package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"strconv"
	"strings"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

// maxLineSize bounds a single OBJ or MTL line.
const maxLineSize = 1024 * 1024

// TextureLoader turns an image path into a renderer texture handle.
type TextureLoader interface {
	LoadTexture(path string) (uint32, error)
}

type ModelLoadParams struct {
	Textures TextureLoader
}

type ModelLoader struct{}

func (ml *ModelLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	var textures TextureLoader
	if p, ok := params.(*ModelLoadParams); ok && p != nil {
		textures = p.Textures
	}
	md, err := LoadOBJ(path, textures)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:     path,
		FullPath: path,
		Type:     metadata.ResourceTypeModel,
		DataSize: uint64(len(md.Interleaved)) * uint64(unsafe.Sizeof(float32(0))),
		Data:     md,
	}, nil
}

func (ml *ModelLoader) Unload(*metadata.Resource) error {
	return nil
}

// LoadOBJ reads the OBJ file at path and the material library it references.
// The returned model is never nil. On error the interleaved buffer is empty.
func LoadOBJ(path string, textures TextureLoader) (*metadata.ModelData, error) {
	if path == "" {
		return metadata.NewModelData(path), fmt.Errorf("%w: empty path", core.ErrFileOpen)
	}
	f, err := os.Open(path)
	if err != nil {
		return metadata.NewModelData(path), fmt.Errorf("%w: %s: %v", core.ErrFileOpen, path, err)
	}
	defer f.Close()

	return ParseOBJ(f, path, textures)
}

// ParseOBJ reads OBJ records from r. path is used to resolve mtllib and to
// label errors.
func ParseOBJ(r io.Reader, path string, textures TextureLoader) (*metadata.ModelData, error) {
	p := &objParser{
		md:       metadata.NewModelData(path),
		textures: textures,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		p.line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		p.text = scanner.Text()
		if err := p.record(fields); err != nil {
			return p.md, err
		}
	}
	if err := scanner.Err(); err != nil {
		return p.md, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := p.interleave(); err != nil {
		p.md.Interleaved = nil
		return p.md, err
	}
	return p.md, nil
}

type objParser struct {
	md       *metadata.ModelData
	textures TextureLoader
	line     int
	// text is the current line as read.
	text string
	// faceLines holds the source line of every accepted face.
	faceLines []int
}

func (p *objParser) record(fields []string) error {
	switch fields[0] {
	case "v":
		p.md.Positions = append(p.md.Positions, p.vec3(fields))
	case "vt":
		p.md.Texcoords = append(p.md.Texcoords, p.vec2(fields))
	case "vn":
		p.md.Normals = append(p.md.Normals, p.vec3(fields))
	case "f":
		return p.face(fields)
	case "mtllib":
		if len(fields) < 2 {
			p.warn(fields[0], core.ErrMalformedRecord, "missing file name")
			return nil
		}
		p.materialLibrary(ResolveRelative(p.md.Path, lineArgs(p.text, fields[0])))
	case "usemtl":
		if len(fields) < 2 {
			p.warn(fields[0], core.ErrMalformedRecord, "missing material name")
			return nil
		}
		p.md.CurrentMaterial = fields[1]
	}
	return nil
}

func (p *objParser) warn(token string, err error, detail string) {
	p.md.Warnings = append(p.md.Warnings, &core.RecordError{
		Path:   p.md.Path,
		Line:   p.line,
		Token:  token,
		Detail: detail,
		Err:    err,
	})
}

// floats parses fields[1:n+1]. Missing or non-numeric values stay zero.
func (p *objParser) floats(fields []string, n int) []float32 {
	out := make([]float32, n)
	bad := parseFloats(fields[1:], out)
	if len(fields)-1 < n {
		p.warn(fields[0], core.ErrMalformedRecord, fmt.Sprintf("expected %d values, got %d", n, len(fields)-1))
	} else if bad != "" {
		p.warn(fields[0], core.ErrMalformedRecord, fmt.Sprintf("%q is not a number", bad))
	}
	return out
}

func (p *objParser) vec3(fields []string) mgl32.Vec3 {
	v := p.floats(fields, 3)
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func (p *objParser) vec2(fields []string) mgl32.Vec2 {
	v := p.floats(fields, 2)
	return mgl32.Vec2{v[0], v[1]}
}

// parseFloats fills out from values and returns the first value that failed
// to parse. Failed entries keep whatever out held.
func parseFloats(values []string, out []float32) string {
	bad := ""
	for i := 0; i < len(out) && i < len(values); i++ {
		f, err := strconv.ParseFloat(values[i], 32)
		if err != nil {
			if bad == "" {
				bad = values[i]
			}
			continue
		}
		out[i] = float32(f)
	}
	return bad
}

// face accepts exactly three pos/tex/norm references. Extra references are
// ignored with a warning; a short or non-numeric face is skipped.
func (p *objParser) face(fields []string) error {
	refs := fields[1:]
	if len(refs) < 3 {
		p.warn("f", core.ErrMalformedRecord, fmt.Sprintf("expected 3 vertex references, got %d", len(refs)))
		return nil
	}
	if len(refs) > 3 {
		p.warn("f", core.ErrMalformedRecord, fmt.Sprintf("only triangles are supported, ignoring %d extra references", len(refs)-3))
		refs = refs[:3]
	}

	var parsed [3][3]uint64
	for i, ref := range refs {
		parts := strings.Split(ref, "/")
		if len(parts) != 3 {
			p.warn("f", core.ErrMalformedRecord, fmt.Sprintf("%q is not a v/vt/vn reference", ref))
			return nil
		}
		for j, part := range parts {
			n, err := strconv.ParseUint(part, 10, 64)
			if errors.Is(err, strconv.ErrRange) {
				// Too large to declare, so it is out of range rather than malformed.
				n = math.MaxUint64
			} else if err != nil {
				p.warn("f", core.ErrMalformedRecord, fmt.Sprintf("%q is not a v/vt/vn reference", ref))
				return nil
			}
			parsed[i][j] = n
		}
	}

	face := len(p.faceLines) + 1
	for _, ref := range parsed {
		for j, n := range ref {
			// Zero has no 0-based equivalent and indices are stored as uint32.
			if n == 0 || n > math.MaxUint32 {
				return p.indexError(face, p.line, j, n)
			}
		}
	}
	for _, ref := range parsed {
		p.md.VertexIndices = append(p.md.VertexIndices, uint32(ref[0]-1))
		p.md.TexcoordIndices = append(p.md.TexcoordIndices, uint32(ref[1]-1))
		p.md.NormalIndices = append(p.md.NormalIndices, uint32(ref[2]-1))
	}
	p.faceLines = append(p.faceLines, p.line)
	return nil
}

var attributeNames = [3]string{"position", "texcoord", "normal"}

func (p *objParser) indexError(face, line, attribute int, index uint64) error {
	count := 0
	switch attribute {
	case 0:
		count = len(p.md.Positions)
	case 1:
		count = len(p.md.Texcoords)
	case 2:
		count = len(p.md.Normals)
	}
	return &core.FaceIndexError{
		Path:      p.md.Path,
		Face:      face,
		Line:      line,
		Attribute: attributeNames[attribute],
		Index:     index,
		Count:     count,
	}
}

func (p *objParser) materialLibrary(mtlPath string) {
	p.md.AddDependency(mtlPath)

	lib := metadata.NewMaterialLibrary(mtlPath, p.md.Materials)
	if err := LoadMTL(lib, p.textures); err != nil {
		p.md.Warnings = append(p.md.Warnings, err)
	}
	p.md.Warnings = append(p.md.Warnings, lib.Warnings...)
	for _, t := range lib.TexturePaths {
		p.md.AddDependency(t)
	}
}

// interleave builds one position/normal/texcoord record per face vertex, in
// face order. It fails before writing anything if any index is out of range.
func (p *objParser) interleave() error {
	md := p.md
	for i := range md.VertexIndices {
		face := i/3 + 1
		line := p.faceLines[face-1]
		if int(md.VertexIndices[i]) >= len(md.Positions) {
			return p.indexError(face, line, 0, uint64(md.VertexIndices[i])+1)
		}
		if int(md.TexcoordIndices[i]) >= len(md.Texcoords) {
			return p.indexError(face, line, 1, uint64(md.TexcoordIndices[i])+1)
		}
		if int(md.NormalIndices[i]) >= len(md.Normals) {
			return p.indexError(face, line, 2, uint64(md.NormalIndices[i])+1)
		}
	}

	md.Interleaved = make([]float32, 0, len(md.VertexIndices)*metadata.VertexStride)
	for i := range md.VertexIndices {
		v := md.Positions[md.VertexIndices[i]]
		n := md.Normals[md.NormalIndices[i]]
		t := md.Texcoords[md.TexcoordIndices[i]]
		md.Interleaved = append(md.Interleaved,
			v[0], v[1], v[2],
			n[0], n[1], n[2],
			t[0], t[1],
		)
	}
	return nil
}

// ResolveRelative resolves name against the directory of base, which is
// everything up to and including the last '/' or '\'.
func ResolveRelative(base, name string) string {
	dir := ""
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		dir = base[:i+1]
	}
	joined := dir + name
	if joined == "" || strings.ContainsRune(joined, '\\') {
		return joined
	}
	return path.Clean(joined)
}


// lineArgs returns everything after token on line, so file names may contain
// spaces.
func lineArgs(line, token string) string {
	return strings.TrimSpace(strings.TrimSpace(line)[len(token):])
}

func cutField(s string) (field, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

// textureFileName skips the leading options of a map_ statement and returns
// the file name that follows them.
func textureFileName(args string) string {
	rest := args
	for strings.HasPrefix(rest, "-") {
		var opt string
		opt, rest = cutField(rest)
		switch opt {
		case "-o", "-s", "-t":
			// One to three numbers.
			for i := 0; i < 3; i++ {
				f, r := cutField(rest)
				if _, err := strconv.ParseFloat(f, 32); err != nil {
					break
				}
				rest = r
			}
		case "-mm":
			_, rest = cutField(rest)
			_, rest = cutField(rest)
		default:
			_, rest = cutField(rest)
		}
	}
	return rest
}
