package systems

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/bilhar/engine/assets/loaders"
	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/math"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
)

var ErrEmptyModel = errors.New("model has no triangles")

// MeshSystem owns every model in the scene together with its GPU geometry.
type MeshSystem struct {
	meshes map[string]*metadata.Mesh
	// order keeps draws stable from frame to frame.
	order []string

	assetManager  AssetLoader
	textureSystem *TextureSystem
	renderer      GPUResources
}

func NewMeshSystem(am AssetLoader, ts *TextureSystem, r GPUResources) (*MeshSystem, error) {
	return &MeshSystem{
		meshes:        make(map[string]*metadata.Mesh),
		assetManager:  am,
		textureSystem: ts,
		renderer:      r,
	}, nil
}

// Load reads the model at params.Path, uploads it and registers it under
// params.Name. A model that ends up with no triangles is an error.
func (ms *MeshSystem) Load(params metadata.MeshLoadParams) (*metadata.Mesh, error) {
	if _, exists := ms.meshes[params.Name]; exists {
		return nil, fmt.Errorf("mesh '%s' already exists", params.Name)
	}
	md, err := ms.loadModel(params.Path)
	if err != nil {
		return nil, err
	}
	return ms.register(params, md)
}

// CreateFromVertices registers a mesh built in code rather than read from a file.
func (ms *MeshSystem) CreateFromVertices(params metadata.MeshLoadParams, vertices []float32) (*metadata.Mesh, error) {
	if _, exists := ms.meshes[params.Name]; exists {
		return nil, fmt.Errorf("mesh '%s' already exists", params.Name)
	}
	md := metadata.NewModelData(params.Path)
	md.Interleaved = vertices
	return ms.register(params, md)
}

func (ms *MeshSystem) register(params metadata.MeshLoadParams, md *metadata.ModelData) (*metadata.Mesh, error) {
	geometry, err := ms.upload(params.Name, md)
	if err != nil {
		return nil, err
	}
	transform := params.Transform
	if transform == nil {
		transform = math.TransformCreate()
	}
	mesh := &metadata.Mesh{
		UniqueID:   core.NewIdentifier(),
		Name:       params.Name,
		Generation: 1,
		Data:       md,
		Geometry:   geometry,
		Transform:  transform,
		Colour:     params.Colour,
	}
	ms.meshes[params.Name] = mesh
	ms.order = append(ms.order, params.Name)
	core.LogDebug("Successfully loaded mesh '%s' (%d triangles).", params.Name, md.TriangleCount())
	return mesh, nil
}

func (ms *MeshSystem) loadModel(path string) (*metadata.ModelData, error) {
	var textures loaders.TextureLoader
	if ms.textureSystem != nil {
		textures = ms.textureSystem
	}
	res, err := ms.assetManager.Load(path, metadata.ResourceTypeModel, &loaders.ModelLoadParams{Textures: textures})
	if err != nil {
		return nil, err
	}
	md, ok := res.Data.(*metadata.ModelData)
	if !ok {
		return nil, fmt.Errorf("%s did not load as a model", path)
	}
	for _, w := range md.Warnings {
		core.LogWarn("%s", w.Error())
	}
	if md.TriangleCount() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyModel)
	}
	if md.CurrentMaterial != "" && md.ActiveMaterial() == nil {
		core.LogWarn("%s: usemtl %s: %s, drawing without a material", path, md.CurrentMaterial, core.ErrUndeclaredMaterial)
	}
	return md, nil
}

func (ms *MeshSystem) upload(name string, md *metadata.ModelData) (*metadata.Geometry, error) {
	geometry := &metadata.Geometry{Name: name}
	if err := ms.renderer.CreateGeometry(geometry, md.Interleaved); err != nil {
		return nil, fmt.Errorf("uploading mesh '%s': %w", name, err)
	}
	return geometry, nil
}

func (ms *MeshSystem) Get(name string) (*metadata.Mesh, bool) {
	m, ok := ms.meshes[name]
	return m, ok
}

// Meshes returns the meshes in the order they were created.
func (ms *MeshSystem) Meshes() []*metadata.Mesh {
	out := make([]*metadata.Mesh, 0, len(ms.order))
	for _, name := range ms.order {
		out = append(out, ms.meshes[name])
	}
	return out
}

// RenderData returns one draw per mesh with its current world matrix.
func (ms *MeshSystem) RenderData() []metadata.GeometryRenderData {
	out := make([]metadata.GeometryRenderData, 0, len(ms.order))
	for _, mesh := range ms.Meshes() {
		out = append(out, metadata.GeometryRenderData{
			Model:    mesh.Transform.GetWorld(),
			Geometry: mesh.Geometry,
			Material: mesh.Data.ActiveMaterial(),
			Colour:   mesh.Colour,
		})
	}
	return out
}

// Reload re-reads every file-backed mesh that depends on path and returns the
// names of the meshes that were replaced. A mesh whose reload fails keeps its
// previous data.
func (ms *MeshSystem) Reload(path string) []string {
	path = filepath.Clean(path)
	var stale *metadata.Texture
	if ms.textureSystem != nil {
		stale, _ = ms.textureSystem.Detach(path)
	}

	var reloaded []string
	for _, name := range ms.order {
		mesh := ms.meshes[name]
		if mesh.Data.Path == "" || !dependsOn(mesh.Data, path) {
			continue
		}
		md, err := ms.loadModel(mesh.Data.Path)
		if err != nil {
			core.LogError("reloading mesh '%s': %s", name, err.Error())
			continue
		}
		geometry, err := ms.upload(name, md)
		if err != nil {
			core.LogError(err.Error())
			continue
		}
		ms.renderer.DestroyGeometry(mesh.Geometry)
		mesh.Data = md
		mesh.Geometry = geometry
		mesh.Generation++
		reloaded = append(reloaded, name)
	}
	if stale != nil {
		ms.retireTexture(stale)
	}
	sort.Strings(reloaded)
	return reloaded
}

// retireTexture destroys a replaced texture once no material can still bind
// it. Meshes that kept their old data are pointed at the replacement.
func (ms *MeshSystem) retireTexture(stale *metadata.Texture) {
	handle := stale.ID
	fresh, replaced := ms.textureSystem.Retire(stale)
	if !replaced {
		return
	}
	for _, mesh := range ms.meshes {
		for _, m := range mesh.Data.Materials {
			if m.DiffuseTexture == handle {
				m.DiffuseTexture = fresh.ID
			}
		}
	}
}

func dependsOn(md *metadata.ModelData, path string) bool {
	if filepath.Clean(md.Path) == path {
		return true
	}
	for _, d := range md.Dependencies {
		if filepath.Clean(d) == path {
			return true
		}
	}
	return false
}

func (ms *MeshSystem) SetColour(name string, colour mgl32.Vec3) bool {
	m, ok := ms.meshes[name]
	if ok {
		m.Colour = colour
	}
	return ok
}

// Release destroys one mesh.
func (ms *MeshSystem) Release(name string) bool {
	mesh, ok := ms.meshes[name]
	if !ok {
		return false
	}
	ms.renderer.DestroyGeometry(mesh.Geometry)
	delete(ms.meshes, name)
	for i, n := range ms.order {
		if n == name {
			ms.order = append(ms.order[:i], ms.order[i+1:]...)
			break
		}
	}
	return true
}

func (ms *MeshSystem) Count() int {
	return len(ms.meshes)
}

func (ms *MeshSystem) Shutdown() error {
	for _, name := range append([]string(nil), ms.order...) {
		ms.Release(name)
	}
	return nil
}
