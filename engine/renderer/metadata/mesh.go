package metadata

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/spaghettifunk/bilhar/engine/math"
)

// MeshLoadParams tells the mesh system how to place a model once it is loaded.
type MeshLoadParams struct {
	Name      string
	Path      string
	Transform *math.Transform
	Colour    mgl32.Vec3
}

type Mesh struct {
	UniqueID   uuid.UUID
	Name       string
	Generation uint8
	Data       *ModelData
	Geometry   *Geometry
	Transform  *math.Transform
	// Colour is drawn when the model has no active material.
	Colour mgl32.Vec3
}
