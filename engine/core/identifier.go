package core

import "github.com/google/uuid"

// NewIdentifier returns a random identifier for a runtime object such as a mesh.
func NewIdentifier() uuid.UUID {
	return uuid.New()
}

// IdentifierFromName returns an identifier that is stable for the given name,
// so the same asset path always maps to the same texture name.
func IdentifierFromName(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name))
}
