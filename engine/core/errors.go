package core

import (
	"errors"
	"fmt"
)

var (
	// ErrFileOpen is returned when an OBJ, MTL, image or shader file cannot be opened.
	ErrFileOpen = errors.New("file could not be opened")
	// ErrMalformedRecord marks a record with the wrong arity or a non-numeric field.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrIndexOutOfRange marks a face reference outside the declared attribute arrays.
	ErrIndexOutOfRange = errors.New("face index out of range")
	// ErrUndeclaredMaterial marks a material property before any newmtl, or a usemtl
	// that names a material that was never declared.
	ErrUndeclaredMaterial = errors.New("undeclared material")

	ErrShaderCompile = errors.New("shader compilation failed")
	ErrShaderLink    = errors.New("shader linking failed")
	ErrUnknown       = errors.New("unknown")
)

// RecordError describes a problem with a single line of a text asset.
type RecordError struct {
	Path   string
	Line   int
	Token  string
	Detail string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s:%d: %s: %v", e.Path, e.Line, e.Token, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s: %v: %s", e.Path, e.Line, e.Token, e.Err, e.Detail)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// FaceIndexError identifies the face that referenced a missing attribute.
// Face and Index are 1-based, as they appear in the file.
type FaceIndexError struct {
	Path      string
	Face      int
	Line      int
	Attribute string
	Index     uint64
	Count     int
}

func (e *FaceIndexError) Error() string {
	return fmt.Sprintf("%s:%d: face %d: %s index %d outside [1, %d]: %v",
		e.Path, e.Line, e.Face, e.Attribute, e.Index, e.Count, ErrIndexOutOfRange)
}

func (e *FaceIndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
