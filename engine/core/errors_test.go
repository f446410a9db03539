package core_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/spaghettifunk/bilhar/engine/core"
)

func TestErrorsUnwrapToSentinels(t *testing.T) {
	c := qt.New(t)

	var err error = &core.FaceIndexError{Path: "a.obj", Face: 2, Line: 9, Attribute: "position", Index: 7, Count: 3}
	c.Assert(err, qt.ErrorIs, core.ErrIndexOutOfRange)
	c.Assert(err, qt.ErrorMatches, `a.obj:9: face 2: position index 7 outside \[1, 3\]: face index out of range`)

	var fe *core.FaceIndexError
	c.Assert(errors.As(err, &fe), qt.IsTrue)
	c.Assert(fe.Face, qt.Equals, 2)

	err = &core.RecordError{Path: "x.mtl", Line: 3, Token: "Kd", Err: core.ErrUndeclaredMaterial, Detail: "no newmtl yet"}
	c.Assert(err, qt.ErrorIs, core.ErrUndeclaredMaterial)
	c.Assert(err.Error(), qt.Equals, "x.mtl:3: Kd: undeclared material: no newmtl yet")
}

func TestParseLogLevel(t *testing.T) {
	c := qt.New(t)

	for in, want := range map[string]core.LogLevel{
		"debug":   core.DebugLevel,
		"INFO":    core.InfoLevel,
		"":        core.InfoLevel,
		"warning": core.WarnLevel,
		"error":   core.ErrorLevel,
		"fatal":   core.FatalLevel,
	} {
		got, err := core.ParseLogLevel(in)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, want, qt.Commentf("input %q", in))
	}

	_, err := core.ParseLogLevel("loud")
	c.Assert(err, qt.ErrorMatches, `unknown log level "loud"`)
}

func TestIdentifierFromNameIsStable(t *testing.T) {
	c := qt.New(t)
	c.Assert(core.IdentifierFromName("assets/t.png"), qt.Equals, core.IdentifierFromName("assets/t.png"))
	c.Assert(core.IdentifierFromName("a"), qt.Not(qt.Equals), core.IdentifierFromName("b"))
	c.Assert(core.NewIdentifier(), qt.Not(qt.Equals), core.NewIdentifier())
}
