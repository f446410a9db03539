package systems_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/engine/renderer/metadata"
	"github.com/spaghettifunk/bilhar/engine/systems"
)

func writeShaders(c *qt.C) (vert, frag string) {
	dir := c.TempDir()
	vert = filepath.Join(dir, "shader.vert")
	frag = filepath.Join(dir, "shader.frag")
	c.Assert(os.WriteFile(vert, []byte("#version 410 core\nvoid main() {}\n"), 0o644), qt.IsNil)
	c.Assert(os.WriteFile(frag, []byte("#version 410 core\nout vec4 colour;\nvoid main() { colour = vec4(1); }\n"), 0o644), qt.IsNil)
	return vert, frag
}

func TestShaderSystemLoad(t *testing.T) {
	c := qt.New(t)
	am := newDiskAssets()
	ss, err := systems.NewShaderSystem(&systems.ShaderSystemConfig{MaxShaderCount: 1}, am)
	c.Assert(err, qt.IsNil)

	vert, frag := writeShaders(c)
	cfg, err := ss.Load("builtin", vert, frag)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Name, qt.Equals, "builtin")
	c.Assert(cfg.Stages, qt.HasLen, 2)
	c.Assert(cfg.Stages[0].Stage, qt.Equals, metadata.ShaderStageVertex)
	c.Assert(cfg.Stages[0].FileName, qt.Equals, vert)
	c.Assert(cfg.Stages[1].Stage, qt.Equals, metadata.ShaderStageFragment)
	c.Assert(cfg.Stages[1].Source, qt.Contains, "colour = vec4(1)")

	again, err := ss.Load("builtin", vert, frag)
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.Equals, cfg)
	c.Assert(am.loads[vert], qt.Equals, 1)

	_, err = ss.Load("other", vert, frag)
	c.Assert(err, qt.ErrorMatches, `shader system is full, cannot load 'other'`)

	got, ok := ss.Get("builtin")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, cfg)

	c.Assert(ss.Shutdown(), qt.IsNil)
	_, ok = ss.Get("builtin")
	c.Assert(ok, qt.IsFalse)
}

func TestShaderSystemMissingStage(t *testing.T) {
	c := qt.New(t)
	ss, err := systems.NewShaderSystem(&systems.ShaderSystemConfig{MaxShaderCount: 4}, newDiskAssets())
	c.Assert(err, qt.IsNil)

	vert, _ := writeShaders(c)
	_, err = ss.Load("builtin", vert, filepath.Join(c.TempDir(), "missing.frag"))
	c.Assert(err, qt.ErrorIs, core.ErrFileOpen)
	c.Assert(err, qt.ErrorMatches, `shader 'builtin' fragment stage: .*`)
	_, ok := ss.Get("builtin")
	c.Assert(ok, qt.IsFalse)
}
