package platform

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/bilhar/engine/core"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		key  glfw.Key
		want core.KeyCode
		ok   bool
	}{
		{glfw.KeyA, core.KEY_A, true},
		{glfw.KeyM, core.KEY_M, true},
		{glfw.KeyZ, core.KeyCode('Z'), true},
		{glfw.Key7, core.KeyCode('7'), true},
		{glfw.KeyEscape, core.KEY_ESCAPE, true},
		{glfw.KeyLeft, core.KEY_LEFT, true},
		{glfw.KeyKPAdd, core.KEY_PLUS, true},
		{glfw.KeyEqual, core.KEY_PLUS, true},
		{glfw.KeyMinus, core.KEY_MINUS, true},
		{glfw.KeyKPEnter, core.KEY_ENTER, true},
		{glfw.KeyF1, 0, false},
		{glfw.KeyUnknown, 0, false},
	}
	c := qt.New(t)
	for _, test := range tests {
		got, ok := translateKey(test.key)
		c.Assert(ok, qt.Equals, test.ok, qt.Commentf("key %d", test.key))
		c.Assert(got, qt.Equals, test.want, qt.Commentf("key %d", test.key))
	}
}
