package core_test

import (
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/spaghettifunk/bilhar/engine/core"
)

type listener struct {
	name string
	seen []core.EventCode
}

func TestEventFireStopsWhenHandled(t *testing.T) {
	c := qt.New(t)
	es := core.NewEventSystem(8)

	first := &listener{name: "first"}
	second := &listener{name: "second"}

	c.Assert(es.Register(core.EVENT_CODE_KEY_PRESSED, first, func(ctx core.EventContext) bool {
		first.seen = append(first.seen, ctx.Type)
		return true
	}), qt.IsTrue)
	c.Assert(es.Register(core.EVENT_CODE_KEY_PRESSED, second, func(ctx core.EventContext) bool {
		second.seen = append(second.seen, ctx.Type)
		return false
	}), qt.IsTrue)

	handled := es.Fire(core.EventContext{Type: core.EVENT_CODE_KEY_PRESSED})
	c.Assert(handled, qt.IsTrue)
	c.Assert(first.seen, qt.HasLen, 1)
	c.Assert(second.seen, qt.HasLen, 0)
}

func TestEventRegisterRejectsDuplicateListener(t *testing.T) {
	c := qt.New(t)
	es := core.NewEventSystem(8)
	l := &listener{}
	fn := func(core.EventContext) bool { return false }

	c.Assert(es.Register(core.EVENT_CODE_RESIZED, l, fn), qt.IsTrue)
	c.Assert(es.Register(core.EVENT_CODE_RESIZED, l, fn), qt.IsFalse)
	c.Assert(es.Unregister(core.EVENT_CODE_RESIZED, l), qt.IsTrue)
	c.Assert(es.Unregister(core.EVENT_CODE_RESIZED, l), qt.IsFalse)
	c.Assert(es.Fire(core.EventContext{Type: core.EVENT_CODE_RESIZED}), qt.IsFalse)
}

func TestEventPostDispatchesFromQueue(t *testing.T) {
	c := qt.New(t)
	es := core.NewEventSystem(4)

	var paths []string
	es.Register(core.EVENT_CODE_ASSET_CHANGED, nil, func(ctx core.EventContext) bool {
		paths = append(paths, ctx.Data.(*core.AssetEvent).Path)
		return true
	})

	var wg sync.WaitGroup
	for _, p := range []string{"a.obj", "b.obj"} {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			c.Check(es.Post(core.EventContext{Type: core.EVENT_CODE_ASSET_CHANGED, Data: &core.AssetEvent{Path: p}}), qt.IsNil)
		}(p)
	}
	wg.Wait()

	c.Assert(paths, qt.HasLen, 0)
	c.Assert(es.Dispatch(), qt.Equals, 2)
	c.Assert(paths, qt.ContentEquals, []string{"a.obj", "b.obj"})
	c.Assert(es.Dispatch(), qt.Equals, 0)
}

func TestEventPostDropsWhenFull(t *testing.T) {
	c := qt.New(t)
	es := core.NewEventSystem(1)

	c.Assert(es.Post(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT}), qt.IsNil)
	c.Assert(es.Post(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT}), qt.Not(qt.IsNil))
	c.Assert(es.Dropped(), qt.Equals, 1)
}
