package control

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarsystem/core"
)

func newTestController() (*Controller, *core.Camera) {
	cam := core.NewCamera(mgl32.Vec3{}, 0, 0, 1)
	return NewController(cam, Settings{Speed: 10, Sensitivity: 0.5, Tick: time.Millisecond}), cam
}

func TestKeySet(t *testing.T) {
	var s KeySet
	assert.False(t, s.Has(KeyForward))
	s = s.With(KeyForward).With(KeyUp)
	assert.True(t, s.Has(KeyForward))
	assert.True(t, s.Has(KeyUp))
	assert.False(t, s.Has(KeyDown))
}

func TestControllerStep(t *testing.T) {
	c, cam := newTestController()

	c.Step(time.Second)
	assert.Equal(t, mgl32.Vec3{}, cam.Position(), "no keys held")

	// Yaw 0 looks down +X.
	c.SetKeys(KeySet(0).With(KeyForward))
	c.Step(time.Second)
	assert.InDelta(t, 10, cam.Position()[0], 1e-4)

	c.SetKeys(KeySet(0).With(KeyUp).With(KeyRight))
	c.Step(500 * time.Millisecond)
	assert.InDelta(t, 5, cam.Position()[1], 1e-4)
	assert.InDelta(t, 5, cam.Position()[2], 1e-4)

	// Opposite keys cancel.
	before := cam.Position()
	c.SetKeys(KeySet(0).With(KeyLeft).With(KeyRight))
	c.Step(time.Second)
	assert.True(t, cam.Position().ApproxEqualThreshold(before, 1e-4))
}

func TestControllerPause(t *testing.T) {
	c, cam := newTestController()
	c.SetKeys(KeySet(0).With(KeyForward))

	c.Pause()
	assert.True(t, c.Paused())
	c.Step(time.Second)
	c.OnCursor(0, 0)
	c.OnCursor(100, 100)
	assert.Equal(t, mgl32.Vec3{}, cam.Position())
	assert.Zero(t, cam.Yaw())

	c.Resume()
	assert.False(t, c.Paused())

	// The first event after resuming only anchors the cursor.
	c.OnCursor(500, 500)
	assert.Zero(t, cam.Yaw())
	c.OnCursor(520, 500)
	assert.InDelta(t, 10, cam.Yaw(), 1e-5)
}

func TestControllerMouse(t *testing.T) {
	c, cam := newTestController()

	c.OnCursor(10, 10)
	c.OnCursor(30, 10)
	assert.InDelta(t, 10, cam.Yaw(), 1e-5)

	c.OnCursor(30, 0)
	assert.InDelta(t, 5, cam.Pitch(), 1e-5)
}

func TestControllerInstall(t *testing.T) {
	c, cam := newTestController()
	c.SetKeys(KeySet(0).With(KeyUp))

	c.Install(context.Background())
	c.Install(context.Background())

	require.Eventually(t, func() bool {
		return cam.Position()[1] > 0
	}, time.Second, time.Millisecond)

	c.Uninstall()
	stopped := cam.Position()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, cam.Position())

	c.Uninstall()
}

func TestControllerStopsWithContext(t *testing.T) {
	c, _ := newTestController()
	ctx, cancel := context.WithCancel(context.Background())
	c.Install(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("controller goroutine did not stop")
	}
}

func TestToggle(t *testing.T) {
	tg := NewToggle(true)
	assert.True(t, tg.On())

	assert.True(t, tg.Update(true))
	assert.False(t, tg.On())

	// Held: no repeat.
	assert.False(t, tg.Update(true))
	assert.False(t, tg.On())

	assert.False(t, tg.Update(false))
	assert.True(t, tg.Update(true))
	assert.True(t, tg.On())
}
