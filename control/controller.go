package control

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"solarsystem/core"
)

// Key is a movement binding. The window layer maps its own key codes to
// these before publishing them with SetKeys.
type Key uint32

const (
	KeyForward Key = 1 << iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// KeySet is a bitmask of held keys.
type KeySet uint32

// Has reports whether k is held.
func (s KeySet) Has(k Key) bool { return uint32(s)&uint32(k) != 0 }

// With returns s with k held.
func (s KeySet) With(k Key) KeySet { return KeySet(uint32(s) | uint32(k)) }

var bindings = []struct {
	key Key
	dir core.Direction
}{
	{KeyForward, core.Forward},
	{KeyBackward, core.Backward},
	{KeyLeft, core.Left},
	{KeyRight, core.Right},
	{KeyUp, core.Up},
	{KeyDown, core.Down},
}

// Settings tunes camera navigation.
type Settings struct {
	Speed       float32       // world units per second
	Sensitivity float32       // degrees per pixel of mouse movement
	Tick        time.Duration // key polling period
}

// DefaultSettings returns the stock navigation speed, sensitivity and tick.
func DefaultSettings() Settings {
	return Settings{Speed: 25, Sensitivity: 0.25, Tick: 10 * time.Millisecond}
}

// Controller flies a camera from held keys and mouse movement.
//
// Keys are polled on a background goroutine so movement speed does not
// depend on the frame rate. Windowing libraries only allow input queries on
// the main thread, so the main loop publishes the held keys with SetKeys and
// the goroutine reads them atomically. Mouse movement arrives through
// OnCursor, normally registered as the window's cursor callback.
type Controller struct {
	camera   *core.Camera
	settings Settings

	keys   atomic.Uint32
	paused atomic.Bool

	mu         sync.Mutex
	haveCursor bool
	lastX      float64
	lastY      float64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewController creates a controller for camera. Call Install to start it.
func NewController(camera *core.Camera, settings Settings) *Controller {
	if settings.Tick <= 0 {
		settings.Tick = DefaultSettings().Tick
	}
	return &Controller{camera: camera, settings: settings}
}

// Install starts the polling goroutine. It stops when ctx is cancelled or
// Uninstall is called. Installing twice is a no-op.
func (c *Controller) Install(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go c.poll(ctx)
	core.Logger().Debug("controller installed", "tick", c.settings.Tick)
}

// Uninstall stops the polling goroutine and waits for it to exit.
func (c *Controller) Uninstall() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	c.wg.Wait()
	core.Logger().Debug("controller uninstalled")
}

// Pause stops keys and mouse from moving the camera, e.g. while the menu is
// open.
func (c *Controller) Pause() {
	c.paused.Store(true)
}

// Resume re-enables navigation. The next cursor event only re-anchors the
// mouse so the view does not jump by however far the cursor moved while
// paused.
func (c *Controller) Resume() {
	if !c.paused.Swap(false) {
		return
	}
	c.mu.Lock()
	c.haveCursor = false
	c.mu.Unlock()
}

// Paused reports whether navigation is paused.
func (c *Controller) Paused() bool {
	return c.paused.Load()
}

// SetKeys publishes the currently held keys.
func (c *Controller) SetKeys(keys KeySet) {
	c.keys.Store(uint32(keys))
}

// Keys returns the last published key set.
func (c *Controller) Keys() KeySet {
	return KeySet(c.keys.Load())
}

// OnCursor feeds an absolute cursor position and rotates the camera by the
// delta from the previous one.
func (c *Controller) OnCursor(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused.Load() {
		c.haveCursor = false
		return
	}
	if !c.haveCursor {
		c.lastX, c.lastY = x, y
		c.haveCursor = true
		return
	}
	dx := float32(x - c.lastX)
	dy := float32(y - c.lastY)
	c.lastX, c.lastY = x, y
	c.camera.Rotate(dx, dy, c.settings.Sensitivity)
}

// Step applies held keys for a time step of dt. The polling goroutine calls
// it every tick; it is exported so a caller without a goroutine can drive
// the controller directly.
func (c *Controller) Step(dt time.Duration) {
	if c.paused.Load() {
		return
	}
	keys := c.Keys()
	if keys == 0 {
		return
	}
	distance := c.settings.Speed * float32(dt.Seconds())
	for _, b := range bindings {
		if keys.Has(b.key) {
			c.camera.Move(b.dir, distance)
		}
	}
}

func (c *Controller) poll(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.settings.Tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.Step(now.Sub(last))
			last = now
		}
	}
}
