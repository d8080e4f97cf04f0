//go:build linux

package wayland

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"unsafe"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

// cursorTheme is a libwayland-cursor theme.
type cursorTheme struct {
	lib   uintptr
	theme uintptr

	load      func(name *byte, size int32, shm proxy) uintptr
	destroyFn func(theme uintptr)
	getCursor func(theme uintptr, name string) uintptr
	getBuffer func(image uintptr) proxy
}

// cCursor mirrors struct wl_cursor.
type cCursor struct {
	imageCount uint32
	images     *uintptr
	name       *byte
}

// cCursorImage mirrors struct wl_cursor_image.
type cCursorImage struct {
	width, height      uint32
	hotspotX, hotspotY uint32
	delay              uint32
}

// loadCursorTheme returns nil when libwayland-cursor or the theme is
// missing; standard cursors are then unavailable.
func (b *Backend) loadCursorTheme() *cursorTheme {
	lib, err := purego.Dlopen("libwayland-cursor.so.0", purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		b.logger.Warn("failed to load libwayland-cursor", "error", err)
		return nil
	}
	t := &cursorTheme{lib: lib}
	for name, fptr := range map[string]any{
		"wl_cursor_theme_load":       &t.load,
		"wl_cursor_theme_destroy":    &t.destroyFn,
		"wl_cursor_theme_get_cursor": &t.getCursor,
		"wl_cursor_image_get_buffer": &t.getBuffer,
	} {
		sym, err := purego.Dlsym(lib, name)
		if err != nil {
			purego.Dlclose(lib)
			b.logger.Warn("libwayland-cursor is incomplete", "symbol", name, "error", err)
			return nil
		}
		purego.RegisterFunc(fptr, sym)
	}

	name, size := b.cursorEnv()
	var cname *byte
	if name != "" {
		cname = &cString(name)[0]
	}
	t.theme = t.load(cname, int32(size), b.g.shm)
	if t.theme == 0 {
		purego.Dlclose(lib)
		b.logger.Warn("failed to load cursor theme", "theme", name, "size", size)
		return nil
	}
	return t
}

func (t *cursorTheme) destroy() {
	if t.theme != 0 {
		t.destroyFn(t.theme)
		t.theme = 0
	}
	purego.Dlclose(t.lib)
}

// lookup returns the first image of the first cursor found among names.
func (t *cursorTheme) lookup(names ...string) (uintptr, *cCursorImage) {
	for _, name := range names {
		c := (*cCursor)(unsafe.Pointer(t.getCursor(t.theme, name)))
		if c == nil || c.imageCount == 0 {
			continue
		}
		img := *c.images
		return img, (*cCursorImage)(unsafe.Pointer(img))
	}
	return 0, nil
}

// Cursor is either a theme cursor or a custom image in an shm buffer.
type Cursor struct {
	b      *Backend
	buffer proxy
	width  int
	height int
	hotX   int
	hotY   int
	custom bool
}

func (c *Cursor) Destroy() {
	if c.custom {
		c.buffer.destroy(bufferDestroy)
	}
	c.buffer = 0
	for _, w := range c.b.windows {
		if w.cursor == c {
			w.cursor = nil
		}
	}
}

// Theme names of the standard shapes, CSS names first.
var themeCursorNames = map[platform.CursorShape][]string{
	platform.CursorArrow:              {"default", "left_ptr"},
	platform.CursorInput:              {"text", "xterm"},
	platform.CursorCrosshair:          {"crosshair"},
	platform.CursorPointingHand:       {"pointer", "hand2"},
	platform.CursorResizeHorizontal:   {"ew-resize", "sb_h_double_arrow"},
	platform.CursorResizeVertical:     {"ns-resize", "sb_v_double_arrow"},
	platform.CursorResizeDiagonalTLBR: {"nwse-resize"},
	platform.CursorResizeDiagonalTRBL: {"nesw-resize"},
	platform.CursorResizeAll:          {"all-scroll", "fleur"},
	platform.CursorNotAllowed:         {"not-allowed", "crossed_circle"},
}

func (b *Backend) CreateStandardCursor(shape platform.CursorShape) (platform.NativeCursor, error) {
	if b.cursors == nil {
		return nil, platform.Errorf(platform.CursorUnavailable, "[Window] Wayland: No cursor theme is loaded")
	}
	ptr, img := b.cursors.lookup(themeCursorNames[shape]...)
	if img == nil {
		return nil, platform.Errorf(platform.CursorUnavailable, "[Window] Wayland: Standard cursor shape %s is unavailable", shape)
	}
	return &Cursor{
		b:      b,
		buffer: b.cursors.getBuffer(ptr),
		width:  int(img.width),
		height: int(img.height),
		hotX:   int(img.hotspotX),
		hotY:   int(img.hotspotY),
	}, nil
}

func (b *Backend) CreateCursor(img *image.RGBA, xhot, yhot int) (platform.NativeCursor, error) {
	buffer, err := b.createShmBuffer(img)
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] Wayland: failed to create cursor buffer")
	}
	return &Cursor{
		b:      b,
		buffer: buffer,
		width:  img.Rect.Dx(),
		height: img.Rect.Dy(),
		hotX:   xhot,
		hotY:   yhot,
		custom: true,
	}, nil
}

// createShmBuffer copies img into an anonymous file shared with the
// compositor.
func (b *Backend) createShmBuffer(img *image.RGBA) (proxy, error) {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	stride := width * 4
	size := stride * height

	fd, err := unix.MemfdCreate("windowkit-shm", unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return 0, fmt.Errorf("memfd_create: %w", err)
	}
	defer unix.Close(fd)
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return 0, fmt.Errorf("ftruncate: %w", err)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return 0, fmt.Errorf("mmap: %w", err)
	}
	copy(data, platform.PremultipliedBGRA(img))
	unix.Munmap(data)

	pool := b.g.shm.create(shmCreatePool, shmPoolIface, 0, newID{}, int32(fd), int32(size))
	buffer := pool.create(shmPoolCreateBuffer, bufferIface, 0, newID{},
		int32(0), int32(width), int32(height), int32(stride), uint32(shmFormatARGB8888))
	pool.destroy(shmPoolDestroy)
	if buffer == 0 {
		return 0, fmt.Errorf("compositor refused the buffer")
	}
	return buffer, nil
}

// updateCursor shows the cursor of w for the pointer focus serial.
func (b *Backend) updateCursor(w *Window) {
	if b.pointer == 0 {
		return
	}
	mode := w.events.CursorMode()
	if mode == platform.CursorHidden || mode == platform.CursorDisabled {
		b.pointer.request(pointerSetCursor, b.pointerSerial, nil, int32(0), int32(0))
		return
	}
	c := w.cursor
	if c == nil || c.buffer == 0 {
		c = b.defaultCursor()
	}
	if c == nil {
		return
	}
	s := b.cursorSurface
	s.request(surfaceAttach, c.buffer, int32(0), int32(0))
	s.request(surfaceDamage, int32(0), int32(0), int32(c.width), int32(c.height))
	s.request(surfaceCommit)
	b.pointer.request(pointerSetCursor, b.pointerSerial, s, int32(c.hotX), int32(c.hotY))
}

func (b *Backend) defaultCursor() *Cursor {
	if b.arrow == nil {
		c, err := b.CreateStandardCursor(platform.CursorArrow)
		if err != nil {
			return nil
		}
		b.arrow = c.(*Cursor)
	}
	return b.arrow
}

func envInt(name string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(name)); err == nil && v > 0 {
		return v
	}
	return fallback
}
