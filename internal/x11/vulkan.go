package x11

import (
	"os"
	"unsafe"

	"github.com/1broseidon/windowkit/internal/vkloader"
	vulkan "github.com/goki/vulkan"
)

// xcbSurfaceCreateInfo mirrors VkXcbSurfaceCreateInfoKHR.
type xcbSurfaceCreateInfo struct {
	sType      uint32
	pNext      unsafe.Pointer
	flags      uint32
	connection uintptr
	window     uint32
}

// CreateVulkanSurface creates a VK_KHR_xcb_surface for the window. The
// surface needs a libxcb connection, opened once per backend on the same
// display; window ids are server-global so it can name our window.
func (w *Window) CreateVulkanSurface(loader *vkloader.Loader, instance vulkan.Instance, allocator unsafe.Pointer) (vulkan.Surface, vulkan.Result) {
	var none vulkan.Surface
	b := w.b
	if b.xcb == nil {
		display := b.opts.Display
		if display == "" {
			display = os.Getenv("DISPLAY")
		}
		xcb, err := openXCB(display)
		if err != nil {
			b.logger.Error("failed to open xcb connection for vulkan", "error", err)
			return none, vulkan.ErrorExtensionNotPresent
		}
		b.xcb = xcb
	}

	info := xcbSurfaceCreateInfo{
		sType:      vkloader.StructureTypeXcbSurfaceCreateInfo,
		connection: b.xcb.conn,
		window:     uint32(w.id),
	}
	return loader.CreateSurface(instance, "vkCreateXcbSurfaceKHR", unsafe.Pointer(&info), allocator)
}
