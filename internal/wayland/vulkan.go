//go:build linux

package wayland

import (
	"unsafe"

	"github.com/1broseidon/windowkit/internal/vkloader"
	vulkan "github.com/goki/vulkan"
)

// waylandSurfaceCreateInfo mirrors VkWaylandSurfaceCreateInfoKHR.
type waylandSurfaceCreateInfo struct {
	sType   uint32
	pNext   unsafe.Pointer
	flags   uint32
	display uintptr
	surface uintptr
}

func (w *Window) CreateVulkanSurface(loader *vkloader.Loader, instance vulkan.Instance, allocator unsafe.Pointer) (vulkan.Surface, vulkan.Result) {
	info := waylandSurfaceCreateInfo{
		sType:   vkloader.StructureTypeWaylandSurfaceCreateInfo,
		display: w.b.display,
		surface: uintptr(w.surface),
	}
	return loader.CreateSurface(instance, "vkCreateWaylandSurfaceKHR", unsafe.Pointer(&info), allocator)
}
