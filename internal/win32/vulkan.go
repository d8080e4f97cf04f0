//go:build windows

package win32

import (
	"unsafe"

	"github.com/1broseidon/windowkit/internal/vkloader"
	vulkan "github.com/goki/vulkan"
)

// win32SurfaceCreateInfo mirrors VkWin32SurfaceCreateInfoKHR.
type win32SurfaceCreateInfo struct {
	sType     uint32
	pNext     unsafe.Pointer
	flags     uint32
	hinstance uintptr
	hwnd      uintptr
}

func (w *Window) CreateVulkanSurface(loader *vkloader.Loader, instance vulkan.Instance, allocator unsafe.Pointer) (vulkan.Surface, vulkan.Result) {
	info := win32SurfaceCreateInfo{
		sType:     vkloader.StructureTypeWin32SurfaceCreateInfo,
		hinstance: w.b.instance,
		hwnd:      w.hwnd,
	}
	return loader.CreateSurface(instance, "vkCreateWin32SurfaceKHR", unsafe.Pointer(&info), allocator)
}
