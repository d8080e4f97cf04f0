package windowing

import (
	"unsafe"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/1broseidon/windowkit/internal/vkloader"
	vulkan "github.com/goki/vulkan"
)

type vulkanCache struct {
	loader *vkloader.Loader
	// extensions holds VK_KHR_surface and the platform surface extension,
	// or two empty strings when either is missing.
	extensions [2]string
}

// initVulkan loads the Vulkan loader once per Init. Errors are reported only
// when requested.
func (s *State) initVulkan(reportErrors bool) bool {
	if s.vulkan.loader != nil {
		return true
	}
	loader, err := vkloader.Open(s.opts.VulkanLoader)
	if err != nil {
		if reportErrors {
			s.report(platform.Wrap(platform.APIUnavailable, err, "[Window] Vulkan: Loader not found"))
		} else {
			s.logger.Debug("vulkan loader unavailable", "error", err)
		}
		return false
	}

	s.vulkan.loader = loader
	ext := s.backend.VulkanSurfaceExtension()
	if ext != "" && loader.HasExtension(vkloader.SurfaceExtension) && loader.HasExtension(ext) {
		s.vulkan.extensions = [2]string{vkloader.SurfaceExtension, ext}
	}
	s.logger.Debug("vulkan loader opened", "path", loader.Path(), "surface_extension", ext)
	return true
}

func (s *State) terminateVulkan() {
	if s.vulkan.loader != nil {
		s.vulkan.loader.Close()
	}
	s.vulkan = vulkanCache{}
}

// VulkanSupported reports whether a Vulkan loader could be found. It never
// reports an error.
func (s *State) VulkanSupported() bool {
	if !s.initialized {
		return false
	}
	return s.initVulkan(false)
}

// RequiredInstanceExtensions returns the two instance extensions needed for
// window surfaces, or two empty strings when surfaces are unavailable.
func (s *State) RequiredInstanceExtensions() [2]string {
	if s.checkInit() != nil {
		return [2]string{}
	}
	if !s.initVulkan(true) {
		return [2]string{}
	}
	if s.vulkan.extensions[0] == "" {
		s.inputError(platform.APIUnavailable, "Vulkan: Window surface creation extensions not found")
	}
	return s.vulkan.extensions
}

// VulkanLoader returns the opened loader, or nil when Vulkan is unavailable.
func (s *State) VulkanLoader() *vkloader.Loader {
	if !s.VulkanSupported() {
		return nil
	}
	return s.vulkan.loader
}

// CreateWindowSurface creates a VkSurfaceKHR for w on instance. allocator is
// a VkAllocationCallbacks pointer and may be nil. Failures return a null
// surface and the Vulkan result.
func (s *State) CreateWindowSurface(instance vulkan.Instance, w *Window, allocator unsafe.Pointer) (vulkan.Surface, vulkan.Result) {
	var none vulkan.Surface
	if s.checkInit() != nil {
		return none, vulkan.ErrorInitializationFailed
	}
	if err := w.check(); err != nil {
		return none, vulkan.ErrorInitializationFailed
	}
	if !s.initVulkan(true) {
		return none, vulkan.ErrorInitializationFailed
	}
	if s.vulkan.extensions[0] == "" {
		s.inputError(platform.APIUnavailable, "Vulkan: Window surface creation extensions not found")
		return none, vulkan.ErrorExtensionNotPresent
	}

	surface, res := w.native.CreateVulkanSurface(s.vulkan.loader, instance, allocator)
	if res != vulkan.Success {
		s.inputError(platform.PlatformError, "Vulkan: Failed to create surface: %d", int32(res))
		return none, res
	}
	return surface, res
}
