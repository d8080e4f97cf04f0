package windowing

import (
	"path/filepath"
	"testing"

	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/platform"
	vulkan "github.com/goki/vulkan"
)

// newStateWithoutVulkan points the loader at a library that does not exist.
func newStateWithoutVulkan(t *testing.T) *State {
	t.Helper()
	s := New(Options{
		Backend:      headless.New(headless.Options{VulkanExtension: "VK_KHR_headless_surface"}),
		VulkanLoader: filepath.Join(t.TempDir(), "libvulkan-missing.so"),
	})
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(s.Shutdown)
	return s
}

func TestVulkanSupportedIsSilent(t *testing.T) {
	s := newStateWithoutVulkan(t)
	codes := recordErrors(s)
	if s.VulkanSupported() {
		t.Fatalf("expected no Vulkan support without a loader")
	}
	if s.VulkanLoader() != nil {
		t.Fatalf("expected no loader")
	}
	if len(*codes) != 0 {
		t.Fatalf("VulkanSupported must not report errors, got %v", *codes)
	}
}

func TestRequiredInstanceExtensionsWithoutLoader(t *testing.T) {
	s := newStateWithoutVulkan(t)
	codes := recordErrors(s)
	if got := s.RequiredInstanceExtensions(); got != [2]string{} {
		t.Fatalf("expected two empty strings, got %q", got)
	}
	if len(*codes) != 1 || (*codes)[0] != platform.APIUnavailable {
		t.Fatalf("expected one api_unavailable, got %v", *codes)
	}
}

func TestCreateWindowSurfaceWithoutLoader(t *testing.T) {
	s := newStateWithoutVulkan(t)
	w, _ := newTestWindow(t, s, "surface")
	var instance vulkan.Instance
	surface, res := s.CreateWindowSurface(instance, w, nil)
	if res != vulkan.ErrorInitializationFailed {
		t.Fatalf("expected ErrorInitializationFailed, got %d", res)
	}
	var none vulkan.Surface
	if surface != none {
		t.Fatalf("expected a null surface")
	}
}

func TestVulkanBeforeInit(t *testing.T) {
	s := New(Options{Backend: headless.New(headless.Options{})})
	if s.VulkanSupported() {
		t.Fatalf("expected no Vulkan support before Init")
	}
	var instance vulkan.Instance
	if _, res := s.CreateWindowSurface(instance, nil, nil); res != vulkan.ErrorInitializationFailed {
		t.Fatalf("expected ErrorInitializationFailed before Init, got %d", res)
	}
}
