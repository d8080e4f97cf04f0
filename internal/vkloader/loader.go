// Package vkloader finds the system Vulkan loader, initializes the goki/vulkan
// bindings from it and calls WSI entry points that those bindings do not
// expose.
package vkloader

import (
	"fmt"
	"runtime"
	"sort"
	"unsafe"

	vulkan "github.com/goki/vulkan"
)

// Structure types of the platform surface create infos.
const (
	StructureTypeXcbSurfaceCreateInfo     = 1000005000
	StructureTypeWaylandSurfaceCreateInfo = 1000006000
	StructureTypeWin32SurfaceCreateInfo   = 1000009000
)

// SurfaceExtension is the name of the platform independent surface extension.
const SurfaceExtension = "VK_KHR_surface"

// Loader is an opened Vulkan loader library.
type Loader struct {
	path                string
	lib                 uintptr
	getInstanceProcAddr uintptr
	extensions          map[string]bool
}

// Open loads the Vulkan loader at path (the platform default when empty),
// hands vkGetInstanceProcAddr to goki/vulkan and caches the instance
// extensions.
func Open(path string) (*Loader, error) {
	if path == "" {
		path = defaultLibrary
	}
	lib, err := openLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	gipa, err := lookupSymbol(lib, "vkGetInstanceProcAddr")
	if err != nil || gipa == 0 {
		closeLibrary(lib)
		return nil, fmt.Errorf("%s does not export vkGetInstanceProcAddr", path)
	}

	l := &Loader{path: path, lib: lib, getInstanceProcAddr: gipa}

	vulkan.SetGetInstanceProcAddr(*(*unsafe.Pointer)(unsafe.Pointer(&gipa)))
	if err := vulkan.Init(); err != nil {
		l.Close()
		return nil, fmt.Errorf("vulkan init failed: %w", err)
	}
	if err := l.enumerateExtensions(); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func (l *Loader) enumerateExtensions() error {
	var count uint32
	if err := vulkan.Error(vulkan.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return fmt.Errorf("failed to query instance extension count: %w", err)
	}
	props := make([]vulkan.ExtensionProperties, count)
	if count > 0 {
		if err := vulkan.Error(vulkan.EnumerateInstanceExtensionProperties("", &count, props)); err != nil {
			return fmt.Errorf("failed to query instance extensions: %w", err)
		}
	}
	l.extensions = make(map[string]bool, len(props))
	for _, p := range props[:count] {
		p.Deref()
		l.extensions[vulkan.ToString(p.ExtensionName[:])] = true
	}
	return nil
}

// Path is the library the loader was opened from.
func (l *Loader) Path() string {
	return l.path
}

// HasExtension reports whether the instance extension is available.
func (l *Loader) HasExtension(name string) bool {
	return l != nil && l.extensions[name]
}

// Extensions returns every available instance extension, sorted.
func (l *Loader) Extensions() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.extensions))
	for name := range l.extensions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ProcAddr resolves an instance-level command through vkGetInstanceProcAddr.
func (l *Loader) ProcAddr(instance vulkan.Instance, name string) uintptr {
	if l == nil || l.getInstanceProcAddr == 0 {
		return 0
	}
	cname := append([]byte(name), 0)
	addr := callProc(l.getInstanceProcAddr, uintptr(unsafe.Pointer(instance)), uintptr(unsafe.Pointer(&cname[0])))
	runtime.KeepAlive(cname)
	return addr
}

// CreateSurface calls a vkCreate*SurfaceKHR command with a platform create
// info and returns the new surface.
func (l *Loader) CreateSurface(instance vulkan.Instance, command string, createInfo unsafe.Pointer, allocator unsafe.Pointer) (vulkan.Surface, vulkan.Result) {
	var none vulkan.Surface
	fn := l.ProcAddr(instance, command)
	if fn == 0 {
		return none, vulkan.ErrorExtensionNotPresent
	}
	var surface uintptr
	res := callProc(fn,
		uintptr(unsafe.Pointer(instance)),
		uintptr(createInfo),
		uintptr(allocator),
		uintptr(unsafe.Pointer(&surface)),
	)
	result := vulkan.Result(int32(res))
	if result != vulkan.Success {
		return none, result
	}
	return vulkan.SurfaceFromPointer(surface), result
}

// Close unloads the library.
func (l *Loader) Close() {
	if l == nil || l.lib == 0 {
		return
	}
	closeLibrary(l.lib)
	l.lib = 0
	l.getInstanceProcAddr = 0
}
