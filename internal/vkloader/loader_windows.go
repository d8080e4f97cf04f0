//go:build windows

package vkloader

import (
	"syscall"

	"golang.org/x/sys/windows"
)

const defaultLibrary = "vulkan-1.dll"

func openLibrary(path string) (uintptr, error) {
	var (
		h   windows.Handle
		err error
	)
	if path == defaultLibrary {
		h, err = windows.LoadLibraryEx(path, 0, windows.LOAD_LIBRARY_SEARCH_SYSTEM32)
	} else {
		h, err = windows.LoadLibrary(path)
	}
	return uintptr(h), err
}

func lookupSymbol(lib uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(lib), name)
}

func closeLibrary(lib uintptr) {
	_ = windows.FreeLibrary(windows.Handle(lib))
}

func callProc(fn uintptr, args ...uintptr) uintptr {
	r1, _, _ := syscall.SyscallN(fn, args...)
	return r1
}
