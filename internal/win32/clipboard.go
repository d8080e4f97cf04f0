//go:build windows

package win32

import (
	"time"
	"unsafe"

	"github.com/1broseidon/windowkit/internal/platform"
	"golang.org/x/sys/windows"
)

// openClipboard retries while another process has the clipboard open.
func (b *Backend) openClipboard() bool {
	deadline := time.Now().Add(b.opts.ClipboardTimeout)
	for {
		if r, _, _ := procOpenClipboard.Call(b.helper); r != 0 {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

func (b *Backend) SetClipboardString(text string) error {
	chars, err := windows.UTF16FromString(text)
	if err != nil {
		return platform.Wrap(platform.InvalidValue, err, "[Window] Win32: Clipboard text contains a NUL")
	}
	size := uintptr(len(chars)) * 2

	mem, _, err := procGlobalAlloc.Call(gmemMoveable, size)
	if mem == 0 {
		return platform.Wrap(platform.PlatformError, err, "[Window] Win32: Failed to allocate global handle for clipboard")
	}
	buf, _, err := procGlobalLock.Call(mem)
	if buf == 0 {
		procGlobalFree.Call(mem)
		return platform.Wrap(platform.PlatformError, err, "[Window] Win32: Failed to lock global handle")
	}
	copy(unsafe.Slice((*uint16)(unsafe.Pointer(buf)), len(chars)), chars)
	procGlobalUnlock.Call(mem)

	if !b.openClipboard() {
		procGlobalFree.Call(mem)
		return platform.Errorf(platform.PlatformError, "[Window] Win32: Failed to open clipboard")
	}
	defer procCloseClipboard.Call()
	procEmptyClipboard.Call()
	if r, _, err := procSetClipboardData.Call(cfUnicodeText, mem); r == 0 {
		procGlobalFree.Call(mem)
		return platform.Wrap(platform.PlatformError, err, "[Window] Win32: Failed to set clipboard data")
	}
	// The clipboard owns mem now.
	return nil
}

func (b *Backend) ClipboardString() (string, error) {
	if !b.openClipboard() {
		return "", platform.Errorf(platform.PlatformError, "[Window] Win32: Failed to open clipboard")
	}
	defer procCloseClipboard.Call()

	data, _, _ := procGetClipboardData.Call(cfUnicodeText)
	if data == 0 {
		return "", platform.Errorf(platform.FormatUnavailable, "[Window] Win32: Failed to convert clipboard to string")
	}
	buf, _, err := procGlobalLock.Call(data)
	if buf == 0 {
		return "", platform.Wrap(platform.PlatformError, err, "[Window] Win32: Failed to lock global handle")
	}
	defer procGlobalUnlock.Call(data)
	return windows.UTF16PtrToString((*uint16)(unsafe.Pointer(buf))), nil
}
