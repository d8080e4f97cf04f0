//go:build windows

package win32

import (
	"slices"
	"sync"
	"unsafe"

	"github.com/1broseidon/windowkit/internal/platform"
	"golang.org/x/sys/windows"
)

// Monitor is one display attached to an adapter.
type Monitor struct {
	handle      uintptr
	adapterName string
	displayName string
	name        string

	widthMM, heightMM int

	modesPruned bool
	modeChanged bool
}

// pollMonitors diffs the active display devices against the known monitors.
// The host hears about changes only when notify is set; during Init the list
// is simply filled.
func (b *Backend) pollMonitors(notify bool) {
	disconnected := slices.Clone(b.monitors)

	for adapterIndex := uintptr(0); ; adapterIndex++ {
		adapter := displayDevice{}
		adapter.cb = uint32(unsafe.Sizeof(adapter))
		if r, _, _ := procEnumDisplayDevices.Call(0, adapterIndex, ptr(&adapter), 0); r == 0 {
			break
		}
		if adapter.stateFlags&displayDeviceActive == 0 {
			continue
		}
		placement := platform.PlaceLast
		if adapter.stateFlags&displayDevicePrimaryDevice != 0 {
			placement = platform.PlaceFirst
		}
		adapterName := windows.UTF16ToString(adapter.deviceName[:])

		found := 0
		for displayIndex := uintptr(0); ; displayIndex++ {
			display := displayDevice{}
			display.cb = uint32(unsafe.Sizeof(display))
			if r, _, _ := procEnumDisplayDevices.Call(ptr(&adapter.deviceName[0]), displayIndex, ptr(&display), 0); r == 0 {
				break
			}
			if display.stateFlags&displayDeviceActive == 0 {
				continue
			}
			found++
			displayName := windows.UTF16ToString(display.deviceName[:])
			if i := slices.IndexFunc(disconnected, func(m *Monitor) bool { return m.displayName == displayName }); i >= 0 {
				disconnected[i].refreshHandle()
				disconnected = slices.Delete(disconnected, i, i+1)
				continue
			}
			m := newMonitor(&adapter, &display)
			b.addMonitor(m, placement, notify)
			placement = platform.PlaceLast
		}

		// A mirroring driver may report an adapter without displays.
		if found == 0 {
			if i := slices.IndexFunc(disconnected, func(m *Monitor) bool { return m.adapterName == adapterName }); i >= 0 {
				disconnected[i].refreshHandle()
				disconnected = slices.Delete(disconnected, i, i+1)
				continue
			}
			b.addMonitor(newMonitor(&adapter, nil), placement, notify)
		}
	}

	for _, m := range disconnected {
		b.monitors = slices.DeleteFunc(b.monitors, func(other *Monitor) bool { return other == m })
		b.logger.Debug("monitor disconnected", "monitor", m.name)
		if notify {
			b.host.InputMonitorDisconnect(m)
		}
	}
}

func (b *Backend) addMonitor(m *Monitor, placement platform.Placement, notify bool) {
	if placement == platform.PlaceFirst {
		b.monitors = slices.Insert(b.monitors, 0, m)
	} else {
		b.monitors = append(b.monitors, m)
	}
	b.logger.Debug("monitor connected", "monitor", m.name, "adapter", m.adapterName)
	if notify {
		b.host.InputMonitorConnect(m, placement)
	}
}

func newMonitor(adapter, display *displayDevice) *Monitor {
	m := &Monitor{
		adapterName: windows.UTF16ToString(adapter.deviceName[:]),
		modesPruned: adapter.stateFlags&displayDeviceModesPruned != 0,
	}
	if display != nil {
		m.displayName = windows.UTF16ToString(display.deviceName[:])
		m.name = windows.UTF16ToString(display.deviceString[:])
	} else {
		m.name = windows.UTF16ToString(adapter.deviceString[:])
	}

	dm := m.settings(enumCurrentSettings)
	dc, _, _ := procGetDC.Call(0)
	dpiX, _, _ := procGetDeviceCaps.Call(dc, logPixelsX)
	dpiY, _, _ := procGetDeviceCaps.Call(dc, logPixelsY)
	procReleaseDC.Call(0, dc)
	if dpiX == 0 || dpiY == 0 {
		dpiX, dpiY = userDefaultDPI, userDefaultDPI
	}
	m.widthMM = int(float64(dm.pelsWidth) * 25.4 / float64(dpiX))
	m.heightMM = int(float64(dm.pelsHeight) * 25.4 / float64(dpiY))

	m.refreshHandle()
	return m
}

var (
	enumMu     sync.Mutex
	enumTarget *Monitor
)

var monitorEnumCallback = sync.OnceValue(func() uintptr {
	return windows.NewCallback(func(handle, dc, area, data uintptr) uintptr {
		mi := monitorInfoEx{}
		mi.size = uint32(unsafe.Sizeof(mi))
		if r, _, _ := procGetMonitorInfo.Call(handle, ptr(&mi)); r != 0 {
			if windows.UTF16ToString(mi.device[:]) == enumTarget.adapterName {
				enumTarget.handle = handle
			}
		}
		return 1
	})
})

// refreshHandle finds the HMONITOR covering the adapter's desktop area.
func (m *Monitor) refreshHandle() {
	dm := m.settings(enumCurrentSettings)
	area := rect{
		left:   dm.positionX,
		top:    dm.positionY,
		right:  dm.positionX + int32(dm.pelsWidth),
		bottom: dm.positionY + int32(dm.pelsHeight),
	}
	enumMu.Lock()
	defer enumMu.Unlock()
	enumTarget = m
	procEnumDisplayMonitors.Call(0, ptr(&area), monitorEnumCallback(), 0)
	enumTarget = nil
}

// settings reads mode index, or the current mode for enumCurrentSettings.
func (m *Monitor) settings(index uintptr) devMode {
	dm, _ := m.enumSettings(index, 0)
	return dm
}

// enumSettings is false past the last mode.
func (m *Monitor) enumSettings(index, flags uintptr) (devMode, bool) {
	dm := devMode{}
	dm.size = uint16(unsafe.Sizeof(dm))
	r, _, _ := procEnumDisplaySettingsEx.Call(uintptr(unsafe.Pointer(utf16Ptr(m.adapterName))), index, ptr(&dm), flags)
	return dm, r != 0
}

func (m *Monitor) Name() string { return m.name }

func (m *Monitor) Pos() (x, y int) {
	dm, _ := m.enumSettings(enumCurrentSettings, edsRotatedMode)
	return int(dm.positionX), int(dm.positionY)
}

func (m *Monitor) WorkArea() platform.Rect {
	mi := monitorInfoEx{}
	mi.size = uint32(unsafe.Sizeof(mi))
	procGetMonitorInfo.Call(m.handle, ptr(&mi))
	return platform.Rect{
		X:      int(mi.work.left),
		Y:      int(mi.work.top),
		Width:  int(mi.work.right - mi.work.left),
		Height: int(mi.work.bottom - mi.work.top),
	}
}

func (m *Monitor) PhysicalSize() (widthMM, heightMM int) { return m.widthMM, m.heightMM }

func (m *Monitor) ContentScale() (xscale, yscale float32) {
	var dpiX, dpiY uint32
	if shcore.Load() == nil && procGetDpiForMonitor.Find() == nil {
		if r, _, _ := procGetDpiForMonitor.Call(m.handle, mdtEffectiveDPI, ptr(&dpiX), ptr(&dpiY)); r != 0 {
			dpiX, dpiY = 0, 0
		}
	}
	if dpiX == 0 || dpiY == 0 {
		dc, _, _ := procGetDC.Call(0)
		x, _, _ := procGetDeviceCaps.Call(dc, logPixelsX)
		y, _, _ := procGetDeviceCaps.Call(dc, logPixelsY)
		procReleaseDC.Call(0, dc)
		dpiX, dpiY = uint32(x), uint32(y)
	}
	return float32(dpiX) / userDefaultDPI, float32(dpiY) / userDefaultDPI
}

// modeFromDevMode converts display settings to a video mode.
func modeFromDevMode(dm devMode) platform.VideoMode {
	r, g, b := platform.SplitBPP(int(dm.bitsPerPel))
	return platform.VideoMode{
		Width:       int(dm.pelsWidth),
		Height:      int(dm.pelsHeight),
		RedBits:     r,
		GreenBits:   g,
		BlueBits:    b,
		RefreshRate: int(dm.displayFrequency),
	}
}

// modeBitsPerPel is the pixel depth to request for mode. Depths below 15
// and 24-bit modes are asked for as 32 bits.
func modeBitsPerPel(mode platform.VideoMode) uint32 {
	bpp := mode.BitsPerPixel()
	if bpp < 15 || bpp >= 24 {
		bpp = 32
	}
	return uint32(bpp)
}

func (m *Monitor) VideoModes() ([]platform.VideoMode, error) {
	var modes []platform.VideoMode
	for index := uintptr(0); ; index++ {
		dm, ok := m.enumSettings(index, 0)
		if !ok {
			break
		}
		// Skip modes with less than 15 BPP.
		if dm.bitsPerPel < 15 {
			continue
		}
		mode := modeFromDevMode(dm)
		if slices.Contains(modes, mode) {
			continue
		}
		if m.modesPruned {
			// Skip modes not supported by the connected displays.
			r, _, _ := procChangeDisplaySettingsEx.Call(uintptr(unsafe.Pointer(utf16Ptr(m.adapterName))), ptr(&dm), 0, cdsTest, 0)
			if int32(r) != dispChangeSuccessful {
				continue
			}
		}
		modes = append(modes, mode)
	}
	if len(modes) == 0 {
		// Some virtual displays report no modes at all.
		mode, err := m.CurrentMode()
		if err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}
	return modes, nil
}

func (m *Monitor) CurrentMode() (platform.VideoMode, error) {
	dm, ok := m.enumSettings(enumCurrentSettings, 0)
	if !ok {
		return platform.VideoMode{}, platform.Errorf(platform.PlatformError, "[Window] Win32: Failed to query display settings")
	}
	return modeFromDevMode(dm), nil
}

// SetVideoMode switches the adapter to mode until RestoreVideoMode.
func (m *Monitor) SetVideoMode(mode platform.VideoMode) error {
	if current, err := m.CurrentMode(); err == nil && current == mode {
		return nil
	}
	dm := devMode{}
	dm.size = uint16(unsafe.Sizeof(dm))
	dm.fields = dmPelsWidth | dmPelsHeight | dmBitsPerPel | dmDisplayFrequency
	dm.pelsWidth = uint32(mode.Width)
	dm.pelsHeight = uint32(mode.Height)
	dm.bitsPerPel = modeBitsPerPel(mode)
	dm.displayFrequency = uint32(mode.RefreshRate)

	r, _, _ := procChangeDisplaySettingsEx.Call(uintptr(unsafe.Pointer(utf16Ptr(m.adapterName))), ptr(&dm), 0, cdsFullscreen, 0)
	if result := int32(r); result != dispChangeSuccessful {
		return platform.Errorf(platform.PlatformError, "[Window] Win32: Failed to set video mode: %s", dispChangeDescription(result))
	}
	m.modeChanged = true
	return nil
}

func dispChangeDescription(result int32) string {
	switch result {
	case -6:
		return "system uses DualView"
	case -4:
		return "invalid flags"
	case -2:
		return "graphics mode not supported"
	case -5:
		return "invalid parameter"
	case -1:
		return "graphics mode failed"
	case -3:
		return "failed to write to registry"
	case 1:
		return "computer must be restarted"
	}
	return "unknown error"
}

func (m *Monitor) RestoreVideoMode() {
	if !m.modeChanged {
		return
	}
	procChangeDisplaySettingsEx.Call(uintptr(unsafe.Pointer(utf16Ptr(m.adapterName))), 0, 0, cdsFullscreen, 0)
	m.modeChanged = false
}
