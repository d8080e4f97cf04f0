//go:build windows

package win32

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	shell32  = windows.NewLazySystemDLL("shell32.dll")
	shcore   = windows.NewLazySystemDLL("shcore.dll")

	procRegisterClassEx             = user32.NewProc("RegisterClassExW")
	procUnregisterClass             = user32.NewProc("UnregisterClassW")
	procCreateWindowEx              = user32.NewProc("CreateWindowExW")
	procDestroyWindow               = user32.NewProc("DestroyWindow")
	procDefWindowProc               = user32.NewProc("DefWindowProcW")
	procShowWindow                  = user32.NewProc("ShowWindow")
	procSetWindowText               = user32.NewProc("SetWindowTextW")
	procGetClientRect               = user32.NewProc("GetClientRect")
	procGetWindowRect               = user32.NewProc("GetWindowRect")
	procClientToScreen              = user32.NewProc("ClientToScreen")
	procScreenToClient              = user32.NewProc("ScreenToClient")
	procSetWindowPos                = user32.NewProc("SetWindowPos")
	procMoveWindow                  = user32.NewProc("MoveWindow")
	procGetWindowLongPtr            = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtr            = user32.NewProc("SetWindowLongPtrW")
	procGetClassLongPtr             = user32.NewProc("GetClassLongPtrW")
	procAdjustWindowRectEx          = user32.NewProc("AdjustWindowRectEx")
	procAdjustWindowRectExForDpi    = user32.NewProc("AdjustWindowRectExForDpi")
	procGetDpiForWindow             = user32.NewProc("GetDpiForWindow")
	procSetProcessDpiAwarenessCtx   = user32.NewProc("SetProcessDpiAwarenessContext")
	procSetProcessDPIAware          = user32.NewProc("SetProcessDPIAware")
	procEnableNonClientDpiScaling   = user32.NewProc("EnableNonClientDpiScaling")
	procGetWindowPlacement          = user32.NewProc("GetWindowPlacement")
	procSetWindowPlacement          = user32.NewProc("SetWindowPlacement")
	procIsWindowVisible             = user32.NewProc("IsWindowVisible")
	procIsZoomed                    = user32.NewProc("IsZoomed")
	procIsIconic                    = user32.NewProc("IsIconic")
	procGetActiveWindow             = user32.NewProc("GetActiveWindow")
	procBringWindowToTop            = user32.NewProc("BringWindowToTop")
	procSetForegroundWindow         = user32.NewProc("SetForegroundWindow")
	procSetFocus                    = user32.NewProc("SetFocus")
	procFlashWindow                 = user32.NewProc("FlashWindow")
	procSetLayeredWindowAttributes  = user32.NewProc("SetLayeredWindowAttributes")
	procGetLayeredWindowAttributes  = user32.NewProc("GetLayeredWindowAttributes")
	procPeekMessage                 = user32.NewProc("PeekMessageW")
	procTranslateMessage            = user32.NewProc("TranslateMessage")
	procDispatchMessage             = user32.NewProc("DispatchMessageW")
	procPostMessage                 = user32.NewProc("PostMessageW")
	procSendMessage                 = user32.NewProc("SendMessageW")
	procMsgWaitForMultipleObjects   = user32.NewProc("MsgWaitForMultipleObjects")
	procGetMessageTime              = user32.NewProc("GetMessageTime")
	procChangeWindowMessageFilterEx = user32.NewProc("ChangeWindowMessageFilterEx")
	procSetProp                     = user32.NewProc("SetPropW")
	procRemoveProp                  = user32.NewProc("RemovePropW")
	procGetCursorPos                = user32.NewProc("GetCursorPos")
	procSetCursorPos                = user32.NewProc("SetCursorPos")
	procSetCursor                   = user32.NewProc("SetCursor")
	procLoadCursor                  = user32.NewProc("LoadCursorW")
	procLoadImage                   = user32.NewProc("LoadImageW")
	procClipCursor                  = user32.NewProc("ClipCursor")
	procWindowFromPoint             = user32.NewProc("WindowFromPoint")
	procTrackMouseEvent             = user32.NewProc("TrackMouseEvent")
	procSetCapture                  = user32.NewProc("SetCapture")
	procReleaseCapture              = user32.NewProc("ReleaseCapture")
	procCreateIconIndirect          = user32.NewProc("CreateIconIndirect")
	procDestroyIcon                 = user32.NewProc("DestroyIcon")
	procRegisterRawInputDevices     = user32.NewProc("RegisterRawInputDevices")
	procGetRawInputData             = user32.NewProc("GetRawInputData")
	procGetAsyncKeyState            = user32.NewProc("GetAsyncKeyState")
	procMapVirtualKey               = user32.NewProc("MapVirtualKeyW")
	procToUnicode                   = user32.NewProc("ToUnicode")
	procEnumDisplayDevices          = user32.NewProc("EnumDisplayDevicesW")
	procEnumDisplaySettingsEx       = user32.NewProc("EnumDisplaySettingsExW")
	procChangeDisplaySettingsEx     = user32.NewProc("ChangeDisplaySettingsExW")
	procEnumDisplayMonitors         = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfo              = user32.NewProc("GetMonitorInfoW")
	procMonitorFromWindow           = user32.NewProc("MonitorFromWindow")
	procGetDC                       = user32.NewProc("GetDC")
	procReleaseDC                   = user32.NewProc("ReleaseDC")
	procOpenClipboard               = user32.NewProc("OpenClipboard")
	procCloseClipboard              = user32.NewProc("CloseClipboard")
	procEmptyClipboard              = user32.NewProc("EmptyClipboard")
	procGetClipboardData            = user32.NewProc("GetClipboardData")
	procSetClipboardData            = user32.NewProc("SetClipboardData")
	procSystemParametersInfo        = user32.NewProc("SystemParametersInfoW")
	procGetSystemMetrics            = user32.NewProc("GetSystemMetrics")

	procGetDeviceCaps    = gdi32.NewProc("GetDeviceCaps")
	procCreateDIBSection = gdi32.NewProc("CreateDIBSection")
	procCreateBitmap     = gdi32.NewProc("CreateBitmap")
	procDeleteObject     = gdi32.NewProc("DeleteObject")

	procGetModuleHandle         = kernel32.NewProc("GetModuleHandleW")
	procGlobalAlloc             = kernel32.NewProc("GlobalAlloc")
	procGlobalFree              = kernel32.NewProc("GlobalFree")
	procGlobalLock              = kernel32.NewProc("GlobalLock")
	procGlobalUnlock            = kernel32.NewProc("GlobalUnlock")
	procSetThreadExecutionState = kernel32.NewProc("SetThreadExecutionState")

	procDragAcceptFiles = shell32.NewProc("DragAcceptFiles")
	procDragQueryFile   = shell32.NewProc("DragQueryFileW")
	procDragQueryPoint  = shell32.NewProc("DragQueryPoint")
	procDragFinish      = shell32.NewProc("DragFinish")

	procGetDpiForMonitor = shcore.NewProc("GetDpiForMonitor")
)

// Window messages.
const (
	wmNull             = 0x0000
	wmDestroy          = 0x0002
	wmMove             = 0x0003
	wmSize             = 0x0005
	wmSetFocus         = 0x0007
	wmKillFocus        = 0x0008
	wmClose            = 0x0010
	wmQuit             = 0x0012
	wmEraseBkgnd       = 0x0014
	wmSetCursor        = 0x0020
	wmMouseActivate    = 0x0021
	wmGetMinMaxInfo    = 0x0024
	wmCopyData         = 0x004A
	wmInputLangChange  = 0x0051
	wmSetIcon          = 0x0080
	wmNCCreate         = 0x0081
	wmNCPaint          = 0x0085
	wmNCActivate       = 0x0086
	wmDisplayChange    = 0x007E
	wmInput            = 0x00FF
	wmKeyDown          = 0x0100
	wmKeyUp            = 0x0101
	wmChar             = 0x0102
	wmSysKeyDown       = 0x0104
	wmSysKeyUp         = 0x0105
	wmSysChar          = 0x0106
	wmUniChar          = 0x0109
	wmSysCommand       = 0x0112
	wmMouseMove        = 0x0200
	wmLButtonDown      = 0x0201
	wmLButtonUp        = 0x0202
	wmRButtonDown      = 0x0204
	wmRButtonUp        = 0x0205
	wmMButtonDown      = 0x0207
	wmMButtonUp        = 0x0208
	wmMouseWheel       = 0x020A
	wmXButtonDown      = 0x020B
	wmXButtonUp        = 0x020C
	wmMouseHWheel      = 0x020E
	wmEnterMenuLoop    = 0x0211
	wmExitMenuLoop     = 0x0212
	wmCaptureChanged   = 0x0215
	wmEnterSizeMove    = 0x0231
	wmExitSizeMove     = 0x0232
	wmDropFiles        = 0x0233
	wmMouseLeave       = 0x02A3
	wmDpiChanged       = 0x02E0
	wmGetDpiScaledSize = 0x02E4
	wmCopyGlobalData   = 0x0049
	wmSizing           = 0x0214
	wmPaint            = 0x000F
	wmActivate         = 0x0006
	wmNCHitTest        = 0x0084
)

// Window styles.
const (
	wsPopup            = 0x80000000
	wsClipSiblings     = 0x04000000
	wsClipChildren     = 0x02000000
	wsMaximize         = 0x01000000
	wsCaption          = 0x00C00000
	wsSysMenu          = 0x00080000
	wsThickFrame       = 0x00040000
	wsMinimizeBox      = 0x00020000
	wsMaximizeBox      = 0x00010000
	wsOverlappedWindow = 0x00CF0000

	wsExTopmost          = 0x00000008
	wsExTransparent      = 0x00000020
	wsExAppWindow        = 0x00040000
	wsExLayered          = 0x00080000
	wsExOverlappedWindow = 0x00000300

	csHRedraw = 0x0002
	csVRedraw = 0x0001
	csOwnDC   = 0x0020
)

const (
	gwlStyle   = -16
	gwlExStyle = -20
	gclpHIcon  = -14
	gclpHIconS = -34

	swHide     = 0
	swMaximize = 3
	swMinimize = 6
	swShowNA   = 8
	swRestore  = 9

	swpNoSize         = 0x0001
	swpNoMove         = 0x0002
	swpNoZOrder       = 0x0004
	swpNoActivate     = 0x0010
	swpFrameChanged   = 0x0020
	swpShowWindow     = 0x0040
	swpNoCopyBits     = 0x0100
	swpNoOwnerZOrder  = 0x0200
	hwndTop           = 0
	hwndTopmost       = ^uintptr(0)
	hwndNoTopmost     = ^uintptr(0) - 1
	cwUseDefault      = 0x80000000
	lwaColorKey       = 0x1
	lwaAlpha          = 0x2
	pmRemove          = 0x0001
	pmNoRemove        = 0x0000
	qsAllInput        = 0x04FF
	infinite          = 0xFFFFFFFF
	htClient          = 1
	sizeRestored      = 0
	sizeMinimized     = 1
	sizeMaximized     = 2
	wmszLeft          = 1
	wmszRight         = 2
	wmszTop           = 3
	wmszTopLeft       = 4
	wmszTopRight      = 5
	wmszBottom        = 6
	wmszBottomLeft    = 7
	wmszBottomRight   = 8
	smCXIcon          = 11
	smCYIcon          = 12
	smCXSmIcon        = 49
	smCYSmIcon        = 50
	smCXScreen        = 0
	smCYScreen        = 1
	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCXVirtualScreen = 78
	smCYVirtualScreen = 79
	htCaption         = 2
	scKeyMenu         = 0xF100
	scScreenSave      = 0xF140
	scMonitorPower    = 0xF170
	iconSmall         = 0
	iconBig           = 1
	wheelDelta        = 120
	xButton1          = 0x0001
	tmeLeave          = 0x00000002
	kfExtended        = 0x0100
	kfUp              = 0x8000
	mapVKToVSC        = 0
	mapVSCToVK        = 1
	unicodeNoChar     = 0xFFFF
	msgfltAllow       = 1
	userDefaultDPI    = 96
	logPixelsX        = 88
	logPixelsY        = 90
	monitorNearest    = 2
	mdtEffectiveDPI   = 0
	dpiAwarenessPMv2  = ^uintptr(3)
	errorClassExists  = 1410
	errorAccessDenied = 5
)

// Virtual keys.
const (
	vkShift    = 0x10
	vkControl  = 0x11
	vkMenu     = 0x12
	vkSnapshot = 0x2C
	vkLShift   = 0xA0
	vkRShift   = 0xA1
	vkLWin     = 0x5B
	vkRWin     = 0x5C
	vkProcess  = 0xE5
)

// Display settings.
const (
	enumCurrentSettings        = 0xFFFFFFFF
	edsRotatedMode             = 0x00000004
	cdsTest                    = 0x00000002
	cdsFullscreen              = 0x00000004
	dispChangeSuccessful       = 0
	displayDeviceActive        = 0x00000001
	displayDevicePrimaryDevice = 0x00000004
	displayDeviceModesPruned   = 0x08000000
	dmBitsPerPel               = 0x00040000
	dmPelsWidth                = 0x00080000
	dmPelsHeight               = 0x00100000
	dmDisplayFrequency         = 0x00400000
)

const (
	imageCursor                 = 2
	lrDefaultSize               = 0x00000040
	lrShared                    = 0x00008000
	biBitfields                 = 3
	dibRGBColors                = 0
	cfUnicodeText               = 13
	gmemMoveable                = 0x0002
	esContinuous                = 0x80000000
	esDisplayReq                = 0x00000002
	esSystemRequired            = 0x00000001
	ridInput                    = 0x10000003
	ridevRemove                 = 0x00000001
	mouseMoveAbs                = 0x01
	mouseVirtualDesktop         = 0x02
	spiGetForegroundLockTimeout = 0x2000
	spiSetForegroundLockTimeout = 0x2001
	spifSendChange              = 0x0002
)

// Resource ids of the system cursors.
const (
	ocrNormal   = 32512
	ocrIBeam    = 32513
	ocrCross    = 32515
	ocrSizeNWSE = 32642
	ocrSizeNESW = 32643
	ocrSizeWE   = 32644
	ocrSizeNS   = 32645
	ocrSizeAll  = 32646
	ocrNo       = 32648
	ocrHand     = 32649
)

type point struct {
	x, y int32
}

type rect struct {
	left, top, right, bottom int32
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      point
	private uint32
}

type wndClassEx struct {
	size       uint32
	style      uint32
	wndProc    uintptr
	clsExtra   int32
	wndExtra   int32
	instance   uintptr
	icon       uintptr
	cursor     uintptr
	background uintptr
	menuName   *uint16
	className  *uint16
	iconSm     uintptr
}

type minMaxInfo struct {
	reserved     point
	maxSize      point
	maxPosition  point
	minTrackSize point
	maxTrackSize point
}

type windowPlacement struct {
	length         uint32
	flags          uint32
	showCmd        uint32
	minPosition    point
	maxPosition    point
	normalPosition rect
}

type trackMouseEvent struct {
	size      uint32
	flags     uint32
	track     uintptr
	hoverTime uint32
}

type monitorInfoEx struct {
	size    uint32
	monitor rect
	work    rect
	flags   uint32
	device  [32]uint16
}

type displayDevice struct {
	cb           uint32
	deviceName   [32]uint16
	deviceString [128]uint16
	stateFlags   uint32
	deviceID     [128]uint16
	deviceKey    [128]uint16
}

// devMode mirrors DEVMODEW with the display half of its unions.
type devMode struct {
	deviceName         [32]uint16
	specVersion        uint16
	driverVersion      uint16
	size               uint16
	driverExtra        uint16
	fields             uint32
	positionX          int32
	positionY          int32
	displayOrientation uint32
	displayFixedOutput uint32
	color              int16
	duplex             int16
	yResolution        int16
	ttOption           int16
	collate            int16
	formName           [32]uint16
	logPixels          uint16
	bitsPerPel         uint32
	pelsWidth          uint32
	pelsHeight         uint32
	displayFlags       uint32
	displayFrequency   uint32
	icmMethod          uint32
	icmIntent          uint32
	mediaType          uint32
	ditherType         uint32
	reserved1          uint32
	reserved2          uint32
	panningWidth       uint32
	panningHeight      uint32
}

type bitmapV5Header struct {
	size          uint32
	width         int32
	height        int32
	planes        uint16
	bitCount      uint16
	compression   uint32
	sizeImage     uint32
	xPelsPerMeter int32
	yPelsPerMeter int32
	clrUsed       uint32
	clrImportant  uint32
	redMask       uint32
	greenMask     uint32
	blueMask      uint32
	alphaMask     uint32
	csType        uint32
	endpoints     [36]byte
	gammaRed      uint32
	gammaGreen    uint32
	gammaBlue     uint32
	intent        uint32
	profileData   uint32
	profileSize   uint32
	reserved      uint32
}

type iconInfo struct {
	icon     int32
	xHotspot uint32
	yHotspot uint32
	mask     uintptr
	color    uintptr
}

type rawInputDevice struct {
	usagePage uint16
	usage     uint16
	flags     uint32
	target    uintptr
}

type rawInputHeader struct {
	typ    uint32
	size   uint32
	device uintptr
	wParam uintptr
}

// rawMouse mirrors RAWMOUSE.
type rawMouse struct {
	flags       uint16
	_           uint16
	buttonFlags uint16
	buttonData  uint16
	rawButtons  uint32
	lastX       int32
	lastY       int32
	extraInfo   uint32
}

type rawInput struct {
	header rawInputHeader
	mouse  rawMouse
}

// Message parameter helpers.

func loword(v uintptr) uint16 { return uint16(v) }

func hiword(v uintptr) uint16 { return uint16(v >> 16) }

// lparamPoint decodes signed client coordinates.
func lparamPoint(lParam uintptr) (x, y int32) {
	return int32(int16(loword(lParam))), int32(int16(hiword(lParam)))
}

// longIndex passes a negative GetWindowLongPtr index.
func longIndex(i int32) uintptr { return uintptr(i) }

func systemMetric(index uintptr) int {
	r, _, _ := procGetSystemMetrics.Call(index)
	return int(int32(r))
}

func moduleHandle() uintptr {
	h, _, _ := procGetModuleHandle.Call(0)
	return h
}

func utf16Ptr(s string) *uint16 {
	p, err := windows.UTF16PtrFromString(s)
	if err != nil {
		p, _ = windows.UTF16PtrFromString("")
	}
	return p
}

func ptr[T any](v *T) uintptr { return uintptr(unsafe.Pointer(v)) }
