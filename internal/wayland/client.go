//go:build linux

// Package wayland implements the windowing backend for Wayland compositors.
// libwayland-client, libxkbcommon and libwayland-cursor are loaded at run
// time; no C toolchain is needed to build it.
package wayland

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// marshalDestroy is WL_MARSHAL_FLAG_DESTROY.
const marshalDestroy = 1

// client holds the libwayland-client entry points.
type client struct {
	lib uintptr

	displayConnect      func(name *byte) uintptr
	displayDisconnect   func(display uintptr)
	displayGetFD        func(display uintptr) int32
	displayRoundtrip    func(display uintptr) int32
	displayDispatchPend func(display uintptr) int32
	displayPrepareRead  func(display uintptr) int32
	displayReadEvents   func(display uintptr) int32
	displayCancelRead   func(display uintptr)
	displayFlush        func(display uintptr) int32
	displayGetError     func(display uintptr) int32
	proxyMarshalFlags   func(proxy uintptr, opcode uint32, iface *cInterface, version, flags uint32, args *uint64) uintptr
	proxyAddDispatcher  func(proxy, dispatcher, impl, data uintptr) int32
	proxyDestroy        func(proxy uintptr)
	proxyGetVersion     func(proxy uintptr) uint32
	proxyGetID          func(proxy uintptr) uint32
}

var (
	loadOnce   sync.Once
	loadErr    error
	wl         client
	dispatcher uintptr
)

func loadClient() error {
	loadOnce.Do(func() {
		lib, err := purego.Dlopen("libwayland-client.so.0", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("failed to load libwayland-client: %w", err)
			return
		}
		wl.lib = lib
		for name, fptr := range map[string]any{
			"wl_display_connect":           &wl.displayConnect,
			"wl_display_disconnect":        &wl.displayDisconnect,
			"wl_display_get_fd":            &wl.displayGetFD,
			"wl_display_roundtrip":         &wl.displayRoundtrip,
			"wl_display_dispatch_pending":  &wl.displayDispatchPend,
			"wl_display_prepare_read":      &wl.displayPrepareRead,
			"wl_display_read_events":       &wl.displayReadEvents,
			"wl_display_cancel_read":       &wl.displayCancelRead,
			"wl_display_flush":             &wl.displayFlush,
			"wl_display_get_error":         &wl.displayGetError,
			"wl_proxy_marshal_array_flags": &wl.proxyMarshalFlags,
			"wl_proxy_add_dispatcher":      &wl.proxyAddDispatcher,
			"wl_proxy_destroy":             &wl.proxyDestroy,
			"wl_proxy_get_version":         &wl.proxyGetVersion,
			"wl_proxy_get_id":              &wl.proxyGetID,
		} {
			sym, err := purego.Dlsym(lib, name)
			if err != nil {
				purego.Dlclose(lib)
				loadErr = fmt.Errorf("libwayland-client is missing %s: %w", name, err)
				return
			}
			purego.RegisterFunc(fptr, sym)
		}
		dispatcher = purego.NewCallback(dispatchEvent)
	})
	return loadErr
}

// Available reports whether libwayland-client can be loaded.
func Available() bool {
	return loadClient() == nil
}

// proxy is a wl_proxy pointer owned by libwayland.
type proxy uintptr

// handler receives the events of one proxy.
type handler func(opcode uint32, args eventArgs)

// handlers maps live proxies to their Go listeners. Events are dispatched
// only from the goroutine pumping the display.
var handlers = map[proxy]handler{}

func dispatchEvent(impl, target uintptr, opcode uint32, msg, args uintptr) uintptr {
	h, ok := handlers[proxy(target)]
	if !ok {
		return 0
	}
	h(opcode, eventArgs(args))
	return 0
}

// listen routes the events of p to h.
func (p proxy) listen(h handler) {
	if p == 0 {
		return
	}
	handlers[p] = h
	wl.proxyAddDispatcher(uintptr(p), dispatcher, 0, 0)
}

func (p proxy) version() uint32 {
	if p == 0 {
		return 0
	}
	return wl.proxyGetVersion(uintptr(p))
}

// request sends a request without a new object.
func (p proxy) request(opcode uint32, args ...any) {
	p.marshal(opcode, nil, 0, 0, args...)
}

// create sends a request whose new_id argument creates an object of iface.
func (p proxy) create(opcode uint32, iface *iface, version uint32, args ...any) proxy {
	if version == 0 {
		version = p.version()
	}
	return p.marshal(opcode, iface.c, version, 0, args...)
}

// destroy sends the destructor request and forgets the proxy.
func (p proxy) destroy(opcode uint32) {
	if p == 0 {
		return
	}
	delete(handlers, p)
	p.marshal(opcode, nil, 0, marshalDestroy)
}

// release forgets a proxy that has no destructor request.
func (p proxy) release() {
	if p == 0 {
		return
	}
	delete(handlers, p)
	wl.proxyDestroy(uintptr(p))
}

// newID marks the new_id slot of a request.
type newID struct{}

// fixed is a value sent as wl_fixed_t.
type fixed float64

func (p proxy) marshal(opcode uint32, iface *cInterface, version, flags uint32, args ...any) proxy {
	if p == 0 {
		return 0
	}
	var buf [8]uint64
	var keep [][]byte
	vals := buf[:0]
	for _, a := range args {
		var v uint64
		switch a := a.(type) {
		case newID, nil:
		case int:
			v = uint64(uint32(int32(a)))
		case int32:
			v = uint64(uint32(a))
		case uint32:
			v = uint64(a)
		case fixed:
			v = uint64(uint32(toFixed(float64(a))))
		case string:
			s := cString(a)
			keep = append(keep, s)
			v = uint64(uintptr(unsafe.Pointer(&s[0])))
		case proxy:
			v = uint64(a)
		case uintptr:
			v = uint64(a)
		default:
			panic(fmt.Sprintf("wayland: unsupported request argument %T", a))
		}
		vals = append(vals, v)
	}
	var argp *uint64
	if len(vals) > 0 {
		argp = &vals[0]
	}
	r := wl.proxyMarshalFlags(uintptr(p), opcode, iface, version, flags, argp)
	runtime.KeepAlive(keep)
	runtime.KeepAlive(vals)
	return proxy(r)
}

// eventArgs points at the union wl_argument array of an event.
type eventArgs uintptr

func (a eventArgs) slot(i int) uint64 {
	return *(*uint64)(unsafe.Pointer(uintptr(a) + uintptr(i)*8))
}

func (a eventArgs) Int(i int) int32 { return int32(uint32(a.slot(i))) }
func (a eventArgs) Uint(i int) uint32 { return uint32(a.slot(i)) }
func (a eventArgs) FD(i int) int { return int(a.Int(i)) }

func (a eventArgs) Fixed(i int) float64 { return fromFixed(a.Int(i)) }

func (a eventArgs) Object(i int) proxy { return proxy(uintptr(a.slot(i))) }

func (a eventArgs) String(i int) string {
	return goString(uintptr(a.slot(i)))
}

// Array returns a copy of a wl_array argument.
func (a eventArgs) Array(i int) []byte {
	arr := (*cArray)(unsafe.Pointer(uintptr(a.slot(i))))
	if arr == nil || arr.size == 0 {
		return nil
	}
	return append([]byte(nil), unsafe.Slice((*byte)(arr.data), arr.size)...)
}

type cArray struct {
	size  uintptr
	alloc uintptr
	data  unsafe.Pointer
}

func toFixed(v float64) int32 { return int32(math.Round(v * 256)) }

func fromFixed(v int32) float64 { return float64(v) / 256 }

func cString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(p + uintptr(n))) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}
