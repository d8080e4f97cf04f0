//go:build linux

package wayland

// cMessage mirrors struct wl_message.
type cMessage struct {
	name      *byte
	signature *byte
	types     **cInterface
}

// cInterface mirrors struct wl_interface.
type cInterface struct {
	name        *byte
	version     int32
	methodCount int32
	methods     *cMessage
	eventCount  int32
	_           int32
	events      *cMessage
}

// message describes one request or event. types holds one entry per
// argument; nil for arguments that are not objects.
type message struct {
	name      string
	signature string
	types     []*iface
}

func msg(name, signature string, types ...*iface) message {
	return message{name: name, signature: signature, types: types}
}

// iface is a protocol interface together with its libwayland description.
// The C view is built once by defineInterfaces and kept alive for the
// process lifetime.
type iface struct {
	name     string
	version  int
	requests []message
	events   []message

	c *cInterface
}

var (
	registryIface               = &iface{name: "wl_registry", version: 1}
	callbackIface               = &iface{name: "wl_callback", version: 1}
	compositorIface             = &iface{name: "wl_compositor", version: 4}
	regionIface                 = &iface{name: "wl_region", version: 1}
	surfaceIface                = &iface{name: "wl_surface", version: 4}
	shmIface                    = &iface{name: "wl_shm", version: 1}
	shmPoolIface                = &iface{name: "wl_shm_pool", version: 1}
	bufferIface                 = &iface{name: "wl_buffer", version: 1}
	outputIface                 = &iface{name: "wl_output", version: 4}
	seatIface                   = &iface{name: "wl_seat", version: 5}
	pointerIface                = &iface{name: "wl_pointer", version: 5}
	keyboardIface               = &iface{name: "wl_keyboard", version: 5}
	dataDeviceManagerIface      = &iface{name: "wl_data_device_manager", version: 3}
	dataSourceIface             = &iface{name: "wl_data_source", version: 3}
	dataOfferIface              = &iface{name: "wl_data_offer", version: 3}
	dataDeviceIface             = &iface{name: "wl_data_device", version: 3}
	wmBaseIface                 = &iface{name: "xdg_wm_base", version: 1}
	xdgSurfaceIface             = &iface{name: "xdg_surface", version: 1}
	toplevelIface               = &iface{name: "xdg_toplevel", version: 1}
	decorationManagerIface      = &iface{name: "zxdg_decoration_manager_v1", version: 1}
	toplevelDecorationIface     = &iface{name: "zxdg_toplevel_decoration_v1", version: 1}
	relativePointerManagerIface = &iface{name: "zwp_relative_pointer_manager_v1", version: 1}
	relativePointerIface        = &iface{name: "zwp_relative_pointer_v1", version: 1}
	pointerConstraintsIface     = &iface{name: "zwp_pointer_constraints_v1", version: 1}
	lockedPointerIface          = &iface{name: "zwp_locked_pointer_v1", version: 1}
	confinedPointerIface        = &iface{name: "zwp_confined_pointer_v1", version: 1}
	idleInhibitManagerIface     = &iface{name: "zwp_idle_inhibit_manager_v1", version: 1}
	idleInhibitorIface          = &iface{name: "zwp_idle_inhibitor_v1", version: 1}
)

// Request and event opcodes, in protocol order.
const (
	registryBind = 0

	registryGlobal       = 0
	registryGlobalRemove = 1

	compositorCreateSurface = 0
	compositorCreateRegion  = 1

	regionDestroy = 0
	regionAdd     = 1

	surfaceDestroy        = 0
	surfaceAttach         = 1
	surfaceDamage         = 2
	surfaceSetInputRegion = 5
	surfaceCommit         = 6
	surfaceSetBufferScale = 8

	surfaceEnter = 0
	surfaceLeave = 1

	shmCreatePool = 0

	shmPoolCreateBuffer = 0
	shmPoolDestroy      = 1

	bufferDestroy = 0

	outputRelease = 0

	outputGeometry    = 0
	outputMode        = 1
	outputDone        = 2
	outputScale       = 3
	outputName        = 4
	outputDescription = 5

	seatGetPointer  = 0
	seatGetKeyboard = 1
	seatRelease     = 3

	seatCapabilities = 0

	pointerSetCursor = 0
	pointerRelease   = 1

	pointerEnter  = 0
	pointerLeave  = 1
	pointerMotion = 2
	pointerButton = 3
	pointerAxis   = 4

	keyboardRelease = 0

	keyboardKeymap     = 0
	keyboardEnter      = 1
	keyboardLeave      = 2
	keyboardKey        = 3
	keyboardModifiers  = 4
	keyboardRepeatInfo = 5

	dataDeviceManagerCreateSource = 0
	dataDeviceManagerGetDevice    = 1

	dataSourceOffer   = 0
	dataSourceDestroy = 1

	dataSourceSend      = 1
	dataSourceCancelled = 2

	dataOfferAccept     = 0
	dataOfferReceive    = 1
	dataOfferDestroy    = 2
	dataOfferFinish     = 3
	dataOfferSetActions = 4

	dataOfferOffer = 0

	dataDeviceSetSelection = 1
	dataDeviceRelease      = 2

	dataDeviceDataOffer = 0
	dataDeviceEnter     = 1
	dataDeviceLeave     = 2
	dataDeviceMotion    = 3
	dataDeviceDrop      = 4
	dataDeviceSelection = 5

	wmBaseDestroy       = 0
	wmBaseGetXdgSurface = 2
	wmBasePong          = 3

	wmBasePing = 0

	xdgSurfaceDestroy           = 0
	xdgSurfaceGetToplevel       = 1
	xdgSurfaceSetWindowGeometry = 3
	xdgSurfaceAckConfigure      = 4

	xdgSurfaceConfigure = 0

	toplevelDestroy         = 0
	toplevelSetTitle        = 2
	toplevelSetAppID        = 3
	toplevelSetMaxSize      = 7
	toplevelSetMinSize      = 8
	toplevelSetMaximized    = 9
	toplevelUnsetMaximized  = 10
	toplevelSetFullscreen   = 11
	toplevelUnsetFullscreen = 12
	toplevelSetMinimized    = 13

	toplevelConfigure = 0
	toplevelClose     = 1

	decorationManagerDestroy          = 0
	decorationManagerGetToplevelDecor = 1

	toplevelDecorationDestroy = 0
	toplevelDecorationSetMode = 1

	relativePointerManagerDestroy = 0
	relativePointerManagerGet     = 1

	relativePointerDestroy = 0

	relativePointerMotion = 0

	pointerConstraintsDestroy = 0
	pointerConstraintsLock    = 1
	pointerConstraintsConfine = 2

	lockedPointerDestroy    = 0
	lockedPointerCursorHint = 1

	confinedPointerDestroy = 0

	idleInhibitManagerDestroy = 0
	idleInhibitManagerCreate  = 1

	idleInhibitorDestroy = 0
)

// Protocol enum values.
const (
	seatCapabilityPointer  = 1
	seatCapabilityKeyboard = 2

	keyboardKeymapFormatXKBV1 = 1

	keyStateReleased = 0
	keyStatePressed  = 1

	buttonStatePressed = 1

	axisVerticalScroll   = 0
	axisHorizontalScroll = 1

	outputModeCurrent = 1

	shmFormatARGB8888 = 0

	toplevelStateMaximized  = 1
	toplevelStateFullscreen = 2
	toplevelStateActivated  = 4

	decorationModeClientSide = 1
	decorationModeServerSide = 2

	constraintLifetimePersistent = 2

	dndActionCopy = 1
)

func init() {
	registryIface.requests = []message{msg("bind", "usun", nil, nil, nil, nil)}
	registryIface.events = []message{
		msg("global", "usu", nil, nil, nil),
		msg("global_remove", "u", nil),
	}

	callbackIface.events = []message{msg("done", "u", nil)}

	compositorIface.requests = []message{
		msg("create_surface", "n", surfaceIface),
		msg("create_region", "n", regionIface),
	}

	regionIface.requests = []message{
		msg("destroy", ""),
		msg("add", "iiii", nil, nil, nil, nil),
		msg("subtract", "iiii", nil, nil, nil, nil),
	}

	surfaceIface.requests = []message{
		msg("destroy", ""),
		msg("attach", "?oii", bufferIface, nil, nil),
		msg("damage", "iiii", nil, nil, nil, nil),
		msg("frame", "n", callbackIface),
		msg("set_opaque_region", "?o", regionIface),
		msg("set_input_region", "?o", regionIface),
		msg("commit", ""),
		msg("set_buffer_transform", "2i", nil),
		msg("set_buffer_scale", "3i", nil),
		msg("damage_buffer", "4iiii", nil, nil, nil, nil),
	}
	surfaceIface.events = []message{
		msg("enter", "o", outputIface),
		msg("leave", "o", outputIface),
	}

	shmIface.requests = []message{msg("create_pool", "nhi", shmPoolIface, nil, nil)}
	shmIface.events = []message{msg("format", "u", nil)}

	shmPoolIface.requests = []message{
		msg("create_buffer", "niiiiu", bufferIface, nil, nil, nil, nil, nil),
		msg("destroy", ""),
		msg("resize", "i", nil),
	}

	bufferIface.requests = []message{msg("destroy", "")}
	bufferIface.events = []message{msg("release", "")}

	outputIface.requests = []message{msg("release", "3")}
	outputIface.events = []message{
		msg("geometry", "iiiiissi", nil, nil, nil, nil, nil, nil, nil, nil),
		msg("mode", "uiii", nil, nil, nil, nil),
		msg("done", "2"),
		msg("scale", "2i", nil),
		msg("name", "4s", nil),
		msg("description", "4s", nil),
	}

	seatIface.requests = []message{
		msg("get_pointer", "n", pointerIface),
		msg("get_keyboard", "n", keyboardIface),
		msg("get_touch", "n", nil),
		msg("release", "5"),
	}
	seatIface.events = []message{
		msg("capabilities", "u", nil),
		msg("name", "2s", nil),
	}

	pointerIface.requests = []message{
		msg("set_cursor", "u?oii", nil, surfaceIface, nil, nil),
		msg("release", "3"),
	}
	pointerIface.events = []message{
		msg("enter", "uoff", nil, surfaceIface, nil, nil),
		msg("leave", "uo", nil, surfaceIface),
		msg("motion", "uff", nil, nil, nil),
		msg("button", "uuuu", nil, nil, nil, nil),
		msg("axis", "uuf", nil, nil, nil),
		msg("frame", "5"),
		msg("axis_source", "5u", nil),
		msg("axis_stop", "5uu", nil, nil),
		msg("axis_discrete", "5ui", nil, nil),
	}

	keyboardIface.requests = []message{msg("release", "3")}
	keyboardIface.events = []message{
		msg("keymap", "uhu", nil, nil, nil),
		msg("enter", "uoa", nil, surfaceIface, nil),
		msg("leave", "uo", nil, surfaceIface),
		msg("key", "uuuu", nil, nil, nil, nil),
		msg("modifiers", "uuuuu", nil, nil, nil, nil, nil),
		msg("repeat_info", "4ii", nil, nil),
	}

	dataDeviceManagerIface.requests = []message{
		msg("create_data_source", "n", dataSourceIface),
		msg("get_data_device", "no", dataDeviceIface, seatIface),
	}

	dataSourceIface.requests = []message{
		msg("offer", "s", nil),
		msg("destroy", ""),
		msg("set_actions", "3u", nil),
	}
	dataSourceIface.events = []message{
		msg("target", "?s", nil),
		msg("send", "sh", nil, nil),
		msg("cancelled", ""),
		msg("dnd_drop_performed", "3"),
		msg("dnd_finished", "3"),
		msg("action", "3u", nil),
	}

	dataOfferIface.requests = []message{
		msg("accept", "u?s", nil, nil),
		msg("receive", "sh", nil, nil),
		msg("destroy", ""),
		msg("finish", "3"),
		msg("set_actions", "3uu", nil, nil),
	}
	dataOfferIface.events = []message{
		msg("offer", "s", nil),
		msg("source_actions", "3u", nil),
		msg("action", "3u", nil),
	}

	dataDeviceIface.requests = []message{
		msg("start_drag", "?oo?ou", dataSourceIface, surfaceIface, surfaceIface, nil),
		msg("set_selection", "?ou", dataSourceIface, nil),
		msg("release", "2"),
	}
	dataDeviceIface.events = []message{
		msg("data_offer", "n", dataOfferIface),
		msg("enter", "uoff?o", nil, surfaceIface, nil, nil, dataOfferIface),
		msg("leave", ""),
		msg("motion", "uff", nil, nil, nil),
		msg("drop", ""),
		msg("selection", "?o", dataOfferIface),
	}

	wmBaseIface.requests = []message{
		msg("destroy", ""),
		msg("create_positioner", "n", nil),
		msg("get_xdg_surface", "no", xdgSurfaceIface, surfaceIface),
		msg("pong", "u", nil),
	}
	wmBaseIface.events = []message{msg("ping", "u", nil)}

	xdgSurfaceIface.requests = []message{
		msg("destroy", ""),
		msg("get_toplevel", "n", toplevelIface),
		msg("get_popup", "n?oo", nil, xdgSurfaceIface, nil),
		msg("set_window_geometry", "iiii", nil, nil, nil, nil),
		msg("ack_configure", "u", nil),
	}
	xdgSurfaceIface.events = []message{msg("configure", "u", nil)}

	toplevelIface.requests = []message{
		msg("destroy", ""),
		msg("set_parent", "?o", toplevelIface),
		msg("set_title", "s", nil),
		msg("set_app_id", "s", nil),
		msg("show_window_menu", "ouii", seatIface, nil, nil, nil),
		msg("move", "ou", seatIface, nil),
		msg("resize", "ouu", seatIface, nil, nil),
		msg("set_max_size", "ii", nil, nil),
		msg("set_min_size", "ii", nil, nil),
		msg("set_maximized", ""),
		msg("unset_maximized", ""),
		msg("set_fullscreen", "?o", outputIface),
		msg("unset_fullscreen", ""),
		msg("set_minimized", ""),
	}
	toplevelIface.events = []message{
		msg("configure", "iia", nil, nil, nil),
		msg("close", ""),
	}

	decorationManagerIface.requests = []message{
		msg("destroy", ""),
		msg("get_toplevel_decoration", "no", toplevelDecorationIface, toplevelIface),
	}

	toplevelDecorationIface.requests = []message{
		msg("destroy", ""),
		msg("set_mode", "u", nil),
		msg("unset_mode", ""),
	}
	toplevelDecorationIface.events = []message{msg("configure", "u", nil)}

	relativePointerManagerIface.requests = []message{
		msg("destroy", ""),
		msg("get_relative_pointer", "no", relativePointerIface, pointerIface),
	}

	relativePointerIface.requests = []message{msg("destroy", "")}
	relativePointerIface.events = []message{
		msg("relative_motion", "uuffff", nil, nil, nil, nil, nil, nil),
	}

	pointerConstraintsIface.requests = []message{
		msg("destroy", ""),
		msg("lock_pointer", "noo?ou", lockedPointerIface, surfaceIface, pointerIface, regionIface, nil),
		msg("confine_pointer", "noo?ou", confinedPointerIface, surfaceIface, pointerIface, regionIface, nil),
	}

	lockedPointerIface.requests = []message{
		msg("destroy", ""),
		msg("set_cursor_position_hint", "ff", nil, nil),
		msg("set_region", "?o", regionIface),
	}
	lockedPointerIface.events = []message{
		msg("locked", ""),
		msg("unlocked", ""),
	}

	confinedPointerIface.requests = []message{
		msg("destroy", ""),
		msg("set_region", "?o", regionIface),
	}
	confinedPointerIface.events = []message{
		msg("confined", ""),
		msg("unconfined", ""),
	}

	idleInhibitManagerIface.requests = []message{
		msg("destroy", ""),
		msg("create_inhibitor", "no", idleInhibitorIface, surfaceIface),
	}

	idleInhibitorIface.requests = []message{msg("destroy", "")}

	defineInterfaces(
		registryIface, callbackIface, compositorIface, regionIface, surfaceIface,
		shmIface, shmPoolIface, bufferIface, outputIface, seatIface, pointerIface,
		keyboardIface, dataDeviceManagerIface, dataSourceIface, dataOfferIface,
		dataDeviceIface, wmBaseIface, xdgSurfaceIface, toplevelIface,
		decorationManagerIface, toplevelDecorationIface, relativePointerManagerIface,
		relativePointerIface, pointerConstraintsIface, lockedPointerIface,
		confinedPointerIface, idleInhibitManagerIface, idleInhibitorIface,
	)
}

// defineInterfaces lays out the C descriptions. Every interface gets its
// cInterface first so message type tables can point at any of them.
func defineInterfaces(ifaces ...*iface) {
	for _, i := range ifaces {
		i.c = &cInterface{name: cStringPtr(i.name), version: int32(i.version)}
	}
	for _, i := range ifaces {
		i.c.methodCount = int32(len(i.requests))
		i.c.methods = cMessages(i.requests)
		i.c.eventCount = int32(len(i.events))
		i.c.events = cMessages(i.events)
	}
}

func cMessages(msgs []message) *cMessage {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]cMessage, len(msgs))
	for n, m := range msgs {
		out[n] = cMessage{name: cStringPtr(m.name), signature: cStringPtr(m.signature)}
		if len(m.types) > 0 {
			types := make([]*cInterface, len(m.types))
			for k, t := range m.types {
				if t != nil {
					types[k] = t.c
				}
			}
			out[n].types = &types[0]
		} else {
			// libwayland indexes types even for argument-less messages.
			out[n].types = &emptyTypes[0]
		}
	}
	return &out[0]
}

var emptyTypes = make([]*cInterface, 8)

func cStringPtr(s string) *byte {
	return &cString(s)[0]
}

// argCount is the number of arguments in a wire signature.
func argCount(signature string) int {
	n := 0
	for _, c := range signature {
		switch c {
		case 'i', 'u', 'f', 's', 'o', 'n', 'a', 'h':
			n++
		}
	}
	return n
}
