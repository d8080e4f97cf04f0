package mcp

// EmptyInput is accepted by tools that take no arguments.
type EmptyInput struct{}

// VideoModeInfo describes one video mode.
type VideoModeInfo struct {
	Width       int `json:"width"`
	Height      int `json:"height"`
	RedBits     int `json:"red_bits"`
	GreenBits   int `json:"green_bits"`
	BlueBits    int `json:"blue_bits"`
	RefreshRate int `json:"refresh_rate"`
}

// RectInfo is a screen rectangle.
type RectInfo struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MonitorInfo describes a connected monitor.
type MonitorInfo struct {
	Index       int           `json:"index"`
	Name        string        `json:"name"`
	Primary     bool          `json:"primary"`
	X           int           `json:"x"`
	Y           int           `json:"y"`
	WidthMM     int           `json:"width_mm"`
	HeightMM    int           `json:"height_mm"`
	ScaleX      float32       `json:"scale_x"`
	ScaleY      float32       `json:"scale_y"`
	WorkArea    RectInfo      `json:"work_area"`
	CurrentMode VideoModeInfo `json:"current_mode"`
	Window      string        `json:"window,omitempty"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Platform string        `json:"platform"`
	Monitors []MonitorInfo `json:"monitors"`
}

// ListVideoModesInput is the input for the list_video_modes tool.
type ListVideoModesInput struct {
	Monitor int `json:"monitor,omitempty" jsonschema:"Monitor index from list_monitors (default: 0, the primary monitor)"`
}

// ListVideoModesOutput is the output for the list_video_modes tool.
type ListVideoModesOutput struct {
	Monitor string          `json:"monitor"`
	Modes   []VideoModeInfo `json:"modes"`
}

// CreateWindowInput is the input for the create_window tool.
type CreateWindowInput struct {
	Width     int    `json:"width" jsonschema:"Content area width in screen coordinates"`
	Height    int    `json:"height" jsonschema:"Content area height in screen coordinates"`
	Title     string `json:"title,omitempty" jsonschema:"Window title (default: windowkit)"`
	Monitor   *int   `json:"monitor,omitempty" jsonschema:"Monitor index to create a full screen window on"`
	Visible   *bool  `json:"visible,omitempty" jsonschema:"Override the visible hint for this window"`
	Decorated *bool  `json:"decorated,omitempty" jsonschema:"Override the decorated hint for this window"`
	Resizable *bool  `json:"resizable,omitempty" jsonschema:"Override the resizable hint for this window"`
	Floating  *bool  `json:"floating,omitempty" jsonschema:"Override the floating hint for this window"`
	Focused   *bool  `json:"focused,omitempty" jsonschema:"Override the focused hint for this window"`
}

// WindowInput names a window created through create_window.
type WindowInput struct {
	ID string `json:"id" jsonschema:"Window id returned by create_window"`
}

// SetWindowInput is the input for the set_window tool. Unset fields are left
// alone; fields are applied in declaration order.
type SetWindowInput struct {
	ID               string   `json:"id" jsonschema:"Window id returned by create_window"`
	Title            *string  `json:"title,omitempty" jsonschema:"New title"`
	Width            *int     `json:"width,omitempty" jsonschema:"New content width; requires height"`
	Height           *int     `json:"height,omitempty" jsonschema:"New content height; requires width"`
	X                *int     `json:"x,omitempty" jsonschema:"New content x position; requires y"`
	Y                *int     `json:"y,omitempty" jsonschema:"New content y position; requires x"`
	Decorated        *bool    `json:"decorated,omitempty" jsonschema:"Show or hide decorations"`
	Resizable        *bool    `json:"resizable,omitempty" jsonschema:"Allow user resizing"`
	Floating         *bool    `json:"floating,omitempty" jsonschema:"Keep the window above others"`
	MousePassthrough *bool    `json:"mouse_passthrough,omitempty" jsonschema:"Let pointer input pass through the window"`
	Opacity          *float32 `json:"opacity,omitempty" jsonschema:"Whole window opacity between 0 and 1"`
	ShouldClose      *bool    `json:"should_close,omitempty" jsonschema:"Set or clear the close flag"`
	Action           string   `json:"action,omitempty" jsonschema:"One of: show, hide, focus, maximize, minimize, restore, request_attention"`
	Fullscreen       *int     `json:"fullscreen,omitempty" jsonschema:"Monitor index to make the window full screen on; -1 returns it to windowed mode"`
	Borderless       bool     `json:"borderless,omitempty" jsonschema:"With fullscreen, cover the monitor without changing its video mode"`
}

// WindowInfo is a snapshot of a window.
type WindowInfo struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	X             int     `json:"x"`
	Y             int     `json:"y"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	FBWidth       int     `json:"framebuffer_width"`
	FBHeight      int     `json:"framebuffer_height"`
	ScaleX        float32 `json:"scale_x"`
	ScaleY        float32 `json:"scale_y"`
	Visible       bool    `json:"visible"`
	Focused       bool    `json:"focused"`
	Hovered       bool    `json:"hovered"`
	Minimized     bool    `json:"minimized"`
	Maximized     bool    `json:"maximized"`
	Decorated     bool    `json:"decorated"`
	Resizable     bool    `json:"resizable"`
	Floating      bool    `json:"floating"`
	Opacity       float32 `json:"opacity"`
	ShouldClose   bool    `json:"should_close"`
	Monitor       string  `json:"monitor,omitempty"`
	CursorMode    string  `json:"cursor_mode"`
	RawMouse      bool    `json:"raw_mouse_motion"`
	CursorX       float64 `json:"cursor_x"`
	CursorY       float64 `json:"cursor_y"`
	CustomCursor  bool    `json:"custom_cursor,omitempty"`
	StandardShape string  `json:"cursor_shape,omitempty"`
}

// DestroyWindowOutput is the output for the destroy_window tool.
type DestroyWindowOutput struct {
	ID        string `json:"id"`
	Destroyed bool   `json:"destroyed"`
}

// SetCursorModeInput is the input for the set_cursor_mode tool.
type SetCursorModeInput struct {
	ID        string `json:"id" jsonschema:"Window id returned by create_window"`
	Mode      string `json:"mode,omitempty" jsonschema:"One of: normal, hidden, disabled, captured"`
	Shape     string `json:"shape,omitempty" jsonschema:"Standard cursor shape such as arrow, input, crosshair, pointing_hand; 'default' resets it"`
	RawMotion *bool  `json:"raw_motion,omitempty" jsonschema:"Enable raw mouse motion while the cursor is disabled"`
}

// ClipboardInput is the input for the clipboard tool.
type ClipboardInput struct {
	Text *string `json:"text,omitempty" jsonschema:"Text to place on the clipboard; omit to read it"`
}

// ClipboardOutput is the output for the clipboard tool.
type ClipboardOutput struct {
	Text string `json:"text"`
}

// VulkanInfoOutput is the output for the vulkan_info tool.
type VulkanInfoOutput struct {
	Supported          bool     `json:"supported"`
	Loader             string   `json:"loader,omitempty"`
	InstanceExtensions []string `json:"instance_extensions,omitempty"`
	LoaderExtensions   int      `json:"loader_extensions"`
}

// RecentEventsInput is the input for the recent_events tool.
type RecentEventsInput struct {
	After  uint64 `json:"after,omitempty" jsonschema:"Only return events with a sequence number greater than this"`
	Window string `json:"window,omitempty" jsonschema:"Only return events for this window id"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of events (default: 100)"`
}

// RecentEventsOutput is the output for the recent_events tool.
type RecentEventsOutput struct {
	Events []Event `json:"events"`
	// Next is the sequence number to pass as after on the next call.
	Next uint64 `json:"next"`
}
