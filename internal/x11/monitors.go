package x11

import (
	"fmt"
	"math"
	"slices"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display. With RandR it is one connected
// output driven by a CRTC; otherwise a Xinerama screen or the whole root.
type Monitor struct {
	b *Backend

	name    string
	output  randr.Output
	crtc    randr.Crtc
	primary bool

	x, y              int
	width, height     int
	widthMM, heightMM int

	// oldMode is the CRTC mode to restore, zero when untouched.
	oldMode randr.Mode
}

// discoverMonitors lists monitors, primary first.
func (b *Backend) discoverMonitors() ([]*Monitor, error) {
	c := b.conn
	if c.hasRandR {
		monitors, err := b.randrMonitors()
		if err == nil && len(monitors) > 0 {
			return monitors, nil
		}
		if err != nil {
			b.logger.Warn("randr monitor query failed", "error", err)
		}
	}

	if c.hasXinerama {
		if reply, err := xinerama.QueryScreens(c.XUtil.Conn()).Reply(); err == nil && len(reply.ScreenInfo) > 0 {
			monitors := make([]*Monitor, 0, len(reply.ScreenInfo))
			for i, s := range reply.ScreenInfo {
				monitors = append(monitors, &Monitor{
					b:      b,
					name:   fmt.Sprintf("Xinerama-%d", i),
					x:      int(s.XOrg),
					y:      int(s.YOrg),
					width:  int(s.Width),
					height: int(s.Height),
				})
			}
			return monitors, nil
		}
	}

	screen := c.XUtil.Screen()
	return []*Monitor{{
		b:        b,
		name:     "Display",
		width:    int(screen.WidthInPixels),
		height:   int(screen.HeightInPixels),
		widthMM:  int(screen.WidthInMillimeters),
		heightMM: int(screen.HeightInMillimeters),
		primary:  true,
	}}, nil
}

func (b *Backend) randrMonitors() ([]*Monitor, error) {
	conn := b.conn.XUtil.Conn()
	resources, err := randr.GetScreenResourcesCurrent(conn, b.conn.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if p, err := randr.GetOutputPrimary(conn, b.conn.Root).Reply(); err == nil {
		primary = p.Output
	}

	var monitors []*Monitor
	for _, output := range resources.Outputs {
		info, err := randr.GetOutputInfo(conn, output, resources.ConfigTimestamp).Reply()
		if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, resources.ConfigTimestamp).Reply()
		if err != nil || crtc.Width == 0 || crtc.Height == 0 {
			continue
		}

		m := &Monitor{
			b:        b,
			name:     string(info.Name),
			output:   output,
			crtc:     info.Crtc,
			primary:  output == primary,
			x:        int(crtc.X),
			y:        int(crtc.Y),
			width:    int(crtc.Width),
			height:   int(crtc.Height),
			widthMM:  int(info.MmWidth),
			heightMM: int(info.MmHeight),
		}
		if rotated(crtc.Rotation) {
			m.widthMM, m.heightMM = m.heightMM, m.widthMM
		}
		if m.primary {
			monitors = slices.Insert(monitors, 0, m)
		} else {
			monitors = append(monitors, m)
		}
	}
	return monitors, nil
}

func rotated(rotation uint16) bool {
	return rotation == randr.RotationRotate90 || rotation == randr.RotationRotate270
}

// refreshMonitors diffs the live monitor set against the known one and
// reports connections and disconnections to the host. Monitors that are
// still present are updated in place.
func (b *Backend) refreshMonitors() {
	fresh, err := b.discoverMonitors()
	if err != nil {
		b.logger.Warn("monitor refresh failed", "error", err)
		return
	}

	var disconnected []*Monitor
	for _, old := range b.monitors {
		i := slices.IndexFunc(fresh, old.same)
		if i < 0 {
			disconnected = append(disconnected, old)
			continue
		}
		nm := fresh[i]
		old.x, old.y, old.width, old.height = nm.x, nm.y, nm.width, nm.height
		old.crtc, old.primary = nm.crtc, nm.primary
		fresh[i] = old
	}
	connected := slices.DeleteFunc(slices.Clone(fresh), func(m *Monitor) bool {
		return slices.Contains(b.monitors, m)
	})
	b.monitors = fresh

	for _, m := range disconnected {
		b.logger.Info("monitor disconnected", "name", m.name)
		b.host.InputMonitorDisconnect(m)
	}
	for _, m := range connected {
		placement := platform.PlaceLast
		if m.primary {
			placement = platform.PlaceFirst
		}
		b.logger.Info("monitor connected", "name", m.name)
		b.host.InputMonitorConnect(m, placement)
	}
}

func (m *Monitor) same(other *Monitor) bool {
	if m.output != 0 || other.output != 0 {
		return m.output == other.output
	}
	return m.name == other.name
}

func (m *Monitor) Name() string { return m.name }

func (m *Monitor) Pos() (x, y int) { return m.x, m.y }

func (m *Monitor) PhysicalSize() (widthMM, heightMM int) {
	return m.widthMM, m.heightMM
}

func (m *Monitor) ContentScale() (xscale, yscale float32) {
	return m.b.scale, m.b.scale
}

// WorkArea is the monitor area minus dock struts, or its intersection with
// _NET_WORKAREA when no dock declares struts.
func (m *Monitor) WorkArea() platform.Rect {
	area := platform.Rect{X: m.x, Y: m.y, Width: m.width, Height: m.height}
	c := m.b.conn

	if applyDockStruts(c, &area) {
		return area
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return area
	}
	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := workArea[desktopIndex]

	x1 := max(area.X, wa.X)
	y1 := max(area.Y, wa.Y)
	x2 := min(area.X+area.Width, wa.X+int(wa.Width))
	y2 := min(area.Y+area.Height, wa.Y+int(wa.Height))
	if x2 > x1 && y2 > y1 {
		area = platform.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
	}
	return area
}

// VideoModes lists the non-interlaced modes of the output.
func (m *Monitor) VideoModes() ([]platform.VideoMode, error) {
	if m.output == 0 {
		mode, err := m.CurrentMode()
		if err != nil {
			return nil, err
		}
		return []platform.VideoMode{mode}, nil
	}

	conn := m.b.conn.XUtil.Conn()
	resources, err := randr.GetScreenResourcesCurrent(conn, m.b.conn.Root).Reply()
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to query screen resources")
	}
	info, err := randr.GetOutputInfo(conn, m.output, resources.ConfigTimestamp).Reply()
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to query output %s", m.name)
	}
	crtc, err := randr.GetCrtcInfo(conn, m.crtc, resources.ConfigTimestamp).Reply()
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to query CRTC of %s", m.name)
	}

	var modes []platform.VideoMode
	for _, id := range info.Modes {
		mi, ok := findModeInfo(resources.Modes, id)
		if !ok || mi.ModeFlags&randr.ModeFlagInterlace != 0 {
			continue
		}
		mode := m.b.convertMode(mi, crtc.Rotation)
		if !slices.Contains(modes, mode) {
			modes = append(modes, mode)
		}
	}
	return modes, nil
}

// CurrentMode is the mode the CRTC is driven at.
func (m *Monitor) CurrentMode() (platform.VideoMode, error) {
	if m.crtc == 0 {
		red, green, blue := platform.SplitBPP(m.b.conn.rootDepth())
		return platform.VideoMode{
			Width:     m.width,
			Height:    m.height,
			RedBits:   red,
			GreenBits: green,
			BlueBits:  blue,
		}, nil
	}

	conn := m.b.conn.XUtil.Conn()
	resources, err := randr.GetScreenResourcesCurrent(conn, m.b.conn.Root).Reply()
	if err != nil {
		return platform.VideoMode{}, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to query screen resources")
	}
	crtc, err := randr.GetCrtcInfo(conn, m.crtc, resources.ConfigTimestamp).Reply()
	if err != nil {
		return platform.VideoMode{}, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to query CRTC of %s", m.name)
	}
	mi, ok := findModeInfo(resources.Modes, crtc.Mode)
	if !ok {
		return platform.VideoMode{}, platform.Errorf(platform.PlatformError, "[Window] X11: current mode of %s not found", m.name)
	}
	return m.b.convertMode(mi, crtc.Rotation), nil
}

// SetVideoMode switches the CRTC to the output mode equal to mode,
// remembering the mode to restore.
func (m *Monitor) SetVideoMode(mode platform.VideoMode) error {
	if m.crtc == 0 {
		return platform.Errorf(platform.PlatformError, "[Window] X11: mode switching requires RandR")
	}

	conn := m.b.conn.XUtil.Conn()
	resources, err := randr.GetScreenResourcesCurrent(conn, m.b.conn.Root).Reply()
	if err != nil {
		return platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to query screen resources")
	}
	info, err := randr.GetOutputInfo(conn, m.output, resources.ConfigTimestamp).Reply()
	if err != nil {
		return platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to query output %s", m.name)
	}
	crtc, err := randr.GetCrtcInfo(conn, m.crtc, resources.ConfigTimestamp).Reply()
	if err != nil {
		return platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to query CRTC of %s", m.name)
	}

	var target randr.Mode
	for _, id := range info.Modes {
		mi, ok := findModeInfo(resources.Modes, id)
		if !ok || mi.ModeFlags&randr.ModeFlagInterlace != 0 {
			continue
		}
		if m.b.convertMode(mi, crtc.Rotation) == mode {
			target = id
			break
		}
	}
	if target == 0 {
		return platform.Errorf(platform.PlatformError, "[Window] X11: mode %s not available on %s", mode, m.name)
	}
	if target == crtc.Mode {
		return nil
	}
	if m.oldMode == 0 {
		m.oldMode = crtc.Mode
	}
	return m.setCrtcMode(resources.ConfigTimestamp, crtc, target)
}

// RestoreVideoMode puts back the mode saved by SetVideoMode.
func (m *Monitor) RestoreVideoMode() {
	if m.oldMode == 0 {
		return
	}
	conn := m.b.conn.XUtil.Conn()
	resources, err := randr.GetScreenResourcesCurrent(conn, m.b.conn.Root).Reply()
	if err != nil {
		m.b.logger.Warn("video mode restore failed", "monitor", m.name, "error", err)
		return
	}
	crtc, err := randr.GetCrtcInfo(conn, m.crtc, resources.ConfigTimestamp).Reply()
	if err != nil {
		m.b.logger.Warn("video mode restore failed", "monitor", m.name, "error", err)
		return
	}
	if err := m.setCrtcMode(resources.ConfigTimestamp, crtc, m.oldMode); err != nil {
		m.b.logger.Warn("video mode restore failed", "monitor", m.name, "error", err)
	}
	m.oldMode = 0
}

func (m *Monitor) setCrtcMode(cfgTimestamp xproto.Timestamp, crtc *randr.GetCrtcInfoReply, mode randr.Mode) error {
	reply, err := randr.SetCrtcConfig(m.b.conn.XUtil.Conn(), m.crtc,
		xproto.TimeCurrentTime, cfgTimestamp,
		crtc.X, crtc.Y, mode, crtc.Rotation, crtc.Outputs).Reply()
	if err != nil {
		return platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to set video mode on %s", m.name)
	}
	if reply.Status != randr.SetConfigSuccess {
		return platform.Errorf(platform.PlatformError, "[Window] X11: set video mode on %s refused (status %d)", m.name, reply.Status)
	}
	return nil
}

func findModeInfo(modes []randr.ModeInfo, id randr.Mode) (randr.ModeInfo, bool) {
	for _, mi := range modes {
		if randr.Mode(mi.Id) == id {
			return mi, true
		}
	}
	return randr.ModeInfo{}, false
}

func (b *Backend) convertMode(mi randr.ModeInfo, rotation uint16) platform.VideoMode {
	mode := platform.VideoMode{Width: int(mi.Width), Height: int(mi.Height)}
	if rotated(rotation) {
		mode.Width, mode.Height = mode.Height, mode.Width
	}
	mode.RedBits, mode.GreenBits, mode.BlueBits = platform.SplitBPP(b.conn.rootDepth())
	mode.RefreshRate = refreshRate(mi)
	return mode
}

func refreshRate(mi randr.ModeInfo) int {
	if mi.Htotal == 0 || mi.Vtotal == 0 {
		return 0
	}
	return int(math.Round(float64(mi.DotClock) / (float64(mi.Htotal) * float64(mi.Vtotal))))
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func applyDockStruts(c *Connection, area *platform.Rect) bool {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	var struts dockStruts
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil || !slices.Contains(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			updateStruts(*area, rootWidth, rootHeight, sp, &struts)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			sp := &ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(rootHeight - 1),
				RightEndY:  uint(rootHeight - 1),
				TopEndX:    uint(rootWidth - 1),
				BottomEndX: uint(rootWidth - 1),
			}
			updateStruts(*area, rootWidth, rootHeight, sp, &struts)
		}
	}

	if struts == (dockStruts{}) {
		return false
	}

	area.X += struts.left
	area.Y += struts.top
	area.Width = max(area.Width-(struts.left+struts.right), 1)
	area.Height = max(area.Height-(struts.top+struts.bottom), 1)
	return true
}

func updateStruts(area platform.Rect, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *dockStruts) {
	mon := rect{area.X, area.Y, area.X + area.Width, area.Y + area.Height}

	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		r := rect{int(sp.TopStartX), 0, int(sp.TopEndX) + 1, int(sp.Top)}
		acc.top = max(acc.top, mon.intersect(r).h)
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		r := rect{int(sp.BottomStartX), rootHeight - int(sp.Bottom), int(sp.BottomEndX) + 1, rootHeight}
		acc.bottom = max(acc.bottom, mon.intersect(r).h)
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		r := rect{0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY) + 1}
		acc.left = max(acc.left, mon.intersect(r).w)
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		r := rect{rootWidth - int(sp.Right), int(sp.RightStartY), rootWidth, int(sp.RightEndY) + 1}
		acc.right = max(acc.right, mon.intersect(r).w)
	}
}

// rect is an edge-form rectangle, [x1,x2) by [y1,y2).
type rect struct {
	x1, y1, x2, y2 int
}

type intersection struct {
	w int
	h int
}

func (a rect) intersect(b rect) intersection {
	x1 := max(a.x1, b.x1)
	y1 := max(a.y1, b.y1)
	x2 := min(a.x2, b.x2)
	y2 := min(a.y2, b.y2)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}
