package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/windowkit/internal/vkloader"
	"github.com/1broseidon/windowkit/internal/windowing"
)

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var common commonFlags
	common.register(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowkit monitors [--config PATH] [--platform NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List connected monitors. The first row is the primary monitor.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "monitors takes no arguments")
		fs.Usage()
		return 2
	}

	state, _, err := common.openState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer state.Shutdown()

	printMonitors(os.Stdout, state.Monitors())
	return 0
}

func printMonitors(w io.Writer, monitors []*windowing.Monitor) {
	if len(monitors) == 0 {
		fmt.Fprintln(w, "no monitors connected")
		return
	}
	headers := []string{"#", "NAME", "POSITION", "MODE", "PHYSICAL", "SCALE", "WORK AREA"}
	rows := make([][]string, 0, len(monitors))
	for i, m := range monitors {
		x, y := m.Pos()
		wmm, hmm := m.PhysicalSize()
		xs, ys := m.ContentScale()
		area := m.WorkArea()
		current := "-"
		if mode, err := m.VideoMode(); err == nil {
			current = mode.String()
		}
		name := m.Name()
		if i == 0 {
			name += " *"
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			name,
			fmt.Sprintf("%d,%d", x, y),
			current,
			fmt.Sprintf("%dx%dmm", wmm, hmm),
			fmt.Sprintf("%gx%g", xs, ys),
			fmt.Sprintf("%d,%d %dx%d", area.X, area.Y, area.Width, area.Height),
		})
	}
	writeTable(w, headers, rows)
}

func runModes(args []string) int {
	fs := flag.NewFlagSet("modes", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var common commonFlags
	common.register(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowkit modes [--config PATH] [--platform NAME] [index]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the video modes of a monitor, lowest first. index defaults to 0,")
		fmt.Fprintln(os.Stderr, "the primary monitor. The current mode is marked with *.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "modes takes at most one argument")
		fs.Usage()
		return 2
	}
	index := 0
	if fs.NArg() == 1 {
		n, err := strconv.Atoi(fs.Arg(0))
		if err != nil || n < 0 {
			fmt.Fprintf(os.Stderr, "invalid monitor index %q\n", fs.Arg(0))
			return 2
		}
		index = n
	}

	state, _, err := common.openState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer state.Shutdown()

	monitors := state.Monitors()
	if index >= len(monitors) {
		fmt.Fprintf(os.Stderr, "no monitor at index %d (%d connected)\n", index, len(monitors))
		return 1
	}
	if err := printModes(os.Stdout, monitors[index]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printModes(w io.Writer, m *windowing.Monitor) error {
	modes, err := m.VideoModes()
	if err != nil {
		return err
	}
	current, _ := m.VideoMode()

	headers := []string{"", "SIZE", "RATE", "DEPTH", "RGB"}
	rows := make([][]string, 0, len(modes))
	for _, mode := range modes {
		mark := ""
		if mode == current {
			mark = "*"
		}
		rows = append(rows, []string{
			mark,
			fmt.Sprintf("%dx%d", mode.Width, mode.Height),
			fmt.Sprintf("%dHz", mode.RefreshRate),
			strconv.Itoa(mode.BitsPerPixel()),
			fmt.Sprintf("%d/%d/%d", mode.RedBits, mode.GreenBits, mode.BlueBits),
		})
	}
	fmt.Fprintf(w, "%s: %d modes\n", m.Name(), len(modes))
	writeTable(w, headers, rows)
	return nil
}

func runVulkan(args []string) int {
	fs := flag.NewFlagSet("vulkan", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var common commonFlags
	common.register(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowkit vulkan [--config PATH] [--platform NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Report whether a Vulkan loader is available and which instance")
		fmt.Fprintln(os.Stderr, "extensions window surfaces require on this platform.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	state, _, err := common.openState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer state.Shutdown()

	return printVulkan(os.Stdout, state)
}

func printVulkan(w io.Writer, state *windowing.State) int {
	if !state.VulkanSupported() {
		writeFields(w, [][2]string{
			{"Platform", state.Platform()},
			{"Vulkan", "unavailable (no loader found)"},
		})
		return 1
	}
	loader := state.VulkanLoader()
	exts := state.RequiredInstanceExtensions()
	surfaces := "supported"
	required := strings.Join(exts[:], ", ")
	if exts[0] == "" {
		required = "-"
		surfaces = "unavailable"
		if !loader.HasExtension(vkloader.SurfaceExtension) {
			surfaces += " (missing " + vkloader.SurfaceExtension + ")"
		}
	}
	writeFields(w, [][2]string{
		{"Platform", state.Platform()},
		{"Loader", loader.Path()},
		{"Instance extensions", strconv.Itoa(len(loader.Extensions()))},
		{"Required", required},
		{"Window surfaces", surfaces},
	})
	if exts[0] == "" {
		return 1
	}
	return 0
}
