package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/1broseidon/windowkit/internal/config"
	"github.com/1broseidon/windowkit/internal/windowing"
)

func init() {
	// Window system calls must stay on the thread that initialized them.
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "modes":
		os.Exit(runModes(os.Args[2:]))
	case "vulkan":
		os.Exit(runVulkan(os.Args[2:]))
	case "demo":
		os.Exit(runDemo(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: windowkit <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  monitors            List connected monitors")
	fmt.Fprintln(w, "  modes [index]       List the video modes of a monitor (default: primary)")
	fmt.Fprintln(w, "  vulkan              Report Vulkan loader and surface support")
	fmt.Fprintln(w, "  demo                Open a window and log every event until it is closed")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config path         Print the configuration file location")
	fmt.Fprintln(w, "  config show         Print the effective configuration")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Common options:")
	fmt.Fprintln(w, "  --config PATH       Config file (default: $WINDOWKIT_CONFIG or ~/.config/windowkit/config.yaml)")
	fmt.Fprintln(w, "  --platform NAME     Override the configured platform (auto, x11, wayland, win32, headless)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'windowkit <command> --help' for command-specific options.")
}

// commonFlags are accepted by every command that opens the windowing state.
type commonFlags struct {
	configPath string
	platform   string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Config file path (default: ~/.config/windowkit/config.yaml)")
	fs.StringVar(&c.platform, "platform", "", "Override the configured platform")
}

func (c *commonFlags) load() (*config.LoadResult, error) {
	res, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.platform != "" {
		res.Config.Platform = c.platform
		if err := res.Config.Validate(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// openState loads the configuration and initializes the windowing state.
// The caller must Shutdown the returned state.
func (c *commonFlags) openState() (*windowing.State, *slog.Logger, error) {
	res, err := c.load()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(res.Config.LogLevel)
	state := windowing.New(res.Config.WindowingOptions(logger))
	if err := state.Init(); err != nil {
		return nil, nil, err
	}
	return state, logger, nil
}

func newLogger(level string) *slog.Logger {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// parseFlags parses args and reports the exit code to use when parsing
// stopped the command.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}
