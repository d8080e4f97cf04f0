package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/windowkit/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: windowkit mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'windowkit mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var common commonFlags
	common.register(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowkit mcp serve [--config PATH] [--platform NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the MCP server on stdio. Tools list monitors and video modes,")
		fmt.Fprintln(os.Stderr, "open and drive windows and report the events they receive. Logs go")
		fmt.Fprintln(os.Stderr, "to stderr so stdout stays reserved for the protocol.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	state, logger, err := common.openState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize windowing: %v\n", err)
		return 1
	}
	defer state.Shutdown()

	server, err := mcp.NewServer(state, logger)
	if err != nil {
		logger.Error("failed to create MCP server", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("mcp server starting", "platform", state.Platform())
	if err := server.Run(ctx); err != nil {
		logger.Error("mcp server error", "error", err)
		return 1
	}
	return 0
}
