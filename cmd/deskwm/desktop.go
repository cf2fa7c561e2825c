package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/1broseidon/deskwm/internal/desktop"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/pointer"
	"github.com/1broseidon/deskwm/internal/wm"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSnapshot writes a short human readable view of the desktop.
func printSnapshot(w io.Writer, snap *wm.Snapshot) {
	vp := snap.Viewport
	active := snap.ActiveID
	if active == "" {
		active = "-"
	}
	fmt.Fprintf(w, "viewport: %dx%d (taskbar %d)\n", vp.Width, vp.Height, vp.TaskbarHeight)
	fmt.Fprintf(w, "active:   %s\n", active)
	if snap.Gesture != nil {
		fmt.Fprintf(w, "gesture:  %s %s\n", snap.Gesture.Mode, snap.Gesture.WindowID)
	}
	for _, win := range snap.Windows {
		flags := ""
		if win.Active {
			flags += " active"
		}
		if win.Maximized {
			flags += " maximized"
		}
		b := win.Bounds
		fmt.Fprintf(w, "- %-10s %-9s z=%d %d,%d %dx%d%s\n", win.ID, win.Visibility, win.ZRank, b.X, b.Y, b.Width, b.Height, flags)
	}
	if len(snap.Taskbar) > 0 {
		fmt.Fprint(w, "taskbar:")
		for _, e := range snap.Taskbar {
			label := e.Label
			if e.Active {
				label = "[" + label + "]"
			}
			fmt.Fprintf(w, " %s", label)
		}
		fmt.Fprintln(w)
	}
}

func outputSnapshot(snap *wm.Snapshot, jsonOut bool) int {
	if jsonOut {
		if err := writeJSON(os.Stdout, snap); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printSnapshot(os.Stdout, snap)
	return 0
}

// parseFlags parses args and reports the exit code to use when the caller
// should stop.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("active_window:  %s\n", status.ActiveWindow)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("visible_count:  %d\n", status.VisibleCount)
	fmt.Printf("gesture:        %s\n", status.Gesture)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runState(args []string) int {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output the snapshot as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm state [--json]")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	snap, err := ipc.NewClient().GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return outputSnapshot(snap, *jsonOut)
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm windows [--json]")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		if err := writeJSON(os.Stdout, data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	for _, w := range data.Windows {
		marker := " "
		if w.Active {
			marker = "*"
		}
		fmt.Printf("%s %-10s %-9s %s\n", marker, w.ID, w.State, w.Title)
	}
	return 0
}

func runWindowCommand(name string, args []string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output the resulting snapshot as JSON")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deskwm %s [--json] <window-id>\n", name)
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires <window-id>\n", name)
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	calls := map[string]func(string) (*wm.Snapshot, error){
		"open":     client.Open,
		"close":    client.Close,
		"focus":    client.Focus,
		"minimize": client.Minimize,
		"maximize": client.Maximize,
		"restore":  client.Restore,
	}
	snap, err := calls[name](fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return outputSnapshot(snap, *jsonOut)
}

// parseXY reads two integer coordinates.
func parseXY(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected X Y, got %d arguments", len(args))
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid X %q", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid Y %q", args[1])
	}
	return x, y, nil
}

func printPointerResult(w io.Writer, data *ipc.PointerData) {
	switch {
	case data.Outcome != nil:
		out := fmt.Sprintf("action: %s", data.Outcome.Action)
		if data.Outcome.WindowID != "" {
			out += " " + data.Outcome.WindowID
		}
		if data.Outcome.Action == pointer.ActionResize {
			out += " " + data.Outcome.Edge.String()
		}
		fmt.Fprintln(w, out)
	case data.Bounds != nil:
		b := data.Bounds
		fmt.Fprintf(w, "bounds: %d,%d %dx%d\n", b.X, b.Y, b.Width, b.Height)
	default:
		fmt.Fprintf(w, "handled: %v\n", data.Handled)
	}
}

func runPointer(args []string) int {
	usage := func(w io.Writer) {
		fmt.Fprintln(w, "Usage:")
		fmt.Fprintln(w, "  deskwm pointer down X Y")
		fmt.Fprintln(w, "  deskwm pointer move X Y")
		fmt.Fprintln(w, "  deskwm pointer up")
	}
	if len(args) == 0 {
		usage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()
	var data *ipc.PointerData
	var err error

	switch args[0] {
	case "down", "move":
		x, y, perr := parseXY(args[1:])
		if perr != nil {
			fmt.Fprintln(os.Stderr, perr)
			usage(os.Stderr)
			return 2
		}
		if args[0] == "down" {
			data, err = client.PointerDown(x, y)
		} else {
			data, err = client.PointerMove(x, y)
		}
	case "up":
		data, err = client.PointerUp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown pointer command: %s\n\n", args[0])
		usage(os.Stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printPointerResult(os.Stdout, data)
	return 0
}

func runCancel(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: deskwm cancel")
		return 2
	}
	data, err := ipc.NewClient().CancelGesture()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !data.Handled {
		fmt.Println("no gesture running")
		return 0
	}
	if w, ok := data.Snapshot.Window(data.Snapshot.ActiveID); ok && w.Visibility == desktop.Visible {
		fmt.Printf("cancelled, %s back at %d,%d %dx%d\n", w.ID, w.Bounds.X, w.Bounds.Y, w.Bounds.Width, w.Bounds.Height)
		return 0
	}
	fmt.Println("cancelled")
	return 0
}

func runViewport(args []string) int {
	fs := flag.NewFlagSet("viewport", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	taskbar := fs.Int("taskbar", 0, "Taskbar height in pixels (default: keep current)")
	jsonOut := fs.Bool("json", false, "Output the resulting snapshot as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm viewport [--taskbar N] [--json] W H")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Resize the desktop. Windows are clamped back inside the new bounds.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	w, h, err := parseXY(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return 2
	}

	snap, err := ipc.NewClient().SetViewport(w, h, *taskbar)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return outputSnapshot(snap, *jsonOut)
}

func runReload(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: deskwm reload")
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}
