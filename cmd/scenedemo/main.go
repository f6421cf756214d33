// scenedemo is an interactive CLI driving a pkg/scenegraph Graph.
//
// Usage:
//
//	scenedemo [--log-level=info] [--seed=tree] [--snapshot-dir=.]
//
// Commands (in REPL):
//
//	alloc                    Allocate a new handle
//	set <kind> <handle> <field> <value>   Write a field on the update side
//	child <parent> <child>   Append a child handle to a container's children written since the last sync
//	delete <kind> <handle>   Mark a handle deleted
//	sync                     Flush pending changes to the render store
//	get <kind> <handle>      Read a handle from the render store
//	render                   Dump the whole render store
//	stats                    Show allocator and buffer counts
//	snapshot <path>          Atomically write the render store as JSON
//	config                   Show the effective configuration
//	help                     Show this help
//	exit / quit / q          Exit
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/arborui/scenesync/internal/config"
	"github.com/arborui/scenesync/pkg/scenegraph"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("scenedemo", flag.ContinueOnError)

	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	seedShape := fs.String("seed", "", "seed scene: empty, single, tree")
	snapshotDir := fs.String("snapshot-dir", "", "directory the snapshot verb writes into")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	overridden := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			overridden["log_level"] = true
		case "seed":
			overridden["seed_shape"] = true
		case "snapshot-dir":
			overridden["snapshot_dir"] = true
		}
	})

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getwd: %w", err)
	}

	cfg, _, err := config.Load(workDir, config.Config{
		LogLevel:    *logLevel,
		SeedShape:   *seedShape,
		SnapshotDir: *snapshotDir,
	}, overridden, nil)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	g := scenegraph.NewGraph()
	seedGraph(g, cfg.SeedShape)

	repl := &REPL{graph: g, cfg: cfg}

	return repl.Run()
}

// seedGraph populates g per one of the demo seed shapes named in cfg.
func seedGraph(g *scenegraph.Graph, shape string) {
	switch shape {
	case "single":
		h := g.AllocateHandle()
		g.AccessContainer(h).Visible = true
		g.Sync()
	case "tree":
		root := g.AllocateHandle()
		child := g.AllocateHandle()
		g.AccessContainer(root).Children = []scenegraph.Handle{child}
		g.AccessText(child).Text = "hello"
		g.Sync()
	case "empty", "":
	}
}

// REPL is the interactive command loop.
type REPL struct {
	graph *scenegraph.Graph
	cfg   config.Config
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".scenedemo_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("scenedemo (seed=%s, log_level=%s)\n", r.cfg.SeedShape, r.cfg.LogLevel)
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("scenedemo> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "alloc":
			r.cmdAlloc()

		case "set":
			r.cmdSet(args)

		case "child":
			r.cmdChild(args)

		case "delete", "del":
			r.cmdDelete(args)

		case "sync":
			r.graph.Sync()
			fmt.Println("synced")

		case "get":
			r.cmdGet(args)

		case "render":
			r.cmdRender()

		case "stats":
			r.cmdStats()

		case "snapshot":
			r.cmdSnapshot(args)

		case "config":
			r.cmdConfig()

		case "clear", "cls":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"alloc", "set", "child", "delete", "del", "sync", "get",
		"render", "stats", "snapshot", "config", "clear", "cls",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  alloc                                  Allocate a new handle")
	fmt.Println("  set <kind> <handle> <field> <value>    Write a field (kind: container|text|shape|shaperect)")
	fmt.Println("  child <parent> <child>                 Append a child handle to a container's children written since the last sync")
	fmt.Println("  delete <kind> <handle>                 Mark a handle deleted")
	fmt.Println("  sync                                   Flush pending changes to the render store")
	fmt.Println("  get <kind> <handle>                    Read a handle from the render store")
	fmt.Println("  render                                 Dump the whole render store")
	fmt.Println("  stats                                  Show allocator and buffer counts")
	fmt.Println("  snapshot <path>                        Atomically write the render store as JSON")
	fmt.Println("  config                                 Show the effective configuration")
	fmt.Println("  help                                   Show this help")
	fmt.Println("  exit / quit / q                        Exit")
	fmt.Println()
	fmt.Println("Handles are printed and parsed as <index>:<generation>, e.g. 3:0.")
}

func parseHandle(s string) (scenegraph.Handle, error) {
	idxPart, genPart, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("handle %q must be of the form index:generation", s)
	}

	index, err := strconv.ParseUint(idxPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid handle index %q: %w", idxPart, err)
	}

	gen, err := strconv.ParseUint(genPart, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid handle generation %q: %w", genPart, err)
	}

	return scenegraph.MakeHandle(index, uint16(gen)), nil
}

func formatHandle(h scenegraph.Handle) string {
	return fmt.Sprintf("%d:%d", h.Index(), h.Generation())
}

func (r *REPL) cmdAlloc() {
	h := r.graph.AllocateHandle()
	fmt.Println(formatHandle(h))
}

func (r *REPL) cmdSet(args []string) {
	if len(args) < 4 {
		fmt.Println("usage: set <kind> <handle> <field> <value>")
		return
	}

	kind, handleArg, field, value := args[0], args[1], args[2], strings.Join(args[3:], " ")

	h, err := parseHandle(handleArg)
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := r.setField(kind, h, field, value); err != nil {
		fmt.Println(err)
	}
}

func (r *REPL) setField(kind string, h scenegraph.Handle, field, value string) error {
	switch strings.ToLower(kind) {
	case "container":
		w := r.graph.AccessContainer(h)
		return setCommonField(&w.X, &w.Y, &w.Visible, field, value)
	case "text":
		w := r.graph.AccessText(h)
		if strings.EqualFold(field, "text") {
			w.Text = value
			return nil
		}

		return setCommonField(&w.X, &w.Y, &w.Visible, field, value)
	case "shape":
		w := r.graph.AccessShape(h)
		return setCommonField(&w.X, &w.Y, &w.Visible, field, value)
	case "shaperect":
		w := r.graph.AccessShapeRect(h)
		switch strings.ToLower(field) {
		case "width":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return err
			}

			w.Width = v

			return nil
		case "height":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return err
			}

			w.Height = v

			return nil
		default:
			return setCommonField(&w.X, &w.Y, &w.Visible, field, value)
		}
	default:
		return fmt.Errorf("unknown kind %q (expected container, text, shape, or shaperect)", kind)
	}
}

// setCommonField writes the x, y, or visible field shared by every kind.
func setCommonField(x, y *float64, visible *bool, field, value string) error {
	switch strings.ToLower(field) {
	case "x":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}

		*x = v
	case "y":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}

		*y = v
	case "visible":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}

		*visible = v
	default:
		return fmt.Errorf("unknown field %q", field)
	}

	return nil
}

func (r *REPL) cmdChild(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: child <parent> <child>")
		return
	}

	parent, err := parseHandle(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}

	child, err := parseHandle(args[1])
	if err != nil {
		fmt.Println(err)
		return
	}

	w := r.graph.AccessContainer(parent)
	w.Children = append(w.Children, child)
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: delete <kind> <handle>")
		return
	}

	h, err := parseHandle(args[1])
	if err != nil {
		fmt.Println(err)
		return
	}

	switch strings.ToLower(args[0]) {
	case "container":
		r.graph.AccessContainer(h).Deleted = true
	case "text":
		r.graph.AccessText(h).Deleted = true
	case "shape":
		r.graph.AccessShape(h).Deleted = true
	case "shaperect":
		r.graph.AccessShapeRect(h).Deleted = true
	default:
		fmt.Printf("unknown kind %q\n", args[0])
	}
}

func (r *REPL) cmdGet(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: get <kind> <handle>")
		return
	}

	h, err := parseHandle(args[1])
	if err != nil {
		fmt.Println(err)
		return
	}

	r.graph.RenderLock().Lock()
	defer r.graph.RenderLock().Unlock()

	switch strings.ToLower(args[0]) {
	case "container":
		v, ok := r.graph.TryGetContainer(h)
		printGetResult(v, ok)
	case "text":
		v, ok := r.graph.TryGetText(h)
		printGetResult(v, ok)
	case "shape":
		v, ok := r.graph.TryGetShape(h)
		printGetResult(v, ok)
	case "shaperect":
		v, ok := r.graph.TryGetShapeRect(h)
		printGetResult(v, ok)
	default:
		fmt.Printf("unknown kind %q\n", args[0])
	}
}

func printGetResult(v any, ok bool) {
	if !ok {
		fmt.Println("absent")
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(string(data))
}

func (r *REPL) cmdRender() {
	snap := r.snapshotData()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(string(data))
}

func (r *REPL) cmdStats() {
	s := r.graph.Stats()

	fmt.Printf("allocator: %d indices minted, %d free\n", s.AllocatedIndices, s.FreeIndices)
	fmt.Printf("pending writes: %s=%d %s=%d %s=%d %s=%d\n",
		scenegraph.KindContainer, s.PendingContainers,
		scenegraph.KindText, s.PendingTexts,
		scenegraph.KindShape, s.PendingShapes,
		scenegraph.KindShapeRect, s.PendingShapeRects)
}

// snapshotData captures the whole render store under RenderLock for the
// "render" and "snapshot" verbs to consume without holding the lock
// while doing I/O. Grounded on the original's RenderContainers()/
// RenderTexts() dump accessors and the teacher's sloty "scan" command,
// which likewise enumerates every live entry rather than a single key.
func (r *REPL) snapshotData() map[string]any {
	r.graph.RenderLock().Lock()
	defer r.graph.RenderLock().Unlock()

	containers := map[string]scenegraph.ReadContainer{}
	r.graph.RangeContainers(func(h scenegraph.Handle, v *scenegraph.ReadContainer) {
		containers[formatHandle(h)] = *v
	})

	texts := map[string]scenegraph.ReadText{}
	r.graph.RangeTexts(func(h scenegraph.Handle, v *scenegraph.ReadText) {
		texts[formatHandle(h)] = *v
	})

	shapes := map[string]scenegraph.ReadShape{}
	r.graph.RangeShapes(func(h scenegraph.Handle, v *scenegraph.ReadShape) {
		shapes[formatHandle(h)] = *v
	})

	shapeRects := map[string]scenegraph.ReadShapeRect{}
	r.graph.RangeShapeRects(func(h scenegraph.Handle, v *scenegraph.ReadShapeRect) {
		shapeRects[formatHandle(h)] = *v
	})

	return map[string]any{
		"graph_id":    r.graph.ID.String(),
		"containers":  containers,
		"texts":       texts,
		"shapes":      shapes,
		"shape_rects": shapeRects,
	}
}

func (r *REPL) cmdSnapshot(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: snapshot <path>")
		return
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.cfg.SnapshotDir, path)
	}

	snap := r.snapshotData()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := atomic.WriteFile(path, strings.NewReader(string(data))); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("wrote %s\n", path)
}

func (r *REPL) cmdConfig() {
	out, err := config.Format(r.cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(out)
}
