// Command mialma is the CLI for Mi Alma Biblia.
// It navigates the canon, manages reader state and reading plans, and runs
// the REST API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/sqlite"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/config"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/logging"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/state"
)

const version = "0.1.0"

// CLI defines the command-line interface for mialma.
type CLI struct {
	Globals `embed:""`

	// Command groups (noun-first organization)
	Books   BooksGroup  `cmd:"" help:"Book table operations"`
	Nav     NavGroup    `cmd:"" help:"Chapter navigation"`
	Ref     RefGroup    `cmd:"" help:"Reference parsing"`
	Plans   PlansGroup  `cmd:"" help:"Reading plans"`
	State   StateGroup  `cmd:"" help:"Reader state (last read, favorites, highlights, settings)"`
	Backup  BackupGroup `cmd:"" help:"Backup export and import"`
	Daily   DailyCmd    `cmd:"" help:"Print the verse of the day"`
	Serve   ServeCmd    `cmd:"" help:"Start REST API server"`
	Version VersionCmd  `cmd:"" help:"Print version information"`
}

// Globals are flags shared by every command. Non-empty values override the
// configuration file and environment.
type Globals struct {
	Config    string `short:"c" help:"YAML configuration file" type:"path"`
	DB        string `name:"db" help:"State database path" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`
	JSON      bool   `help:"Print results as JSON"`
}

// app is bound into every Run method.
type app struct {
	ctx   context.Context
	cfg   *config.Config
	out   io.Writer
	json  bool
	store *state.Store
}

func newApp(ctx context.Context, g Globals, out, errOut io.Writer) (*app, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.DB != "" {
		cfg.DBPath = g.DB
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.LogFormat = g.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.InitLoggerWithWriter(logging.ParseLevel(cfg.LogLevel), logging.ParseFormat(cfg.LogFormat), errOut)

	return &app{ctx: ctx, cfg: cfg, out: out, json: g.JSON}, nil
}

// openStore opens the state database on first use.
func (a *app) openStore() (*state.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := state.Open(a.ctx, a.cfg.DBPath, state.WithDefaults(a.cfg.Settings()))
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// print writes v as indented JSON when --json is set, otherwise calls text.
func (a *app) print(v any, text func(w io.Writer)) error {
	if a.json {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	text(tw)
	return tw.Flush()
}

// ServeCmd starts the REST API and websocket server.
type ServeCmd struct {
	Port int `help:"HTTP server port (overrides config)"`
}

func (c *ServeCmd) Run(a *app) error {
	if c.Port != 0 {
		a.cfg.Port = c.Port
	}
	srv, err := a.newServer()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(a.out, "mialma version %s\n", version)
	fmt.Fprintf(a.out, "storage: %s (%s)\n", info.DriverType, info.Package)
	return nil
}

// run parses args and executes the selected command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("mialma"),
		kong.Description("Mi Alma Biblia - Spanish Bible reader"),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cli.Globals, stdout, stderr)
	if err != nil {
		return err
	}
	defer a.close()

	return kctx.Run(a)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "mialma: %v\n", err)
		os.Exit(1)
	}
}
