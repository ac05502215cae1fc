package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"spector/emu/log"
)

type mode byte

const (
	loadMode    mode = iota // Load a tape into a snapshot
	traceMode               // Run and trace machine code
	accelsMode              // List accelerators
	versionMode             // Show spector version
)

type (
	CLI struct {
		Load         Load         `cmd:"" help:"Load a TAP/TZX tape and write the resulting snapshot." default:"true"`
		Trace        Trace        `cmd:"" help:"Run machine code from a snapshot and trace it."`
		Accelerators Accelerators `cmd:"" help:"List known tape-loading accelerators." name:"accelerators"`
		Version      Version      `cmd:"" help:"Show spector version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Load struct {
		TapePath string `arg:"" name:"/path/to/tape" help:"${tape_help}" required:"true" type:"existingfile"`
		OutPath  string `arg:"" name:"snapshot" help:"Output snapshot file (.z80 or .sna)." required:"true"`

		Accelerator    []string `name:"accelerator" help:"${accel_help}" placeholder:"NAME"`
		NoAcceleration bool     `name:"no-acceleration" help:"Disable accelerator matching."`
		Start          int      `name:"start" help:"Start address; overrides RANDOMIZE USR." default:"-1"`
		MaxTime        int64    `name:"max-time" help:"Simulation budget in seconds of machine time." default:"900"`
		Reg            []string `name:"reg" help:"${reg_help}" placeholder:"name=value"`
		State          []string `name:"state" help:"${state_help}" placeholder:"name=value"`
		Config         string   `name:"config" help:"Options file (TOML)." type:"existingfile"`
		Quiet          bool     `name:"quiet" short:"q" help:"Suppress progress messages."`
	}

	Trace struct {
		SnapPath string `arg:"" name:"/path/to/snapshot" help:"Snapshot (.z80 or .sna) or raw binary." required:"true" type:"existingfile"`

		Start     int      `name:"start" help:"Start address." default:"-1"`
		Stop      int      `name:"stop" help:"Stop when PC reaches this address." default:"-1"`
		MaxOps    int64    `name:"max-operations" help:"Stop after this many instructions." default:"0"`
		MaxTime   int64    `name:"max-tstates" help:"Stop after this many T-states." default:"0"`
		PopsStop  bool     `name:"pops-stop" help:"Stop when the program POPs more than it PUSHed."`
		Org       int      `name:"org" help:"Load address for a raw binary." default:"32768"`
		Reg       []string `name:"reg" help:"${reg_help}" placeholder:"name=value"`
		Verbose   bool     `name:"verbose" short:"v" help:"Print every executed instruction."`
		TraceJSON *outfile `name:"trace-json" help:"Write the instruction trace as JSON lines." placeholder:"FILE|stdout|stderr"`
		Dump      string   `name:"dump" help:"Write the final memory image to this file."`
	}

	Accelerators struct{}

	Version struct{}
)

var vars = kong.Vars{
	"tape_help":  "Tape file to load (.tap or .tzx).",
	"accel_help": "Restrict loop matching to the named accelerators.",
	"reg_help":   "Set a register before the run (e.g. sp=32768, ^hl=0x1234).",
	"state_help": "Set border/iff/im in the final snapshot.",
	"log_help":   "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("spector"),
		kong.Description("Z80 tape-loading simulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch {
	case ctx.Command() == "accelerators":
		cfg.mode = accelsMode
	case ctx.Command() == "version":
		cfg.mode = versionMode
	case strings.HasPrefix(ctx.Command(), "trace"):
		cfg.mode = traceMode
	default:
		cfg.mode = loadMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "load") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
