package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/extinctpotato/catala/internal/analyzer"
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/interpreter"
	"github.com/extinctpotato/catala/internal/irload"
	"github.com/extinctpotato/catala/internal/noexcept"
	"github.com/extinctpotato/catala/internal/pipeline"
	"github.com/extinctpotato/catala/internal/prettyprinter"
)

const usage = `Usage: %s [flags] <program.yaml>

Eliminates default terms from a serialized program and prints the result.

Flags:
  --config <file>  load pass options from a YAML file
  --trace          log one line per translated declaration
  --parallel       translate declarations concurrently
  --source         print the source program before the translation
  --eval           evaluate the top-level values of the translated program
`

type flags struct {
	configPath string
	trace      bool
	parallel   bool
	source     bool
	eval       bool
	program    string
}

func parseArgs(args []string) (*flags, error) {
	f := &flags{}
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--config", "-c":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s needs a file", arg)
			}
			i++
			f.configPath = args[i]
		case "--trace":
			f.trace = true
		case "--parallel":
			f.parallel = true
		case "--source":
			f.source = true
		case "--eval":
			f.eval = true
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag %s", arg)
			}
			if f.program != "" {
				return nil, fmt.Errorf("more than one program given")
			}
			f.program = arg
		}
	}
	if f.program == "" {
		return nil, fmt.Errorf("no program given")
	}
	return f, nil
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}
	if os.Args[1] != "-help" && os.Args[1] != "--help" && os.Args[1] != "help" {
		return false
	}
	fmt.Printf(usage, os.Args[0])
	return true
}

func loadOptions(f *flags) *config.Options {
	opts := config.DefaultOptions()
	if f.configPath != "" {
		var err error
		if opts, err = config.LoadOptions(f.configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading options: %s\n", err)
			os.Exit(1)
		}
	}
	if f.trace {
		opts.Trace = true
	}
	if f.parallel {
		opts.Parallel = true
	}
	return opts
}

func main() {
	log.SetFlags(0)          // Disable timestamp in logs
	log.SetOutput(os.Stderr) // Keep stdout for the printed program

	if handleHelp() {
		return
	}

	f, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}
	opts := loadOptions(f)

	ctx := pipeline.NewPipelineContext(nil, opts)
	ctx.FilePath = f.program
	ctx = pipeline.New(
		&irload.LoadProcessor{},
		&analyzer.PurityProcessor{},
		&noexcept.TranslateProcessor{},
	).Run(ctx)

	if ctx.Failed() {
		for _, err := range ctx.Errors {
			fmt.Fprintf(os.Stderr, "- %s\n", err.Error())
		}
		os.Exit(1)
	}

	if f.source {
		if err := prettyprinter.Fprint(os.Stdout, ctx.Program, opts.LineWidth); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
		fmt.Println()
	}
	if err := prettyprinter.Fprint(os.Stdout, ctx.Output, opts.LineWidth); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	if f.eval {
		if err := evalValues(ctx.Output); err != nil {
			fmt.Fprintf(os.Stderr, "Runtime error: %s\n", err)
			os.Exit(1)
		}
	}
}

// evalValues runs the translated program and prints every top-level value
// that is not a function.
func evalValues(p *ast.Program) error {
	ev := interpreter.New(p.Ctx)
	bindings, err := ev.LoadProgram(p)
	if err != nil {
		return err
	}
	fmt.Println()
	for _, b := range bindings {
		switch b.Value.(type) {
		case *interpreter.Function, *interpreter.Scope:
			continue
		}
		fmt.Printf("%s = %s\n", b.Var, b.Value.Inspect())
	}
	return nil
}
