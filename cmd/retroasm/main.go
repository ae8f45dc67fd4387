// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/ezrec/retroasm/arch"
	_ "github.com/ezrec/retroasm/arch/m6502"
	_ "github.com/ezrec/retroasm/arch/ucapp"
	"github.com/ezrec/retroasm/asm"
	"github.com/ezrec/retroasm/expr"
	"github.com/ezrec/retroasm/source"
	"github.com/ezrec/retroasm/symbol"
	"github.com/ezrec/retroasm/translate"
)

// options are the command line settings.
type options struct {
	target      string
	output      string
	defines     []string
	passes      int
	ignoreCase  bool
	listing     string
	dumpSymbols bool
	verbose     int
	lang        string
}

func newCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "retroasm [flags] source.s",
		Short: "Multi-pass, block structured assembler for retro CPUs",
		Long: `Retroasm assembles a source file into a raw binary image.

Passes are repeated until every symbol has a stable value, so labels may
be used before they are defined. Conditional, loop, switch, scope,
function and enum blocks are executed while assembling.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			opts.run(args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.target, "target", "t", "m6502", "Target CPU: "+strings.Join(arch.Names(), ", "))
	flags.StringVarP(&opts.output, "output", "o", "", "Binary output file, '-' for stdout (default: source with .bin suffix)")
	flags.StringArrayVarP(&opts.defines, "define", "D", nil, "Predefine NAME[=VALUE], VALUE is an expression")
	flags.IntVarP(&opts.passes, "passes", "p", asm.PASS_LIMIT, "Maximum number of passes")
	flags.BoolVarP(&opts.ignoreCase, "ignore-case", "i", false, "Match symbol names case insensitively")
	flags.StringVarP(&opts.listing, "list", "l", "", "Listing output file, '-' for stdout")
	flags.BoolVar(&opts.dumpSymbols, "dump-symbols", false, "Dump the symbol table to stderr")
	flags.IntVarP(&opts.verbose, "verbose", "v", 0, "Verbosity level")
	flags.StringVar(&opts.lang, "lang", "", "Message language, as a BCP 47 tag")

	return cmd
}

func (opts *options) run(file string) {
	if len(opts.lang) > 0 {
		err := translate.SetLanguage(opts.lang)
		if err != nil {
			log.Fatalf("--lang %v: %v", opts.lang, err)
		}
	}

	if opts.verbose > 0 {
		err := setFlags(map[string]string{
			"v":           strconv.Itoa(opts.verbose),
			"logtostderr": "true",
		})
		if err != nil {
			log.Fatalf("--verbose %v: %v", opts.verbose, err)
		}
	}

	target, err := arch.New(opts.target)
	if err != nil {
		log.Fatalf("%v: %v", opts.target, err)
	}

	inf, err := os.Open(file)
	if err != nil {
		log.Fatalf("%v: %v", file, err)
	}
	defer inf.Close()

	parser := &source.Parser{Verbose: opts.verbose > 2}
	lines, err := parser.Parse(inf, file)
	if err != nil {
		log.Fatalf("%v: %v", file, err)
	}

	config := asm.DefaultOptions()
	config.PassLimit = opts.passes
	config.CaseSensitive = !opts.ignoreCase
	config.Verbose = opts.verbose > 1

	assembler := asm.New(target, config)
	for _, text := range opts.defines {
		err = define(assembler, text)
		if err != nil {
			log.Fatalf("-D %v: %v", text, err)
		}
	}

	result, err := assembler.Assemble(lines)
	if result != nil {
		for _, diag := range result.Diagnostics {
			fmt.Fprintln(os.Stderr, diag)
		}
	}

	var diag *asm.Diagnostic
	switch {
	case errors.As(err, &diag):
		// Already printed with the diagnostics.
		os.Exit(1)
	case err != nil:
		log.Fatalf("%v: %v", file, err)
	}

	if opts.dumpSymbols {
		dump(os.Stderr, assembler.Table)
	}

	if len(opts.listing) > 0 {
		err = create(opts.listing, func(w io.Writer) error {
			return result.Listing.Write(w, target)
		})
		if err != nil {
			log.Fatalf("%v: %v", opts.listing, err)
		}
	}

	if len(result.Diagnostics.Errors()) > 0 {
		os.Exit(1)
	}

	output := opts.output
	if len(output) == 0 {
		output = strings.TrimSuffix(file, filepath.Ext(file)) + ".bin"
	}
	err = create(output, func(w io.Writer) (err error) {
		_, err = w.Write(result.Program.Binary(0))
		return
	})
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}

// setFlags sets glog flags of the standard flag set.
func setFlags(values map[string]string) (err error) {
	for name, value := range values {
		err = flag.Set(name, value)
		if err != nil {
			return
		}
	}
	return
}

// define handles a `NAME[=VALUE]` predefine. A value that does not
// evaluate is taken as a string, and a missing value is 1.
func define(assembler *asm.Assembler, text string) (err error) {
	name, value, ok := strings.Cut(text, "=")

	var v symbol.Value = int64(1)
	if ok {
		env := &expr.Env{Table: assembler.Table, Line: symbol.LINE_NONE}
		var defined bool
		v, defined, err = assembler.Evaluator.Evaluate(value, env)
		if err != nil {
			return
		}
		if !defined {
			v = value
		}
	}

	return assembler.Predefine(strings.TrimSpace(name), v)
}

// create writes to a new file, or to stdout for "-".
func create(path string, write func(w io.Writer) error) (err error) {
	if path == "-" {
		return write(os.Stdout)
	}

	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	return write(ouf)
}

// symbolDump is the dumped form of a symbol.
type symbolDump struct {
	Kind  symbol.Kind
	Value any
}

// dump prints every symbol of the table by qualified name.
func dump(w io.Writer, table *symbol.Table) {
	symbols := map[string]symbolDump{}
	for name, sym := range table.Root.Walk() {
		var value any = sym.Value
		if fn, ok := sym.Value.(*symbol.Function); ok {
			value = fmt.Sprintf("%v(%v)", fn.Name, strings.Join(fn.Args, ", "))
		}
		symbols[name] = symbolDump{Kind: sym.Kind, Value: value}
	}

	config := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
	config.Fdump(w, symbols)
}

func main() {
	// glog takes its settings from the standard flag set.
	flag.CommandLine.Parse(nil)

	err := newCommand().Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
