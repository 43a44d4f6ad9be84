// Command stsc-inspect is a readline shell for poking at a compiled
// Program's Core IR tables, grounded on ailang's internal/repl/repl.go
// liner+color wiring (history file, command completion, colorized output).
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/stslang/stsc/internal/coreir"
	"github.com/stslang/stsc/internal/middleend"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// shell holds the Program being inspected.
type shell struct {
	prog *coreir.Program
}

func main() {
	result, diags := middleend.Run(middleend.Config{}, sampleUnit())
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s: %s\n", red(string(d.Code)), d.Message)
	}

	s := &shell{prog: result.Program}
	s.run(os.Stdout)
}

func (s *shell) run(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".stsc_inspect_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	commands := []string{":structs", ":unions", ":funcs", ":func", ":help", ":quit"}
	line.SetCompleter(func(pfx string) (c []string) {
		for _, cmd := range commands {
			if strings.HasPrefix(cmd, pfx) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Fprintln(out, bold("stsc-inspect"), dim("(:help for commands, :quit to exit)"))

	for {
		input, err := line.Prompt("ir> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("bye"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if !s.dispatch(out, input) {
			break
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// dispatch runs one command line and reports whether the shell should keep
// reading input.
func (s *shell) dispatch(out io.Writer, input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprintln(out, dim(":structs              list interned struct shapes"))
		fmt.Fprintln(out, dim(":unions               list interned union shapes"))
		fmt.Fprintln(out, dim(":funcs                list every compiled function's mangled name"))
		fmt.Fprintln(out, dim(":func <mangled-name>  print one function's signature and body size"))
	case ":structs":
		s.listStructs(out)
	case ":unions":
		s.listUnions(out)
	case ":funcs":
		s.listFuncs(out)
	case ":func":
		if len(fields) < 2 {
			fmt.Fprintln(out, red("usage: :func <mangled-name>"))
			break
		}
		s.showFunc(out, fields[1])
	default:
		fmt.Fprintf(out, "%s: unknown command %q\n", red("error"), fields[0])
	}
	return true
}

func (s *shell) listStructs(out io.Writer) {
	names := make([]string, 0, len(s.prog.Structs))
	for n := range s.prog.Structs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(out, "%s %s\n", cyan(n), s.prog.Structs[n].String())
	}
}

func (s *shell) listUnions(out io.Writer) {
	names := make([]string, 0, len(s.prog.Unions))
	for n := range s.prog.Unions {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(out, "%s %s\n", cyan(n), s.prog.Unions[n].String())
	}
}

func (s *shell) listFuncs(out io.Writer) {
	names := make([]string, 0, len(s.prog.Funcs))
	for n := range s.prog.Funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(out, cyan(n))
	}
}

func (s *shell) showFunc(out io.Writer, name string) {
	fn, ok := s.prog.Funcs[name]
	if !ok {
		fmt.Fprintf(out, "%s: no such function %q\n", red("error"), name)
		return
	}
	fmt.Fprintf(out, "%s(", bold(fn.MangledName))
	for i, p := range fn.Params {
		if i > 0 {
			fmt.Fprint(out, ", ")
		}
		mode := coreir.ParamMode(coreir.ModeUnset)
		if i < len(fn.ParamModes) {
			mode = fn.ParamModes[i]
		}
		fmt.Fprintf(out, "%s %s /*%s*/", p.Name, p.Ty.String(), mode.String())
	}
	fmt.Fprintf(out, ") %s\n", fn.Ret.String())
	fmt.Fprintf(out, "  %d statements, throwing=%v\n", len(fn.Body), fn.Throwing)
}
