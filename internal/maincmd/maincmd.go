// Package maincmd implements the matiria command-line tool: a thin
// mainer.Stdio-driven wrapper around the compiler pipeline. Cancellation
// is not supported: a run terminates the process with the exit code of
// whichever phase failed first.
package maincmd

import (
	"errors"
	"fmt"

	"github.com/mna/mainer"
)

const binName = "matiria"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <path>
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and runtime for the %[1]s programming language.

The <command> can be one of:
       tokenize                  Run the scanner and print the resulting
                                  tokens.
       parse                     Run the parser and print the resulting
                                  abstract syntax tree.
       resolve                   Run the parser and resolver and report
                                  any semantic errors.
       compile                   Run the full front end and print the
                                  disassembled bytecode.
       run                       Compile and execute the program,
                                  invoking its main function.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Exit codes: 0 success, 1 parse error, 2 semantic error, 3 runtime error.
`, binName)
)

// Cmd is the mainer.Cmd implementation for the matiria binary.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no command specified")
	}
	switch c.args[0] {
	case "tokenize", "parse", "resolve", "compile", "run":
	default:
		return fmt.Errorf("unknown command: %s", c.args[0])
	}
	if len(c.args[1:]) != 1 {
		return fmt.Errorf("%s: exactly one source file must be provided", c.args[0])
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	filename := c.args[1]

	var code mainer.ExitCode
	switch c.args[0] {
	case "tokenize":
		code = runTokenize(stdio, filename)
	case "parse":
		code = runParse(stdio, filename)
	case "resolve":
		code = runResolve(stdio, filename)
	case "compile":
		code = runCompileCmd(stdio, filename)
	case "run":
		code = runRun(stdio, filename)
	}
	return code
}
