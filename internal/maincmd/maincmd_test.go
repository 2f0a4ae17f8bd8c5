package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/mna/matiria/internal/maincmd"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.mat")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func runCmd(t *testing.T, args ...string) (mainer.ExitCode, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	c := maincmd.Cmd{BuildVersion: "test", BuildDate: "test"}
	code := c.Main(append([]string{"matiria"}, args...), stdio)
	return code, out.String(), errOut.String()
}

func TestRunSucceedsOnValidProgram(t *testing.T) {
	path := writeSource(t, `fn main() -> Int { return 41 + 1; }`)
	code, _, errOut := runCmd(t, "run", path)
	require.Equal(t, mainer.Success, code)
	require.Empty(t, errOut)
}

func TestRunReportsParseErrorExitCode(t *testing.T) {
	path := writeSource(t, `fn main() -> Int { return 1 + ; }`)
	code, _, errOut := runCmd(t, "run", path)
	require.Equal(t, mainer.ExitCode(1), code)
	require.NotEmpty(t, errOut)
}

func TestRunReportsSemanticErrorExitCode(t *testing.T) {
	path := writeSource(t, `fn main() -> Int { return 'not an int'; }`)
	code, _, errOut := runCmd(t, "run", path)
	require.Equal(t, mainer.ExitCode(2), code)
	require.NotEmpty(t, errOut)
}

func TestRunReportsRuntimeErrorExitCode(t *testing.T) {
	path := writeSource(t, `fn main() -> Int { Int z := 0; return 1 / z; }`)
	code, _, errOut := runCmd(t, "run", path)
	require.Equal(t, mainer.ExitCode(3), code)
	require.NotEmpty(t, errOut)
}

func TestTokenizeListsTokens(t *testing.T) {
	path := writeSource(t, `fn main() -> Int { return 1; }`)
	code, out, _ := runCmd(t, "tokenize", path)
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "int literal")
}

func TestCompileDisassemblesFunctions(t *testing.T) {
	path := writeSource(t, `fn main() -> Int { return 1; }`)
	code, out, _ := runCmd(t, "compile", path)
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "-- main --")
}

func TestHelpFlagPrintsUsage(t *testing.T) {
	code, out, _ := runCmd(t, "-h")
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "usage:")
}
