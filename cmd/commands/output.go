package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func outputFormat(cmd *cli.Command) string {
	return cmd.String("output")
}

// stdout returns the writer commands print to.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// printStructured writes v as JSON or YAML according to --output and
// reports whether it did. For text output the caller renders v itself.
func printStructured(cmd *cli.Command, v any) (bool, error) {
	w := stdout(cmd)
	switch outputFormat(cmd) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		// go through JSON so YAML keys match the API field names
		data, err := json.Marshal(v)
		if err != nil {
			return true, fmt.Errorf("encode output: %w", err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return true, fmt.Errorf("encode output: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(generic)
	default:
		return false, nil
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printBanner(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	if !isTerminal(w) {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔═══════════════════════════════════════════╗")
	fmt.Fprintln(w, "║                                           ║")
	fmt.Fprintln(w, "║  ATHENA AGENT                             ║")
	fmt.Fprintln(w, "║  Intelligent Multi-Agent Orchestration    ║")
	fmt.Fprintln(w, "║                                           ║")
	fmt.Fprintln(w, "╚═══════════════════════════════════════════╝")
	fmt.Fprintln(w)
}
