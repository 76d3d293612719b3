package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/erlfang/internal/config"
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/erlang"
	"github.com/Sumatoshi-tech/erlfang/pkg/peg"
)

// ErrRejected is returned when the grammar does not recognize the file.
var ErrRejected = errors.New("file rejected by the grammar")

// ErrUnsupportedFormat is returned for an unknown --format value.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseCommand holds flags of the parse command.
type ParseCommand struct {
	format     string
	diagnostic bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	pc := &ParseCommand{}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the syntax tree of an Erlang file",
		Long: `Parse prints the syntax tree of one file, or the recognition failure when the
grammar rejects it. With --diagnostic the failure includes the rule stack.`,
		Args: cobra.ExactArgs(1),
		RunE: pc.run,

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Flags().StringVar(&pc.format, "format", config.FormatText, "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&pc.diagnostic, "diagnostic", false, "Use the tracing parser")

	return cmd
}

func (pc *ParseCommand) run(cmd *cobra.Command, args []string) error {
	path := args[0]

	switch pc.format {
	case config.FormatText, config.FormatJSON, config.FormatYAML:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, pc.format)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	parser, diagnostic := erlang.MustParsers()
	if pc.diagnostic {
		parser = diagnostic
	}

	tree, err := parser.Parse(path, src)
	if err != nil {
		var rerr *peg.RecognitionError
		if errors.As(err, &rerr) {
			if pc.diagnostic {
				fmt.Fprintln(cmd.ErrOrStderr(), rerr.ExtendedMessage())
			}

			return fmt.Errorf("%w: %w", ErrRejected, rerr)
		}

		return err
	}

	return writeTree(cmd.OutOrStdout(), tree, pc.format)
}

func writeTree(w io.Writer, tree *ast.Tree, format string) error {
	root := tree.Root()

	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(tree.ToMap(root))
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(tree.ToMap(root)); err != nil {
			return fmt.Errorf("encode yaml tree: %w", err)
		}

		return enc.Close()
	default:
		return tree.Dump(w, root)
	}
}
