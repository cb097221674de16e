// Command astroc compiles one parsed component document, serialized as
// JSON by the upstream parser, into its render-code record.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"astroc-go/packages/compiler"
	"astroc-go/packages/compiler/ast"
	"astroc-go/packages/compiler/codegen"
)

var (
	flagFilename    string
	flagProjectRoot string
	flagAstroRoot   string
	flagCDN         string
	flagPretty      bool
	flagVerbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "astroc",
		Short:         "Compile parsed component documents into render code",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	compileCmd := &cobra.Command{
		Use:   "compile <document.json>",
		Short: "Compile one serialized document and print the result record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), args[0], os.Stdout)
		},
	}
	compileCmd.Flags().StringVar(&flagFilename, "filename", "", "source filename of the document (defaults to the input path)")
	compileCmd.Flags().StringVar(&flagProjectRoot, "project-root", "", "project root for content resolution and diagnostics")
	compileCmd.Flags().StringVar(&flagAstroRoot, "astro-root", "", "root for computing public component asset URLs")
	compileCmd.Flags().StringVar(&flagCDN, "cdn", "https://cdn.skypack.dev", "base URL for resolving runtime packages")
	compileCmd.Flags().BoolVar(&flagPretty, "pretty", false, "indent the JSON output")
	compileCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print compile warnings to stderr")
	rootCmd.AddCommand(compileCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "astroc: %v\n", err)
		os.Exit(1)
	}
}

func runCompile(ctx context.Context, inputPath string, out io.Writer) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	doc, err := ast.DecodeDocument(data)
	if err != nil {
		return err
	}

	opts := compiler.Options{
		Filename:          flagFilename,
		ProjectRoot:       flagProjectRoot,
		AstroRoot:         flagAstroRoot,
		CompileExpression: codegen.IdentityExpressionCompiler(),
		ResolvePackageURL: func(_ context.Context, name string) (string, error) {
			return flagCDN + "/" + name, nil
		},
	}
	if opts.Filename == "" {
		opts.Filename = inputPath
	}
	if flagVerbose {
		opts.Log = funcr.New(func(prefix, args string) {
			fmt.Fprintln(os.Stderr, prefix, args)
		}, funcr.Options{})
	}

	result, err := compiler.Compile(ctx, doc, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	if flagPretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}
