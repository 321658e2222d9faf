package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	translateuc "github.com/commentdex/commentdex/internal/usecase/translate"
)

var translatePretty bool

var translateCmd = &cobra.Command{
	Use:   "translate [file]",
	Short: "Translate query arguments into a search request",
	Long: `Reads a JSON object of flat query arguments from a file or stdin and
prints the compiled search engine request. An empty input compiles to a
match-all request.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().BoolVar(&translatePretty, "pretty", false, "indent the output")
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	params := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return fmt.Errorf("parse input: %w", err)
		}
	}

	svc := translateuc.New(newCompiler(loadOrDefaultConfig()))
	query := svc.Translate(cmd.Context(), params)

	enc := json.NewEncoder(cmd.OutOrStdout())
	if translatePretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(query); err != nil {
		return fmt.Errorf("encode query: %w", err)
	}
	return nil
}
