package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/commentdex/commentdex/internal/schema"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping [version]",
	Short: "Print the index mapping for a backend version",
	Long: `Prints the JSON mapping artifact the comment index must be created
with. Without a version argument the default mapping is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMapping,
}

func init() {
	rootCmd.AddCommand(mappingCmd)
}

func runMapping(cmd *cobra.Command, args []string) error {
	version := ""
	if len(args) == 1 {
		version = args[0]
	}

	raw, err := schema.Mapping(version)
	if err != nil {
		return fmt.Errorf("%w (known versions: %s)", err, strings.Join(schema.Versions(), ", "))
	}

	cmd.Println(string(raw))
	return nil
}
