package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renderstatic/renderstatic/internal/version"
)

var versionFormat string

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for renderstatic including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  renderstatic version               # Show version
  renderstatic version --format json # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	AddFlagValidation(versionCmd, "format", ValidateChoice("text", "json"))
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	info := version.GetBuildInfo()

	switch versionFormat {
	case "json":
		encoded, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(encoded))
		return nil
	case "text":
		cmd.Printf("renderstatic %s\n", info.Version)
		cmd.Printf("  commit:   %s\n", info.GitCommit)
		cmd.Printf("  built:    %s\n", info.BuildTime)
		cmd.Printf("  go:       %s\n", info.GoVersion)
		cmd.Printf("  platform: %s\n", info.Platform)
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", versionFormat)
	}
}
