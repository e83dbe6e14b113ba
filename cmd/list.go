package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List all selectable templates",
	Long: `List every template the configured engines can select, with the engine
that would render it and its configured destination, if any. Configured
template names no loader can find are listed too, so typos in the templates
section are visible.

Examples:
  renderstatic list               # table format
  renderstatic list -f json       # output as JSON
  renderstatic list --format yaml # output as YAML`,
	RunE: runList,
}

var listFormat string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format (table, json, yaml)")
	AddFlagValidation(listCmd, "format", ValidateChoice("table", "json", "yaml"))
}

func runList(cmd *cobra.Command, args []string) error {
	eng, _, _, err := buildEngine()
	if err != nil {
		return err
	}

	infos := eng.ListTemplates()

	switch strings.ToLower(listFormat) {
	case "json":
		encoded, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(encoded))
	case "yaml":
		encoded, err := yaml.Marshal(infos)
		if err != nil {
			return err
		}
		cmd.Print(string(encoded))
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tENGINE\tCONFIGURED\tDEST")
		for _, info := range infos {
			engineName := info.Engine
			if engineName == "" {
				engineName = "-"
			}
			dest := info.Dest
			if dest == "" {
				dest = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", info.Name, engineName, info.Configured, dest)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q (expected table, json or yaml)", listFormat)
	}
	return nil
}
