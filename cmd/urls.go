package cmd

import (
	"fmt"
	"os"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
)

var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Emit the URL reversal JavaScript",
	Long: `Translate the configured route manifest directly into client-side
JavaScript reversal code, without going through a template. Useful for
piping into a bundler step or inspecting what urls_to_js would produce.

Examples:
  renderstatic urls                               # class writer to stdout
  renderstatic urls --writer simple --es5
  renderstatic urls --include blog --out urls.js
  renderstatic urls --class-name Router`,
	RunE: runURLs,
}

var (
	urlsWriter    string
	urlsES5       bool
	urlsIndent    string
	urlsDepth     int
	urlsInclude   []string
	urlsExclude   []string
	urlsClassName string
	urlsOut       string
)

func init() {
	rootCmd.AddCommand(urlsCmd)

	urlsCmd.Flags().StringVarP(&urlsWriter, "writer", "w", "class", "writer style (class, simple)")
	AddFlagValidation(urlsCmd, "writer", ValidateChoice("class", "simple"))
	urlsCmd.Flags().BoolVar(&urlsES5, "es5", false, "emit legacy ES5 JavaScript")
	urlsCmd.Flags().StringVar(&urlsIndent, "indent", "\t", "indent sequence (empty for single line output)")
	urlsCmd.Flags().IntVar(&urlsDepth, "depth", 0, "starting indentation depth")
	urlsCmd.Flags().StringSliceVar(&urlsInclude, "include", nil, "qualified names to include (namespaces cover everything beneath)")
	urlsCmd.Flags().StringSliceVar(&urlsExclude, "exclude", nil, "qualified names to exclude")
	urlsCmd.Flags().StringVar(&urlsClassName, "class-name", "", "override the generated class name")
	urlsCmd.Flags().StringVarP(&urlsOut, "out", "o", "", "write to a file instead of stdout")
}

func runURLs(cmd *cobra.Command, args []string) error {
	eng, _, _, err := buildEngine()
	if err != nil {
		return err
	}
	if eng.URLConf() == nil {
		return fmt.Errorf("no url manifest configured: set urls.manifest in .renderstatic.yml")
	}

	options := map[string]any{
		"indent": urlsIndent,
		"depth":  urlsDepth,
		"es5":    urlsES5,
	}
	if len(urlsInclude) > 0 {
		options["include"] = urlsInclude
	}
	if len(urlsExclude) > 0 {
		options["exclude"] = urlsExclude
	}
	if urlsClassName != "" {
		options["class_name"] = urlsClassName
	}

	script, err := eng.URLJS(urlsWriter, options)
	if err != nil {
		return err
	}

	if urlsOut == "" {
		cmd.Print(script)
		return nil
	}
	if err := renameio.WriteFile(urlsOut, []byte(script), os.FileMode(0o644)); err != nil {
		return fmt.Errorf("write %s: %w", urlsOut, err)
	}
	cmd.Printf("Wrote %s\n", urlsOut)
	return nil
}
