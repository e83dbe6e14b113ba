package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renderstatic/renderstatic/internal/engine"
	rserrors "github.com/renderstatic/renderstatic/internal/errors"
)

var renderCmd = &cobra.Command{
	Use:     "render [selectors...]",
	Aliases: []string{"r", "generate"},
	Short:   "Render templates to their configured destinations",
	Long: `Render the named templates to disk. Without arguments every template
named in the templates section of the configuration is rendered. A selector
does not need to appear in the configuration to be found and rendered; such
templates receive the global context.

Selectors may be exact template names, glob patterns, or directories:

  renderstatic render                         # everything configured
  renderstatic render app/urls.js             # one template
  renderstatic render "**/*.js"               # every javascript template
  renderstatic render config/ --dest ./build  # a whole directory, elsewhere

Narrowing switches control what happens when a selector matches templates in
several engines or loaders:

  --first-engine      only matches found by the first engine
  --first-loader      only matches from each engine's first matching loader
  --first-preference  only each loader's highest preference matches`,
	RunE: runRender,
}

var (
	renderDest            string
	renderContext         string
	renderFirstEngine     bool
	renderFirstLoader     bool
	renderFirstPreference bool
	renderKeepGoing       bool
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderDest, "dest", "d", "",
		"override the configured destination (a directory when several templates match)")
	renderCmd.Flags().StringVarP(&renderContext, "context", "c", "",
		"context file layered over configured contexts (json or yaml)")
	AddFlagValidation(renderCmd, "context", ValidateFileExists)
	renderCmd.Flags().BoolVar(&renderFirstEngine, "first-engine", false,
		"render only templates found by the first matching engine")
	renderCmd.Flags().BoolVar(&renderFirstLoader, "first-loader", false,
		"render only templates from the first matching loader")
	renderCmd.Flags().BoolVar(&renderFirstPreference, "first-preference", false,
		"render only each loader's highest preference templates")
	renderCmd.Flags().BoolVar(&renderKeepGoing, "keep-going", false,
		"render remaining selectors after a failure and report all errors at the end")
}

func runRender(cmd *cobra.Command, args []string) error {
	eng, _, logger, err := buildEngine()
	if err != nil {
		return err
	}

	selectors := args
	if len(selectors) == 0 {
		selectors = eng.ConfiguredSelectors()
	}
	if len(selectors) == 0 {
		cmd.PrintErrln("No templates selected for generation.")
		return nil
	}

	opts := engine.Options{
		Dest:            renderDest,
		FirstEngine:     renderFirstEngine,
		FirstLoader:     renderFirstLoader,
		FirstPreference: renderFirstPreference,
	}
	if renderContext != "" {
		opts.Context = renderContext
	}

	ctx := cmd.Context()
	if !renderKeepGoing {
		renders, err := eng.RenderEach(ctx, selectors, opts)
		for _, render := range renders {
			cmd.Printf("Rendered %s\n", render)
		}
		if err != nil {
			return fmt.Errorf("error rendering templates: %w", err)
		}
		return nil
	}

	collector := rserrors.NewErrorCollector()
	for _, selector := range selectors {
		renders, err := eng.RenderToDisk(ctx, selector, opts)
		for _, render := range renders {
			cmd.Printf("Rendered %s\n", render)
		}
		if err != nil {
			logger.Error(ctx, err, "render failed", "selector", selector)
			collector.Add(rserrors.RenderError{
				Template: selector,
				Message:  err.Error(),
				Severity: rserrors.ErrorSeverityError,
				Err:      err,
			})
		}
	}
	if collector.HasErrors() {
		return fmt.Errorf("some templates failed to render:\n%s", collector.Summary())
	}
	return nil
}
