package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Scaffold a renderstatic project",
	Long: `Create a starter .renderstatic.yml, a static_templates directory with an
example urls.js template, and a routes.yml url manifest in the current
directory (or a new directory when a name is given).

Examples:
  renderstatic init               # scaffold in the current directory
  renderstatic init mysite        # scaffold in ./mysite`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
}

const initConfigTemplate = `# %s renderstatic configuration
engines:
  - backend: text
    dirs:
      - static_templates

static_root: static

urls:
  manifest: routes.yml

context:
  project: %s

templates:
  urls.js: {}
`

const initURLTemplate = `const urls = (() => {
{{ urls_to_js "class" (dict "indent" "  " "depth" 1) }}
  return new URLResolver();
})();
`

const initManifest = `app: %s
urls:
  - path: ""
    name: index
  - path: about/
    name: about
`

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	name := "project"
	if len(args) == 1 {
		dir = args[0]
		name = filepath.Base(args[0])
	} else if wd, err := os.Getwd(); err == nil {
		name = filepath.Base(wd)
	}
	title := cases.Title(language.English).String(name)

	files := []struct {
		path    string
		content string
	}{
		{".renderstatic.yml", fmt.Sprintf(initConfigTemplate, title, name)},
		{"routes.yml", fmt.Sprintf(initManifest, name)},
		{"static_templates/urls.js", initURLTemplate},
	}

	for _, file := range files {
		path, content := file.path, file.content
		full := filepath.Join(dir, path)
		if !initForce {
			if _, err := os.Stat(full); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", full)
			}
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return err
		}
		cmd.Printf("Created %s\n", full)
	}

	cmd.Printf("\n%s is ready. Try:\n  renderstatic render\n", title)
	return nil
}
