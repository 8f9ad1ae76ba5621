package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .cssaudit.yaml config file",
	Long:  `Create a .cssaudit.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigPath)
		}

		if err := os.WriteFile(defaultConfigPath, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", defaultConfigPath)
		return nil
	},
}

const defaultConfig = `# cssaudit configuration
# Environment overrides: CSSAUDIT_STYLES, CSSAUDIT_GATES__SCOPE_CLASS, ...

# Shared settings
styles: src/styles
verbose: false
color: false

# Architecture gates
gates:
  tokens-dir: tokens
  feature-file: features/configurator.css
  scope-class: .configurator-page
  skip-leakage: false      # true when there is no feature stylesheet
  output-format: text      # text | issues | json
  max-issues-per-linter: 0 # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited
  allowlist:
    - --animation-delay
    - --hs-tab-bg
    - --hs-wave-transform
    - --parallax-translate
    - --x
    - --y

specificity:
  report: SPECIFICITY_AUDIT_REPORT.md
  utilities-dir: utilities

important:
  report: IMPORTANT_AUDIT_REPORT.md
  utilities-dir: utilities

media:
  report: MEDIA_QUERY_AUDIT_REPORT.md
  breakpoints-file: tokens/spacing.css

inline-styles:
  root: src
  report: INLINE_STYLES_AUDIT_REPORT.md
  patterns:
    - "**/*.tsx"
    - "**/*.jsx"
  ignore:
    - "**/node_modules/**"
    - "**/dist/**"
    - "**/*.test.tsx"
    - "**/*.spec.tsx"

# Bundle metrics (baseline / compare)
metrics:
  baseline: src/test/css-utils/baseline-metrics.json
  min-reduction: 0         # 0 = never fail
  textfile: ""             # Prometheus textfile output

watch:
  debounce: 200ms
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
