package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/cssaudit/internal/cssaudit"
)

const defaultConfigPath = ".cssaudit.yaml"

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set)
	flags := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (CSSAUDIT_* prefix)
	if err := k.Load(env.Provider("CSSAUDIT_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a config key. A double underscore
// separates sections and a single underscore stands for a dash:
// CSSAUDIT_GATES__SCOPE_CLASS -> gates.scope-class
func envKey(s string) string {
	parts := strings.Split(strings.ToLower(strings.TrimPrefix(s, "CSSAUDIT_")), "__")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, "_", "-")
	}
	return strings.Join(parts, ".")
}

// stylesDir is the styles root shared by every command
func stylesDir() string {
	return getStringWithFallback("styles", "styles", "src/styles")
}

func buildGateConfig(logger *slog.Logger) cssaudit.GateConfig {
	return cssaudit.GateConfig{
		StylesDir:   stylesDir(),
		TokensDir:   getStringWithFallback("tokens-dir", "gates.tokens-dir", "tokens"),
		Allowlist:   getStringsWithFallback("allowlist", "gates.allowlist", cssaudit.DefaultTokenAllowlist),
		FeatureFile: getStringWithFallback("feature-file", "gates.feature-file", "features/configurator.css"),
		ScopeClass:  getStringWithFallback("scope-class", "gates.scope-class", cssaudit.DefaultScopeClass),
		SkipLeakage: getBoolWithFallback("skip-leakage", "gates.skip-leakage", false),
		Logger:      logger,
	}
}

func buildInlineStyleOptions(logger *slog.Logger) cssaudit.InlineStyleOptions {
	return cssaudit.InlineStyleOptions{
		Root:     getStringWithFallback("root", "inline-styles.root", "src"),
		Patterns: getStringsWithFallback("patterns", "inline-styles.patterns", cssaudit.DefaultInlinePatterns),
		Ignore:   getStringsWithFallback("ignore", "inline-styles.ignore", cssaudit.DefaultInlineIgnore),
		Logger:   logger,
	}
}

func buildWatchConfig(logger *slog.Logger) cssaudit.WatchConfig {
	return cssaudit.WatchConfig{
		Root:     stylesDir(),
		Debounce: getDurationWithFallback("debounce", "watch.debounce", cssaudit.DefaultDebounce),
		Logger:   logger,
	}
}

// reportPath resolves the report file of an audit section
func reportPath(section, defaultVal string) string {
	return getStringWithFallback("report", section+".report", defaultVal)
}

// outputFormat resolves --output-format for a section, validated against allowed
func outputFormat(section string, fallback cssaudit.OutputFormat, allowed ...cssaudit.OutputFormat) (cssaudit.OutputFormat, error) {
	value := getStringWithFallback("output-format", section+".output-format", "")
	return cssaudit.ParseOutputFormat(value, fallback, allowed...)
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getFloat64WithFallback checks the flag key first, then the config file key, then returns the default.
func getFloat64WithFallback(flagKey, configKey string, defaultVal float64) float64 {
	if k.Exists(flagKey) {
		return k.Float64(flagKey)
	}
	if k.Exists(configKey) {
		return k.Float64(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}
