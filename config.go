package cvf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Options configures a Transformer.
type Options struct {
	// Fallbacks is the ordered list of fallback source identifiers:
	// file paths or doublestar glob patterns, later sources overriding
	// earlier ones. Entries must be strings; anything else contributes
	// nothing and records a warning.
	Fallbacks []any

	// Dir is the directory relative identifiers resolve against when a
	// document has no path. Defaults to the working directory.
	Dir string

	// Prefix is prepended to variable names built from DTCG token
	// sources.
	Prefix string

	// GroupMarkers are DTCG group marker names forwarded to the token
	// parser.
	GroupMarkers []string

	// Warn, when set, receives each warning as it is recorded, in
	// addition to Result.Warnings.
	Warn func(error)
}

// configFileNames are tried in order under <root>/.config/.
var configFileNames = []string{
	"css-var-fallback.json",
	"css-var-fallback.yaml",
	"css-var-fallback.yml",
}

// LoadConfig reads options from the conventional configuration
// locations under rootPath: .config/css-var-fallback.{json,yaml,yml}
// first, then a cssVarFallback key in package.json. Returns nil if no
// configuration exists (not an error).
func LoadConfig(rootPath string) (*Options, error) {
	if rootPath == "" {
		return nil, nil
	}

	for _, name := range configFileNames {
		configMap, err := readConfigFile(filepath.Join(rootPath, ".config", name))
		if err != nil {
			return nil, err
		}
		if configMap != nil {
			return buildOptions(configMap), nil
		}
	}

	pkgJSON, err := readPackageJSONFile(rootPath)
	if err != nil {
		return nil, err
	}
	if pkgJSON != nil {
		configMap, err := extractConfigMap(pkgJSON)
		if err != nil {
			return nil, err
		}
		if configMap != nil {
			return buildOptions(configMap), nil
		}
	}

	return nil, nil
}

// LoadConfigFile reads options from one explicitly named configuration
// file. Unlike LoadConfig, a missing file is an error.
func LoadConfigFile(path string) (*Options, error) {
	configMap, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if configMap == nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return buildOptions(configMap), nil
}

// readConfigFile reads and parses one configuration file. Returns nil
// if the file doesn't exist.
func readConfigFile(path string) (map[string]any, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: reading workspace config - local trusted environment
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var configMap map[string]any
	switch filepath.Ext(path) {
	case ".json":
		// Parse as JSONC (allows comments)
		if err := json.Unmarshal(jsonc.ToJSON(data), &configMap); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &configMap); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}

	return configMap, nil
}

// readPackageJSONFile reads and parses package.json from rootPath.
// Returns nil if the file doesn't exist.
func readPackageJSONFile(rootPath string) (map[string]any, error) {
	packageJSONPath := filepath.Join(rootPath, "package.json")

	if _, err := os.Stat(packageJSONPath); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(packageJSONPath) //nolint:gosec // G304: reading workspace package.json - local trusted environment
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	// Parse as JSONC (allows comments)
	var pkgJSON map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkgJSON); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	return pkgJSON, nil
}

// extractConfigMap extracts the cssVarFallback configuration map from a
// parsed package.json. Returns nil if the key doesn't exist.
func extractConfigMap(pkgJSON map[string]any) (map[string]any, error) {
	raw, ok := pkgJSON["cssVarFallback"]
	if !ok {
		return nil, nil
	}

	configMap, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("cssVarFallback must be an object")
	}

	return configMap, nil
}

// buildOptions constructs Options from a parsed configuration map.
func buildOptions(configMap map[string]any) *Options {
	opts := &Options{}

	if prefix, ok := configMap["prefix"].(string); ok {
		opts.Prefix = prefix
	}
	if dir, ok := configMap["dir"].(string); ok {
		opts.Dir = dir
	}
	opts.GroupMarkers = parseStringList(configMap["groupMarkers"])
	opts.Fallbacks = normalizeFallbacks(configMap["fallbacks"])

	return opts
}

// parseStringList handles both []string and []any config values,
// returning nil if absent.
func parseStringList(value any) []string {
	switch v := value.(type) {
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

// normalizeFallbacks coerces the fallbacks option into list form: a
// single string wraps into a one-element list, a sequence passes
// through. Malformed values are kept as entries so processing degrades
// with a warning at use time instead of failing here.
func normalizeFallbacks(value any) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []any{v}
	case []any:
		return v
	case []string:
		out := make([]any, 0, len(v))
		for _, s := range v {
			out = append(out, s)
		}
		return out
	default:
		return []any{v}
	}
}
