package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// RepoLayout represents how the specification repository is organized
type RepoLayout string

const (
	// RepoLayoutGeneric covers repositories with specs anywhere in the tree
	RepoLayoutGeneric RepoLayout = "generic"

	// RepoLayoutAzure covers azure-rest-api-specs style trees
	// (specification/<service>/resource-manager/...)
	RepoLayoutAzure RepoLayout = "azure"

	// RepoLayoutFlat covers repositories with a single top-level spec directory
	RepoLayoutFlat RepoLayout = "flat"
)

// Strictness represents how much of the triaged output is surfaced
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// LayoutPreset holds file selection presets for a repository layout
type LayoutPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// GetLayoutPresets returns presets for the supported repository layouts
func GetLayoutPresets() map[RepoLayout]LayoutPreset {
	return map[RepoLayout]LayoutPreset{
		RepoLayoutGeneric: {
			IncludePatterns: []string{"*.json", "*.yaml", "*.yml"},
			ExcludePatterns: []string{"**/examples/**", "node_modules", ".git"},
		},
		RepoLayoutAzure: {
			IncludePatterns: []string{"specification/**/*.json"},
			ExcludePatterns: []string{
				"**/examples/**",
				"**/quickstart-templates/**",
				"**/SDKAutomation/**",
				"node_modules",
				".git",
			},
		},
		RepoLayoutFlat: {
			IncludePatterns: []string{"specs/*.json", "specs/*.yaml"},
			ExcludePatterns: []string{"node_modules", ".git"},
		},
	}
}

// GetStrictnessPresets returns the minimum rendered severity per
// strictness level. Gating is unaffected: errors always fail the run
// and warnings never do.
func GetStrictnessPresets() map[Strictness]string {
	return map[Strictness]string{
		StrictnessRelaxed:  "error",
		StrictnessStandard: "warning",
		StrictnessStrict:   "info",
	}
}

// GetFullConfigTemplate returns the documented YAML config template
func GetFullConfigTemplate(layout RepoLayout, strictness Strictness) string {
	preset, ok := GetLayoutPresets()[layout]
	if !ok {
		preset = GetLayoutPresets()[RepoLayoutGeneric]
	}
	minSeverity, ok := GetStrictnessPresets()[strictness]
	if !ok {
		minSeverity = GetStrictnessPresets()[StrictnessStandard]
	}

	return `# specgate configuration
# Documentation: https://github.com/apispec-tools/specgate

# ==============================================================================
# EXTERNAL TOOLS
# ==============================================================================
# Command lines for the validation tools. {file} is replaced with the
# changed specification file; {before} (diff tool only) with the copy of
# the file taken from the target branch.
tools:
  linter:
    command: autorest
    args: ["--validation", "--message-format=json", "{file}"]
  diff:
    command: oad
    args: ["compare", "--old", "{before}", "--new", "{file}", "--json"]
  validator:
    command: oav
    args: ["validate-example", "{file}", "--pretty=false"]

# ==============================================================================
# SOURCE CONTROL
# ==============================================================================
git:
  # Branch the pull request targets; also the reference state for
  # before/after comparison runs.
  target_branch: main

# ==============================================================================
# FILE SELECTION
# ==============================================================================
# Controls which changed files are treated as specification files.
analysis:
  include_patterns: ` + flowList(preset.IncludePatterns) + `
  exclude_patterns: ` + flowList(preset.ExcludePatterns) + `

# ==============================================================================
# PERFORMANCE
# ==============================================================================
performance:
  # Concurrent per-file tool invocations (0 = default)
  max_goroutines: 4
  # Timeout for one whole tool pass, in seconds
  timeout_seconds: 300

# ==============================================================================
# OUTPUT
# ==============================================================================
output:
  # text, json or markdown (markdown is PR-comment friendly)
  format: text
  # Minimum severity to render: info, warning, error
  min_severity: ` + minSeverity + `
  # Render per-finding locations
  show_details: true
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# specgate configuration (minimal)
# See full options: https://github.com/apispec-tools/specgate

git:
  target_branch: main

analysis:
  include_patterns: ["*.json", "*.yaml", "*.yml"]
  exclude_patterns: ["**/examples/**"]

output:
  format: text
`
}

// flowList renders a string slice as a YAML flow sequence
func flowList(items []string) string {
	out, err := yaml.Marshal(items)
	if err != nil || len(items) == 0 {
		return "[]"
	}
	// yaml.Marshal emits a block sequence; fold it into flow style so the
	// template stays one line per key.
	var quoted []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		item := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		quoted = append(quoted, `"`+strings.Trim(item, `"'`)+`"`)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
