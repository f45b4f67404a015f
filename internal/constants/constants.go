package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "specgate"

	// ConfigFileName is the default config file name
	ConfigFileName = "specgate.yaml"

	// EnvVarPrefix is the prefix for environment variables
	// (e.g. SPECGATE_GIT_TARGET_BRANCH)
	EnvVarPrefix = "SPECGATE"
)

// Flow name constants
const (
	FlowLint     = "lint"
	FlowValidate = "validate"
	FlowBreaking = "breaking"
)

// Placeholder constants substituted into tool command lines
const (
	PlaceholderFile   = "{file}"
	PlaceholderBefore = "{before}"
)
