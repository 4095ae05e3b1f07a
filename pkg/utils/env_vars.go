package utils

const (
	DefinitionsEnvVarName = "ENDPOINTS_DEFINITIONS"
	PackageEnvVarName     = "ENDPOINTS_PACKAGE"
	DebugEnvVarName       = "ENDPOINTS_DEBUG"
)
