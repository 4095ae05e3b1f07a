package utils

const (
	// PathVarFormat renders a variable name as a gorilla/mux path variable
	PathVarFormat = "{%s}"
)
