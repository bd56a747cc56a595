package handlers

const (
	forwardedProtoHTTPS = "https"

	// Artwork list query parameters
	queryText     = "query"
	queryCategory = "category"
	queryYear     = "year"
	queryStatus   = "status_f"
	querySort     = "sort"

	contentTypeJSON = "application/json"

	invalidCredentialsMsg = "Invalid credentials"
	internalErrorMsg      = "Internal server error"
)
