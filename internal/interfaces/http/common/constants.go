package common

const (
	// MaxRecordRequestBody limits JSON request bodies for the create-record endpoint.
	MaxRecordRequestBody = 1 << 20
)
