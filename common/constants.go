package common

const (
	// AppName is the name of the application
	AppName = "casanova"

	// ServiceName is reported by the health endpoints
	ServiceName = "casanova-expat-info"
)
