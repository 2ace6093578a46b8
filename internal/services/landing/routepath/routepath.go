// Package routepath stores canonical HTTP paths for the landing service.
package routepath

const (
	Root         = "/"
	RootExact    = "/{$}"
	Calendar     = "/book/calendar"
	Health       = "/up"
	StaticPrefix = "/static/"
)
