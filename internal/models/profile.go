package models

// Profile defines which runtime surface a deployment starts.
type Profile struct {
	Name       string
	Lambda     bool
	HTTPServer bool
}

// NeedsInvokerSecret returns true if the profile exposes the bridge over HTTP,
// which must authenticate its callers.
func (p Profile) NeedsInvokerSecret() bool {
	return p.HTTPServer
}
