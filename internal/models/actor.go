package models

// Global capability names honored by the permission resolver
const (
	CapabilityAdmin          = "admin"
	CapabilityViewParameters = "view_parameters"
)

// ActorContext identifies the authenticated user behind a request together
// with the global capabilities resolved by the upstream auth layer. It is
// passed explicitly into every operation; there is no ambient session state.
type ActorContext struct {
	UserID       int64    `json:"userId"`
	Capabilities []string `json:"capabilities"`
}

// HasCapability reports whether the actor holds the named global capability.
func (a ActorContext) HasCapability(name string) bool {
	for _, c := range a.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the actor holds the administrative capability.
func (a ActorContext) IsAdmin() bool {
	return a.HasCapability(CapabilityAdmin)
}

// RequestMeta carries per-request client details recorded in the audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
