package domain

// Principal is the authenticated identity derived from a verified
// session artifact. It is attached to the request context by the
// session gate and never mutated afterwards.
type Principal struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Label returns the name shown in templates, falling back to the
// email address when the provider has no display name.
func (p Principal) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Email
}
