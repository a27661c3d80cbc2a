package domain

// Credentials is the access/refresh token pair issued at login or refresh.
// It is owned by the credential store: written on login/refresh, read on every
// outgoing request, erased on logout.
type Credentials struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// UserProfile is the canonical profile shape the rest of the system works
// with, regardless of which variant the backend returned. A profile is either
// fully absent or fully populated; it is replaced as a whole, never patched.
type UserProfile struct {
	ID          int      `json:"id"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	IsActive    bool     `json:"is_active"`
	Groups      []string `json:"groups"`
	Permissions []string `json:"user_permissions"`
}

// HasGroup reports whether the profile carries the given group label.
func (p *UserProfile) HasGroup(group string) bool {
	for _, g := range p.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// HasPermission reports whether the profile carries the given permission.
func (p *UserProfile) HasPermission(permission string) bool {
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

// SessionDetails is a point-in-time snapshot collected at login for audit
// purposes. Write-once; sent to the backend best-effort.
type SessionDetails struct {
	IP        string   `json:"ip" validate:"required"`
	LoginAt   string   `json:"login_at" validate:"required"`
	Country   *string  `json:"country"`
	Region    *string  `json:"region"`
	City      *string  `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	UserAgent string   `json:"user_agent" validate:"required"`
	Browser   string   `json:"browser"`
	OS        string   `json:"os"`
	Device    string   `json:"device"`
}

// PlacementGroup is the staff-level group gating access to the portal.
const PlacementGroup = "placement"
