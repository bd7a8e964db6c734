package service

import "github.com/iliyamo/office-seat-reservation/internal/model"

// Capability names what an operation needs from its caller.
type Capability int

const (
	CapAuthenticated Capability = iota
	CapAdmin
)

// DenyReason explains a negative Decision.
type DenyReason string

const (
	DenyUnauthenticated DenyReason = "please log in to continue"
	DenyNotAdmin        DenyReason = "administrator access required"
)

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Err returns nil for an allowed decision and ErrNotAuthorized otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return ErrNotAuthorized
}

// Authorize decides whether p holds capability c.  A nil principal is an
// anonymous caller.
func Authorize(p *model.Principal, c Capability) Decision {
	if p == nil {
		return Decision{Reason: DenyUnauthenticated}
	}
	if c == CapAdmin && !p.IsAdmin() {
		return Decision{Reason: DenyNotAdmin}
	}
	return Decision{Allowed: true}
}

// CanManage reports whether p may cancel or modify r: the owner or any
// admin.
func CanManage(p *model.Principal, r *model.Reservation) bool {
	if p == nil || r == nil {
		return false
	}
	return p.IsAdmin() || p.UserID == r.UserID
}
