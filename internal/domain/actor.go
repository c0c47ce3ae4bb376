package domain

import "github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/auth"

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID      int64
	Email       string
	Name        string
	Role        string
	CompanyID   int64
	CompanyName string
}

func ActorFromClaims(c *auth.Claims) Actor {
	return Actor{
		UserID:      c.Sub,
		Email:       c.Email,
		Name:        c.Name,
		Role:        c.Role,
		CompanyID:   c.CompanyID,
		CompanyName: c.CompanyName,
	}
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Scope limits reads: admins see the whole company, hosts only their own rows.
func (a Actor) Scope() VisitScope {
	if a.IsAdmin() {
		return VisitScope{CompanyID: a.CompanyID}
	}
	return VisitScope{CompanyID: a.CompanyID, HostID: a.UserID}
}
