package booking

import "github.com/BruksfildServices01/tour-booking/internal/models"

// Actor is the authenticated caller, passed into every operation.
type Actor struct {
	UserID uint
	Roles  []models.Role
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

func (a Actor) HasRole(role models.Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
