// Package rbac implements the two-role ownership policy shared by every resource.
// Admins see everything, users only rows they own.
package rbac

import (
	"github.com/medbill/medbill/internal/shared"
)

// Predicate restricts a query to the rows an actor may see.
type Predicate struct {
	// Expr is a SQL condition with a single "$?" placeholder, empty when unrestricted.
	Expr    string
	OwnerID int64
}

// Unrestricted reports whether the predicate filters nothing.
func (p Predicate) Unrestricted() bool { return p.Expr == "" }

// Matches evaluates the predicate against an owner id.
func (p Predicate) Matches(ownerID int64) bool {
	return p.Unrestricted() || p.OwnerID == ownerID
}

// Scope returns the owner predicate for actor over ownerColumn.
func Scope(actor shared.Actor, ownerColumn string) Predicate {
	if actor.IsAdmin() {
		return Predicate{}
	}
	return Predicate{Expr: ownerColumn + " = $?", OwnerID: actor.ID}
}

// CanAccess reports whether actor may read or mutate a resource owned by ownerID.
func CanAccess(actor shared.Actor, ownerID int64) bool {
	return actor.IsAdmin() || (actor.ID != 0 && actor.ID == ownerID)
}

// Authorize returns a forbidden error when actor may not touch the resource.
func Authorize(actor shared.Actor, ownerID int64) error {
	if !CanAccess(actor, ownerID) {
		return shared.NewError(shared.ErrForbidden, "Access denied!")
	}
	return nil
}

// RequireActor returns the actor or an unauthorized error when it is missing.
func RequireActor(actor shared.Actor) error {
	if actor.ID == 0 || !actor.Role.Valid() {
		return shared.NewError(shared.ErrUnauthorized, "Access denied!")
	}
	return nil
}
