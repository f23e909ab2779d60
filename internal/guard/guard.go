// Package guard decides whether the current session may enter a view.
// It is advisory routing for the shell only; the server enforces every
// authorization rule independently on each call.
package guard

import "libris/internal/domain"

// Route identifies a navigable view in the shell
type Route string

const (
	RouteLogin       Route = "login"
	RouteCatalog     Route = "catalog"
	RouteStudentHome Route = "dashboard"
	RouteMyLoans     Route = "my-loans"
	RouteProfile     Route = "profile"
	RouteAdminHome   Route = "admin"
	RouteAdminLoans  Route = "admin/loans"
	RouteAdminUsers  Route = "admin/users"
	RouteAdminBooks  Route = "admin/books"
)

// Session is the read surface the guard needs from the session store
type Session interface {
	IsAuthenticated() bool
	Role() domain.Role
}

// Decision is the outcome of a guard check. When entry is denied, Redirect
// names where to send the user instead; for a login redirect, ReturnTo
// carries the originally intended destination.
type Decision struct {
	Allowed  bool
	Redirect Route
	ReturnTo Route
	Reason   string
}

// Home returns the landing route for a role
func Home(role domain.Role) Route {
	if role == domain.RoleAdmin {
		return RouteAdminHome
	}
	return RouteStudentHome
}

// Check decides whether the session may enter target, which is restricted
// to the given roles. Pure: same session and roles, same decision.
func Check(sess Session, target Route, allowed ...domain.Role) Decision {
	if !sess.IsAuthenticated() {
		return Decision{
			Redirect: RouteLogin,
			ReturnTo: target,
			Reason:   "sign in to continue",
		}
	}

	role := sess.Role()
	for _, r := range allowed {
		if r == role {
			return Decision{Allowed: true}
		}
	}

	return Decision{
		Redirect: Home(role),
		Reason:   "that page is not available for your account",
	}
}
