// Package tenancy resolves, per request, which tenant a caller may act on
// and carries that decision through the request as an immutable
// [RequestContext] value.
//
// # Architecture
//
// Three pieces cooperate:
//
//  1. Selectors extract an explicit tenant selection from the request
//     (header, query parameter, or a composite chain).
//  2. The [Resolver] turns (authenticated user, optional selection,
//     optional sticky selection, optional override request) into a
//     RequestContext, consulting the membership directory and the
//     admin-override gate.
//  3. [Middleware] orchestrates the two per request, stores the result in
//     the request context, and surfaces the decision back to the caller via
//     response headers.
//
// The resolution algorithm, in order: admin override (gate-authorized,
// per-request, never sticky), explicit selector (must match an active
// membership, otherwise the request fails), sticky previous selection
// (reused while still active), earliest joined membership as the fallback.
// A user with no active memberships cannot be resolved at all.
//
// # Usage
//
//	resolver := tenancy.NewResolver(directory, gate)
//	r.Use(tenancy.Middleware(resolver,
//		tenancy.WithPrincipal(principalFromSession),
//		tenancy.WithSelector(tenancy.NewHeaderSelector("")),
//		tenancy.WithStickySelection(readSticky, writeSticky),
//	))
//
//	r.Group(func(r chi.Router) {
//		r.Use(tenancy.RequireContext(nil))
//		r.Get("/sponsors", listSponsors)
//	})
//
//	func listSponsors(w http.ResponseWriter, r *http.Request) {
//		rc := tenancy.MustFromContext(r.Context())
//		if err := rc.RequireRole(role.Manager); err != nil {
//			...
//		}
//	}
//
// # Isolation contract
//
// The RequestContext is one of two enforcement layers. Application code
// checks it before privileged operations; the storage layer independently
// constrains every query to the context bound by the rls package. Neither
// layer trusts the other.
package tenancy
