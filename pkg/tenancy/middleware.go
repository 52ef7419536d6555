package tenancy

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultOverrideHeader requests the global admin-override scope.
	// It must be sent on every request; the grant is never sticky.
	DefaultOverrideHeader = "X-Admin-Override"

	// ResolvedTenantHeader surfaces the resolution result to the caller.
	// Transparency only, never a trust boundary.
	ResolvedTenantHeader = "X-Resolved-Tenant"

	// ResolvedOverrideHeader surfaces the override state to the caller.
	ResolvedOverrideHeader = "X-Admin-Override"
)

// Middleware resolves the tenant context for every request and stores the
// resulting RequestContext in the request's context. Requests without an
// authenticated principal pass through unresolved; mount RequireContext
// behind it for routes that must be tenant-scoped.
func Middleware(resolver *Resolver, opts ...Option) func(http.Handler) http.Handler {
	cfg := &mwConfig{
		selector:       NewCompositeSelector(NewHeaderSelector(""), NewQuerySelector("")),
		errorHandler:   defaultErrorHandler,
		overrideHeader: DefaultOverrideHeader,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if cfg.principal == nil {
				next.ServeHTTP(w, r)
				return
			}
			userID, ok := cfg.principal(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			selector, err := cfg.selector(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			req := ResolveRequest{
				UserID:        userID,
				Selector:      selector,
				AdminOverride: strings.EqualFold(r.Header.Get(cfg.overrideHeader), "true"),
			}
			if cfg.stickyReader != nil {
				req.Sticky = cfg.stickyReader(r)
			}

			rc, err := resolver.Resolve(r.Context(), req)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			if rc.IsAdminOverride() {
				w.Header().Set(ResolvedOverrideHeader, "true")
			} else {
				w.Header().Set(ResolvedTenantHeader, rc.TenantID().String())
				// Sticky selection records only the tenant choice. The
				// override grant above deliberately leaves it untouched.
				if cfg.stickyWriter != nil {
					cfg.stickyWriter(r, rc.TenantID())
				}
			}

			ctx := WithRequestContext(r.Context(), rc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireContext guards routes that must run with a resolved tenant context.
func RequireContext(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc, ok := FromContext(r.Context())
			if !ok || !rc.State().Terminal() {
				errorHandler(w, r, ErrNoRequestContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromHeader extracts the user id from a trusted header, as set by
// an authenticating reverse proxy. Deployments with in-process auth plug in
// their own PrincipalFunc instead.
func PrincipalFromHeader(name string) PrincipalFunc {
	return func(r *http.Request) (uuid.UUID, bool) {
		id, err := uuid.Parse(r.Header.Get(name))
		if err != nil {
			return uuid.Nil, false
		}
		return id, true
	}
}
