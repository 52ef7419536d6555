package tenancy

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Selector extracts an explicit tenant selection from an HTTP request.
// Returns uuid.Nil when the request carries no selection.
type Selector func(r *http.Request) (uuid.UUID, error)

// DefaultTenantHeader is the header carrying the explicit tenant selector.
const DefaultTenantHeader = "X-Tenant-ID"

func parseSelector(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidSelector, raw)
	}
	return id, nil
}

// NewHeaderSelector reads the tenant selector from an HTTP header.
// Defaults to X-Tenant-ID when headerName is empty.
func NewHeaderSelector(headerName string) Selector {
	if headerName == "" {
		headerName = DefaultTenantHeader
	}
	return func(r *http.Request) (uuid.UUID, error) {
		return parseSelector(r.Header.Get(headerName))
	}
}

// NewQuerySelector reads the tenant selector from a query parameter.
// Defaults to "tenant" when param is empty.
func NewQuerySelector(param string) Selector {
	if param == "" {
		param = "tenant"
	}
	return func(r *http.Request) (uuid.UUID, error) {
		return parseSelector(r.URL.Query().Get(param))
	}
}

// NewCompositeSelector tries selectors in order and returns the first
// explicit selection. Malformed values fail immediately rather than falling
// through: a typo must not silently land the caller in another tenant.
func NewCompositeSelector(selectors ...Selector) Selector {
	return func(r *http.Request) (uuid.UUID, error) {
		for _, sel := range selectors {
			id, err := sel(r)
			if err != nil {
				return uuid.Nil, err
			}
			if id != uuid.Nil {
				return id, nil
			}
		}
		return uuid.Nil, nil
	}
}
