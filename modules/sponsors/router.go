package sponsors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/grantfox/tenantcore/pkg/rls"
	"github.com/grantfox/tenantcore/pkg/role"
	"github.com/grantfox/tenantcore/pkg/tenancy"
)

// Storage is the persistence surface the router needs. *Store satisfies it.
type Storage interface {
	Create(ctx context.Context, name, contact string) (Sponsor, error)
	Get(ctx context.Context, id uuid.UUID) (Sponsor, error)
	List(ctx context.Context) ([]Sponsor, error)
	Update(ctx context.Context, id uuid.UUID, name, contact string) (Sponsor, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes sponsors over HTTP. Mount its Handle() behind the tenancy
// middleware: every handler reads the resolved RequestContext and checks the
// member's role before a write, while the storage layer re-checks tenant
// scope in SQL and row-level security backstops both.
type Service struct {
	storage Storage
	log     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(storage Storage, opts ...ServiceOption) *Service {
	s := &Service{
		storage: storage,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// writeRole is the minimum role for creating and editing sponsors;
// destructive operations require manager.
const (
	writeRole  = role.Member
	deleteRole = role.Manager
)

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(tenancy.RequireContext(nil))

	r.Get("/", s.list)
	r.Post("/", s.create)
	r.Get("/{id}", s.get)
	r.Put("/{id}", s.update)
	r.Delete("/{id}", s.delete)

	return r
}

type sponsorRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

func (s *Service) list(w http.ResponseWriter, r *http.Request) {
	sponsors, err := s.storage.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sponsors == nil {
		sponsors = []Sponsor{}
	}
	s.respond(w, http.StatusOK, sponsors)
}

func (s *Service) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, ErrSponsorNotFound)
		return
	}
	sponsor, err := s.storage.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, sponsor)
}

func (s *Service) create(w http.ResponseWriter, r *http.Request) {
	if err := s.requireRole(r.Context(), writeRole); err != nil {
		s.fail(w, r, err)
		return
	}
	req, err := decode(r.Body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sponsor, err := s.storage.Create(r.Context(), req.Name, req.Contact)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, sponsor)
}

func (s *Service) update(w http.ResponseWriter, r *http.Request) {
	if err := s.requireRole(r.Context(), writeRole); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, ErrSponsorNotFound)
		return
	}
	req, err := decode(r.Body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sponsor, err := s.storage.Update(r.Context(), id, req.Name, req.Contact)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, sponsor)
}

func (s *Service) delete(w http.ResponseWriter, r *http.Request) {
	if err := s.requireRole(r.Context(), deleteRole); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, ErrSponsorNotFound)
		return
	}
	if err := s.storage.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) requireRole(ctx context.Context, min role.Role) error {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return tenancy.ErrNoRequestContext
	}
	return rc.RequireRole(min)
}

func decode(body io.Reader) (sponsorRequest, error) {
	var req sponsorRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return sponsorRequest{}, errors.Join(ErrInvalidSponsor, err)
	}
	return req, nil
}

func (s *Service) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tenancy.ErrNoRequestContext):
		status = http.StatusUnauthorized
	case errors.Is(err, tenancy.ErrInsufficientRole):
		status = http.StatusForbidden
	case errors.Is(err, rls.ErrPolicyViolation):
		status = http.StatusForbidden
	case errors.Is(err, ErrSponsorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidSponsor):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "sponsors request failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
