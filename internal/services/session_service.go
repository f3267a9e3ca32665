package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/buildquick/storefront/internal/domain"
	"github.com/buildquick/storefront/internal/repositories"
)

var (
	errSessionRepositoryRequired = errors.New("session service: repository is required")
	errSessionCatalogRequired    = errors.New("session service: catalog is required")
	errSessionClockRequired      = errors.New("session service: clock is required")
)

// ErrSessionInvalidInput indicates the caller supplied invalid input.
var ErrSessionInvalidInput = errors.New("session service: invalid input")

// ErrSessionNotFound indicates the requested session does not exist.
var ErrSessionNotFound = errors.New("session service: not found")

// ErrSessionUnavailable indicates the session store cannot fulfil the request.
var ErrSessionUnavailable = errors.New("session service: unavailable")

const maxSearchQueryLength = 200

type productFinder interface {
	GetProduct(ctx context.Context, productID string) (ProductDetail, error)
}

// SessionServiceDeps wires the repository and catalog dependencies for session operations.
type SessionServiceDeps struct {
	Repository  repositories.SessionRepository
	Catalog     productFinder
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(context.Context, string, map[string]any)
}

type sessionService struct {
	repo    repositories.SessionRepository
	catalog productFinder
	newID   func() string
	now     func() time.Time
	logger  func(context.Context, string, map[string]any)
}

// NewSessionService constructs a SessionService enforcing dependency validation.
func NewSessionService(deps SessionServiceDeps) (SessionService, error) {
	if deps.Repository == nil {
		return nil, errSessionRepositoryRequired
	}
	if deps.Catalog == nil {
		return nil, errSessionCatalogRequired
	}
	if deps.Clock == nil {
		return nil, errSessionClockRequired
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &sessionService{
		repo:    deps.Repository,
		catalog: deps.Catalog,
		newID:   idGen,
		now:     func() time.Time { return deps.Clock().UTC() },
		logger:  logger,
	}, nil
}

// StartSession creates a fresh session: home tab, empty query, empty basket.
func (s *sessionService) StartSession(ctx context.Context) (Session, error) {
	if s == nil || s.repo == nil {
		return Session{}, ErrSessionUnavailable
	}

	now := s.now()
	session := domain.Session{
		ID:        strings.TrimSpace(s.newID()),
		ActiveTab: domain.TabHome,
		Basket:    domain.Basket{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if session.ID == "" {
		session.ID = fmt.Sprintf("session-%d", now.UnixNano())
	}

	saved, err := s.repo.Save(ctx, session)
	if err != nil {
		return Session{}, s.translateRepoError(err)
	}

	s.logger(ctx, "session.started", map[string]any{"sessionID": saved.ID})
	return saved.Clone(), nil
}

// GetSession returns a snapshot of the session state.
func (s *sessionService) GetSession(ctx context.Context, sessionID string) (Session, error) {
	if s == nil || s.repo == nil {
		return Session{}, ErrSessionUnavailable
	}

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	return session.Clone(), nil
}

// AddToCart resolves the product against the catalog and merges one unit into
// the basket. Unknown products are rejected as invalid input.
func (s *sessionService) AddToCart(ctx context.Context, sessionID, productID string) (Session, error) {
	if s == nil || s.repo == nil {
		return Session{}, ErrSessionUnavailable
	}

	id := strings.TrimSpace(productID)
	if id == "" {
		return Session{}, fmt.Errorf("%w: product_id is required", ErrSessionInvalidInput)
	}

	detail, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCatalogNotFound) {
			return Session{}, fmt.Errorf("%w: unknown product %q", ErrSessionInvalidInput, id)
		}
		s.logger(ctx, "session.product_lookup_failed", map[string]any{
			"sessionID": strings.TrimSpace(sessionID),
			"productID": id,
			"error":     err.Error(),
		})
		return Session{}, ErrSessionUnavailable
	}

	return s.update(ctx, sessionID, func(session *domain.Session) {
		session.Basket = session.Basket.Add(detail.Product)
	})
}

// RemoveFromCart takes one unit of the product out of the basket. An absent
// product identifier is a no-op, not an error.
func (s *sessionService) RemoveFromCart(ctx context.Context, sessionID, productID string) (Session, error) {
	if s == nil || s.repo == nil {
		return Session{}, ErrSessionUnavailable
	}

	id := strings.TrimSpace(productID)
	if id == "" {
		return Session{}, fmt.Errorf("%w: product_id is required", ErrSessionInvalidInput)
	}

	return s.update(ctx, sessionID, func(session *domain.Session) {
		session.Basket = session.Basket.Remove(id)
	})
}

// SetSearchQuery stores the query and activates the search tab: typing into
// any search box navigates the storefront to the search screen.
func (s *sessionService) SetSearchQuery(ctx context.Context, sessionID, query string) (Session, error) {
	if s == nil || s.repo == nil {
		return Session{}, ErrSessionUnavailable
	}

	if len(query) > maxSearchQueryLength {
		return Session{}, fmt.Errorf("%w: query must be %d characters or fewer", ErrSessionInvalidInput, maxSearchQueryLength)
	}

	return s.update(ctx, sessionID, func(session *domain.Session) {
		session.SearchQuery = query
		session.ActiveTab = domain.TabSearch
	})
}

// SetActiveTab switches the active screen. Leaving the search tab clears the
// query so stale results never resurface; switching to search preserves it.
func (s *sessionService) SetActiveTab(ctx context.Context, sessionID string, tab Tab) (Session, error) {
	if s == nil || s.repo == nil {
		return Session{}, ErrSessionUnavailable
	}

	if !tab.Valid() {
		return Session{}, fmt.Errorf("%w: unknown tab %q", ErrSessionInvalidInput, string(tab))
	}

	return s.update(ctx, sessionID, func(session *domain.Session) {
		session.ActiveTab = tab
		if tab != domain.TabSearch {
			session.SearchQuery = ""
		}
	})
}

// CartTotal returns the basket total in whole rupees.
func (s *sessionService) CartTotal(ctx context.Context, sessionID string) (int64, error) {
	if s == nil || s.repo == nil {
		return 0, ErrSessionUnavailable
	}

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return session.Basket.Total(), nil
}

// CartCount returns the number of units in the basket across all lines.
func (s *sessionService) CartCount(ctx context.Context, sessionID string) (int, error) {
	if s == nil || s.repo == nil {
		return 0, ErrSessionUnavailable
	}

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return session.Basket.Count(), nil
}

func (s *sessionService) load(ctx context.Context, sessionID string) (domain.Session, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return domain.Session{}, fmt.Errorf("%w: session id is required", ErrSessionInvalidInput)
	}

	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Session{}, s.translateRepoError(err)
	}
	if session.Basket == nil {
		session.Basket = domain.Basket{}
	}
	return session, nil
}

// update applies the mutation through the repository's atomic Update so
// concurrent mutations of one session serialise instead of overwriting each
// other's reads.
func (s *sessionService) update(ctx context.Context, sessionID string, mutate func(*domain.Session)) (Session, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return Session{}, fmt.Errorf("%w: session id is required", ErrSessionInvalidInput)
	}

	updated, err := s.repo.Update(ctx, id, func(session *domain.Session) {
		if session.Basket == nil {
			session.Basket = domain.Basket{}
		}
		mutate(session)
		session.UpdatedAt = s.now()
	})
	if err != nil {
		return Session{}, s.translateRepoError(err)
	}
	return updated.Clone(), nil
}

func (s *sessionService) translateRepoError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return ErrSessionNotFound
		case repoErr.IsUnavailable():
			return ErrSessionUnavailable
		}
	}
	return ErrSessionUnavailable
}
