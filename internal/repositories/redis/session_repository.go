package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/buildquick/storefront/internal/domain"
	"github.com/buildquick/storefront/internal/repositories"
)

const defaultSessionTTL = 24 * time.Hour

// maxUpdateAttempts bounds optimistic-locking retries when concurrent writers
// touch the same session.
const maxUpdateAttempts = 8

// SessionRepository stores session state as JSON values with a TTL. It lets
// several storefront instances share one session space; expiry doubles as
// session teardown, matching the rule that carts never outlive the visit.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository connects to Redis using a URL of the form
// redis://[:password@]host:port/db and verifies the connection.
func NewSessionRepository(ctx context.Context, redisURL string, ttl time.Duration) (*SessionRepository, error) {
	opt, err := redis.ParseURL(strings.TrimSpace(redisURL))
	if err != nil {
		return nil, fmt.Errorf("session repository: invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("session repository: redis unreachable: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionRepository{client: client, ttl: ttl}, nil
}

type sessionRecord struct {
	ID          string             `json:"id"`
	ActiveTab   string             `json:"active_tab"`
	SearchQuery string             `json:"search_query"`
	Basket      []basketItemRecord `json:"basket"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type basketItemRecord struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	CategoryKey   string   `json:"category_key"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"original_price"`
	Unit          string   `json:"unit,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	RatingCount   *int     `json:"rating_count,omitempty"`
	DeliveryTime  string   `json:"delivery_time,omitempty"`
	Discount      string   `json:"discount,omitempty"`
	Quantity      int      `json:"quantity"`
}

// Get implements repositories.SessionRepository.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	id := strings.TrimSpace(sessionID)
	raw, err := r.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, &repositories.NotFoundError{Kind: "session", ID: id}
	}
	if err != nil {
		return domain.Session{}, &repositories.UnavailableError{Err: err}
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return domain.Session{}, &repositories.UnavailableError{Err: err}
	}
	return record.toDomain(), nil
}

// Save implements repositories.SessionRepository. Each save refreshes the TTL
// so active sessions stay alive while idle ones expire.
func (r *SessionRepository) Save(ctx context.Context, session domain.Session) (domain.Session, error) {
	record := recordFromDomain(session)
	payload, err := json.Marshal(record)
	if err != nil {
		return domain.Session{}, &repositories.UnavailableError{Err: err}
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), payload, r.ttl).Err(); err != nil {
		return domain.Session{}, &repositories.UnavailableError{Err: err}
	}
	return session.Clone(), nil
}

// Update implements repositories.SessionRepository. It runs the mutation
// under WATCH/MULTI so the read-mutate-write is atomic: if another writer
// touches the session key between the read and the commit, the transaction
// fails and the whole sequence retries against the fresh state.
func (r *SessionRepository) Update(ctx context.Context, sessionID string, mutate func(*domain.Session)) (domain.Session, error) {
	id := strings.TrimSpace(sessionID)
	key := sessionKey(id)

	var updated domain.Session
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return &repositories.NotFoundError{Kind: "session", ID: id}
		}
		if err != nil {
			return err
		}

		var record sessionRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return err
		}

		session := record.toDomain()
		mutate(&session)

		payload, err := json.Marshal(recordFromDomain(session))
		if err != nil {
			return err
		}

		updated = session
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			return updated.Clone(), nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) {
			return domain.Session{}, err
		}
		return domain.Session{}, &repositories.UnavailableError{Err: err}
	}
	return domain.Session{}, &repositories.UnavailableError{Err: fmt.Errorf("session %q update contended beyond %d attempts", id, maxUpdateAttempts)}
}

// Delete implements repositories.SessionRepository.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(strings.TrimSpace(sessionID))).Err(); err != nil {
		return &repositories.UnavailableError{Err: err}
	}
	return nil
}

// Close implements repositories.SessionRepository.
func (r *SessionRepository) Close(context.Context) error {
	return r.client.Close()
}

func sessionKey(id string) string {
	return "storefront:session:" + id
}

func recordFromDomain(session domain.Session) sessionRecord {
	items := make([]basketItemRecord, 0, len(session.Basket))
	for _, item := range session.Basket {
		items = append(items, basketItemRecord{
			ID:            item.ID,
			Name:          item.Name,
			CategoryKey:   item.CategoryKey,
			Price:         item.Price,
			OriginalPrice: item.OriginalPrice,
			Unit:          item.Unit,
			ImageURL:      item.ImageURL,
			Brand:         item.Brand,
			Rating:        item.Rating,
			RatingCount:   item.RatingCount,
			DeliveryTime:  item.DeliveryTime,
			Discount:      item.Discount,
			Quantity:      item.Quantity,
		})
	}
	return sessionRecord{
		ID:          session.ID,
		ActiveTab:   string(session.ActiveTab),
		SearchQuery: session.SearchQuery,
		Basket:      items,
		CreatedAt:   session.CreatedAt.UTC(),
		UpdatedAt:   session.UpdatedAt.UTC(),
	}
}

func (r sessionRecord) toDomain() domain.Session {
	basket := make(domain.Basket, 0, len(r.Basket))
	for _, item := range r.Basket {
		basket = append(basket, domain.BasketItem{
			Product: domain.Product{
				ID:            item.ID,
				Name:          item.Name,
				CategoryKey:   item.CategoryKey,
				Price:         item.Price,
				OriginalPrice: item.OriginalPrice,
				Unit:          item.Unit,
				ImageURL:      item.ImageURL,
				Brand:         item.Brand,
				Rating:        item.Rating,
				RatingCount:   item.RatingCount,
				DeliveryTime:  item.DeliveryTime,
				Discount:      item.Discount,
			},
			Quantity: item.Quantity,
		})
	}

	tab := domain.Tab(r.ActiveTab)
	if !tab.Valid() {
		tab = domain.TabHome
	}
	return domain.Session{
		ID:          r.ID,
		ActiveTab:   tab,
		SearchQuery: r.SearchQuery,
		Basket:      basket,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
