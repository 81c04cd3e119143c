package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Beka01247/brewline/internal/auth"
	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/loyalty"
	"github.com/Beka01247/brewline/internal/order"
	"github.com/Beka01247/brewline/internal/ratelimiter"
	"github.com/Beka01247/brewline/internal/repo"
	"github.com/Beka01247/brewline/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type stubMenuRepo struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]domain.MenuItem
}

func newStubMenuRepo() *stubMenuRepo {
	return &stubMenuRepo{items: make(map[primitive.ObjectID]domain.MenuItem)}
}

func (r *stubMenuRepo) Create(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = primitive.NewObjectID()
	r.items[item.ID] = *item
	return nil
}

func (r *stubMenuRepo) UpsertByTitle(_ context.Context, items []domain.MenuItem) (int, error) {
	for i := range items {
		if err := r.Create(context.Background(), &items[i]); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}

func (r *stubMenuRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &item, nil
}

func (r *stubMenuRepo) List(_ context.Context, category string) ([]domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.MenuItem
	for _, item := range r.items {
		if category == "" || item.Category == category {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubMenuRepo) Update(_ context.Context, id primitive.ObjectID, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	r.items[id] = item
	return &item, nil
}

func (r *stubMenuRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type stubUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
	err   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &user, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *stubUserRepo) AddPushToken(context.Context, primitive.ObjectID, domain.PushToken) error {
	return nil
}

func (r *stubUserRepo) setRole(id string, role auth.Role) {
	oid, _ := primitive.ObjectIDFromHex(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	user := r.users[oid]
	user.Role = string(role)
	r.users[oid] = user
}

type testApp struct {
	*application
	users *stubUserRepo
}

func newTestApplication(t *testing.T) (*testApp, *stubMenuRepo) {
	t.Helper()

	logger := zap.NewNop().Sugar()
	menuRepo := newStubMenuRepo()
	users := newStubUserRepo()
	tokens := auth.NewTokenIssuer(auth.TokenConfig{
		Secret: "test-secret",
		TTL:    time.Hour,
		Issuer: "brewline-test",
	})

	app := &application{
		config:      config{addr: ":0", env: "test"},
		logger:      logger,
		tokens:      tokens,
		menuService: service.NewMenuService(menuRepo, time.Minute, logger),
		authService: service.NewAuthService(users, tokens, nil, logger),
	}

	return &testApp{application: app, users: users}, menuRepo
}

// tokenFor stores a user with role and returns a token for them.
func tokenFor(t *testing.T, app *testApp, role auth.Role) string {
	t.Helper()

	user := &domain.User{
		ID:    primitive.NewObjectID(),
		Name:  "Thandi",
		Email: "thandi@example.com",
		Role:  string(role),
	}
	require.NoError(t, app.users.Create(context.Background(), user))

	token, err := app.tokens.Issue(auth.Identity{
		UserID: user.ID.Hex(),
		Name:   user.Name,
		Email:  user.Email,
		Role:   role,
	}, time.Now())
	require.NoError(t, err)

	return token
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMenuWritesRequireManager(t *testing.T) {
	app, _ := newTestApplication(t)
	mux := app.mount()

	body := map[string]any{
		"title":    "Flat White",
		"price":    38.5,
		"category": "hot beverages",
	}

	rr := doRequest(t, mux, http.MethodPost, "/api/v1/menu/", "", body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doRequest(t, mux, http.MethodPost, "/api/v1/menu/", tokenFor(t, app, auth.RoleCustomer), body)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, mux, http.MethodPost, "/api/v1/menu/", tokenFor(t, app, auth.RoleWaiter), body)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, mux, http.MethodPost, "/api/v1/menu/", tokenFor(t, app, auth.RoleOwner), body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Data domain.MenuItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Flat White", resp.Data.Title)
	assert.True(t, resp.Data.Available, "items are available unless stated otherwise")
	assert.False(t, resp.Data.ID.IsZero())
}

func TestStaffRoutesUseStoredRole(t *testing.T) {
	app, _ := newTestApplication(t)
	mux := app.mount()
	body := map[string]any{"title": "Flat White", "price": 38.5, "category": "hot beverages"}

	token := tokenFor(t, app, auth.RoleManager)
	claims, err := app.tokens.Parse(token)
	require.NoError(t, err)
	app.users.setRole(claims.UserID, auth.RoleCustomer)

	rr := doRequest(t, mux, http.MethodPost, "/api/v1/menu/", token, body)
	assert.Equal(t, http.StatusForbidden, rr.Code, "a demoted manager loses access before the token expires")
}

func TestStaffRoutesRejectDeletedUser(t *testing.T) {
	app, _ := newTestApplication(t)

	token, err := app.tokens.Issue(auth.Identity{UserID: primitive.NewObjectID().Hex(), Role: auth.RoleOwner}, time.Now())
	require.NoError(t, err)

	rr := doRequest(t, app.mount(), http.MethodDelete, "/api/v1/menu/"+primitive.NewObjectID().Hex(), token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStaffRoutesNeedProfileStore(t *testing.T) {
	app, _ := newTestApplication(t)
	token := tokenFor(t, app, auth.RoleOwner)
	app.users.err = errors.New("server selection timeout")

	rr := doRequest(t, app.mount(), http.MethodDelete, "/api/v1/menu/"+primitive.NewObjectID().Hex(), token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestCreateMenuItemValidation(t *testing.T) {
	app, _ := newTestApplication(t)
	mux := app.mount()
	token := tokenFor(t, app, auth.RoleManager)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown category", map[string]any{"title": "Toast", "price": 20, "category": "lunch"}},
		{"missing title", map[string]any{"price": 20, "category": "breakfast"}},
		{"zero price", map[string]any{"title": "Toast", "price": 0, "category": "breakfast"}},
		{"unknown field", map[string]any{"title": "Toast", "price": 20, "category": "breakfast", "colour": "brown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, mux, http.MethodPost, "/api/v1/menu/", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestGetMenuItem(t *testing.T) {
	app, menuRepo := newTestApplication(t)
	mux := app.mount()

	item := &domain.MenuItem{Title: "Croissant", Price: 32, Category: domain.CategoryPastries, Available: true}
	require.NoError(t, menuRepo.Create(context.Background(), item))

	rr := doRequest(t, mux, http.MethodGet, "/api/v1/menu/"+item.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"Croissant"`)

	rr = doRequest(t, mux, http.MethodGet, "/api/v1/menu/"+primitive.NewObjectID().Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, mux, http.MethodGet, "/api/v1/menu/not-an-id", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListMenuReturnsEmptyArray(t *testing.T) {
	app, _ := newTestApplication(t)

	rr := doRequest(t, app.mount(), http.MethodGet, "/api/v1/menu/?category=breakfast", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[]}`, rr.Body.String())
}

func TestPickupSlotsIsPublic(t *testing.T) {
	app, _ := newTestApplication(t)

	rr := doRequest(t, app.mount(), http.MethodGet, "/api/v1/pickup-slots", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `"slots"`)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	app, _ := newTestApplication(t)

	token, err := app.tokens.Issue(auth.Identity{UserID: "u1", Role: auth.RoleOwner}, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	rr := doRequest(t, app.mount(), http.MethodDelete, "/api/v1/menu/"+primitive.NewObjectID().Hex(), token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRateLimiterMiddleware(t *testing.T) {
	app, _ := newTestApplication(t)
	app.config.rateLimiter = ratelimiter.Config{RequestsPerTimeFrame: 1, TimeFrame: time.Minute, Enabled: true}
	app.rateLimiter = ratelimiter.NewFixedWindowLimiter(1, time.Minute)
	mux := app.mount()

	rr := doRequest(t, mux, http.MethodGet, "/api/v1/pickup-slots", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, mux, http.MethodGet, "/api/v1/pickup-slots", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		query   string
		want    string
		wantErr bool
	}{
		{name: "bearer header", header: "Bearer abc", want: "abc"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "query fallback", query: "?access_token=xyz", want: "xyz"},
		{name: "header wins over query", header: "Bearer abc", query: "?access_token=xyz", want: "abc"},
		{name: "basic scheme", header: "Basic abc", wantErr: true},
		{name: "missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/orders/stream"+tt.query, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			got, err := extractBearerToken(r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrorResponseStatusCodes(t *testing.T) {
	app, _ := newTestApplication(t)

	tests := []struct {
		err  error
		want int
	}{
		{&order.ValidationError{Field: "address", Message: "is required for delivery"}, http.StatusBadRequest},
		{service.ErrInvalidID, http.StatusBadRequest},
		{fmt.Errorf("failed to get order: %w", repo.ErrNotFound), http.StatusNotFound},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("pending -> delivered: %w", order.ErrInvalidTransition), http.StatusConflict},
		{service.ErrEmailTaken, http.StatusConflict},
		{loyalty.ErrInsufficientPoints, http.StatusUnprocessableEntity},
		{order.ErrEmptyCart, http.StatusUnprocessableEntity},
		{service.ErrNotDeliveryOrder, http.StatusUnprocessableEntity},
		{service.ErrImportUnavailable, http.StatusServiceUnavailable},
		{errors.New("mongo exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			app.errorResponse(rr, r, tt.err)

			assert.Equal(t, tt.want, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)
		})
	}
}

func TestInternalErrorsDoNotLeakDetails(t *testing.T) {
	app, _ := newTestApplication(t)
	rr := httptest.NewRecorder()

	app.errorResponse(rr, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("dial tcp 10.0.0.5:27017: refused"))

	assert.NotContains(t, rr.Body.String(), "10.0.0.5")
}
