package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Beka01247/brewline/internal/cart"
	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/order"
	"github.com/Beka01247/brewline/internal/queue"
	"github.com/Beka01247/brewline/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var testLogger = zap.NewNop().Sugar()

// directTx runs fn without a store transaction.
type directTx struct{}

func (directTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memMenuRepo struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]domain.MenuItem
	lists int
}

func newMemMenuRepo(items ...domain.MenuItem) *memMenuRepo {
	r := &memMenuRepo{items: make(map[primitive.ObjectID]domain.MenuItem)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *memMenuRepo) Create(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	r.items[item.ID] = *item
	return nil
}

func (r *memMenuRepo) UpsertByTitle(_ context.Context, items []domain.MenuItem) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range items {
		found := false
		for id, existing := range r.items {
			if existing.Title == it.Title {
				it.ID = id
				found = true
				break
			}
		}
		if !found {
			it.ID = primitive.NewObjectID()
		}
		r.items[it.ID] = it
	}
	return len(items), nil
}

func (r *memMenuRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &it, nil
}

func (r *memMenuRepo) List(_ context.Context, category string) ([]domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	var out []domain.MenuItem
	for _, it := range r.items {
		if category == "" || it.Category == category {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *memMenuRepo) Update(_ context.Context, id primitive.ObjectID, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if patch.Price != nil {
		it.Price = *patch.Price
	}
	if patch.Available != nil {
		it.Available = *patch.Available
	}
	r.items[id] = it
	return &it, nil
}

func (r *memMenuRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memMenuRepo) listCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists
}

type memCartRepo struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: make(map[string]domain.Cart)}
}

func (r *memCartRepo) Get(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func (r *memCartRepo) Save(_ context.Context, c *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[c.UserID] = *c
	return nil
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]domain.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[primitive.ObjectID]domain.Order)}
}

func (r *memOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	r.orders[o.ID] = *o
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &o, nil
}

func (r *memOrderRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListByStatus(_ context.Context, statuses []domain.OrderStatus) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		for _, s := range statuses {
			if o.Status == s {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return repo.ErrNotFound
	}
	if o.Status != from {
		return repo.ErrConditionFailed
	}
	o.Status = to
	r.orders[id] = o
	return nil
}

func (r *memOrderRepo) AssignDeliveryPerson(_ context.Context, id primitive.ObjectID, person domain.DeliveryPerson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return repo.ErrNotFound
	}
	o.DeliveryPerson = &person
	r.orders[id] = o
	return nil
}

func (r *memOrderRepo) Watch(ctx context.Context, orderID, _ string) (<-chan domain.Order, error) {
	ch := make(chan domain.Order, 1)
	if id, err := primitive.ObjectIDFromHex(orderID); err == nil {
		if o, err := r.GetByID(ctx, id); err == nil {
			ch <- *o
		}
	}
	close(ch)
	return ch, nil
}

func (r *memOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type memAuditRepo struct {
	mu     sync.Mutex
	audits []domain.OrderStatusAudit
}

func (r *memAuditRepo) Create(_ context.Context, a *domain.OrderStatusAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, *a)
	return nil
}

func (r *memAuditRepo) GetByOrderID(_ context.Context, orderID string, limit int) ([]domain.OrderStatusAudit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.OrderStatusAudit
	for _, a := range r.audits {
		if a.OrderID == orderID && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

type memLoyaltyRepo struct {
	mu       sync.Mutex
	accounts map[string]domain.LoyaltyAccount
	txs      []domain.LoyaltyTransaction
}

func newMemLoyaltyRepo() *memLoyaltyRepo {
	return &memLoyaltyRepo{accounts: make(map[string]domain.LoyaltyAccount)}
}

func (r *memLoyaltyRepo) GetAccount(_ context.Context, userID string) (*domain.LoyaltyAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[userID]
	if !ok {
		a = domain.LoyaltyAccount{UserID: userID}
	}
	return &a, nil
}

func (r *memLoyaltyRepo) FindTransaction(_ context.Context, orderID string, kind domain.LoyaltyKind) (*domain.LoyaltyTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txs {
		if t.OrderID == orderID && t.Kind == kind {
			t := t
			return &t, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memLoyaltyRepo) RecordTransaction(_ context.Context, tx *domain.LoyaltyTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txs {
		if t.OrderID == tx.OrderID && t.Kind == tx.Kind {
			return repo.ErrDuplicate
		}
	}
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *memLoyaltyRepo) AddPoints(_ context.Context, userID string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.accounts[userID]
	a.UserID = userID
	a.AvailablePoints += points
	a.LifetimePoints += points
	r.accounts[userID] = a
	return nil
}

func (r *memLoyaltyRepo) DeductPoints(_ context.Context, userID string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[userID]
	if !ok || a.AvailablePoints < points {
		return repo.ErrConditionFailed
	}
	a.AvailablePoints -= points
	r.accounts[userID] = a
	return nil
}

func (r *memLoyaltyRepo) balance(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[userID].AvailablePoints
}

type memTrackingRepo struct {
	mu       sync.Mutex
	sessions []domain.TrackingSession
}

func (r *memTrackingRepo) Create(_ context.Context, s *domain.TrackingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sessions {
		if existing.OrderID == s.OrderID && existing.IsActive && s.IsActive {
			return repo.ErrDuplicate
		}
	}
	r.sessions = append(r.sessions, *s)
	return nil
}

func (r *memTrackingRepo) GetActiveByOrderID(_ context.Context, orderID string) (*domain.TrackingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.OrderID == orderID && s.IsActive {
			s := s
			return &s, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memTrackingRepo) GetLatestByOrderID(_ context.Context, orderID string) (*domain.TrackingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sessions) - 1; i >= 0; i-- {
		if r.sessions[i].OrderID == orderID {
			s := r.sessions[i]
			return &s, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memTrackingRepo) StopByOrderID(_ context.Context, orderID string, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for i := range r.sessions {
		if r.sessions[i].OrderID == orderID && r.sessions[i].IsActive {
			r.sessions[i].IsActive = false
			r.sessions[i].StoppedAt = &at
			n++
		}
	}
	return n, nil
}

func (r *memTrackingRepo) UpdateDriverLocation(_ context.Context, id string, loc domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == id && r.sessions[i].IsActive {
			r.sessions[i].DriverLocation = loc
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r *memTrackingRepo) activeCount(orderID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sessions {
		if s.OrderID == orderID && s.IsActive {
			n++
		}
	}
	return n
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
	err   error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memUserRepo) AddPushToken(_ context.Context, id primitive.ObjectID, token domain.PushToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	for _, t := range u.PushTokens {
		if t == token {
			return nil
		}
	}
	u.PushTokens = append(u.PushTokens, token)
	r.users[id] = u
	return nil
}

type published struct {
	queue string
	body  []byte
}

type fakeBroker struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (b *fakeBroker) Publish(_ context.Context, queueName string, message []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.messages = append(b.messages, published{queue: queueName, body: message})
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string, queue.MessageHandler) error {
	return errors.New("not supported")
}

func (b *fakeBroker) Close() error { return nil }

func (b *fakeBroker) on(queueName string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out [][]byte
	for _, m := range b.messages {
		if m.queue == queueName {
			out = append(out, m.body)
		}
	}
	return out
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n domain.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return nil
}

func (d *recordingDispatcher) Close() error { return nil }

type fixedLocator struct {
	shop, customer domain.Location
	calls          int
}

func (l *fixedLocator) Locate(context.Context, string) domain.Location {
	l.calls++
	return l.customer
}

func (l *fixedLocator) ShopLocation() domain.Location { return l.shop }

// fixture wires every service against in-memory stores.
type fixture struct {
	menuRepo     *memMenuRepo
	cartRepo     *memCartRepo
	orderRepo    *memOrderRepo
	auditRepo    *memAuditRepo
	loyaltyRepo  *memLoyaltyRepo
	trackingRepo *memTrackingRepo
	userRepo     *memUserRepo
	broker       *fakeBroker
	dispatcher   *recordingDispatcher
	locator      *fixedLocator

	menu     *MenuService
	carts    *CartService
	loyalty  *LoyaltyService
	tracking *TrackingService
	status   *OrderStatusService
	orders   *OrderService
}

func newFixture(items ...domain.MenuItem) *fixture {
	f := &fixture{
		menuRepo:     newMemMenuRepo(items...),
		cartRepo:     newMemCartRepo(),
		orderRepo:    newMemOrderRepo(),
		auditRepo:    &memAuditRepo{},
		loyaltyRepo:  newMemLoyaltyRepo(),
		trackingRepo: &memTrackingRepo{},
		userRepo:     newMemUserRepo(),
		broker:       &fakeBroker{},
		dispatcher:   &recordingDispatcher{},
		locator: &fixedLocator{
			shop:     domain.Location{Lat: -33.9249, Lon: 18.4241},
			customer: domain.Location{Lat: -33.9000, Lon: 18.4500},
		},
	}

	f.menu = NewMenuService(f.menuRepo, time.Minute, testLogger)
	f.carts = NewCartService(cart.NewManager(f.cartRepo, cart.Config{SaveDelay: time.Hour}, testLogger), f.menu, testLogger)
	f.loyalty = NewLoyaltyService(f.loyaltyRepo, f.broker, directTx{}, testLogger)
	f.tracking = NewTrackingService(f.trackingRepo, f.locator, testLogger)
	f.status = NewOrderStatusService(f.orderRepo, f.auditRepo, f.tracking, f.dispatcher, f.broker, directTx{}, testLogger)
	f.orders = NewOrderService(
		f.orderRepo,
		f.carts,
		f.loyalty,
		f.status,
		order.NewBuilder(order.Config{DeliveryFee: 25, ShopAddress: "1 Bree Street, Cape Town"}),
		directTx{},
		testLogger,
	)

	return f
}

func menuItem(title, category string, price float64) domain.MenuItem {
	return domain.MenuItem{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Category:  category,
		Price:     price,
		Available: true,
	}
}
