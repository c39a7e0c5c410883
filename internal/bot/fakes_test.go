package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	"storebot/internal/domain/model"
	"storebot/internal/infra/image"
	"storebot/internal/infra/session"
	repo "storebot/internal/repository"
	"storebot/internal/usecase"
	auth "storebot/internal/usecase/auth_usecase"
	"storebot/internal/validator"

	"golang.org/x/crypto/bcrypt"
)

// =====================
// Replier
// =====================

type sent struct {
	Kind    string // text / buttons / photo
	Text    string
	Buttons Keyboard
	Photo   image.Resolved
}

type recordingReplier struct {
	msgs     []sent
	photoErr error
}

func (r *recordingReplier) SendText(ctx context.Context, text string) error {
	r.msgs = append(r.msgs, sent{Kind: "text", Text: text})
	return nil
}

func (r *recordingReplier) SendButtons(ctx context.Context, text string, kb Keyboard) error {
	r.msgs = append(r.msgs, sent{Kind: "buttons", Text: text, Buttons: kb})
	return nil
}

func (r *recordingReplier) SendPhoto(ctx context.Context, photo image.Resolved, caption string, kb Keyboard) error {
	if r.photoErr != nil {
		return r.photoErr
	}
	r.msgs = append(r.msgs, sent{Kind: "photo", Text: caption, Buttons: kb, Photo: photo})
	return nil
}

func (r *recordingReplier) last() sent {
	if len(r.msgs) == 0 {
		return sent{}
	}
	return r.msgs[len(r.msgs)-1]
}

func (r *recordingReplier) reset() {
	r.msgs = nil
}

func (r *recordingReplier) callbackData() []string {
	var out []string
	for _, m := range r.msgs {
		for _, row := range m.Buttons {
			for _, b := range row {
				if b.Data != "" {
					out = append(out, b.Data)
				}
			}
		}
	}
	return out
}

// =====================
// Store fakes
// =====================

type fakeStore struct {
	mu           sync.Mutex
	categories   []model.Category
	products     map[int64]model.Product
	users        map[string]*model.User
	reservations map[[2]int64]model.Reservation
	bookmarks    map[[2]int64]bool
	orders       []model.Order
	lines        map[int64][]model.OrderLine
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:     map[int64]model.Product{},
		users:        map[string]*model.User{},
		reservations: map[[2]int64]model.Reservation{},
		bookmarks:    map[[2]int64]bool{},
		lines:        map[int64][]model.OrderLine{},
	}
}

type fakeProducts struct{ s *fakeStore }

func (f fakeProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (f fakeProducts) inCategory(categoryID int64) []model.Product {
	var out []model.Product
	for id := int64(1); id <= 1000; id++ {
		if p, ok := f.s.products[id]; ok && p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

func (f fakeProducts) ListByCategory(ctx context.Context, q repo.ProductPageQuery) ([]model.Product, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	all := f.inCategory(q.CategoryID)
	if q.Offset >= len(all) {
		return nil, nil
	}
	end := q.Offset + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[q.Offset:end], nil
}

func (f fakeProducts) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.inCategory(categoryID))), nil
}

func (f fakeProducts) Search(ctx context.Context, term string, limit int) ([]model.Product, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []model.Product
	for id := int64(1); id <= 1000 && len(out) < limit; id++ {
		if p, ok := f.s.products[id]; ok && strings.Contains(strings.ToLower(p.Name+p.Brand+p.Description), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCategories struct{ s *fakeStore }

func (f fakeCategories) List(ctx context.Context) ([]model.Category, error) {
	return f.s.categories, nil
}

type fakeReservations struct{ s *fakeStore }

func (f fakeReservations) Upsert(ctx context.Context, userID int64, productID int64, qty int64, at time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.reservations[[2]int64{userID, productID}] = model.Reservation{UserID: userID, ProductID: productID, Quantity: qty, ReservedAt: at}
	return nil
}

func (f fakeReservations) Delete(ctx context.Context, userID int64, productID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.reservations, [2]int64{userID, productID})
	return nil
}

func (f fakeReservations) DeleteByUserAndProducts(ctx context.Context, userID int64, productIDs []int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, pid := range productIDs {
		delete(f.s.reservations, [2]int64{userID, pid})
	}
	return nil
}

func (f fakeReservations) List(ctx context.Context, flt repo.ReservationFilter) ([]model.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []model.Reservation
	for _, r := range f.s.reservations {
		out = append(out, r)
	}
	return out, nil
}

type fakeUsers struct{ s *fakeStore }

func (f fakeUsers) Create(ctx context.Context, u *model.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.users[u.Email]; ok {
		return repo.ErrDuplicateKey
	}
	u.ID = int64(len(f.s.users) + 1)
	cp := *u
	f.s.users[u.Email] = &cp
	return nil
}

func (f fakeUsers) FindByID(ctx context.Context, id int64) (*model.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type fakeBookmarks struct{ s *fakeStore }

func (f fakeBookmarks) Exists(ctx context.Context, userID int64, productID int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.bookmarks[[2]int64{userID, productID}], nil
}

func (f fakeBookmarks) Create(ctx context.Context, userID int64, productID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.bookmarks[[2]int64{userID, productID}] = true
	return nil
}

type fakeOrders struct{ s *fakeStore }

func (f fakeOrders) FindByID(ctx context.Context, id int64) (model.Order, error) {
	for _, o := range f.s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return model.Order{}, repo.ErrNotFound
}

func (f fakeOrders) ListByUserID(ctx context.Context, userID int64, offset int, limit int) ([]model.Order, int64, error) {
	var mine []model.Order
	for i := len(f.s.orders) - 1; i >= 0; i-- {
		if f.s.orders[i].UserID == userID {
			mine = append(mine, f.s.orders[i])
		}
	}
	total := int64(len(mine))
	if offset >= len(mine) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

func (f fakeOrders) ListLines(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	return f.s.lines[orderID], nil
}

// =====================
// Collaborators
// =====================

type fakeGateway struct {
	url  string
	err  error
	reqs []usecase.PaymentRequest
}

func (g *fakeGateway) CreatePayment(ctx context.Context, req usecase.PaymentRequest) (string, error) {
	g.reqs = append(g.reqs, req)
	return g.url, g.err
}

type fakeImages struct{}

func (fakeImages) Resolve(ctx context.Context, ref string) (image.Resolved, error) {
	if ref == "" || strings.Contains(ref, "missing") {
		return image.Resolved{}, image.ErrNoImage
	}
	return image.Resolved{Name: ref, Bytes: []byte("img")}, nil
}

type harness struct {
	store    *fakeStore
	gateway  *fakeGateway
	sessions *session.MemoryStore
	d        *Dispatcher
	r        *recordingReplier
}

func newHarness() *harness {
	st := newFakeStore()
	gw := &fakeGateway{url: "https://pay.example.com/p/1"}
	sessions := session.NewMemoryStore(nil)

	products := fakeProducts{s: st}
	reservations := fakeReservations{s: st}
	creds := auth.NewCredentialStore(fakeUsers{s: st}, auth.NewBcryptPasswordHasher(bcrypt.MinCost))

	cartUC := usecase.NewCartUsecase(products, reservations, nil, nil)
	d := NewDispatcher(Deps{
		Sessions:     sessions,
		Conversation: usecase.NewConversationUsecase(creds, validator.NewRegistrationValidator(), cartUC),
		Cart:         cartUC,
		Checkout:     usecase.NewCheckoutUsecase(cartUC, gw, nil, nil, nil),
		Catalog:      usecase.NewCatalogUsecase(fakeCategories{s: st}, products),
		Orders:       usecase.NewOrderUsecase(fakeOrders{s: st}),
		Bookmarks:    usecase.NewBookmarkUsecase(fakeBookmarks{s: st}, products),
		Images:       fakeImages{},
	})

	return &harness{store: st, gateway: gw, sessions: sessions, d: d, r: &recordingReplier{}}
}

func (h *harness) text(sessionID int64, text string) {
	_ = h.d.HandleText(context.Background(), sessionID, text, h.r)
}

func (h *harness) click(sessionID int64, token string) {
	_ = h.d.HandleCallback(context.Background(), sessionID, token, h.r)
}

func (h *harness) session(id int64) *model.Session {
	s, _ := h.sessions.GetOrCreate(context.Background(), id)
	return s
}
