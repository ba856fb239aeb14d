package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/duyshop/backend/pkg/config"
	"github.com/duyshop/backend/pkg/models"
	"github.com/duyshop/backend/pkg/repository"
	"github.com/duyshop/backend/pkg/vnpay"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// In-memory fakes for the store interfaces. Each guards its state with a
// mutex and returns copies so handler-side mutation cannot leak back in.

type fakeOrderStore struct {
	mu     sync.Mutex
	orders []*models.Order
	items  map[string][]models.OrderItem // keyed by order id hex
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{items: make(map[string][]models.OrderItem)}
}

func (f *fakeOrderStore) CodeExists(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrderStore) Create(_ context.Context, order *models.Order, items []models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	stored := *order
	f.orders = append(f.orders, &stored)
	for i := range items {
		items[i].ID = primitive.NewObjectID()
		items[i].TransactionID = order.ID
	}
	f.items[order.ID.Hex()] = items
	return nil
}

func (f *fakeOrderStore) FindByCode(_ context.Context, code string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.Code == code {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOrderStore) List(_ context.Context, _ string, _, _ int64) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderStore) ListByUser(_ context.Context, userID primitive.ObjectID, _, _ int64) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderStore) Update(_ context.Context, id primitive.ObjectID, upd *models.OrderUpdate) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID != id {
			continue
		}
		if upd.Phone != nil {
			o.Phone = *upd.Phone
		}
		if upd.Address != nil {
			o.Address = *upd.Address
		}
		if upd.Email != nil {
			o.Email = *upd.Email
		}
		if upd.PaymentMethod != nil {
			o.PaymentMethod = *upd.PaymentMethod
		}
		if upd.IsPaid != nil {
			o.IsPaid = *upd.IsPaid
		}
		if upd.Status != nil {
			o.Status = *upd.Status
		}
		if upd.IsShow != nil {
			o.IsShow = *upd.IsShow
		}
		if upd.Note != nil {
			o.Note = *upd.Note
		}
		if upd.TotalPrice != nil {
			o.TotalPrice = *upd.TotalPrice
		}
		o.UpdatedAt = time.Now()
		cp := *o
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOrderStore) Hide(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			o.IsShow = false
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeOrderStore) MarkPaid(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.Code == code {
			o.IsPaid = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeOrderStore) ItemsByOrder(_ context.Context, orderID primitive.ObjectID) ([]models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OrderItem(nil), f.items[orderID.Hex()]...), nil
}

func (f *fakeOrderStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeOrderStore) byCode(code string) *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.Code == code {
			cp := *o
			return &cp
		}
	}
	return nil
}

type fakeProductStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductStore(products ...*models.Product) *fakeProductStore {
	f := &fakeProductStore{products: make(map[primitive.ObjectID]*models.Product)}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductStore) List(_ context.Context, _ repository.ProductFilter) ([]models.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProductStore) Create(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = primitive.NewObjectID()
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductStore) Update(_ context.Context, id primitive.ObjectID, upd *models.ProductUpdate) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Quantity != nil {
		p.Quantity = *upd.Quantity
	}
	if upd.Images != nil {
		p.Images = *upd.Images
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) List(_ context.Context, _, _ string, _, _ int64) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		cp.Password = ""
		out = append(out, cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = primitive.NewObjectID()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, email, phone, address, fullName string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if email != "" {
		u.Email = email
	}
	if phone != "" {
		u.Phone = phone
	}
	if address != "" {
		u.Address = address
	}
	if fullName != "" {
		u.FullName = fullName
	}
	cp := *u
	return &cp, nil
}

type fakeWarrantyStore struct {
	mu         sync.Mutex
	warranties map[primitive.ObjectID]*models.Warranty
}

func newFakeWarrantyStore() *fakeWarrantyStore {
	return &fakeWarrantyStore{warranties: make(map[primitive.ObjectID]*models.Warranty)}
}

func (f *fakeWarrantyStore) List(_ context.Context, filter repository.WarrantyFilter) ([]models.Warranty, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Warranty, 0, len(f.warranties))
	for _, w := range f.warranties {
		if filter.UserID != "" && w.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && w.Status != filter.Status {
			continue
		}
		if filter.WarrantyCode != "" && w.WarrantyCode != filter.WarrantyCode {
			continue
		}
		out = append(out, *w)
	}
	return out, int64(len(out)), nil
}

func (f *fakeWarrantyStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Warranty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.warranties[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeWarrantyStore) CodeExists(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.warranties {
		if w.WarrantyCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeWarrantyStore) Create(_ context.Context, warranty *models.Warranty) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	warranty.ID = primitive.NewObjectID()
	if warranty.Status == "" {
		warranty.Status = models.WarrantyStatusProcessing
	}
	warranty.TimeCreate = time.Now()
	warranty.TimeUpdate = warranty.TimeCreate
	cp := *warranty
	f.warranties[warranty.ID] = &cp
	return nil
}

func (f *fakeWarrantyStore) Update(_ context.Context, id primitive.ObjectID, upd *models.WarrantyUpdate) (*models.Warranty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.warranties[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Status != nil {
		w.Status = *upd.Status
	}
	if upd.ProcessingStaff != nil {
		w.ProcessingStaff = *upd.ProcessingStaff
	}
	if upd.WarrantyResult != nil {
		w.WarrantyResult = *upd.WarrantyResult
	}
	w.TimeUpdate = time.Now()
	cp := *w
	return &cp, nil
}

func (f *fakeWarrantyStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.warranties[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.warranties, id)
	return nil
}

type fakeEvaluationStore struct {
	mu          sync.Mutex
	evaluations map[primitive.ObjectID]*models.Evaluation
}

func newFakeEvaluationStore() *fakeEvaluationStore {
	return &fakeEvaluationStore{evaluations: make(map[primitive.ObjectID]*models.Evaluation)}
}

func (f *fakeEvaluationStore) ListByProduct(_ context.Context, productID primitive.ObjectID) ([]models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Evaluation
	for _, e := range f.evaluations {
		if e.ProductID == productID && e.IsShow == 1 {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvaluationStore) List(_ context.Context, starRating, isShow *int, _, _ int64) ([]models.Evaluation, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Evaluation, 0, len(f.evaluations))
	for _, e := range f.evaluations {
		if starRating != nil && e.StarRating != *starRating {
			continue
		}
		if isShow != nil && e.IsShow != *isShow {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEvaluationStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.evaluations[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeEvaluationStore) Create(_ context.Context, evaluation *models.Evaluation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	evaluation.ID = primitive.NewObjectID()
	cp := *evaluation
	f.evaluations[evaluation.ID] = &cp
	return nil
}

func (f *fakeEvaluationStore) Update(_ context.Context, id primitive.ObjectID, upd *models.EvaluationUpdate) (*models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.evaluations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.ContentEvaluate != nil {
		e.ContentEvaluate = *upd.ContentEvaluate
	}
	if upd.StarRating != nil {
		e.StarRating = *upd.StarRating
	}
	if upd.IsShow != nil {
		e.IsShow = *upd.IsShow
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvaluationStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.evaluations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.evaluations, id)
	return nil
}

func (f *fakeEvaluationStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.evaluations)
}

type fakeFeatureStore struct {
	mu       sync.Mutex
	features map[primitive.ObjectID]*models.ProductFeature
}

func newFakeFeatureStore() *fakeFeatureStore {
	return &fakeFeatureStore{features: make(map[primitive.ObjectID]*models.ProductFeature)}
}

func (f *fakeFeatureStore) List(_ context.Context, isShow *int, _, _ int64) ([]models.ProductFeature, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ProductFeature, 0, len(f.features))
	for _, pf := range f.features {
		if isShow != nil && pf.IsShow != *isShow {
			continue
		}
		out = append(out, *pf)
	}
	return out, int64(len(out)), nil
}

func (f *fakeFeatureStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.ProductFeature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pf, ok := f.features[id]; ok {
		cp := *pf
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFeatureStore) Create(_ context.Context, feature *models.ProductFeature) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	feature.ID = primitive.NewObjectID()
	cp := *feature
	f.features[feature.ID] = &cp
	return nil
}

func (f *fakeFeatureStore) Update(_ context.Context, id primitive.ObjectID, upd *models.FeatureUpdate) (*models.ProductFeature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pf, ok := f.features[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.NameFeature != nil {
		pf.NameFeature = *upd.NameFeature
	}
	if upd.ValueFeature != nil {
		pf.ValueFeature = *upd.ValueFeature
	}
	if upd.IsShow != nil {
		pf.IsShow = *upd.IsShow
	}
	cp := *pf
	return &cp, nil
}

func (f *fakeFeatureStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.features[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.features, id)
	return nil
}

// fakeCache records hits and misses so read-through behavior is observable.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return repository.ErrNotFound
	}
	f.hits++
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	f.sets++
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

type fakeStatsStore struct {
	revenue          []repository.RevenueBucket
	sold             []repository.SoldBucket
	totalRevenue     float64
	totalTransaction int64
	totalSold        int64
}

func (f *fakeStatsStore) RevenueBuckets(_ context.Context, _, _ time.Time, _ repository.BucketUnit) ([]repository.RevenueBucket, error) {
	return f.revenue, nil
}

func (f *fakeStatsStore) SoldBuckets(_ context.Context, _, _ time.Time, _ repository.BucketUnit) ([]repository.SoldBucket, error) {
	return f.sold, nil
}

func (f *fakeStatsStore) RangeTotals(_ context.Context, _, _ time.Time) (float64, int64, int64, error) {
	return f.totalRevenue, f.totalTransaction, f.totalSold, nil
}

type fakeGateway struct{}

func (fakeGateway) BuildPaymentURL(req vnpay.PaymentRequest) (string, error) {
	return "https://pay.example.test/redirect?ref=" + req.OrderCode, nil
}

func (fakeGateway) VerifyCallback(map[string]string) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		VNPay: config.VNPayConfig{
			TmnCode:    "TESTTMN",
			HashSecret: "TESTSECRETTESTSECRET",
			URL:        "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
			ReturnURL:  "http://localhost:8080/vnp/vnpay_return",
			SuccessURL: "http://localhost:3000/payment-success",
		},
	}
}

func newTestServer(stores Stores, gateway PaymentGateway) *Server {
	s := New(testConfig(), zap.NewNop(), stores, nil, gateway)
	s.SetupRoutes()
	return s
}
