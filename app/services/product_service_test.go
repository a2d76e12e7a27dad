package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/app/services"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Insert(ctx context.Context, p *models.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

// memCache stores values as-is; Get copies Products back into dest.
type memCache struct {
	mu   sync.Mutex
	data map[string]models.Product
}

func newMemCache() *memCache { return &memCache{data: map[string]models.Product{}} }

func (c *memCache) Get(_ context.Context, key string, dest interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.data[key]
	if ok {
		*dest.(*models.Product) = p
	}
	return ok
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = *value.(*models.Product)
	return nil
}

type fired struct {
	event   string
	payload interface{}
}

type recordingDispatcher struct {
	mu    sync.Mutex
	fires []fired
}

func (d *recordingDispatcher) FireAsync(_ context.Context, event string, payload interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fires = append(d.fires, fired{event, payload})
}

func ptr[T any](v T) *T { return &v }

func riceInput() models.ProductInput {
	return models.ProductInput{
		Name:        ptr("Rice"),
		Description: ptr("Basmati"),
		Price:       ptr(50.0),
		Unit:        ptr("kg"),
		Quantity:    ptr(0.0),
	}
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(store *mockStore) (*services.ProductService, *memCache, *recordingDispatcher) {
	cache := newMemCache()
	events := &recordingDispatcher{}
	svc := services.NewProductService(store, cache, events, time.Minute).
		WithClock(func() time.Time { return fixedNow })
	return svc, cache, events
}

func TestCreate_PersistsNormalizedRecord(t *testing.T) {
	store := &mockStore{}
	store.On("Insert", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Rice" && p.Status == models.StatusOutOfStock
	})).Return(nil).Once()

	svc, cache, events := newService(store)

	p, err := svc.Create(context.Background(), riceInput())
	require.NoError(t, err)

	assert.Equal(t, models.StatusOutOfStock, p.Status)
	assert.Equal(t, fixedNow, p.CreatedAt)
	store.AssertExpectations(t)

	var cached models.Product
	assert.True(t, cache.Get(context.Background(), "product:"+p.ID.Hex(), &cached))

	require.Len(t, events.fires, 1)
	assert.Equal(t, models.EventProductSaved, events.fires[0].event)
	assert.Equal(t, "Rice", events.fires[0].payload.(models.Product).Name)
}

func TestCreate_InvalidNeverReachesStore(t *testing.T) {
	store := &mockStore{}
	svc, _, events := newService(store)

	in := riceInput()
	in.Quantity = ptr(3.5)

	_, err := svc.Create(context.Background(), in)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Quantity must be an integer", verr.Fields.Map()["quantity"])
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.Empty(t, events.fires)
}

func TestCreate_DuplicateNameSecondInsertFails(t *testing.T) {
	store := &mockStore{}
	store.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
	store.On("Insert", mock.Anything, mock.Anything).
		Return(models.NewDuplicateNameError("Rice", errors.New("E11000"))).Once()

	svc, _, events := newService(store)

	_, err := svc.Create(context.Background(), riceInput())
	require.NoError(t, err)

	in := riceInput()
	in.Name = ptr("  Rice ")
	_, err = svc.Create(context.Background(), in)

	assert.ErrorIs(t, err, models.ErrDuplicateName)
	assert.Equal(t, "Product validation failed: name: Name must be unique", err.Error())
	assert.Len(t, events.fires, 1)
	store.AssertExpectations(t)
}

func TestCreate_StoreFailure(t *testing.T) {
	store := &mockStore{}
	boom := errors.New("connection reset")
	store.On("Insert", mock.Anything, mock.Anything).Return(boom)

	svc, _, events := newService(store)

	_, err := svc.Create(context.Background(), riceInput())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, events.fires)
}

func TestFetchByID_MalformedID(t *testing.T) {
	store := &mockStore{}
	svc, _, _ := newService(store)

	p, err := svc.FetchByID(context.Background(), "not-an-id")

	assert.Nil(t, p)
	var lerr *models.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "not-an-id", lerr.ID)
	store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestFetchByID_NotFound(t *testing.T) {
	store := &mockStore{}
	id := primitive.NewObjectID()
	store.On("FindByID", mock.Anything, id).Return(nil, nil)

	svc, _, _ := newService(store)

	p, err := svc.FetchByID(context.Background(), id.Hex())
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestFetchByID_ReadThroughCache(t *testing.T) {
	store := &mockStore{}
	want := &models.Product{ID: primitive.NewObjectID(), Name: "Rice", Quantity: 4}
	store.On("FindByID", mock.Anything, want.ID).Return(want, nil).Once()

	svc, _, _ := newService(store)

	first, err := svc.FetchByID(context.Background(), want.ID.Hex())
	require.NoError(t, err)
	second, err := svc.FetchByID(context.Background(), want.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, want, first)
	assert.Equal(t, want.Name, second.Name)
	store.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestFetchByID_StoreError(t *testing.T) {
	store := &mockStore{}
	id := primitive.NewObjectID()
	store.On("FindByID", mock.Anything, id).Return(nil, errors.New("timeout"))

	svc, _, _ := newService(store)

	p, err := svc.FetchByID(context.Background(), id.Hex())
	assert.Error(t, err)
	assert.Nil(t, p)
}
