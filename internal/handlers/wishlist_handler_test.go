package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trekweb/trek_web_backend/internal/models"
	"github.com/trekweb/trek_web_backend/internal/repository"
	"github.com/trekweb/trek_web_backend/internal/services"
)

type fakeStore struct {
	mu      sync.Mutex
	entries []models.WishlistEntry
	clock   time.Time
	err     error
}

func (s *fakeStore) FindByOwnerAndPackage(_ context.Context, ownerID, packageID primitive.ObjectID) (*models.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, e := range s.entries {
		if e.OwnerID == ownerID && e.PackageID == packageID {
			found := e
			return &found, nil
		}
	}
	return nil, repository.ErrWishlistEntryNotFound
}

func (s *fakeStore) Create(_ context.Context, entry *models.WishlistEntry) (*models.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.clock = s.clock.Add(time.Second)
	entry.ID = primitive.NewObjectID()
	entry.AddedAt = s.clock
	s.entries = append(s.entries, *entry)
	return entry, nil
}

func (s *fakeStore) DeleteByOwnerAndKey(_ context.Context, ownerID primitive.ObjectID, key string) (*models.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for i, e := range s.entries {
		if e.OwnerID == ownerID && (e.PackageID.Hex() == key || e.PackageTitle == key) {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return &e, nil
		}
	}
	return nil, repository.ErrWishlistEntryNotFound
}

func (s *fakeStore) ListByOwner(_ context.Context, ownerID primitive.ObjectID) ([]models.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []models.WishlistEntry{}
	for _, e := range s.entries {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (s *fakeStore) DeleteAllByOwner(_ context.Context, ownerID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	var kept []models.WishlistEntry
	var n int64
	for _, e := range s.entries {
		if e.OwnerID == ownerID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return n, nil
}

type fakeCustomers map[primitive.ObjectID]bool

func (c fakeCustomers) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	return c[id], nil
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Error   string            `json:"error"`
}

type harness struct {
	router *mux.Router
	store  *fakeStore
	owner  primitive.ObjectID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	owner := primitive.NewObjectID()
	store := &fakeStore{clock: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	svc := services.NewWishlistService(store, fakeCustomers{owner: true})

	router := mux.NewRouter()
	NewWishlistHandler(svc).RegisterRoutes(router)
	return &harness{router: router, store: store, owner: owner}
}

func (h *harness) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func addBody(owner, pkg primitive.ObjectID, title string) map[string]interface{} {
	return map[string]interface{}{
		"ownerId":   owner.Hex(),
		"packageId": pkg.Hex(),
		"title":     title,
		"location":  "Everest Region, Nepal",
		"price":     1200,
	}
}

func TestAddToWishlist_CreatedThenExisting(t *testing.T) {
	h := newHarness(t)
	pkg := primitive.NewObjectID()

	rec, env := h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, pkg, "Everest Base Camp Trek"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Item added to wishlist successfully", env.Message)

	var first models.WishlistEntry
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Equal(t, "Everest Base Camp Trek", first.PackageTitle)
	assert.Nil(t, first.PackageImage)

	rec, env = h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, pkg, "Everest Base Camp Trek"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Item already in wishlist", env.Message)

	var second models.WishlistEntry
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, h.store.entries, 1)
}

func TestAddToWishlist_MissingPackageID(t *testing.T) {
	h := newHarness(t)
	body := addBody(h.owner, primitive.NewObjectID(), "Everest Base Camp Trek")
	delete(body, "packageId")

	rec, env := h.do(t, http.MethodPost, "/wishlist", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Missing required fields", env.Message)
	assert.Contains(t, env.Errors, "packageId")
	assert.Empty(t, h.store.entries)
}

func TestAddToWishlist_InvalidJSON(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodPost, "/wishlist", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request payload")
}

func TestAddToWishlist_UnknownOwner(t *testing.T) {
	h := newHarness(t)

	rec, env := h.do(t, http.MethodPost, "/wishlist", addBody(primitive.NewObjectID(), primitive.NewObjectID(), "Rara Lake Trek"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Owner not found", env.Message)
}

func TestAddToWishlist_StoreFailurePassesMessageThrough(t *testing.T) {
	h := newHarness(t)
	h.store.err = errors.New("connection pool closed")

	rec, env := h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, primitive.NewObjectID(), "Rara Lake Trek"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Internal server error", env.Message)
	assert.Equal(t, "connection pool closed", env.Error)
}

func TestRemoveFromWishlist(t *testing.T) {
	h := newHarness(t)
	pkg := primitive.NewObjectID()
	rec, _ := h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, pkg, "Everest Base Camp Trek"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := h.do(t, http.MethodDelete, "/wishlist/"+pkg.Hex(), map[string]string{"ownerId": h.owner.Hex()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item removed from wishlist successfully", env.Message)

	rec, env = h.do(t, http.MethodGet, "/wishlist/user/"+h.owner.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(env.Data))

	rec, env = h.do(t, http.MethodDelete, "/wishlist/"+pkg.Hex(), map[string]string{"ownerId": h.owner.Hex()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Wishlist item not found", env.Message)
}

func TestRemoveFromWishlist_OwnerFromQuery(t *testing.T) {
	h := newHarness(t)
	pkg := primitive.NewObjectID()
	h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, pkg, "Everest Base Camp Trek"))

	rec, _ := h.do(t, http.MethodDelete, "/wishlist/"+pkg.Hex()+"?ownerId="+h.owner.Hex(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, h.store.entries)
}

func TestRemoveFromWishlist_MissingOwner(t *testing.T) {
	h := newHarness(t)

	rec, env := h.do(t, http.MethodDelete, "/wishlist/"+primitive.NewObjectID().Hex(), map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Owner ID is required", env.Message)
}

func TestGetUserWishlist_NewestFirst(t *testing.T) {
	h := newHarness(t)
	p1, p2 := primitive.NewObjectID(), primitive.NewObjectID()
	h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, p1, "Everest Base Camp Trek"))
	h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, p2, "Annapurna Circuit Trek"))

	rec, env := h.do(t, http.MethodGet, "/wishlist/user/"+h.owner.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Wishlist retrieved successfully", env.Message)

	var entries []models.WishlistEntry
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, p2, entries[0].PackageID)
	assert.Equal(t, p1, entries[1].PackageID)
}

func TestGetUserWishlist_UnknownOwner(t *testing.T) {
	h := newHarness(t)

	rec, env := h.do(t, http.MethodGet, "/wishlist/user/"+primitive.NewObjectID().Hex(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Owner not found", env.Message)
}

func TestCheckWishlistItem(t *testing.T) {
	h := newHarness(t)
	pkg := primitive.NewObjectID()

	rec, env := h.do(t, http.MethodGet, "/wishlist/check/"+h.owner.Hex()+"/"+pkg.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isInWishlist":false,"item":null}`, string(env.Data))

	h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, pkg, "Everest Base Camp Trek"))

	rec, env = h.do(t, http.MethodGet, "/wishlist/check/"+h.owner.Hex()+"/"+pkg.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result models.WishlistCheck
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.IsInWishlist)
	require.NotNil(t, result.Item)
	assert.Equal(t, pkg, result.Item.PackageID)
}

func TestCheckWishlistItem_UnknownOwnerStillOK(t *testing.T) {
	h := newHarness(t)

	rec, env := h.do(t, http.MethodGet, "/wishlist/check/"+primitive.NewObjectID().Hex()+"/"+primitive.NewObjectID().Hex(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestClearWishlist(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, primitive.NewObjectID(), "Everest Base Camp Trek"))
	h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, primitive.NewObjectID(), "Rara Lake Trek"))

	rec, env := h.do(t, http.MethodDelete, "/wishlist/clear/"+h.owner.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Wishlist cleared successfully", env.Message)
	assert.JSONEq(t, `{"deletedCount":2}`, string(env.Data))

	rec, env = h.do(t, http.MethodDelete, "/wishlist/clear/"+h.owner.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deletedCount":0}`, string(env.Data))
}

func TestClearWishlist_UnknownOwner(t *testing.T) {
	h := newHarness(t)

	rec, _ := h.do(t, http.MethodDelete, "/wishlist/clear/"+primitive.NewObjectID().Hex(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearWishlist_MalformedOwner(t *testing.T) {
	h := newHarness(t)

	rec, env := h.do(t, http.MethodDelete, "/wishlist/clear/not-an-id", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid owner ID", env.Message)
}

func TestRemoveFromWishlist_TitleWithEscapedSlash(t *testing.T) {
	h := newHarness(t)
	rec, _ := h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, primitive.NewObjectID(), "Manaslu / Tsum Valley Trek"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := h.do(t, http.MethodDelete, "/wishlist/Manaslu%20%2F%20Tsum%20Valley%20Trek?ownerId="+h.owner.Hex(), nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var deleted models.WishlistEntry
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.Equal(t, "Manaslu / Tsum Valley Trek", deleted.PackageTitle)
	assert.Empty(t, h.store.entries)
}

func TestRemoveFromWishlist_TitleWithSpaces(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodPost, "/wishlist", addBody(h.owner, primitive.NewObjectID(), "Rara Lake Trek"))

	rec, _ := h.do(t, http.MethodDelete, "/wishlist/Rara%20Lake%20Trek", map[string]string{"ownerId": h.owner.Hex()})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, h.store.entries)
}
