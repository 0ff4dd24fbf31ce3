package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stepuplabz/market/internal/config"
	dbpkg "github.com/stepuplabz/market/internal/db"
	"github.com/stepuplabz/market/internal/models"
	"github.com/stepuplabz/market/internal/routes"
	"github.com/stepuplabz/market/internal/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// setupServer boots the full router against an in-memory SQLite database.
func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	cfg := &config.Config{
		JWTSecret:     "test_jwt_secret",
		StorageDriver: "local",
		UploadDir:     t.TempDir(),
		MaxUploadMB:   5,
	}

	store, err := storage.NewLocal(cfg.UploadDir)
	require.NoError(t, err)

	r := gin.New()
	routes.RegisterRoutes(r, db, cfg, store, nil)
	return r, db
}

func request(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func registerUser(t *testing.T, r *gin.Engine, phone, password string) (token, userID string) {
	t.Helper()

	w := request(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"phone":    phone,
		"password": password,
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string)
}

// makeAdmin promotes a registered user and returns a fresh token carrying
// the admin role claim.
func makeAdmin(t *testing.T, r *gin.Engine, db *gorm.DB, phone, password string) string {
	t.Helper()

	require.NoError(t, db.Model(&models.User{}).
		Where("phone = ?", phone).
		Update("role", models.RoleAdmin).Error)

	w := request(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"phone":    phone,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func orderBody(productID string) gin.H {
	return gin.H{
		"items": []gin.H{
			{"id": productID, "name": "Laptop", "price": 15000.0, "quantity": 1},
		},
		"totalPrice": 15000.0,
		"address":    "Test Mah. 1. Sok. No:1",
	}
}

// ------------------------------------------------------------------
// Auth
// ------------------------------------------------------------------

func TestRegisterAndLogin(t *testing.T) {
	r, db := setupServer(t)

	token, _ := registerUser(t, r, "5551234567", "pass123")
	assert.NotEmpty(t, token)

	// duplicate phone is rejected and no second row appears
	w := request(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"phone":    "5551234567",
		"password": "other_pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "user_already_exists", decode(t, w)["error_code"])

	var count int64
	db.Model(&models.User{}).Where("phone = ?", "5551234567").Count(&count)
	assert.EqualValues(t, 1, count)

	// login works, wrong password and unknown phone share one error
	w = request(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"phone": "5551234567", "password": "pass123"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"phone": "5551234567", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_credentials", decode(t, w)["error_code"])

	w = request(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"phone": "5550000000", "password": "pass123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_credentials", decode(t, w)["error_code"])
}

func TestChangePassword(t *testing.T) {
	r, _ := setupServer(t)

	token, _ := registerUser(t, r, "5551234567", "pass123")

	w := request(t, r, http.MethodPost, "/api/auth/change-password", token, gin.H{
		"oldPassword": "nope",
		"newPassword": "newpass1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, r, http.MethodPost, "/api/auth/change-password", token, gin.H{
		"oldPassword": "pass123",
		"newPassword": "newpass1",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"phone": "5551234567", "password": "newpass1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

// ------------------------------------------------------------------
// Catalog
// ------------------------------------------------------------------

func createProduct(t *testing.T, r *gin.Engine, adminToken string, body gin.H) map[string]any {
	t.Helper()

	w := request(t, r, http.MethodPost, "/api/products", adminToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)
}

func TestCampaignRoundTrip(t *testing.T) {
	r, db := setupServer(t)

	registerUser(t, r, "5559990000", "adminpass")
	admin := makeAdmin(t, r, db, "5559990000", "adminpass")

	product := createProduct(t, r, admin, gin.H{"name": "Zeytinyağı", "price": 100.0, "stock": 5})
	id := product["id"].(string)

	// enable campaign at 79.9
	w := request(t, r, http.MethodPut, "/api/products/"+id, admin, gin.H{
		"isCampaign":    true,
		"campaignPrice": 79.9,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, 79.9, body["price"])
	assert.Equal(t, 100.0, body["originalPrice"])
	assert.Equal(t, true, body["isCampaign"])

	// enabling without a price is inconsistent
	p2 := createProduct(t, r, admin, gin.H{"name": "Un", "price": 30.0, "stock": 5})
	w = request(t, r, http.MethodPut, "/api/products/"+p2["id"].(string), admin, gin.H{"isCampaign": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_campaign_price", decode(t, w)["error_code"])

	// disable restores the original price and clears campaign fields
	w = request(t, r, http.MethodPut, "/api/products/"+id, admin, gin.H{"isCampaign": false})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, 100.0, body["price"])
	_, hasOriginal := body["originalPrice"]
	assert.False(t, hasOriginal)
	assert.Equal(t, false, body["isCampaign"])
}

func TestSoftDeletedProductsHiddenFromListButFetchable(t *testing.T) {
	r, db := setupServer(t)

	registerUser(t, r, "5559990000", "adminpass")
	admin := makeAdmin(t, r, db, "5559990000", "adminpass")

	product := createProduct(t, r, admin, gin.H{"name": "Eski Ürün", "price": 10.0, "stock": 1})
	id := product["id"].(string)

	w := request(t, r, http.MethodDelete, "/api/products/"+id, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	for _, p := range listed {
		assert.NotEqual(t, id, p["id"])
	}

	// still resolvable for historical order item snapshots
	w = request(t, r, http.MethodGet, "/api/products/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isDeleted"])
}

func TestCategoryUpdateDeleteNotImplemented(t *testing.T) {
	r, db := setupServer(t)

	registerUser(t, r, "5559990000", "adminpass")
	admin := makeAdmin(t, r, db, "5559990000", "adminpass")

	w := request(t, r, http.MethodPost, "/api/categories", admin, gin.H{"name": "Electronics"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = request(t, r, http.MethodPut, "/api/categories/"+id, admin, gin.H{"name": "Tech"})
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = request(t, r, http.MethodDelete, "/api/categories/"+id, admin, nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

// ------------------------------------------------------------------
// Orders
// ------------------------------------------------------------------

// TestCheckoutScenario walks the canonical happy path: register, admin
// builds a catalog, user orders a laptop, history shows exactly that order.
func TestCheckoutScenario(t *testing.T) {
	r, db := setupServer(t)

	userToken, userID := registerUser(t, r, "5551234567", "pass123")

	registerUser(t, r, "5559990000", "adminpass")
	admin := makeAdmin(t, r, db, "5559990000", "adminpass")

	w := request(t, r, http.MethodPost, "/api/categories", admin, gin.H{"name": "Electronics"})
	require.Equal(t, http.StatusCreated, w.Code)

	product := createProduct(t, r, admin, gin.H{
		"name":     "Laptop",
		"price":    15000.0,
		"stock":    10,
		"category": "Electronics",
	})

	w = request(t, r, http.MethodPost, "/api/orders", userToken, orderBody(product["id"].(string)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, 15000.0, created["totalPrice"])
	assert.NotEmpty(t, created["id"])

	w = request(t, r, http.MethodGet, "/api/orders/user/"+userID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, created["id"], orders[0]["id"])
	assert.Equal(t, "pending", orders[0]["status"])
}

func TestOrderIdempotencyKey(t *testing.T) {
	r, _ := setupServer(t)

	token, userID := registerUser(t, r, "5551234567", "pass123")

	body := orderBody("prod-1")
	body["idempotencyKey"] = "checkout-abc"

	w := request(t, r, http.MethodPost, "/api/orders", token, body)
	require.Equal(t, http.StatusCreated, w.Code)
	first := decode(t, w)

	w = request(t, r, http.MethodPost, "/api/orders", token, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first["id"], decode(t, w)["id"])

	w = request(t, r, http.MethodGet, "/api/orders/user/"+userID, token, nil)
	var orders []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
}

func TestOrderStatusTransitions(t *testing.T) {
	r, db := setupServer(t)

	userToken, _ := registerUser(t, r, "5551234567", "pass123")
	registerUser(t, r, "5559990000", "adminpass")
	admin := makeAdmin(t, r, db, "5559990000", "adminpass")

	w := request(t, r, http.MethodPost, "/api/orders", userToken, orderBody("prod-1"))
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decode(t, w)["id"].(string)

	statusPath := "/api/orders/" + orderID + "/status"

	// nonsense strings are no longer persisted
	w = request(t, r, http.MethodPut, statusPath, admin, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_status", decode(t, w)["error_code"])

	// skipping preparing is rejected
	w = request(t, r, http.MethodPut, statusPath, admin, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", decode(t, w)["error_code"])

	for _, s := range []string{"preparing", "on_the_way", "delivered"} {
		w = request(t, r, http.MethodPut, statusPath, admin, gin.H{"status": s})
		require.Equal(t, http.StatusOK, w.Code, "to %s: %s", s, w.Body.String())
		assert.Equal(t, s, decode(t, w)["status"])
	}

	// delivered is terminal, also for cancel
	w = request(t, r, http.MethodPut, statusPath, admin, gin.H{"status": "preparing"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(t, r, http.MethodPost, "/api/orders/"+orderID+"/cancel", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", decode(t, w)["error_code"])
}

func TestOrderCancelOwnership(t *testing.T) {
	r, _ := setupServer(t)

	ownerToken, _ := registerUser(t, r, "5551234567", "pass123")
	strangerToken, _ := registerUser(t, r, "5557654321", "pass456")

	w := request(t, r, http.MethodPost, "/api/orders", ownerToken, orderBody("prod-1"))
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decode(t, w)["id"].(string)

	w = request(t, r, http.MethodPost, "/api/orders/"+orderID+"/cancel", strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(t, r, http.MethodPost, "/api/orders/"+orderID+"/cancel", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode(t, w)["status"])
}

func TestOrderListingGuards(t *testing.T) {
	r, db := setupServer(t)

	aToken, _ := registerUser(t, r, "5551234567", "pass123")
	_, bID := registerUser(t, r, "5557654321", "pass456")

	// no peeking at another user's history
	w := request(t, r, http.MethodGet, "/api/orders/user/"+bID, aToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// the global listing needs the admin role
	w = request(t, r, http.MethodGet, "/api/orders", aToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(t, r, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	registerUser(t, r, "5559990000", "adminpass")
	admin := makeAdmin(t, r, db, "5559990000", "adminpass")

	w = request(t, r, http.MethodGet, "/api/orders", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// admin may read any user's history
	w = request(t, r, http.MethodGet, "/api/orders/user/"+bID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderStatsEndpoint(t *testing.T) {
	r, db := setupServer(t)

	userToken, _ := registerUser(t, r, "5551234567", "pass123")
	registerUser(t, r, "5559990000", "adminpass")
	admin := makeAdmin(t, r, db, "5559990000", "adminpass")

	// one order driven to delivered, one left pending
	w := request(t, r, http.MethodPost, "/api/orders", userToken, orderBody("prod-1"))
	require.Equal(t, http.StatusCreated, w.Code)
	deliveredID := decode(t, w)["id"].(string)

	for _, s := range []string{"preparing", "on_the_way", "delivered"} {
		w = request(t, r, http.MethodPut, "/api/orders/"+deliveredID+"/status", admin, gin.H{"status": s})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = request(t, r, http.MethodPost, "/api/orders", userToken, orderBody("prod-2"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(t, r, http.MethodGet, "/api/orders/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode(t, w)

	daily := stats["daily"].(map[string]any)
	assert.Equal(t, 15000.0+models.DefaultDeliveryFee, daily["revenue"])
	assert.Equal(t, 1.0, daily["orders"])
	assert.Equal(t, 1.0, stats["pending_count"])

	// stats are management-only
	w = request(t, r, http.MethodGet, "/api/orders/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ------------------------------------------------------------------
// Addresses
// ------------------------------------------------------------------

func TestAddresses(t *testing.T) {
	r, _ := setupServer(t)

	token, _ := registerUser(t, r, "5551234567", "pass123")
	otherToken, _ := registerUser(t, r, "5557654321", "pass456")

	w := request(t, r, http.MethodPost, "/api/addresses", token, gin.H{
		"address":  "Çarşı Cad. No:5",
		"city":     "İstanbul",
		"district": "Kadıköy",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	assert.Equal(t, "Ev", created["title"])
	addressID := created["id"].(string)

	w = request(t, r, http.MethodGet, "/api/addresses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	// only the owner can delete
	w = request(t, r, http.MethodDelete, "/api/addresses/"+addressID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, r, http.MethodDelete, "/api/addresses/"+addressID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, http.MethodGet, "/api/addresses", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 0)
}

// ------------------------------------------------------------------
// Users (admin)
// ------------------------------------------------------------------

func TestUserListingExcludesPasswords(t *testing.T) {
	r, db := setupServer(t)

	userToken, userID := registerUser(t, r, "5551234567", "pass123")
	registerUser(t, r, "5559990000", "adminpass")
	admin := makeAdmin(t, r, db, "5559990000", "adminpass")

	w := request(t, r, http.MethodGet, "/api/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(t, r, http.MethodGet, "/api/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	for _, u := range users {
		_, leaked := u["password"]
		assert.False(t, leaked)
	}

	w = request(t, r, http.MethodGet, "/api/users/"+userID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5551234567", decode(t, w)["phone"])
}

// ------------------------------------------------------------------
// Upload
// ------------------------------------------------------------------

func TestImageUpload(t *testing.T) {
	r, db := setupServer(t)

	registerUser(t, r, "5559990000", "adminpass")
	admin := makeAdmin(t, r, db, "5559990000", "adminpass")

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "test.png")
	require.NoError(t, err)
	_, err = part.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	url := decode(t, w)["imageUrl"].(string)
	assert.Contains(t, url, "/uploads/product-")
	assert.Contains(t, url, ".webp")

	// junk is rejected before it hits the disk
	var junk bytes.Buffer
	mw = multipart.NewWriter(&junk)
	part, _ = mw.CreateFormFile("image", "junk.bin")
	fmt.Fprint(part, "not an image at all")
	mw.Close()

	req = httptest.NewRequest(http.MethodPost, "/api/products/upload", &junk)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
