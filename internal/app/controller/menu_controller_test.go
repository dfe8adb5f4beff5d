package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceInput_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`159`, "159"},
		{`159.5`, "159.5"},
		{`"₱159.00"`, "159"},
		{`"P 1,299"`, "1299"},
		{`""`, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var p PriceInput
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &p))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(p.Decimal), "got %s", p.String())
		})
	}
}

func TestMenuController_ListAndGet(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(http.MethodGet, "/menu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["count"])

	w = env.do(http.MethodGet, "/menu?category=sides", "", nil)
	body := decodeBody(t, w)
	require.Equal(t, float64(1), body["count"])
	assert.Equal(t, "Large Fries", body["items"].([]interface{})[0].(map[string]interface{})["name"])

	w = env.do(http.MethodGet, "/menu?search=burg", "", nil)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = env.do(http.MethodGet, fmt.Sprintf("/menu/%d", env.burger.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/menu/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MENU_ITEM_NOT_FOUND", decodeBody(t, w)["error"])
}

func TestMenuController_CreateWithCurrencyPrice(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(http.MethodPost, "/menu", env.staffToken, `{"name":"Spicy Chicken Bucket","category":"fried chicken","price":"₱349.00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	item := decodeBody(t, w)["item"].(map[string]interface{})
	assert.Equal(t, "Chicken", item["category"])
	assert.True(t, decimal.NewFromInt(349).Equal(decimalField(t, item["price"])))

	var logs []model.ActivityLog
	require.NoError(t, env.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActionAddMenuItem, logs[0].Action)
	assert.Equal(t, "Spicy Chicken Bucket (₱349.00) - Chicken", logs[0].Details)
}

func TestMenuController_CreateRejections(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(http.MethodPost, "/menu", env.staffToken, `{"name":"Free Water"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["fields"], "price")

	w = env.do(http.MethodPost, "/menu", env.staffToken, `{"price":10}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["fields"], "name")

	w = env.do(http.MethodPost, "/menu", env.customerToken, `{"name":"Hack","price":1}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMenuController_UpdateAndDelete(t *testing.T) {
	env := setupControllerTest(t)
	path := fmt.Sprintf("/menu/%d", env.burger.ID)

	w := env.do(http.MethodPut, path, env.adminToken, `{"name":"Double Burger","category":"Burger","price":199}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Double Burger", decodeBody(t, w)["item"].(map[string]interface{})["name"])

	w = env.do(http.MethodDelete, path, env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodDelete, path, env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMenuController_UploadNotConfigured(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(http.MethodPost, "/menu/upload-url", env.staffToken, ImageUploadRequest{Filename: "a.png", ContentType: "image/png"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "UPLOAD_NOT_CONFIGURED", decodeBody(t, w)["error"])
}

type stubUploader struct{}

func (stubUploader) PresignImageUpload(_ context.Context, filename, contentType, folder string) (*storage.PresignedUpload, error) {
	if err := storage.ValidateContentType(contentType, storage.AllowedImageTypes); err != nil {
		return nil, err
	}
	key := folder + "/" + filename
	return &storage.PresignedUpload{UploadURL: "https://upload.test/" + key, FileURL: "https://cdn.test/" + key, Key: key}, nil
}

func TestMenuController_UploadURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := NewMenuController(nil, nil, stubUploader{})
	env := &testEnv{router: gin.New()}
	env.router.POST("/upload", ctrl.CreateImageUploadURL)

	w := env.do(http.MethodPost, "/upload", "", ImageUploadRequest{Filename: "burger.png", ContentType: "image/png"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "menu/burger.png", body["key"])
	assert.Equal(t, "https://cdn.test/menu/burger.png", body["file_url"])

	w = env.do(http.MethodPost, "/upload", "", ImageUploadRequest{Filename: "doc.pdf", ContentType: "application/pdf"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UPLOAD_INVALID_FILE_TYPE", decodeBody(t, w)["error"])
}
