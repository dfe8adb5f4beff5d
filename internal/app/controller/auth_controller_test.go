package controller

import (
	"net/http"
	"testing"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_RegisterAndLogin(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(http.MethodPost, "/auth/register", "", RegisterRequest{
		FullName: "Ana Reyes",
		Email:    "Ana@Example.com",
		Password: "secret123",
		Phone:    "09170000000",
		Address:  "5 Rizal Ave",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, "CUST00002", user["customer_id"])
	tokens := body["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])

	w = env.do(http.MethodPost, "/auth/login", "", LoginRequest{Email: "ana@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/auth/login", "", LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", decodeBody(t, w)["error"])
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(http.MethodPost, "/auth/register", "", RegisterRequest{
		FullName: "Another Juan",
		Email:    "JUAN@example.com",
		Password: "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AUTH_EMAIL_EXISTS", decodeBody(t, w)["error"])
}

func TestAuthController_Register_ValidationFields(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	fields := decodeBody(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "full_name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestAuthController_StaffLoginByCode(t *testing.T) {
	env := setupControllerTest(t)

	hash, err := util.HashPassword("staffpass")
	require.NoError(t, err)
	require.NoError(t, env.db.Model(env.staff).Update("password_hash", hash).Error)

	w := env.do(http.MethodPost, "/auth/staff/login", "", StaffLoginRequest{Identifier: "emp00001", Password: "staffpass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "EMP00001", user["staff_id"])
	assert.Equal(t, "staff", user["role"])

	var logs []model.ActivityLog
	require.NoError(t, env.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActionStaffLogin, logs[0].Action)
}

func TestAuthController_RefreshAndLogout(t *testing.T) {
	env := setupControllerTest(t)

	pair, err := util.GenerateTokenPair(env.customer.ID, env.customer.Email, "customer", testJWTSecret, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/auth/refresh", "", RefreshTokenRequest{RefreshToken: pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decodeBody(t, w)["tokens"])

	w = env.do(http.MethodPost, "/auth/refresh", "", RefreshTokenRequest{RefreshToken: pair.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/auth/logout", env.customerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthController_Profile(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(http.MethodGet, "/me", env.customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Juan Dela Cruz", decodeBody(t, w)["user"].(map[string]interface{})["full_name"])

	w = env.do(http.MethodPut, "/me", env.customerToken, `{"full_name":"Juan D. Cruz","address":"99 Luna St"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "Juan D. Cruz", user["full_name"])
	assert.Equal(t, "99 Luna St", user["address"])
	assert.Equal(t, "09171234567", user["phone"], "phone was not in the body")
	assert.Equal(t, "juan@example.com", user["email"])

	w = env.do(http.MethodPut, "/me", env.customerToken, `{"phone":""}`)
	require.Equal(t, http.StatusOK, w.Code)
	user = decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "", user["phone"])
	assert.Equal(t, "99 Luna St", user["address"])

	w = env.do(http.MethodGet, "/me", env.staffToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthController_ChangePassword(t *testing.T) {
	env := setupControllerTest(t)
	hash, err := util.HashPassword("oldsecret")
	require.NoError(t, err)
	require.NoError(t, env.db.Model(env.customer).Update("password_hash", hash).Error)

	w := env.do(http.MethodPut, "/me", env.customerToken, `{"new_password":"newsecret123"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decodeBody(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "current_password")

	w = env.do(http.MethodPut, "/me", env.customerToken, `{"current_password":"guess","new_password":"newsecret123"}`)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTH_PASSWORD_MISMATCH", decodeBody(t, w)["error"])

	w = env.do(http.MethodPost, "/auth/login", "", LoginRequest{Email: "juan@example.com", Password: "newsecret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPut, "/me", env.customerToken, `{"current_password":"oldsecret","new_password":"newsecret123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "12 Mabini St, Manila", user["address"])

	w = env.do(http.MethodPost, "/auth/login", "", LoginRequest{Email: "juan@example.com", Password: "newsecret123"})
	assert.Equal(t, http.StatusOK, w.Code)
}
