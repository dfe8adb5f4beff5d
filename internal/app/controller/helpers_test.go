package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/fooddash/fooddash-backend/internal/app/service"
	"github.com/fooddash/fooddash-backend/internal/db"
	"github.com/fooddash/fooddash-backend/internal/middleware"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine

	customer *model.Customer
	staff    *model.Staff
	admin    *model.Admin
	burger   *model.MenuItem
	fries    *model.MenuItem

	customerToken string
	staffToken    string
	adminToken    string
}

func setupControllerTest(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	customerRepo := repository.NewCustomerRepository(testDB)
	staffRepo := repository.NewStaffRepository(testDB)
	adminRepo := repository.NewAdminRepository(testDB)
	menuRepo := repository.NewMenuRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	activityRepo := repository.NewActivityRepository(testDB)

	activityService := service.NewActivityService(activityRepo)
	accountService := service.NewAccountService(customerRepo, staffRepo, adminRepo, activityService)
	authService := service.NewAuthService(customerRepo, staffRepo, adminRepo, activityService, nil, testJWTSecret, 15*time.Minute, 24*time.Hour)
	menuService := service.NewMenuService(menuRepo, activityService, "₱")
	cartService := service.NewCartService(repository.NewMemoryCartRepository(), menuRepo, "₱")
	orderService := service.NewOrderService(testDB, orderRepo, decimal.NewFromInt(50), nil, nil)
	analyticsService := service.NewAnalyticsService(orderRepo)

	authCtrl := NewAuthController(authService, accountService)
	menuCtrl := NewMenuController(menuService, accountService, nil)
	cartCtrl := NewCartController(cartService)
	orderCtrl := NewOrderController(orderService, cartService, accountService)
	analyticsCtrl := NewAnalyticsController(analyticsService)
	activityCtrl := NewActivityController(activityService, accountService)
	adminCtrl := NewAdminController(accountService)

	auth := middleware.NewAuthMiddleware(testJWTSecret, nil)
	customerOnly := auth.RequireRole(model.RoleCustomer)
	backOffice := auth.RequireRole(model.RoleStaff, model.RoleAdmin)
	adminOnly := auth.RequireRole(model.RoleAdmin)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)
	router.POST("/auth/staff/login", authCtrl.StaffLogin)
	router.POST("/auth/admin/login", authCtrl.AdminLogin)
	router.POST("/auth/refresh", authCtrl.RefreshToken)
	router.POST("/auth/logout", auth.Authenticate(), authCtrl.Logout)

	router.GET("/me", auth.Authenticate(), customerOnly, authCtrl.GetMe)
	router.PUT("/me", auth.Authenticate(), customerOnly, authCtrl.UpdateMe)

	router.GET("/menu", menuCtrl.ListMenu)
	router.GET("/menu/:id", menuCtrl.GetMenuItem)
	router.POST("/menu", auth.Authenticate(), backOffice, menuCtrl.CreateMenuItem)
	router.PUT("/menu/:id", auth.Authenticate(), backOffice, menuCtrl.UpdateMenuItem)
	router.DELETE("/menu/:id", auth.Authenticate(), backOffice, menuCtrl.DeleteMenuItem)
	router.POST("/menu/upload-url", auth.Authenticate(), backOffice, menuCtrl.CreateImageUploadURL)

	router.GET("/cart", auth.Authenticate(), customerOnly, cartCtrl.GetCart)
	router.POST("/cart/items", auth.Authenticate(), customerOnly, cartCtrl.AddToCart)
	router.PATCH("/cart/items/:index", auth.Authenticate(), customerOnly, cartCtrl.UpdateCartItem)
	router.DELETE("/cart/items/:index", auth.Authenticate(), customerOnly, cartCtrl.RemoveCartItem)
	router.DELETE("/cart", auth.Authenticate(), customerOnly, cartCtrl.ClearCart)

	router.POST("/orders", auth.Authenticate(), customerOnly, orderCtrl.Checkout)
	router.GET("/orders/mine", auth.Authenticate(), customerOnly, orderCtrl.GetMyOrders)
	router.GET("/orders/mine/:id", auth.Authenticate(), customerOnly, orderCtrl.GetMyOrder)
	router.GET("/orders", auth.Authenticate(), backOffice, orderCtrl.ListOrders)
	router.GET("/orders/:id", auth.Authenticate(), backOffice, orderCtrl.GetOrder)
	router.PATCH("/orders/:id/status", auth.Authenticate(), backOffice, orderCtrl.UpdateOrderStatus)
	router.DELETE("/orders/:id", auth.Authenticate(), adminOnly, orderCtrl.DeleteOrder)

	router.GET("/analytics/dashboard", auth.Authenticate(), backOffice, analyticsCtrl.GetDashboard)
	router.GET("/analytics/monthly", auth.Authenticate(), backOffice, analyticsCtrl.GetMonthlyRevenue)
	router.GET("/analytics/popular", auth.Authenticate(), backOffice, analyticsCtrl.GetPopularItems)

	router.GET("/activity", auth.Authenticate(), backOffice, activityCtrl.ListActivity)
	router.GET("/activity/count", auth.Authenticate(), backOffice, activityCtrl.CountActivity)
	router.GET("/activity/export", auth.Authenticate(), adminOnly, activityCtrl.ExportActivity)
	router.DELETE("/activity", auth.Authenticate(), adminOnly, activityCtrl.ClearActivity)

	router.GET("/admin/staff", auth.Authenticate(), adminOnly, adminCtrl.ListStaff)
	router.POST("/admin/staff", auth.Authenticate(), adminOnly, adminCtrl.CreateStaff)
	router.PUT("/admin/staff/:id", auth.Authenticate(), adminOnly, adminCtrl.UpdateStaff)
	router.DELETE("/admin/staff/:id", auth.Authenticate(), adminOnly, adminCtrl.DeleteStaff)
	router.GET("/admin/customers", auth.Authenticate(), adminOnly, adminCtrl.ListCustomers)
	router.POST("/admin/customers", auth.Authenticate(), adminOnly, adminCtrl.CreateCustomer)
	router.PUT("/admin/customers/:id", auth.Authenticate(), adminOnly, adminCtrl.UpdateCustomer)
	router.DELETE("/admin/customers/:id", auth.Authenticate(), adminOnly, adminCtrl.DeleteCustomer)

	env := &testEnv{db: testDB, router: router}

	env.customer = &model.Customer{
		FullName:     "Juan Dela Cruz",
		Email:        "juan@example.com",
		Phone:        "09171234567",
		Address:      "12 Mabini St, Manila",
		PasswordHash: "hash",
	}
	require.NoError(t, customerRepo.Create(env.customer))

	env.staff = &model.Staff{Name: "Maria Santos", Email: "maria@fooddash.local", Position: "Staff", PasswordHash: "hash"}
	require.NoError(t, staffRepo.Create(env.staff))

	env.admin = &model.Admin{Name: "Jose Rizal", Email: "admin@fooddash.local", PasswordHash: "hash"}
	require.NoError(t, adminRepo.Create(env.admin))

	env.burger = &model.MenuItem{Name: "Classic Burger", Category: model.CategoryBurger, Price: decimal.NewFromInt(159)}
	require.NoError(t, testDB.Create(env.burger).Error)
	env.fries = &model.MenuItem{Name: "Large Fries", Category: model.CategorySides, Price: decimal.NewFromInt(79)}
	require.NoError(t, testDB.Create(env.fries).Error)

	env.customerToken = issueToken(t, env.customer.ID, env.customer.Email, model.RoleCustomer)
	env.staffToken = issueToken(t, env.staff.ID, env.staff.Email, model.RoleStaff)
	env.adminToken = issueToken(t, env.admin.ID, env.admin.Email, model.RoleAdmin)

	return env
}

func issueToken(t *testing.T, id uint, email string, role model.UserRole) string {
	tokens, err := util.GenerateTokenPair(id, email, string(role), testJWTSecret, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

// do sends a request with an optional JSON body and bearer token
func (env *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// decimalField reads a decimal that was serialized as a JSON string
func decimalField(t *testing.T, v interface{}) decimal.Decimal {
	s, ok := v.(string)
	require.True(t, ok, "expected decimal string, got %T", v)
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
