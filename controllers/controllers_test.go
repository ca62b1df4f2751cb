package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"research-achievement-api/config"
	"research-achievement-api/middleware"
	"research-achievement-api/models"
	"research-achievement-api/utils"
)

// ControllerTestSuite wires the full HTTP surface against in-memory SQLite.
type ControllerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *ControllerTestSuite) SetupTest() {
	os.Setenv("JWT_SECRET", "test-secret")

	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.AutoMigrate(models.AllModels()...))

	// Controllers resolve their services through config.DB
	config.DB = suite.db

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	v1 := suite.router.Group("/api/v1")
	v1.POST("/login", Login)
	v1.POST("/password-reset/request", ForgotPassword)
	v1.POST("/password-reset/confirm", ResetPassword)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/profile", GetProfile)
	protected.PUT("/change-password", ChangePassword)
	protected.GET("/achievements", ListAchievements)
	protected.GET("/achievements/export", ExportAchievements)
	protected.GET("/achievements/:id", GetAchievement)
	protected.POST("/achievements", CreateAchievement)
	protected.PUT("/achievements/:id", UpdateAchievement)
	protected.DELETE("/achievements/:id", DeleteAchievement)
	protected.GET("/authors", ListAuthors)
	protected.GET("/statistics", GetStatistics)
	protected.GET("/statistics/me", GetUserStatistics)

	admin := protected.Group("/users")
	admin.Use(middleware.RequireAdmin())
	admin.GET("", ListUsers)
	admin.POST("", CreateUser)
	admin.PUT("/:id", UpdateUser)
	admin.DELETE("/:id", DeleteUser)
}

func (suite *ControllerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ControllerTestSuite) createUser(name, email, password, role string) *models.User {
	hashed, err := utils.HashPassword(password)
	suite.Require().NoError(err)

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *ControllerTestSuite) tokenFor(user *models.User) string {
	token, err := generateToken(*user)
	suite.Require().NoError(err)
	return token
}

func (suite *ControllerTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ControllerTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// journalPayload is a minimal valid create request body.
func journalPayload(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":    title,
		"category": "journal_paper",
		"authors": []map[string]interface{}{
			{"name": "张三", "order": 1, "is_first": true},
		},
		"journal_paper": map[string]interface{}{
			"journal_name": "Nature",
			"publish_date": "2024-03-15",
		},
	}
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func (suite *ControllerTestSuite) TestLoginSuccess() {
	suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)

	w := suite.request(http.MethodPost, "/api/v1/login", "", map[string]string{
		"email":    "zhang@example.edu.cn",
		"password": "password123",
	})
	suite.Equal(http.StatusOK, w.Code)

	body := suite.decode(w)
	suite.NotEmpty(body["token"])
	// The password hash never leaves the server
	suite.NotContains(w.Body.String(), "password123")
	suite.NotContains(w.Body.String(), `"password"`)
}

func (suite *ControllerTestSuite) TestLoginWrongPassword() {
	suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)

	w := suite.request(http.MethodPost, "/api/v1/login", "", map[string]string{
		"email":    "zhang@example.edu.cn",
		"password": "wrong",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ControllerTestSuite) TestProtectedRouteRequiresToken() {
	w := suite.request(http.MethodGet, "/api/v1/achievements", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ControllerTestSuite) TestAchievementLifecycle() {
	user := suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)
	token := suite.tokenFor(user)

	// Create
	w := suite.request(http.MethodPost, "/api/v1/achievements", token, journalPayload("深度学习研究"))
	suite.Require().Equal(http.StatusCreated, w.Code)
	created := suite.decode(w)["achievement"].(map[string]interface{})
	id := created["id"].(string)
	suite.Equal(user.ID, created["user_id"])

	// Fetch
	w = suite.request(http.MethodGet, "/api/v1/achievements/"+id, token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	got := suite.decode(w)["achievement"].(map[string]interface{})
	suite.Equal("深度学习研究", got["title"])
	suite.NotNil(got["journal_paper"])

	// List
	w = suite.request(http.MethodGet, "/api/v1/achievements?keyword=深度", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.EqualValues(1, suite.decode(w)["count"])

	// Update
	payload := journalPayload("深度学习研究(修订)")
	w = suite.request(http.MethodPut, "/api/v1/achievements/"+id, token, payload)
	suite.Require().Equal(http.StatusOK, w.Code)

	// Delete
	w = suite.request(http.MethodDelete, "/api/v1/achievements/"+id, token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/achievements/"+id, token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ControllerTestSuite) TestUpdateForbiddenForNonOwner() {
	owner := suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)
	other := suite.createUser("李四", "li@example.edu.cn", "password123", models.RoleUser)

	w := suite.request(http.MethodPost, "/api/v1/achievements", suite.tokenFor(owner), journalPayload("私有成果"))
	suite.Require().Equal(http.StatusCreated, w.Code)
	id := suite.decode(w)["achievement"].(map[string]interface{})["id"].(string)

	w = suite.request(http.MethodPut, "/api/v1/achievements/"+id, suite.tokenFor(other), journalPayload("篡改"))
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodDelete, "/api/v1/achievements/"+id, suite.tokenFor(other), nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ControllerTestSuite) TestAdminCanEditAnyAchievement() {
	owner := suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)
	admin := suite.createUser("管理员", "admin@example.edu.cn", "password123", models.RoleAdmin)

	w := suite.request(http.MethodPost, "/api/v1/achievements", suite.tokenFor(owner), journalPayload("普通成果"))
	suite.Require().Equal(http.StatusCreated, w.Code)
	id := suite.decode(w)["achievement"].(map[string]interface{})["id"].(string)

	w = suite.request(http.MethodDelete, "/api/v1/achievements/"+id, suite.tokenFor(admin), nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *ControllerTestSuite) TestCreateRejectsUnknownCategory() {
	user := suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)

	payload := journalPayload("错误类别")
	payload["category"] = "grant"
	w := suite.request(http.MethodPost, "/api/v1/achievements", suite.tokenFor(user), payload)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ControllerTestSuite) TestCreateRejectsMissingDetail() {
	user := suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)

	payload := journalPayload("缺少详情")
	delete(payload, "journal_paper")
	w := suite.request(http.MethodPost, "/api/v1/achievements", suite.tokenFor(user), payload)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ControllerTestSuite) TestExportDownload() {
	user := suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)
	token := suite.tokenFor(user)

	w := suite.request(http.MethodPost, "/api/v1/achievements", token, journalPayload("导出成果"))
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/achievements/export?category=journal_paper", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "期刊论文_")
	suite.Contains(w.Body.String(), "导出成果")
}

func (suite *ControllerTestSuite) TestExportEmptyIs404() {
	user := suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)

	w := suite.request(http.MethodGet, "/api/v1/achievements/export", suite.tokenFor(user), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ControllerTestSuite) TestStatisticsEndpoints() {
	user := suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)
	token := suite.tokenFor(user)

	w := suite.request(http.MethodPost, "/api/v1/achievements", token, journalPayload("统计成果"))
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/statistics", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.EqualValues(1, body["total_achievements"])
	suite.EqualValues(1, body["user_achievements"])

	w = suite.request(http.MethodGet, "/api/v1/statistics/me", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	body = suite.decode(w)
	suite.EqualValues(1, body["total_count"])
}

func (suite *ControllerTestSuite) TestAuthorsList() {
	user := suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)
	token := suite.tokenFor(user)

	w := suite.request(http.MethodPost, "/api/v1/achievements", token, journalPayload("成果"))
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/authors", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "张三")
}

func (suite *ControllerTestSuite) TestUserAdminRequiresAdminRole() {
	user := suite.createUser("张三", "zhang@example.edu.cn", "password123", models.RoleUser)

	w := suite.request(http.MethodGet, "/api/v1/users", suite.tokenFor(user), nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ControllerTestSuite) TestAdminUserManagement() {
	admin := suite.createUser("管理员", "admin@example.edu.cn", "password123", models.RoleAdmin)
	token := suite.tokenFor(admin)

	w := suite.request(http.MethodPost, "/api/v1/users", token, map[string]string{
		"name":     "新用户",
		"email":    "new@example.edu.cn",
		"password": "password123",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	created := suite.decode(w)["user"].(map[string]interface{})
	suite.Equal("user", created["role"])

	// Duplicate email is rejected
	w = suite.request(http.MethodPost, "/api/v1/users", token, map[string]string{
		"name":     "重复",
		"email":    "new@example.edu.cn",
		"password": "password123",
	})
	suite.Equal(http.StatusConflict, w.Code)

	// Self-deletion is blocked
	w = suite.request(http.MethodDelete, "/api/v1/users/"+admin.ID, token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ControllerTestSuite) TestChangePassword() {
	user := suite.createUser("张三", "zhang@example.edu.cn", "oldpassword1", models.RoleUser)
	token := suite.tokenFor(user)

	w := suite.request(http.MethodPut, "/api/v1/change-password", token, map[string]string{
		"current_password": "wrong",
		"new_password":     "newpassword1",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPut, "/api/v1/change-password", token, map[string]string{
		"current_password": "oldpassword1",
		"new_password":     "newpassword1",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	// Old password no longer works
	w = suite.request(http.MethodPost, "/api/v1/login", "", map[string]string{
		"email":    "zhang@example.edu.cn",
		"password": "oldpassword1",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPost, "/api/v1/login", "", map[string]string{
		"email":    "zhang@example.edu.cn",
		"password": "newpassword1",
	})
	suite.Equal(http.StatusOK, w.Code)
}
