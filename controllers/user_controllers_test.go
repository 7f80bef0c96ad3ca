package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/cafepos/pos-app/controllers"
	"github.com/cafepos/pos-app/utils"
)

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userCtrl := controllers.NewUserController(db)
	r.POST("/register", userCtrl.Register)
	r.POST("/login", userCtrl.Login)
	return r
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	r := setupUserRouter(db)

	w := doJSON(t, r, "POST", "/register", gin.H{
		"name":     "Sam",
		"email":    "sam@example.com",
		"password": "hunter2!",
		"role":     "staff",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "POST", "/login", gin.H{
		"email":    "sam@example.com",
		"password": "hunter2!",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				Name string `json:"name"`
				Role string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, "staff", resp.Data.User.Role)

	claims, err := utils.ParseToken(resp.Data.Token)
	assert.NoError(t, err)
	assert.Equal(t, "staff", claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	r := setupUserRouter(db)

	doJSON(t, r, "POST", "/register", gin.H{
		"name":     "Sam",
		"email":    "sam@example.com",
		"password": "hunter2!",
		"role":     "staff",
	})

	w := doJSON(t, r, "POST", "/login", gin.H{
		"email":    "sam@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	db := setupTestDB(t)
	r := setupUserRouter(db)

	w := doJSON(t, r, "POST", "/register", gin.H{
		"name":     "Sam",
		"email":    "sam@example.com",
		"password": "hunter2!",
		"role":     "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
