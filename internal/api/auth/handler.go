package auth

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"pixeljournal/config"
	"pixeljournal/database"
	"pixeljournal/internal/app/http/httpx"
	"pixeljournal/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func isEmailValid(email string) bool {
	pattern := `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, err.Error())
		return
	}

	if !isPasswordStrong(input.Password) {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Password must be at least 8 characters long and contain both letters and numbers")
		return
	}
	if !isEmailValid(input.Email) {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, "Invalid email format")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to hash password")
		return
	}
	hashed := string(hashedPassword)

	user := users.User{
		Name:         input.Name,
		Email:        input.Email,
		Password:     &hashed,
		AuthProvider: "local",
		GoogleSub:    nil,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		fmt.Println("❌ DB Insert Error:", err)
		httpx.Fail(c, http.StatusConflict, httpx.CodeInvalidBody, "Email may already exist")
		return
	}

	tokenString, err := issueAppJWT(user)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Could not create token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  gin.H{"id": user.ID, "email": user.Email, "name": user.Name},
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, err.Error())
		return
	}

	var user users.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid credentials")
		return
	}

	if user.Password == nil || *user.Password == "" {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "This account uses Google sign-in")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid credentials")
		return
	}

	tokenString, err := issueAppJWT(user)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Could not create token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

func ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, err.Error())
		return
	}

	if !isPasswordStrong(input.NewPassword) {
		httpx.Fail(c, http.StatusBadRequest, httpx.CodeInvalidBody, "New password must be at least 8 characters long and contain both letters and numbers")
		return
	}

	userID := c.GetUint("user_id")
	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "User not found")
		return
	}

	if user.Password == nil || bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.CurrentPassword)) != nil {
		httpx.Fail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Current password is incorrect")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to hash password")
		return
	}

	if err := database.DB.Model(&users.User{}).
		Where("id = ?", user.ID).
		Update("password", string(hashedPassword)).Error; err != nil {
		httpx.Fail(c, http.StatusInternalServerError, httpx.CodeInternalError, "Failed to update password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func issueAppJWT(user users.User) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return t.SignedString([]byte(config.JWT_SECRET))
}
