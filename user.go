package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"echosphere/middleware"
	"echosphere/models"
)

const bcryptCost = 12

// Token lifetimes per purpose. Only one token column exists on the user
// row, so a flow started later overwrites the token of one started earlier.
const (
	verifyTokenTTL = 1800 * time.Second
	loginTokenTTL  = 20 * time.Hour
	resetTokenTTL  = 900 * time.Second
)

type signUpInput struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func signUp(c *gin.Context) {
	var input signUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingErrorMessage(err)})
		return
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists!"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}

	user := models.User{Username: username, Email: email, Password: string(hashed)}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}

	token, err := middleware.IssueToken(user.ID, false, verifyTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}
	user.Token = &token
	db.Model(&user).Update("token", token)

	link := fmt.Sprintf("%s/api/v1/verify-user/%d/%s", cfg.BaseURL, user.ID, token)
	if err := mail.Send(user.Email, "Email Verification", verificationEmail(user.Username, link)); err != nil {
		slog.Error("verification email not sent", "error", err, "email", user.Email)
		c.JSON(http.StatusCreated, gin.H{
			"message": "Account created, but failed to send verification email. Please contact support.",
			"data":    user,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Successfully created an account, Please log in to your email and verify your account",
		"data":    user,
	})
}

func verifyUser(c *gin.Context) {
	id := c.Param("id")
	token := c.Param("token")

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}

	if _, err := middleware.ParseToken(token); err != nil {
		newToken, issueErr := middleware.IssueToken(user.ID, false, verifyTokenTTL)
		if issueErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + issueErr.Error()})
			return
		}
		db.Model(&user).Update("token", newToken)

		link := fmt.Sprintf("%s/api/v1/verify-user/%d/%s", cfg.BaseURL, user.ID, newToken)
		if sendErr := mail.Send(user.Email, "RE-VERIFY YOUR ACCOUNT", verificationEmail(user.Username, link)); sendErr != nil {
			slog.Error("re-verification email not sent", "error", sendErr, "email", user.Email)
		}

		c.JSON(http.StatusBadRequest, gin.H{"message": "Token expired. A new verification link has been sent to your email."})
		return
	}

	db.Model(&user).Update("is_verified", true)
	c.JSON(http.StatusOK, gin.H{"message": "Account verified successfully, you can now log in"})
}

type logInInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func logIn(c *gin.Context) {
	var input logInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please fill all the fields below!"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if loginThrottled(c.Request.Context(), email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many login attempts. Try again later."})
		return
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not registered"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(strings.TrimSpace(input.Password))); err != nil {
		recordLoginFailure(c.Request.Context(), email)
		c.JSON(http.StatusNotFound, gin.H{"message": "Password is incorrect"})
		return
	}

	if !user.IsVerified {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Sorry user not verified yet. Check your mail to verify your account!"})
		return
	}

	token, err := middleware.IssueToken(user.ID, user.IsAdmin, loginTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}
	user.Token = &token
	db.Model(&user).Update("token", token)
	clearLoginFailures(c.Request.Context(), email)

	device := parseDeviceInfo(c.GetHeader("User-Agent"))
	loginTime := time.Now().Format("1/2/2006, 3:04:05 PM")
	slog.Info("successful login",
		"email", user.Email,
		"username", user.Username,
		"device", device.Type,
		"os", device.OS,
		"browser", device.Browser,
	)

	if err := mail.Send(user.Email, "Login Notification",
		loginNotificationEmail(user.Username, loginTime, device.Type, device.OS, device.Browser)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login Successfully! Welcome " + user.Username,
		"token":   token,
		"user":    user,
		"device":  gin.H{"type": device.Type, "name": device.OS},
	})
}

func forgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please enter your email address!"})
		return
	}

	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Email does not exist"})
		return
	}

	token, err := middleware.IssueToken(user.ID, false, resetTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}
	db.Model(&user).Update("token", token)

	link := fmt.Sprintf("%s/api/v1/reset-password/%d", cfg.BaseURL, user.ID)
	if err := mail.Send(user.Email, "Kindly Reset Your Password", resetEmail(user.Email, link)); err != nil {
		slog.Error("reset email not sent", "error", err, "email", user.Email)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Kindly check your email to reset your password"})
}

type resetPasswordInput struct {
	Password        string `json:"password" binding:"required,min=8,max=20,strongpwd"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

func resetPassword(c *gin.Context) {
	var input resetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingErrorMessage(err)})
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}

	if user.Token == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No reset token provided"})
		return
	}
	if _, err := middleware.ParseToken(*user.Token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Link has expired!"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Can't use previous password!"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}
	if err := db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to reset user's password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful!"})
}

func signOut(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}

	db.Model(&user).Update("token", nil)
	c.JSON(http.StatusCreated, gin.H{"message": toTitleCase(user.Username) + " has been signed out successfully"})
}

func getUser(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := db.Preload("Picture").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user Profile successfully fetched!", "data": user})
}

func getAllUsers(c *gin.Context) {
	var users []models.User
	if err := db.Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}
	if len(users) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No users found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d user(s) found", len(users)), "data": users})
}

type updateUserInput struct {
	Username string `json:"username" binding:"omitempty,min=3"`
	Email    string `json:"email" binding:"omitempty,email"`
}

func updateUserProfile(c *gin.Context) {
	var input updateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingErrorMessage(err)})
		return
	}

	userID := c.GetUint("user_id")
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found!"})
		return
	}

	if input.Username != "" {
		user.Username = strings.ToLower(strings.TrimSpace(input.Username))
	}
	if input.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if err := db.Model(&user).Updates(map[string]interface{}{
		"username": user.Username,
		"email":    user.Email,
	}).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to update user profile!"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Your profile has been updated successfully", "data": user})
}

func deleteUserProfile(c *gin.Context) {
	var user models.User
	if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if err := db.Delete(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to delete user profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User profile successfully deleted!"})
}

func uploadPhoto(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file was uploaded"})
		return
	}

	url, publicID, err := uploadMedia(c, fh, "user-images")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error uploading profile photo: " + err.Error()})
		return
	}

	var picture models.Picture
	if user.PictureID != nil {
		err := db.First(&picture, *user.PictureID).Error
		switch {
		case err == nil:
			if err := db.Model(&picture).Updates(map[string]interface{}{"public_id": publicID, "url": url}).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to upload user photo!"})
				return
			}
			picture.PublicID = publicID
			picture.URL = url
		case !errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to upload user photo!"})
			return
		}
	}
	if picture.ID == 0 {
		picture = models.Picture{PublicID: publicID, URL: url}
		if err := db.Create(&picture).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to upload user photo!"})
			return
		}
		db.Model(&user).Update("picture_id", picture.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Photo successfully uploaded!",
		"profilePicture": gin.H{"public_id": picture.PublicID, "url": picture.URL},
	})
}

func makeAdmin(c *gin.Context) {
	var user models.User
	if err := db.First(&user, "id = ?", c.Param("userId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if err := db.Model(&user).Update("is_admin", true).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to make user an admin"})
		return
	}
	user.IsAdmin = true

	// Marker row alongside the flag. Promoting the same user twice appends
	// a second row; the IsAdmin flag is what authorization reads.
	if err := db.Create(&models.Admin{UserID: user.ID}).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to make user an admin"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User have been made an Admin successfully", "data": user})
}

func toTitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var errUserNotFound = errors.New("user not found")

// currentUser loads the authenticated user set by the auth middleware.
func currentUser(c *gin.Context) (*models.User, error) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		return nil, errUserNotFound
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
