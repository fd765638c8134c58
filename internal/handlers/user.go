package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/audit"
	"backend/internal/models"
)

type signupUserRequest struct {
	Name            string          `json:"name" binding:"required"`
	EmpUsername     string          `json:"EmpUsername"`
	Email           string          `json:"email" binding:"required,email"`
	Phone           string          `json:"phone"`
	Password        string          `json:"password" binding:"required,min=8"`
	ConfirmPassword string          `json:"confirmPassword" binding:"required"`
	Permissions     map[string]bool `json:"permissions"`
}

// SignupUser lets an admin create a sub-user under their organisation.
func (a *App) SignupUser(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req signupUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	dupFilter := bson.M{"email": email}
	if req.Phone != "" {
		dupFilter = bson.M{"$or": []bson.M{{"email": email}, {"phone": req.Phone}}}
	}
	count, err := a.DB.Collection("users").CountDocuments(ctx, dupFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "a user with this email or phone already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	empUsername := req.EmpUsername
	if empUsername == "" {
		empUsername = strings.SplitN(email, "@", 2)[0]
	}

	adminID := caller.ID
	now := time.Now()
	user := models.User{
		Name:           req.Name,
		EmpUsername:    empUsername,
		Email:          email,
		Phone:          req.Phone,
		PasswordHash:   string(hash),
		Role:           models.RoleUser,
		Permissions:    req.Permissions,
		OrganisationID: caller.OrganisationID,
		AdminID:        &adminID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	result, err := a.DB.Collection("users").InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "a user with this email already exists"})
			return
		}
		a.Log.Error("user insert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	entry := audit.FromCaller(caller, "user.signup", "User", user.ID.Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"` // email or phone
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"` // optional expected role
}

// Login authenticates by email or phone and issues a signed access token.
func (a *App) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// an all-digit username is a phone number, anything else an email
	username := strings.TrimSpace(req.Username)
	filter := bson.M{"email": strings.ToLower(username)}
	if username != "" && strings.IndexFunc(username, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
		filter = bson.M{"phone": username}
	}

	var user models.User
	if err := a.DB.Collection("users").FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account is deactivated"})
		return
	}
	if req.Role != "" && req.Role != user.Role {
		c.JSON(http.StatusForbidden, gin.H{"error": "role mismatch"})
		return
	}

	now := time.Now()
	record := models.LoginRecord{LoginAt: now, IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	_, err := a.DB.Collection("users").UpdateByID(ctx, user.ID, bson.M{
		"$set":  bson.M{"lastLogin": now},
		"$push": bson.M{"loginHistory": bson.M{"$each": []models.LoginRecord{record}, "$slice": -20}},
	})
	if err != nil {
		a.Log.Warn("login history update failed", zap.String("userId", user.ID.Hex()), zap.Error(err))
	}

	adminID := user.ID
	if user.AdminID != nil {
		adminID = *user.AdminID
	}

	claims := jwt.MapClaims{
		"id":             user.ID.Hex(),
		"email":          user.Email,
		"name":           user.Name,
		"role":           user.Role,
		"adminId":        adminID.Hex(),
		"organisationId": user.OrganisationID.Hex(),
		"exp":            now.Add(a.TokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":             user.ID,
			"name":           user.Name,
			"email":          user.Email,
			"role":           user.Role,
			"permissions":    user.Permissions,
			"organisationId": user.OrganisationID,
		},
	})
}

// GetAllUsers returns the caller's visible accounts: admins see their
// sub-users, sub-users see only themselves. Password hashes never leave
// the database.
func (a *App) GetAllUsers(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var filter bson.M
	if caller.Role == models.RoleAdmin {
		filter = bson.M{"adminId": caller.ID, "role": bson.M{"$ne": models.RoleAdmin}}
	} else {
		filter = bson.M{"_id": caller.ID}
	}

	opts := options.Find().
		SetProjection(bson.M{"password": 0, "resetPasswordToken": 0, "resetPasswordExpires": 0}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := a.DB.Collection("users").Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	defer cursor.Close(ctx)

	users := make([]bson.M, 0)
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Users fetched successfully",
		"users":   users,
	})
}

// userUpdatableFields is the whitelist for the generic user update path.
var userUpdatableFields = map[string]bool{
	"name":        true,
	"EmpUsername": true,
	"phone":       true,
	"permissions": true,
	"isActive":    true,
}

// UpdateUser edits a sub-user (admin) or the caller's own profile (user).
// A new password is re-hashed; everything else passes through the
// whitelist.
func (a *App) UpdateUser(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var target models.User
	if err := a.DB.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&target); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	allowed := false
	switch caller.Role {
	case models.RoleAdmin:
		allowed = target.OrganisationID == caller.OrganisationID
	case models.RoleUser:
		allowed = target.ID == caller.ID
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to update this user"})
		return
	}

	set := bson.M{}
	for key, value := range body {
		if userUpdatableFields[key] {
			set[key] = value
		}
	}
	if raw, exists := body["password"]; exists {
		password, _ := raw.(string)
		if len(password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
			return
		}
		set["password"] = string(hash)
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in body"})
		return
	}
	set["updatedAt"] = time.Now()

	var updated bson.M
	err = a.DB.Collection("users").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"password": 0, "resetPasswordToken": 0, "resetPasswordExpires": 0}),
	).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	entry := audit.FromCaller(caller, "user.update", "User", id.Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    updated,
	})
}

// DeleteUser removes a sub-user. Admin only; admins cannot delete
// themselves through this path.
func (a *App) DeleteUser(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if id == caller.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var target models.User
	if err := a.DB.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&target); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if target.OrganisationID != caller.OrganisationID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this user"})
		return
	}

	if _, err := a.DB.Collection("users").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	entry := audit.FromCaller(caller, "user.delete", "User", id.Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	entry.Meta = bson.M{"email": target.Email, "name": target.Name}
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
