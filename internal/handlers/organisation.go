package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/audit"
	"backend/internal/models"
	"backend/internal/scope"
)

type registerOrganisationRequest struct {
	CompanyName string         `json:"companyName" binding:"required"`
	Industry    string         `json:"industry"`
	AdminName   string         `json:"adminName" binding:"required"`
	AdminEmail  string         `json:"adminEmail" binding:"required,email"`
	AdminPhone  string         `json:"adminPhone"`
	Password    string         `json:"password" binding:"required,min=8"`
	Billing     models.Billing `json:"billing"`
	Address     models.Address `json:"address"`
	GSTNumber   string         `json:"gstNumber"`
}

// RegisterOrganisation creates a tenant and its admin account in one call.
// The admin's EmpUsername defaults to the local part of the email, and its
// adminId points at itself so ownership filters work uniformly.
func (a *App) RegisterOrganisation(c *gin.Context) {
	var req registerOrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.AdminEmail))

	now := time.Now()
	org := models.Organisation{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		AdminEmail:  email,
		AdminPhone:  req.AdminPhone,
		Billing:     req.Billing,
		Address:     req.Address,
		GSTNumber:   req.GSTNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	orgResult, err := a.DB.Collection("organisations").InsertOne(ctx, org)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "an organisation with this admin email already exists"})
			return
		}
		a.Log.Error("organisation insert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	orgID := orgResult.InsertedID.(primitive.ObjectID)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	adminID := primitive.NewObjectID()
	admin := models.User{
		ID:             adminID,
		Name:           req.AdminName,
		EmpUsername:    strings.SplitN(email, "@", 2)[0],
		Email:          email,
		Phone:          req.AdminPhone,
		PasswordHash:   string(hash),
		Role:           models.RoleAdmin,
		OrganisationID: orgID,
		AdminID:        &adminID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := a.DB.Collection("users").InsertOne(ctx, admin); err != nil {
		// roll the tenant back so a retry with the same email can succeed
		_, _ = a.DB.Collection("organisations").DeleteOne(ctx, bson.M{"_id": orgID})
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "a user with this email already exists"})
			return
		}
		a.Log.Error("admin user insert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entry := audit.FromCaller(scope.Caller{
		ID:             adminID,
		Email:          email,
		Name:           req.AdminName,
		Role:           models.RoleAdmin,
		AdminID:        adminID,
		OrganisationID: orgID,
	}, "organisation.register", "Organisation", orgID.Hex())
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	_ = a.Audit.Record(c.Request.Context(), entry)

	org.ID = orgID
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Organisation registered successfully",
		"organisation": org,
		"admin": gin.H{
			"id":    adminID,
			"name":  admin.Name,
			"email": admin.Email,
			"role":  admin.Role,
		},
	})
}
