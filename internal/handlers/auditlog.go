package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/audit"
	"backend/internal/models"
)

const auditLogDefaultLimit = 20

// ListAuditLogs pages the organisation's audit trail, newest first.
// Optional actorId, action and targetType query filters narrow the view.
func (a *App) ListAuditLogs(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	page, limit, err := parsePaginationParams(c.Query("currentPage"), c.Query("limit"), auditLogDefaultLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{"orgId": caller.OrganisationID}
	if caller.Role != models.RoleAdmin {
		filter["actorId"] = caller.ID.Hex()
	}
	if actorID := c.Query("actorId"); actorID != "" {
		filter["actorId"] = actorID
	}
	if action := c.Query("action"); action != "" {
		filter["action"] = action
	}
	if targetType := c.Query("targetType"); targetType != "" {
		filter["targetType"] = targetType
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collection := a.DB.Collection("audit_logs")
	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	defer cursor.Close(ctx)

	logs := make([]models.AuditLog, 0, limit)
	if err := cursor.All(ctx, &logs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Audit logs fetched successfully",
		"totalLogs":   total,
		"currentPage": page,
		"totalPages":  totalPages(total, limit),
		"logs":        logs,
	})
}

// PurgeAuditLogs deletes the organisation's audit trail. Admin only. The
// purge itself is recorded as the first entry of the fresh trail.
func (a *App) PurgeAuditLogs(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := a.DB.Collection("audit_logs").DeleteMany(ctx, bson.M{"orgId": caller.OrganisationID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	entry := audit.FromCaller(caller, "audit.purge", "AuditLog", "")
	entry.IP = c.ClientIP()
	entry.UserAgent = c.Request.UserAgent()
	entry.Meta = bson.M{"deletedCount": result.DeletedCount}
	_ = a.Audit.Record(c.Request.Context(), entry)

	c.JSON(http.StatusOK, gin.H{
		"message":      "Audit logs purged successfully",
		"deletedCount": result.DeletedCount,
	})
}
