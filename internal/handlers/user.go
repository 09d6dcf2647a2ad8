package handlers

import (
	"net/http"

	"github.com/gigline/gigline/internal/middleware"
	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	directoryService    *services.DirectoryService
	socialService       *services.SocialService
	notificationService *services.NotificationService
}

func NewUserHandler(directoryService *services.DirectoryService, socialService *services.SocialService, notificationService *services.NotificationService) *UserHandler {
	return &UserHandler{
		directoryService:    directoryService,
		socialService:       socialService,
		notificationService: notificationService,
	}
}

// SyncProfile upserts the caller's identity-provider projection. The id
// in the body must match the token subject.
func (h *UserHandler) SyncProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.SyncProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot sync another user's profile"})
		return
	}

	profile, err := h.directoryService.Sync(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.directoryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) ListByRole(c *gin.Context) {
	offset, limit := pagination(c)
	profiles, err := h.directoryService.ListByRole(c.Request.Context(), models.Role(c.Query("role")), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func (h *UserHandler) Follow(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.socialService.Follow(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Followed successfully"})
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.socialService.Unfollow(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed successfully"})
}

func (h *UserHandler) GetFollowers(c *gin.Context) {
	offset, limit := pagination(c)
	followers, err := h.socialService.Followers(c.Request.Context(), c.Param("id"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

func (h *UserHandler) GetFollowing(c *gin.Context) {
	offset, limit := pagination(c)
	following, err := h.socialService.Following(c.Request.Context(), c.Param("id"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

func (h *UserHandler) GetNotifications(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	offset, limit := pagination(c)
	notifications, err := h.notificationService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	unread, err := h.notificationService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

func (h *UserHandler) MarkNotificationsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	count, err := h.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}
