package handlers

import (
	"net/http"

	"github.com/gigline/gigline/internal/middleware"
	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/services"
	"github.com/gin-gonic/gin"
)

type GigHandler struct {
	gigService      *services.GigService
	interestService *services.InterestService
	bookingService  *services.BookingService
}

func NewGigHandler(gigService *services.GigService, interestService *services.InterestService, bookingService *services.BookingService) *GigHandler {
	return &GigHandler{
		gigService:      gigService,
		interestService: interestService,
		bookingService:  bookingService,
	}
}

func (h *GigHandler) CreateGig(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.CreateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gig, err := h.gigService.CreateGig(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gig)
}

func (h *GigHandler) GetGig(c *gin.Context) {
	gig, err := h.gigService.GetGig(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

func (h *GigHandler) ListOpenGigs(c *gin.Context) {
	offset, limit := pagination(c)
	gigs, err := h.gigService.ListOpen(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

func (h *GigHandler) ListMyGigs(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	offset, limit := pagination(c)
	gigs, err := h.gigService.ListForVenue(c.Request.Context(), userID, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

// ListMyBookings returns the caller's gigs as the booked DJ, filtered by
// status (Booked by default).
func (h *GigHandler) ListMyBookings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	status := models.GigStatus(c.DefaultQuery("status", string(models.GigStatusBooked)))
	offset, limit := pagination(c)
	gigs, err := h.gigService.ListForDJ(c.Request.Context(), userID, status, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

func (h *GigHandler) CancelGig(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	gig, err := h.gigService.CancelGig(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

func (h *GigHandler) CompleteGig(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	gig, err := h.gigService.CompleteGig(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

func (h *GigHandler) ExpressInterest(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.interestService.Express(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Interest recorded"})
}

func (h *GigHandler) ListInterested(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profiles, err := h.interestService.ListInterested(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"djs": profiles})
}

func (h *GigHandler) ListMyInterests(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	gigs, err := h.interestService.ListForDJ(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

func (h *GigHandler) BookDJ(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.BookDJRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gig, err := h.bookingService.BookDJ(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}
