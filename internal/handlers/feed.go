package handlers

import (
	"net/http"

	"github.com/gigline/gigline/internal/middleware"
	"github.com/gigline/gigline/internal/services"
	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedService    *services.FeedService
	likeService    *services.LikeService
	commentService *services.CommentService
}

func NewFeedHandler(feedService *services.FeedService, likeService *services.LikeService, commentService *services.CommentService) *FeedHandler {
	return &FeedHandler{
		feedService:    feedService,
		likeService:    likeService,
		commentService: commentService,
	}
}

func (h *FeedHandler) CreatePost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.feedService.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *FeedHandler) GetFeed(c *gin.Context) {
	offset, limit := pagination(c)
	posts, err := h.feedService.ListFeed(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *FeedHandler) GetPost(c *gin.Context) {
	post, err := h.feedService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *FeedHandler) GetUserPosts(c *gin.Context) {
	offset, limit := pagination(c)
	posts, err := h.feedService.ListByAuthor(c.Request.Context(), c.Param("id"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// ToggleLike flips the caller's like and reports the resulting state.
func (h *FeedHandler) ToggleLike(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	liked, err := h.likeService.Toggle(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (h *FeedHandler) GetPostLikes(c *gin.Context) {
	likers, err := h.likeService.Likers(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_ids": likers})
}

func (h *FeedHandler) Repost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	repost, err := h.feedService.Repost(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, repost)
}

func (h *FeedHandler) CreateComment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Add(c.Request.Context(), c.Param("id"), userID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *FeedHandler) GetPostComments(c *gin.Context) {
	offset, limit := pagination(c)
	comments, err := h.commentService.ListForPost(c.Request.Context(), c.Param("id"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
