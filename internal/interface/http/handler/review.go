package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
)

// ReviewHandler 书评HTTP处理器
type ReviewHandler struct {
	resource[catalog.Review, dto.ReviewRequest, dto.ReviewResponse]
	reviews   *catalog.ReviewService
	reviewers *catalog.ReviewerService
}

// NewReviewHandler 创建书评处理器
func NewReviewHandler(reviews *catalog.ReviewService, reviewers *catalog.ReviewerService) *ReviewHandler {
	return &ReviewHandler{
		resource: resource[catalog.Review, dto.ReviewRequest, dto.ReviewResponse]{
			facade: reviews.Facade,
			bind:   (*dto.ReviewRequest).ToEntity,
			render: dto.NewReviewResponse,
		},
		reviews:   reviews,
		reviewers: reviewers,
	}
}

// Register 注册路由
func (h *ReviewHandler) Register(read, write gin.IRoutes) {
	read.GET("/reviews", h.List)
	read.GET("/reviews/:id", h.Get)
	read.GET("/reviews/:id/book", h.Book)
	read.GET("/reviews/:id/reviewer", h.Reviewer)
	write.POST("/reviews", h.Create)
	write.PUT("/reviews/:id", h.Update)
	write.DELETE("/reviews/:id", h.Delete)
}

// List 书评列表
// @Summary  书评列表
// @Tags     书评
// @Produce  json
// @Success  200 {object} response.Response{data=[]dto.ReviewResponse}
// @Router   /reviews [get]
func (h *ReviewHandler) List(c *gin.Context) { h.list(c) }

// Get 书评详情
// @Summary  书评详情
// @Tags     书评
// @Produce  json
// @Param    id path int true "书评ID"
// @Success  200 {object} response.Response{data=dto.ReviewResponse}
// @Failure  404 {object} response.Response "书评不存在"
// @Router   /reviews/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) { h.get(c) }

// Create 创建书评
// @Summary   创建书评
// @Tags      书评
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     request body dto.ReviewRequest true "书评信息"
// @Success   201 {object} response.Response{data=dto.ReviewResponse}
// @Failure   400 {object} response.Response "参数错误"
// @Failure   404 {object} response.Response "图书或评论者不存在"
// @Router    /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) { h.create(c) }

// Update 更新书评
// @Summary   更新书评
// @Tags      书评
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id path int true "书评ID"
// @Param     request body dto.ReviewRequest true "书评信息（id必须与路径一致）"
// @Success   200 {object} response.Response{data=dto.ReviewResponse}
// @Failure   400 {object} response.Response "参数错误"
// @Failure   404 {object} response.Response "书评、图书或评论者不存在"
// @Router    /reviews/{id} [put]
func (h *ReviewHandler) Update(c *gin.Context) { h.update(c) }

// Delete 删除书评
// @Summary   删除书评
// @Tags      书评
// @Security  BearerAuth
// @Param     id path int true "书评ID"
// @Success   204
// @Failure   404 {object} response.Response "书评不存在"
// @Router    /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) { h.remove(c) }

// Book 书评所属图书
// @Summary  书评所属图书
// @Tags     书评
// @Produce  json
// @Param    id path int true "书评ID"
// @Success  200 {object} response.Response{data=dto.BookResponse}
// @Failure  404 {object} response.Response "书评不存在"
// @Router   /reviews/{id}/book [get]
func (h *ReviewHandler) Book(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	book, err := h.reviews.BookOfReview(c.Request.Context(), id)
	single(c, book, err, dto.NewBookResponse)
}

// Reviewer 书评的作者（评论者）
// @Summary  书评的评论者
// @Tags     书评
// @Produce  json
// @Param    id path int true "书评ID"
// @Success  200 {object} response.Response{data=dto.ReviewerResponse}
// @Failure  404 {object} response.Response "书评不存在"
// @Router   /reviews/{id}/reviewer [get]
func (h *ReviewHandler) Reviewer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	reviewer, err := h.reviewers.ReviewerOfReview(c.Request.Context(), id)
	single(c, reviewer, err, dto.NewReviewerResponse)
}
