package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
)

// ReviewerHandler 评论者HTTP处理器
type ReviewerHandler struct {
	resource[catalog.Reviewer, dto.ReviewerRequest, dto.ReviewerResponse]
	reviewers *catalog.ReviewerService
}

// NewReviewerHandler 创建评论者处理器
func NewReviewerHandler(reviewers *catalog.ReviewerService) *ReviewerHandler {
	return &ReviewerHandler{
		resource: resource[catalog.Reviewer, dto.ReviewerRequest, dto.ReviewerResponse]{
			facade: reviewers.Facade,
			bind:   (*dto.ReviewerRequest).ToEntity,
			render: dto.NewReviewerResponse,
		},
		reviewers: reviewers,
	}
}

// Register 注册路由
func (h *ReviewerHandler) Register(read, write gin.IRoutes) {
	read.GET("/reviewers", h.List)
	read.GET("/reviewers/:id", h.Get)
	read.GET("/reviewers/:id/reviews", h.Reviews)
	write.POST("/reviewers", h.Create)
	write.PUT("/reviewers/:id", h.Update)
	write.DELETE("/reviewers/:id", h.Delete)
}

// List 评论者列表
// @Summary  评论者列表
// @Tags     评论者
// @Produce  json
// @Success  200 {object} response.Response{data=[]dto.ReviewerResponse}
// @Router   /reviewers [get]
func (h *ReviewerHandler) List(c *gin.Context) { h.list(c) }

// Get 评论者详情
// @Summary  评论者详情
// @Tags     评论者
// @Produce  json
// @Param    id path int true "评论者ID"
// @Success  200 {object} response.Response{data=dto.ReviewerResponse}
// @Failure  404 {object} response.Response "评论者不存在"
// @Router   /reviewers/{id} [get]
func (h *ReviewerHandler) Get(c *gin.Context) { h.get(c) }

// Create 创建评论者
// @Summary   创建评论者
// @Tags      评论者
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     request body dto.ReviewerRequest true "评论者信息"
// @Success   201 {object} response.Response{data=dto.ReviewerResponse}
// @Failure   400 {object} response.Response "参数错误"
// @Failure   422 {object} response.Response "姓名已存在"
// @Router    /reviewers [post]
func (h *ReviewerHandler) Create(c *gin.Context) { h.create(c) }

// Update 更新评论者
// @Summary   更新评论者
// @Tags      评论者
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id path int true "评论者ID"
// @Param     request body dto.ReviewerRequest true "评论者信息（id必须与路径一致）"
// @Success   200 {object} response.Response{data=dto.ReviewerResponse}
// @Failure   400 {object} response.Response "参数错误"
// @Failure   404 {object} response.Response "评论者不存在"
// @Failure   422 {object} response.Response "姓名已存在"
// @Router    /reviewers/{id} [put]
func (h *ReviewerHandler) Update(c *gin.Context) { h.update(c) }

// Delete 删除评论者（其书评一并删除）
// @Summary   删除评论者
// @Tags      评论者
// @Security  BearerAuth
// @Param     id path int true "评论者ID"
// @Success   204
// @Failure   404 {object} response.Response "评论者不存在"
// @Router    /reviewers/{id} [delete]
func (h *ReviewerHandler) Delete(c *gin.Context) { h.remove(c) }

// Reviews 评论者写的书评
// @Summary  评论者的书评
// @Tags     评论者
// @Produce  json
// @Param    id path int true "评论者ID"
// @Success  200 {object} response.Response{data=[]dto.ReviewResponse}
// @Failure  404 {object} response.Response "评论者不存在"
// @Router   /reviewers/{id}/reviews [get]
func (h *ReviewerHandler) Reviews(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	reviews, err := h.reviewers.ReviewsOf(c.Request.Context(), id)
	related(c, reviews, err, dto.NewReviewResponse)
}
