package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	resource[catalog.Category, dto.CategoryRequest, dto.CategoryResponse]
	categories *catalog.CategoryService
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(categories *catalog.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		resource: resource[catalog.Category, dto.CategoryRequest, dto.CategoryResponse]{
			facade: categories.Facade,
			bind:   (*dto.CategoryRequest).ToEntity,
			render: dto.NewCategoryResponse,
		},
		categories: categories,
	}
}

// Register 注册路由
func (h *CategoryHandler) Register(read, write gin.IRoutes) {
	read.GET("/categories", h.List)
	read.GET("/categories/:id", h.Get)
	read.GET("/categories/:id/books", h.Books)
	write.POST("/categories", h.Create)
	write.PUT("/categories/:id", h.Update)
	write.DELETE("/categories/:id", h.Delete)
}

// List 分类列表
// @Summary  分类列表
// @Tags     分类
// @Produce  json
// @Success  200 {object} response.Response{data=[]dto.CategoryResponse}
// @Router   /categories [get]
func (h *CategoryHandler) List(c *gin.Context) { h.list(c) }

// Get 分类详情
// @Summary  分类详情
// @Tags     分类
// @Produce  json
// @Param    id path int true "分类ID"
// @Success  200 {object} response.Response{data=dto.CategoryResponse}
// @Failure  404 {object} response.Response "分类不存在"
// @Router   /categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) { h.get(c) }

// Create 创建分类
// @Summary   创建分类
// @Tags      分类
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     request body dto.CategoryRequest true "分类信息"
// @Success   201 {object} response.Response{data=dto.CategoryResponse}
// @Failure   400 {object} response.Response "参数错误"
// @Failure   422 {object} response.Response "名称已存在"
// @Router    /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) { h.create(c) }

// Update 更新分类
// @Summary   更新分类
// @Tags      分类
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id path int true "分类ID"
// @Param     request body dto.CategoryRequest true "分类信息（id必须与路径一致）"
// @Success   200 {object} response.Response{data=dto.CategoryResponse}
// @Failure   400 {object} response.Response "参数错误"
// @Failure   404 {object} response.Response "分类不存在"
// @Failure   422 {object} response.Response "名称已存在"
// @Router    /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) { h.update(c) }

// Delete 删除分类（仍有图书时拒绝）
// @Summary   删除分类
// @Tags      分类
// @Security  BearerAuth
// @Param     id path int true "分类ID"
// @Success   204
// @Failure   404 {object} response.Response "分类不存在"
// @Failure   409 {object} response.Response "仍有图书引用"
// @Router    /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) { h.remove(c) }

// Books 分类下的图书
// @Summary  分类下的图书
// @Tags     分类
// @Produce  json
// @Param    id path int true "分类ID"
// @Success  200 {object} response.Response{data=[]dto.BookResponse}
// @Failure  404 {object} response.Response "分类不存在"
// @Router   /categories/{id}/books [get]
func (h *CategoryHandler) Books(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	books, err := h.categories.BooksOf(c.Request.Context(), id)
	related(c, books, err, dto.NewBookResponse)
}
