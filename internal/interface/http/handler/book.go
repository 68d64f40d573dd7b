package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	resource[catalog.Book, dto.BookRequest, dto.BookResponse]
	books      *catalog.BookService
	authors    *catalog.AuthorService
	categories *catalog.CategoryService
	reviews    *catalog.ReviewService
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	books *catalog.BookService,
	authors *catalog.AuthorService,
	categories *catalog.CategoryService,
	reviews *catalog.ReviewService,
) *BookHandler {
	return &BookHandler{
		resource: resource[catalog.Book, dto.BookRequest, dto.BookResponse]{
			facade: books.Facade,
			bind:   (*dto.BookRequest).ToEntity,
			render: dto.NewBookResponse,
		},
		books:      books,
		authors:    authors,
		categories: categories,
		reviews:    reviews,
	}
}

// Register 注册路由
func (h *BookHandler) Register(read, write gin.IRoutes) {
	read.GET("/books", h.List)
	read.GET("/books/:id", h.Get)
	read.GET("/books/:id/authors", h.Authors)
	read.GET("/books/:id/categories", h.Categories)
	read.GET("/books/:id/reviews", h.Reviews)
	read.GET("/books/:id/rating", h.Rating)
	write.POST("/books", h.Create)
	write.PUT("/books/:id", h.Update)
	write.DELETE("/books/:id", h.Delete)
}

// List 图书列表；带isbn参数时按ISBN查询单本
// @Summary  图书列表
// @Tags     图书
// @Produce  json
// @Param    isbn query string false "ISBN（大小写与首尾空白不敏感）"
// @Success  200 {object} response.Response{data=[]dto.BookResponse}
// @Failure  404 {object} response.Response "ISBN不存在"
// @Router   /books [get]
func (h *BookHandler) List(c *gin.Context) {
	if isbn, ok := c.GetQuery("isbn"); ok {
		book, err := h.books.GetByISBN(c.Request.Context(), isbn)
		single(c, book, err, dto.NewBookResponse)
		return
	}
	h.list(c)
}

// Get 图书详情
// @Summary  图书详情
// @Tags     图书
// @Produce  json
// @Param    id path int true "图书ID"
// @Success  200 {object} response.Response{data=dto.BookResponse}
// @Failure  404 {object} response.Response "图书不存在"
// @Router   /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) { h.get(c) }

// Create 创建图书
// @Summary      创建图书
// @Description  图书行与作者、分类关联在同一事务内写入；至少一个作者和一个分类
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "作者或分类不存在"
// @Failure      422 {object} response.Response "ISBN已存在"
// @Router       /books [post]
func (h *BookHandler) Create(c *gin.Context) { h.create(c) }

// Update 更新图书（整体替换作者、分类关联）
// @Summary   更新图书
// @Tags      图书
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id path int true "图书ID"
// @Param     request body dto.BookRequest true "图书信息（id必须与路径一致）"
// @Success   200 {object} response.Response{data=dto.BookResponse}
// @Failure   400 {object} response.Response "参数错误"
// @Failure   404 {object} response.Response "图书、作者或分类不存在"
// @Failure   422 {object} response.Response "ISBN已存在"
// @Router    /books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) { h.update(c) }

// Delete 删除图书（书评与关联行一并删除）
// @Summary   删除图书
// @Tags      图书
// @Security  BearerAuth
// @Param     id path int true "图书ID"
// @Success   204
// @Failure   404 {object} response.Response "图书不存在"
// @Router    /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) { h.remove(c) }

// Authors 图书的作者
// @Summary  图书的作者
// @Tags     图书
// @Produce  json
// @Param    id path int true "图书ID"
// @Success  200 {object} response.Response{data=[]dto.AuthorResponse}
// @Failure  404 {object} response.Response "图书不存在"
// @Router   /books/{id}/authors [get]
func (h *BookHandler) Authors(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	authors, err := h.authors.AuthorsOfBook(c.Request.Context(), id)
	related(c, authors, err, dto.NewAuthorResponse)
}

// Categories 图书的分类
// @Summary  图书的分类
// @Tags     图书
// @Produce  json
// @Param    id path int true "图书ID"
// @Success  200 {object} response.Response{data=[]dto.CategoryResponse}
// @Failure  404 {object} response.Response "图书不存在"
// @Router   /books/{id}/categories [get]
func (h *BookHandler) Categories(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	categories, err := h.categories.CategoriesOfBook(c.Request.Context(), id)
	related(c, categories, err, dto.NewCategoryResponse)
}

// Reviews 图书的书评
// @Summary  图书的书评
// @Tags     图书
// @Produce  json
// @Param    id path int true "图书ID"
// @Success  200 {object} response.Response{data=[]dto.ReviewResponse}
// @Failure  404 {object} response.Response "图书不存在"
// @Router   /books/{id}/reviews [get]
func (h *BookHandler) Reviews(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	reviews, err := h.reviews.ReviewsOfBook(c.Request.Context(), id)
	related(c, reviews, err, dto.NewReviewResponse)
}

// Rating 图书平均评分
// @Summary  图书平均评分
// @Tags     图书
// @Produce  json
// @Param    id path int true "图书ID"
// @Success  200 {object} response.Response{data=dto.RatingResponse}
// @Failure  404 {object} response.Response "图书不存在"
// @Router   /books/{id}/rating [get]
func (h *BookHandler) Rating(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rating, err := h.books.Rating(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.RatingResponse{BookID: id, Rating: rating})
}
