package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
)

// AuthorHandler 作者HTTP处理器
type AuthorHandler struct {
	resource[catalog.Author, dto.AuthorRequest, dto.AuthorResponse]
	authors   *catalog.AuthorService
	countries *catalog.CountryService
}

// NewAuthorHandler 创建作者处理器
func NewAuthorHandler(authors *catalog.AuthorService, countries *catalog.CountryService) *AuthorHandler {
	return &AuthorHandler{
		resource: resource[catalog.Author, dto.AuthorRequest, dto.AuthorResponse]{
			facade: authors.Facade,
			bind:   (*dto.AuthorRequest).ToEntity,
			render: dto.NewAuthorResponse,
		},
		authors:   authors,
		countries: countries,
	}
}

// Register 注册路由
func (h *AuthorHandler) Register(read, write gin.IRoutes) {
	read.GET("/authors", h.List)
	read.GET("/authors/:id", h.Get)
	read.GET("/authors/:id/country", h.Country)
	read.GET("/authors/:id/books", h.Books)
	write.POST("/authors", h.Create)
	write.PUT("/authors/:id", h.Update)
	write.DELETE("/authors/:id", h.Delete)
}

// List 作者列表
// @Summary  作者列表
// @Tags     作者
// @Produce  json
// @Success  200 {object} response.Response{data=[]dto.AuthorResponse}
// @Router   /authors [get]
func (h *AuthorHandler) List(c *gin.Context) { h.list(c) }

// Get 作者详情
// @Summary  作者详情
// @Tags     作者
// @Produce  json
// @Param    id path int true "作者ID"
// @Success  200 {object} response.Response{data=dto.AuthorResponse}
// @Failure  404 {object} response.Response "作者不存在"
// @Router   /authors/{id} [get]
func (h *AuthorHandler) Get(c *gin.Context) { h.get(c) }

// Create 创建作者
// @Summary   创建作者
// @Tags      作者
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     request body dto.AuthorRequest true "作者信息"
// @Success   201 {object} response.Response{data=dto.AuthorResponse}
// @Failure   400 {object} response.Response "参数错误"
// @Failure   404 {object} response.Response "国家不存在"
// @Failure   422 {object} response.Response "姓名已存在"
// @Router    /authors [post]
func (h *AuthorHandler) Create(c *gin.Context) { h.create(c) }

// Update 更新作者
// @Summary   更新作者
// @Tags      作者
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id path int true "作者ID"
// @Param     request body dto.AuthorRequest true "作者信息（id必须与路径一致）"
// @Success   200 {object} response.Response{data=dto.AuthorResponse}
// @Failure   400 {object} response.Response "参数错误"
// @Failure   404 {object} response.Response "作者或国家不存在"
// @Failure   422 {object} response.Response "姓名已存在"
// @Router    /authors/{id} [put]
func (h *AuthorHandler) Update(c *gin.Context) { h.update(c) }

// Delete 删除作者（仍有图书时拒绝）
// @Summary   删除作者
// @Tags      作者
// @Security  BearerAuth
// @Param     id path int true "作者ID"
// @Success   204
// @Failure   404 {object} response.Response "作者不存在"
// @Failure   409 {object} response.Response "仍有图书引用"
// @Router    /authors/{id} [delete]
func (h *AuthorHandler) Delete(c *gin.Context) { h.remove(c) }

// Country 作者所属国家
// @Summary  作者所属国家
// @Tags     作者
// @Produce  json
// @Param    id path int true "作者ID"
// @Success  200 {object} response.Response{data=dto.CountryResponse}
// @Failure  404 {object} response.Response "作者不存在"
// @Router   /authors/{id}/country [get]
func (h *AuthorHandler) Country(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	country, err := h.countries.CountryOfAuthor(c.Request.Context(), id)
	single(c, country, err, dto.NewCountryResponse)
}

// Books 作者写过的图书
// @Summary  作者的图书
// @Tags     作者
// @Produce  json
// @Param    id path int true "作者ID"
// @Success  200 {object} response.Response{data=[]dto.BookResponse}
// @Failure  404 {object} response.Response "作者不存在"
// @Router   /authors/{id}/books [get]
func (h *AuthorHandler) Books(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	books, err := h.authors.BooksOf(c.Request.Context(), id)
	related(c, books, err, dto.NewBookResponse)
}
