package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
)

// CountryHandler 国家HTTP处理器
type CountryHandler struct {
	resource[catalog.Country, dto.CountryRequest, dto.CountryResponse]
	countries *catalog.CountryService
}

// NewCountryHandler 创建国家处理器
func NewCountryHandler(countries *catalog.CountryService) *CountryHandler {
	return &CountryHandler{
		resource: resource[catalog.Country, dto.CountryRequest, dto.CountryResponse]{
			facade: countries.Facade,
			bind:   (*dto.CountryRequest).ToEntity,
			render: dto.NewCountryResponse,
		},
		countries: countries,
	}
}

// Register 注册路由（写路由挂在write分组上，带鉴权与限流）
func (h *CountryHandler) Register(read, write gin.IRoutes) {
	read.GET("/countries", h.List)
	read.GET("/countries/:id", h.Get)
	read.GET("/countries/:id/authors", h.Authors)
	write.POST("/countries", h.Create)
	write.PUT("/countries/:id", h.Update)
	write.DELETE("/countries/:id", h.Delete)
}

// List 国家列表
// @Summary  国家列表
// @Tags     国家
// @Produce  json
// @Success  200 {object} response.Response{data=[]dto.CountryResponse}
// @Router   /countries [get]
func (h *CountryHandler) List(c *gin.Context) { h.list(c) }

// Get 国家详情
// @Summary  国家详情
// @Tags     国家
// @Produce  json
// @Param    id path int true "国家ID"
// @Success  200 {object} response.Response{data=dto.CountryResponse}
// @Failure  404 {object} response.Response "国家不存在"
// @Router   /countries/{id} [get]
func (h *CountryHandler) Get(c *gin.Context) { h.get(c) }

// Create 创建国家
// @Summary   创建国家
// @Tags      国家
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     request body dto.CountryRequest true "国家信息"
// @Success   201 {object} response.Response{data=dto.CountryResponse}
// @Failure   400 {object} response.Response "参数错误"
// @Failure   422 {object} response.Response "名称已存在"
// @Router    /countries [post]
func (h *CountryHandler) Create(c *gin.Context) { h.create(c) }

// Update 更新国家
// @Summary   更新国家
// @Tags      国家
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id path int true "国家ID"
// @Param     request body dto.CountryRequest true "国家信息（id必须与路径一致）"
// @Success   200 {object} response.Response{data=dto.CountryResponse}
// @Failure   400 {object} response.Response "参数错误"
// @Failure   404 {object} response.Response "国家不存在"
// @Failure   422 {object} response.Response "名称已存在"
// @Router    /countries/{id} [put]
func (h *CountryHandler) Update(c *gin.Context) { h.update(c) }

// Delete 删除国家（仍有作者时拒绝）
// @Summary   删除国家
// @Tags      国家
// @Security  BearerAuth
// @Param     id path int true "国家ID"
// @Success   204
// @Failure   404 {object} response.Response "国家不存在"
// @Failure   409 {object} response.Response "仍有作者引用"
// @Router    /countries/{id} [delete]
func (h *CountryHandler) Delete(c *gin.Context) { h.remove(c) }

// Authors 国家下的作者
// @Summary  国家下的作者
// @Tags     国家
// @Produce  json
// @Param    id path int true "国家ID"
// @Success  200 {object} response.Response{data=[]dto.AuthorResponse}
// @Failure  404 {object} response.Response "国家不存在"
// @Router   /countries/{id}/authors [get]
func (h *CountryHandler) Authors(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	authors, err := h.countries.AuthorsOf(c.Request.Context(), id)
	related(c, authors, err, dto.NewAuthorResponse)
}
