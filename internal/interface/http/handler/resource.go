package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// resource 单实体族的CRUD处理流程
// 各实体Handler嵌入它，并在带swagger注释的导出方法中调用。
// T为领域实体，Req为请求体，Resp为响应体。
type resource[T, Req, Resp any] struct {
	facade *catalog.Facade[T]
	bind   func(*Req) (*T, error)
	render func(*T) *Resp
}

func (r resource[T, Req, Resp]) list(c *gin.Context) {
	items, err := r.facade.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.Map(items, r.render))
}

func (r resource[T, Req, Resp]) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := r.facade.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, r.render(item))
}

// create 返回201和创建后的实体（含分配的ID）
func (r resource[T, Req, Resp]) create(c *gin.Context) {
	entity, ok := r.body(c)
	if !ok {
		return
	}
	if _, err := r.facade.Create(c.Request.Context(), entity); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, r.render(entity))
}

func (r resource[T, Req, Resp]) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entity, ok := r.body(c)
	if !ok {
		return
	}
	if err := r.facade.Update(c.Request.Context(), id, entity); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, r.render(entity))
}

func (r resource[T, Req, Resp]) remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := r.facade.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// body 绑定JSON请求体并转换为领域实体
func (r resource[T, Req, Resp]) body(c *gin.Context) (*T, bool) {
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessage("参数格式错误: "+err.Error()))
		return nil, false
	}
	entity, err := r.bind(&req)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return entity, true
}

// =========================================
// 辅助函数
// =========================================

// pathID 解析路径中的:id
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperrors.ErrBindError.WithFields(apperrors.FieldError{
			Field:   "id",
			Message: "ID必须是正整数",
		}))
		return 0, false
	}
	return uint(id), true
}

// related 遍历读取的统一响应
func related[E, R any](c *gin.Context, items []*E, err error, render func(*E) *R) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.Map(items, render))
}

// single 单个关联实体的统一响应
func single[E, R any](c *gin.Context, item *E, err error, render func(*E) *R) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, render(item))
}
