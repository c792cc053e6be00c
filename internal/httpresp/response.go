package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

type PageResponse[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

func Paginated[T any](c *gin.Context, data []T, page, perPage int, total int64) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, PageResponse[T]{
		Data: data,
		Meta: NewPageMeta(page, perPage, total, len(data)),
	})
}

func NewPageMeta(page, perPage int, total int64, count int) PageMeta {
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	meta := PageMeta{
		CurrentPage: page,
		LastPage:    last,
		PerPage:     perPage,
		Total:       total,
	}
	if count > 0 {
		meta.From = (page-1)*perPage + 1
		meta.To = meta.From + count - 1
	}
	return meta
}
