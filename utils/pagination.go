package utils

import (
	"net/url"
	"strconv"
)

// Pagination представляет параметры постраничного вывода
type Pagination struct {
	Page     int
	PageSize int
}

// PaginationFromQuery разбирает параметры page и page_size из строки запроса.
// defaultSize используется при отсутствии page_size, maxSize ограничивает его сверху.
func PaginationFromQuery(values url.Values, defaultSize, maxSize int) Pagination {
	p := Pagination{Page: 1, PageSize: defaultSize}

	if raw := values.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			p.Page = page
		}
	}

	if raw := values.Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			p.PageSize = size
		}
	}

	// Ограничиваем размер страницы
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}

	return p
}

// Offset возвращает смещение для запроса в базу данных
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse представляет страницу результатов
type PageResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}
