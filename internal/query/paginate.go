package query

import "github.com/polkiloo/membership/internal/domain/model"

// DefaultPageSize applies when a caller passes a non-positive page size.
const DefaultPageSize = 10

// TotalPages returns ceil(total/pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// ClampPage keeps page within [1, totalPages]. An empty result set yields page 1.
func ClampPage(page, totalPages int) int {
	if page < 1 || totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// NormalizePageSize replaces non-positive sizes with DefaultPageSize.
func NormalizePageSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	return size
}

// Paginate filters, orders and slices customers held in memory.
func Paginate(customers []model.Customer, q model.PageQuery) *model.Page {
	filtered := make([]model.Customer, 0, len(customers))
	for _, c := range customers {
		if Matches(c, q.Search, q.Filter, q.Now) {
			filtered = append(filtered, c)
		}
	}
	SortByCreatedDesc(filtered)

	size := NormalizePageSize(q.PageSize)
	total := len(filtered)
	totalPages := TotalPages(total, size)
	page := ClampPage(q.Page, totalPages)

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := total
	if total-start > size {
		end = start + size
	}

	return &model.Page{
		Customers:  filtered[start:end],
		TotalPages: totalPages,
		TotalItems: total,
	}
}
