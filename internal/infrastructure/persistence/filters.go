package persistence

import (
	"fmt"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// allowedOrderColumns guards ORDER BY against injection; only plain column
// names from this set may be interpolated
var allowedOrderColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"received_date": true,
	"date":          true,
	"title":         true,
	"name":          true,
	"status":        true,
	"total_price":   true,
}

// applyFilter applies pagination and ordering from a shared.Filter
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.OrderBy != "" && allowedOrderColumns[filter.OrderBy] {
		dir := "ASC"
		if strings.EqualFold(filter.OrderDir, "desc") {
			dir = "DESC"
		}
		query = query.Order(fmt.Sprintf("%s %s", filter.OrderBy, dir))
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}
