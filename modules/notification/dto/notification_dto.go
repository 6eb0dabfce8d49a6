package dto

import "woki-api/modules/notification/entity"

type PaginatedNotifications struct {
	Items      []entity.Notification `json:"items"`
	TotalItems int                   `json:"total_items"`
	PageNumber int                   `json:"page_number"`
	PageSize   int                   `json:"page_size"`
}
