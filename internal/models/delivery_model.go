package models

import "time"

// DeliveryReceipt is returned by the dispatch collaborator for one platform.
type DeliveryReceipt struct {
	PlatformID  string    `json:"platform_id"`
	Reference   string    `json:"reference"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// DeliveryHistory records the outcome of one dispatch attempt. An empty
// error message means the attempt succeeded.
type DeliveryHistory struct {
	ID           int64     `db:"id" json:"id"`
	ItemID       string    `db:"item_id" json:"item_id"`
	PlatformID   string    `db:"platform_id" json:"platform_id"`
	Reference    string    `db:"reference" json:"reference"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
