package model

import "time"

// カート明細のミラー。他プロセスから短期の確保状況を見られるようにする。
// (user_id, product_id) で1行。
type Reservation struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:ux_reservations_user_product,priority:1" json:"user_id"`
	ProductID  int64     `gorm:"not null;uniqueIndex:ux_reservations_user_product,priority:2;index" json:"product_id"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	ReservedAt time.Time `gorm:"not null;index" json:"reserved_at"`
}
