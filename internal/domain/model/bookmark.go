package model

// お気に入り
type Bookmark struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64 `gorm:"not null;uniqueIndex:ux_bookmarks_user_product,priority:1" json:"user_id"`
	ProductID int64 `gorm:"not null;uniqueIndex:ux_bookmarks_user_product,priority:2" json:"product_id"`
}
