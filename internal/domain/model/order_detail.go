package model

// 注文明細（order_details）
type OrderDetail struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`
	Price     int64 `gorm:"not null" json:"price"`
	Discount  int64 `gorm:"not null;default:0" json:"discount"`
}

// 表示用：商品名と画像を結合した明細
type OrderLine struct {
	OrderDetail
	ProductName string `json:"product_name"`
	ImagePath   string `json:"image_path"`
}

func (l OrderLine) LineTotal() int64 {
	return l.Price * l.Quantity
}
