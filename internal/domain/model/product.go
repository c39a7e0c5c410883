package model

// 商品（カタログは外部管理、このボットからは読み取りのみ）
type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  int64  `gorm:"column:category_id;not null;index" json:"category_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Brand       string `gorm:"type:varchar(255)" json:"brand"`
	Description string `gorm:"type:text" json:"description"`
	ImagePath   string `gorm:"column:image_path;type:varchar(255)" json:"image_path"`
	Price       int64  `gorm:"not null" json:"price"`
	Discount    int64  `gorm:"not null;default:0" json:"discount"`
	// 既存スキーマの列名をそのまま使う
	Stock int64 `gorm:"column:quntity;not null;default:0" json:"stock"`
	// 1ユーザーあたりの購入上限（NULLなら無制限）
	PurchaseLimit *int64 `gorm:"column:purchase_limit" json:"purchase_limit,omitempty"`
}

// 割引後の単価。floor(price * (1 - discount/100)) を整数だけで計算する。
func (p Product) FinalPrice() int64 {
	return FinalPrice(p.Price, p.Discount)
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// 割引率は0〜100に丸める
func FinalPrice(price int64, discount int64) int64 {
	if discount < 0 {
		discount = 0
	}
	if discount > 100 {
		discount = 100
	}
	if price <= 0 {
		return price
	}
	return price * (100 - discount) / 100
}
