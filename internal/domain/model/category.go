package model

type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:category_name;type:varchar(255);not null" json:"name"`
}
