package model

// 登録済みユーザー
// passwordカラムにはbcryptハッシュのみ保存する。
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName     string `gorm:"column:last_name;type:varchar(100);not null" json:"last_name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Phone        string `gorm:"type:varchar(30)" json:"phone"`
}
