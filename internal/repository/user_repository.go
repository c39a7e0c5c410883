package repository

import (
	"context"
	"errors"

	"storebot/internal/domain/model"
)

// email重複（unique違反）
var ErrDuplicateKey = errors.New("duplicate key")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。email重複はErrDuplicateKey。
	Create(ctx context.Context, user *model.User) error
	//IDから1件。無ければ nil, nil
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールから1件。無ければ nil, nil
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
