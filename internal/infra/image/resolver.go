package image

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrNoImage = errors.New("no image")

// 送信用に解決した画像。BytesかURLのどちらか。
type Resolved struct {
	Name  string
	Bytes []byte
	URL   string
}

// image_path を IMAGE_DIR 配下のファイルか http(s) URL に解決する
type Resolver struct {
	root string
}

// DI
func NewResolver(root string) *Resolver {
	if root == "" {
		root = "public"
	}
	return &Resolver{root: root}
}

func (r *Resolver) Resolve(ctx context.Context, ref string) (Resolved, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Resolved{}, ErrNoImage
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return Resolved{Name: ref, URL: ref}, nil
	}

	if err := ctx.Err(); err != nil {
		return Resolved{}, err
	}

	p, err := r.path(ref)
	if err != nil {
		return Resolved{}, err
	}

	b, err := os.ReadFile(p)
	if err != nil {
		return Resolved{}, fmt.Errorf("read image %q: %w", ref, err)
	}
	return Resolved{Name: filepath.Base(p), Bytes: b}, nil
}

// ルートの外は読ませない
func (r *Resolver) path(ref string) (string, error) {
	root, err := filepath.Abs(r.root)
	if err != nil {
		return "", err
	}
	p := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(ref, "/")))
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("image %q outside image dir: %w", ref, ErrNoImage)
	}
	return p, nil
}
