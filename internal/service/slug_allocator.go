package service

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const slugAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz" // 62 chars

var slugBase = big.NewInt(int64(len(slugAlphabet)))

// SlugAllocator 生成随机短链标识
// 只负责生成，不做唯一性检查；冲突由存储层的唯一索引裁决
type SlugAllocator struct {
	length int
}

// NewSlugAllocator 创建分配器，长度不合法时回退到 8
func NewSlugAllocator(length int) *SlugAllocator {
	if length <= 0 {
		length = 8
	}
	return &SlugAllocator{length: length}
}

// Allocate 返回 slug：自定义的原样去空格返回，否则生成随机 base62 串
func (a *SlugAllocator) Allocate(customSlug string) (string, error) {
	if trimmed := strings.TrimSpace(customSlug); trimmed != "" {
		return trimmed, nil
	}
	return randomSlug(a.length)
}

func randomSlug(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, slugBase) // uniform in [0,62)
		if err != nil {
			return "", err
		}
		b.WriteByte(slugAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
