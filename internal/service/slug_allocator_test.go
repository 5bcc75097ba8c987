package service

import (
	"strings"
	"testing"
)

func TestAllocateCustomSlugVerbatim(t *testing.T) {
	a := NewSlugAllocator(8)

	slug, err := a.Allocate("  my-slug  ")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if slug != "my-slug" {
		t.Fatalf("custom slug should be trimmed and returned verbatim, got %q", slug)
	}
}

func TestAllocateGeneratedSlug(t *testing.T) {
	a := NewSlugAllocator(8)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		slug, err := a.Allocate("")
		if err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		if len(slug) != 8 {
			t.Fatalf("generated slug length = %d, want 8", len(slug))
		}
		for _, ch := range slug {
			if !strings.ContainsRune(slugAlphabet, ch) {
				t.Fatalf("slug %q contains char outside the alphabet", slug)
			}
		}
		seen[slug] = true
	}
	// 62^8 的空间里 100 次生成撞车说明生成器坏了
	if len(seen) < 100 {
		t.Fatalf("expected 100 distinct slugs, got %d", len(seen))
	}
}

func TestAllocatorLengthFallback(t *testing.T) {
	a := NewSlugAllocator(0)
	slug, err := a.Allocate("")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(slug) != 8 {
		t.Fatalf("fallback length = %d, want 8", len(slug))
	}
}
