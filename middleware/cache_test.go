package middleware

import (
	"testing"
	"time"

	"project-submission-api/models"
)

func TestUserCacheTTL(t *testing.T) {
	cache := NewUserCache(50 * time.Millisecond)
	cache.Put(models.User{UserID: 1, Email: "a@example.edu"})

	if _, ok := cache.Get(1); !ok {
		t.Fatal("fresh entry should be returned")
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := cache.Get(1); ok {
		t.Fatal("expired entry should not be returned")
	}
}

func TestUserCacheInvalidate(t *testing.T) {
	cache := NewUserCache(time.Minute)
	cache.Put(models.User{UserID: 1})
	cache.Put(models.User{UserID: 2})

	cache.Invalidate(1)
	if _, ok := cache.Get(1); ok {
		t.Fatal("invalidated entry should not be returned")
	}
	if _, ok := cache.Get(2); !ok {
		t.Fatal("other entries should survive invalidation")
	}

	cache.Clear()
	if _, ok := cache.Get(2); ok {
		t.Fatal("cleared cache should be empty")
	}
}
