package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shorturl-go/internal/model"
)

func TestMemoryURLCachePutGet(t *testing.T) {
	c := NewMemoryURLCache()

	_, hit := c.Get("abc1234")
	assert.False(t, hit)

	c.Put("abc1234", &model.ShortURL{ShortCode: "abc1234", TargetURL: "https://example.com"})
	got, hit := c.Get("abc1234")
	assert.True(t, hit)
	assert.Equal(t, "https://example.com", got.TargetURL)
}

func TestMemoryURLCacheNotFoundEntry(t *testing.T) {
	c := NewMemoryURLCache()

	c.PutNotFound("missing")
	got, hit := c.Get("missing")
	assert.True(t, hit, "negative entry should count as a hit")
	assert.Nil(t, got)
}

func TestMemoryURLCacheInvalidate(t *testing.T) {
	c := NewMemoryURLCache()

	c.Put("abc1234", &model.ShortURL{ShortCode: "abc1234", TargetURL: "https://example.com"})
	c.Invalidate("abc1234")

	_, hit := c.Get("abc1234")
	assert.False(t, hit)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryURLCacheGetReturnsCopy(t *testing.T) {
	c := NewMemoryURLCache()
	c.Put("abc1234", &model.ShortURL{ShortCode: "abc1234", TargetURL: "https://example.com"})

	got, _ := c.Get("abc1234")
	got.TargetURL = "https://mutated.example.com"

	again, _ := c.Get("abc1234")
	assert.Equal(t, "https://example.com", again.TargetURL)
}
