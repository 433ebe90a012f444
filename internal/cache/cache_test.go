package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewCache(t *testing.T) {
	cache := NewCache[string, int]()
	if cache == nil {
		t.Fatal("Expected non-nil cache")
	}
	if cache.items == nil {
		t.Fatal("Expected items map to be initialized")
	}
	if cache.Len() != 0 {
		t.Errorf("Expected empty cache, got %d items", cache.Len())
	}
}

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Set and Get", func(t *testing.T) {
		cache.Set("hook", "first tweet")

		got, ok := cache.Get("hook")
		if !ok {
			t.Fatal("Expected key to be found")
		}
		if got != "first tweet" {
			t.Errorf("Expected 'first tweet', got %q", got)
		}
	})

	t.Run("Missing key", func(t *testing.T) {
		got, ok := cache.Get("missing")
		if ok {
			t.Error("Expected missing key not to be found")
		}
		if got != "" {
			t.Errorf("Expected zero value, got %q", got)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		cache.Set("hook", "edited")
		if got, _ := cache.Get("hook"); got != "edited" {
			t.Errorf("Expected 'edited', got %q", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		cache.Delete("hook")
		if _, ok := cache.Get("hook"); ok {
			t.Error("Expected key to be deleted")
		}
		cache.Delete("never-there")
	})
}

func TestCache_GetOrSet(t *testing.T) {
	cache := NewCache[string, *int]()
	calls := 0
	create := func() *int {
		calls++
		v := calls
		return &v
	}

	first := cache.GetOrSet("k", create)
	second := cache.GetOrSet("k", create)

	if first != second {
		t.Error("Expected the same value on the second call")
	}
	if calls != 1 {
		t.Errorf("Expected create to run once, ran %d times", calls)
	}
}

func TestCache_GetOrSetConcurrent(t *testing.T) {
	cache := NewCache[int, int]()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.GetOrSet(1, func() int {
				calls.Add(1)
				return 42
			})
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("Expected create to run once, ran %d times", calls.Load())
	}
}

func TestCache_ClearAndSetTo(t *testing.T) {
	cache := NewCache[string, int]()
	cache.Set("a", 1)
	cache.Set("b", 2)

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d", cache.Len())
	}

	cache.SetTo(map[string]int{"c": 3})
	if v, ok := cache.Get("c"); !ok || v != 3 {
		t.Errorf("Expected c=3 after SetTo, got %d (found=%v)", v, ok)
	}
	if cache.Len() != 1 {
		t.Errorf("Expected 1 item after SetTo, got %d", cache.Len())
	}
}

func TestCache_Concurrency(t *testing.T) {
	cache := NewCache[int, string]()

	var wg sync.WaitGroup
	for w := 0; w < 10; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				cache.Set(w*100+i, fmt.Sprintf("v-%d", i))
			}
		}(w)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				cache.Get(w*100 + i)
			}
		}(w)
	}
	wg.Wait()

	if cache.Len() != 1000 {
		t.Errorf("Expected 1000 items, got %d", cache.Len())
	}
}

func TestRenderedMarkdownCache(t *testing.T) {
	ClearRenderedMarkdownCache()

	t.Run("Set and Get", func(t *testing.T) {
		SetRenderedMarkdown("hash", "github", []byte("<p>hook</p>"), "Launch tips")

		got, ok := GetRenderedMarkdown("hash", "github")
		if !ok {
			t.Fatal("Expected rendered markdown to be cached")
		}
		if string(got.HTML) != "<p>hook</p>" || got.Extra != "Launch tips" {
			t.Errorf("Unexpected cached content: %+v", got)
		}
	})

	t.Run("Syntax themes are cached separately", func(t *testing.T) {
		if _, ok := GetRenderedMarkdown("hash", "monokai"); ok {
			t.Error("Expected other syntax theme not to be cached")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		ClearRenderedMarkdownCache()
		if _, ok := GetRenderedMarkdown("hash", "github"); ok {
			t.Error("Expected cache to be empty after Clear")
		}
	})
}

func TestStaticHash(t *testing.T) {
	SetStaticHash("/static/style.css", `"abc"`)

	if got, ok := GetStaticHash("/static/style.css"); !ok || got != `"abc"` {
		t.Errorf("Expected static hash to be stored, got %q (found=%v)", got, ok)
	}
	if _, ok := GetStaticHash("/static/missing.js"); ok {
		t.Error("Expected unknown path to have no hash")
	}
}

func BenchmarkCache_Get(b *testing.B) {
	cache := NewCache[string, string]()
	for i := 0; i < 1000; i++ {
		cache.Set(fmt.Sprintf("key-%d", i), "value")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(fmt.Sprintf("key-%d", i%1000))
	}
}
