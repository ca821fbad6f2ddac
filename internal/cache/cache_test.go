// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

// fill creates entries for keys in order and returns how many create
// calls ran.
func fill(t *testing.T, c *Cache[int, int], keys ...int) int {
	t.Helper()
	calls := 0
	for _, k := range keys {
		v, err := c.GetOrCreate(k, func() (int, error) {
			calls++
			return k * 10, nil
		})
		if err != nil || v != k*10 {
			t.Fatalf("GetOrCreate(%d) = %d, %v", k, v, err)
		}
	}
	return calls
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10)
	calls := 0
	create := func() (int, error) {
		calls++
		return 42, nil
	}

	for range 3 {
		v, err := c.GetOrCreate("k", create)
		if err != nil || v != 42 {
			t.Fatalf("GetOrCreate = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	for range 2 {
		if _, err := c.GetOrCreate("bad", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
			t.Errorf("GetOrCreate error = %v", err)
		}
	}

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 3 || s.Len != 1 || s.Capacity != 10 {
		t.Errorf("Stats = %+v, want 2 hits, 3 misses, 1 entry", s)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, int](3)
	fill(t, c, 1, 2, 3)
	fill(t, c, 1) // 2 is now the oldest
	fill(t, c, 4)

	if n := fill(t, c, 1, 3, 4); n != 0 {
		t.Errorf("%d recent entries were rebuilt", n)
	}
	if n := fill(t, c, 2); n != 1 {
		t.Error("expected 2 to be evicted")
	}
	if s := c.Stats(); s.Len != 3 {
		t.Errorf("Len = %d, want 3", s.Len)
	}
}

func TestCacheUnlimited(t *testing.T) {
	c := New[int, int](0)
	keys := make([]int, 1000)
	for i := range keys {
		keys[i] = i
	}
	fill(t, c, keys...)
	if n := fill(t, c, keys...); n != 0 {
		t.Errorf("%d entries rebuilt", n)
	}
	if s := c.Stats(); s.Len != 1000 {
		t.Errorf("Len = %d, want 1000", s.Len)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[string, int](64)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				k := strconv.Itoa((g*31 + i) % 100)
				if _, err := c.GetOrCreate(k, func() (int, error) { return i, nil }); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
	s := c.Stats()
	if s.Len > 64 {
		t.Errorf("Len = %d exceeds capacity", s.Len)
	}
	if s.Hits+s.Misses != 8*500 {
		t.Errorf("Stats = %+v, want %d lookups", s, 8*500)
	}
}

func BenchmarkCacheGetOrCreate(b *testing.B) {
	c := New[string, int](1000)
	create := func() (int, error) { return 1, nil }
	for i := range 100 {
		c.GetOrCreate(strconv.Itoa(i), create)
	}
	for b.Loop() {
		c.GetOrCreate("50", create)
	}
}
