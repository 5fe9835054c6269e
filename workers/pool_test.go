package workers

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/camden-git/takeoutorganizer/catalog"
)

func batchItems(n int) []*catalog.MediaItem {
	items := make([]*catalog.MediaItem, n)
	for i := range items {
		items[i] = &catalog.MediaItem{
			ID:       fmt.Sprintf("item-%d", i),
			Filename: fmt.Sprintf("img-%d.jpg", i),
			Status:   catalog.StatusPending,
		}
	}
	return items
}

func TestRunBatchProcessesEveryItem(t *testing.T) {
	items := batchItems(250)

	var mu sync.Mutex
	seen := make(map[string]int)
	RunBatch(items, 8, zerolog.Nop(), "test", func(item *catalog.MediaItem) {
		mu.Lock()
		seen[item.ID]++
		mu.Unlock()
	})

	assert.Len(t, seen, 250)
	for id, count := range seen {
		assert.Equal(t, 1, count, id)
	}
}

func TestRunBatchEmpty(t *testing.T) {
	RunBatch(nil, 4, zerolog.Nop(), "test", func(item *catalog.MediaItem) {
		t.Fatal("task must not run for an empty batch")
	})
}

func TestRunBatchClampsConcurrency(t *testing.T) {
	items := batchItems(3)
	var count int
	RunBatch(items, 0, zerolog.Nop(), "test", func(item *catalog.MediaItem) {
		count++ // single worker, no race
	})
	assert.Equal(t, 3, count)
}

func TestRunBatchRecoversPanics(t *testing.T) {
	items := batchItems(5)

	RunBatch(items, 2, zerolog.Nop(), "test", func(item *catalog.MediaItem) {
		if item.ID == "item-2" {
			panic("boom")
		}
		item.Status = catalog.StatusCompleted
	})

	for _, item := range items {
		if item.ID == "item-2" {
			assert.Equal(t, catalog.StatusFailed, item.Status)
			assert.Equal(t, "worker panic", item.Error)
		} else {
			assert.Equal(t, catalog.StatusCompleted, item.Status)
		}
	}
}
