package workers

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/camden-git/takeoutorganizer/catalog"
)

// progressInterval controls how often batch progress is logged, counted
// in completion order
const progressInterval = 100

// RunBatch fans the items out over a fixed pool of workers and waits for
// the whole batch. tasks are independent and complete in any order; a
// panicking task is recorded against its item instead of escaping the
// pool
func RunBatch(items []*catalog.MediaItem, concurrency int, log zerolog.Logger, stage string, task func(*catalog.MediaItem)) {
	if concurrency <= 0 {
		concurrency = 1
	}
	if len(items) == 0 {
		return
	}

	jobs := make(chan *catalog.MediaItem)
	var wg sync.WaitGroup
	var completed atomic.Int64

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for item := range jobs {
				runTask(item, task, log, stage)
				if done := completed.Add(1); done%progressInterval == 0 {
					log.Info().
						Str("stage", stage).
						Int64("completed", done).
						Int("total", len(items)).
						Msg("stage progress")
				}
			}
		}()
	}

	for _, item := range items {
		jobs <- item
	}
	close(jobs)
	wg.Wait()

	log.Info().
		Str("stage", stage).
		Int("total", len(items)).
		Msg("stage complete")
}

func runTask(item *catalog.MediaItem, task func(*catalog.MediaItem), log zerolog.Logger, stage string) {
	defer func() {
		if r := recover(); r != nil {
			item.Status = catalog.StatusFailed
			item.SetError("worker panic")
			log.Error().
				Str("stage", stage).
				Str("file", item.Filename).
				Interface("panic", r).
				Msg("worker task panicked")
		}
	}()
	task(item)
}
