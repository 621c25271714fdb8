package concurrent

import (
	"sync"
)

type JobFunc[T any, G any] func(job T) G

// WorkerPool fixed number of goroutines consuming a buffered job queue.
// usage: NewWorkerPool, AddJob..., Close, Start, Wait, then drain CollectResults.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job)
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

// Wait blocks until every worker is done, then closes the results channel.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

type indexed[T any] struct {
	index int
	value T
}

// Map runs f over jobs on numWorkers goroutines, results keep the order of jobs.
func Map[T any, G any](numWorkers int, jobs []T, f JobFunc[T, G]) []G {
	wp := NewWorkerPool[indexed[T], indexed[G]](min(numWorkers, max(len(jobs), 1)), len(jobs))
	for i, job := range jobs {
		wp.AddJob(indexed[T]{index: i, value: job})
	}
	wp.Close()
	wp.Start(func(job indexed[T]) indexed[G] {
		return indexed[G]{index: job.index, value: f(job.value)}
	})
	wp.Wait()

	out := make([]G, len(jobs))
	for res := range wp.CollectResults() {
		out[res.index] = res.value
	}
	return out
}
