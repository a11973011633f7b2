// Package assets stores extracted binary parts such as images.
//
// A Sink receives one blob at a time and returns the URL it can be fetched
// from. Implementations are provided for S3, an SQLite blob table and a
// local directory; UploadAll fans a batch out over a bounded worker pool.
package assets

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSink is returned by UploadAll when called with a nil sink.
var ErrNoSink = errors.New("assets: no sink configured")

// Sink stores a blob under path and returns its public URL.
type Sink interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, path string, data []byte, contentType string) (string, error)

// Upload calls f.
func (f SinkFunc) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	return f(ctx, path, data, contentType)
}

// Job is one blob to upload.
type Job struct {
	Path        string
	Data        []byte
	ContentType string
}

// Result is the outcome of one Job. Exactly one of URL and Err is set.
type Result struct {
	URL string
	Err error
}

// DefaultWorkers is the pool size used when UploadAll is given workers < 1.
const DefaultWorkers = 4

// UploadAll uploads jobs with at most workers concurrent calls and returns
// one Result per job, in job order. A failing job does not affect the
// others. If ctx is cancelled before every job has finished, UploadAll
// waits for in-flight calls and returns ctx.Err().
func UploadAll(ctx context.Context, sink Sink, jobs []Job, workers int) ([]Result, error) {
	if sink == nil {
		return nil, ErrNoSink
	}
	if workers < 1 {
		workers = DefaultWorkers
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]Result, len(jobs))
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				job := jobs[i]
				url, err := sink.Upload(ctx, job.Path, job.Data, job.ContentType)
				results[i] = Result{URL: url, Err: err}
			}
		}()
	}

feed:
	for i := range jobs {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
