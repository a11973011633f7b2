package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

func TestUploadAll_OrderAndIsolation(t *testing.T) {
	sink := SinkFunc(func(ctx context.Context, path string, data []byte, contentType string) (string, error) {
		if strings.HasSuffix(path, "bad") {
			return "", errors.New("boom")
		}
		return "https://cdn/" + path, nil
	})
	jobs := []Job{{Path: "a"}, {Path: "bad"}, {Path: "c"}, {Path: "d"}, {Path: "e"}}

	results, err := UploadAll(context.Background(), sink, jobs, 2)
	if err != nil {
		t.Fatalf("UploadAll() error = %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i, r := range results {
		if i == 1 {
			if r.Err == nil || r.URL != "" {
				t.Errorf("result 1 = %+v, want error", r)
			}
			continue
		}
		if want := "https://cdn/" + jobs[i].Path; r.URL != want || r.Err != nil {
			t.Errorf("result %d = %+v, want %s", i, r, want)
		}
	}
}

func TestUploadAll_BoundedConcurrency(t *testing.T) {
	var active, peak int32
	sink := SinkFunc(func(ctx context.Context, path string, data []byte, contentType string) (string, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return path, nil
	})
	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i].Path = fmt.Sprint(i)
	}
	if _, err := UploadAll(context.Background(), sink, jobs, 3); err != nil {
		t.Fatalf("UploadAll() error = %v", err)
	}
	if peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
}

func TestUploadAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var once sync.Once
	sink := SinkFunc(func(ctx context.Context, path string, data []byte, contentType string) (string, error) {
		once.Do(cancel)
		return path, nil
	})
	jobs := make([]Job, 10)
	results, err := UploadAll(ctx, sink, jobs, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("UploadAll() error = %v, want context.Canceled", err)
	}
	if results != nil {
		t.Error("cancelled upload returned partial results")
	}
}

func TestUploadAll_NoSink(t *testing.T) {
	if _, err := UploadAll(context.Background(), nil, []Job{{}}, 1); !errors.Is(err, ErrNoSink) {
		t.Errorf("UploadAll(nil) error = %v, want ErrNoSink", err)
	}
}

func TestDirSink(t *testing.T) {
	root := t.TempDir()

	url, err := NewDirSink(root, "https://assets.example.com/").
		Upload(context.Background(), "template_assets/t1/parsed_image_1.png", []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if url != "https://assets.example.com/template_assets/t1/parsed_image_1.png" {
		t.Errorf("URL = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(root, "template_assets", "t1", "parsed_image_1.png"))
	if err != nil || string(data) != "png" {
		t.Errorf("stored file = %q, %v", data, err)
	}

	url, err = NewDirSink(root, "").Upload(context.Background(), "x/y.gif", []byte("gif"), "image/gif")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(url, "file://") || !strings.HasSuffix(url, "/x/y.gif") {
		t.Errorf("URL = %q, want file URL", url)
	}

	if _, err := NewDirSink(root, "").Upload(context.Background(), "../escape", nil, ""); err == nil {
		t.Error("Upload() accepted a path outside the root")
	}
}

func TestSQLiteSink(t *testing.T) {
	sink, err := OpenSQLiteSink(":memory:", "/assets/")
	if err != nil {
		t.Fatalf("OpenSQLiteSink() error = %v", err)
	}
	defer sink.Close()

	ctx := context.Background()
	url, err := sink.Upload(ctx, "t1/parsed_image_1.png", []byte{1, 2, 3}, "image/png")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if url != "/assets/t1/parsed_image_1.png" {
		t.Errorf("URL = %q", url)
	}
	if _, err := sink.Upload(ctx, "t1/parsed_image_1.png", []byte{9}, "image/gif"); err != nil {
		t.Fatalf("second Upload() error = %v", err)
	}

	data, ct, err := sink.Get(ctx, "t1/parsed_image_1.png")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(data) != 1 || data[0] != 9 || ct != "image/gif" {
		t.Errorf("Get() = %v, %q; want replaced blob", data, ct)
	}
	if _, _, err := sink.Get(ctx, "missing"); err == nil {
		t.Error("Get() of a missing path should fail")
	}
}

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink(t *testing.T) {
	client := &fakeS3{}
	sink := NewS3SinkWithClient(client, "forms", "ap-northeast-1")

	url, err := sink.Upload(context.Background(), "/template_assets/t1/a.png", []byte("img"), "image/png")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if url != "https://forms.s3.ap-northeast-1.amazonaws.com/template_assets/t1/a.png" {
		t.Errorf("URL = %q", url)
	}
	if aws.StringValue(client.input.Key) != "template_assets/t1/a.png" ||
		aws.StringValue(client.input.ContentType) != "image/png" ||
		string(client.body) != "img" {
		t.Errorf("PutObject input = %v body=%q", client.input, client.body)
	}

	sink.PublicBaseURL = "https://cdn.example.com/"
	if got := sink.URL("k.png"); got != "https://cdn.example.com/k.png" {
		t.Errorf("URL() = %q", got)
	}

	client.err = errors.New("access denied")
	if _, err := sink.Upload(context.Background(), "k", nil, ""); err == nil || !strings.Contains(err.Error(), "s3://forms/k") {
		t.Errorf("Upload() error = %v", err)
	}
}
