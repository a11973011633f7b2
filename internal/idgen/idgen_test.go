package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestSequence_Order(t *testing.T) {
	gen := Sequence("img_")
	for i, want := range []string{"img_1", "img_2", "img_3"} {
		if got := gen(); got != want {
			t.Fatalf("call %d: got %q, want %q", i, got, want)
		}
	}
}

func TestSequence_Independent(t *testing.T) {
	a := Sequence("a")
	b := Sequence("b")
	a()
	a()
	if got := b(); got != "b1" {
		t.Errorf("second sequence: got %q, want b1", got)
	}
}

func TestSequence_Concurrent(t *testing.T) {
	gen := Sequence("")
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := gen()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != 50 {
		t.Errorf("got %d distinct ids, want 50", len(seen))
	}
}

func TestUUIDv7_Format(t *testing.T) {
	id := UUIDv7()()
	if len(id) != 36 || len(strings.Split(id, "-")) != 5 {
		t.Fatalf("UUIDv7: unexpected format %q", id)
	}
	u, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("uuid.Parse(%q) error = %v", id, err)
	}
	if u.Version() != 7 {
		t.Errorf("version = %d, want 7", u.Version())
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("para_", Sequence(""))
	if got := gen(); got != "para_1" {
		t.Errorf("got %q, want para_1", got)
	}
}

func TestNewTemplateID(t *testing.T) {
	if a, b := NewTemplateID(), NewTemplateID(); a == b {
		t.Errorf("NewTemplateID returned duplicate %q", a)
	}
}
