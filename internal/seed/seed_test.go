package seed

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/Lixing-Zhang/food-dashboard/pkg/logger"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		wantLen int
		wantErr bool
	}{
		{"json-server layout", `{"foods":[{"id":1,"name":"Cake","price":"4.50","available":true},{"id":2,"name":"Pie"}]}`, 2, false},
		{"no foods key", `{"orders":[]}`, 0, false},
		{"malformed", `{"foods":`, 0, true},
		{"missing id", `{"foods":[{"name":"Cake"}]}`, 0, true},
		{"duplicate id", `{"foods":[{"id":1,"name":"Cake"},{"id":1,"name":"Pie"}]}`, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			foods, err := Parse([]byte(tc.data))
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if foods == nil {
				t.Fatal("Parse() returned nil slice")
			}
			if len(foods) != tc.wantLen {
				t.Errorf("Parse() returned %d foods, want %d", len(foods), tc.wantLen)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "db.json")); !os.IsNotExist(err) {
		t.Errorf("LoadFile() error = %v, want not-exist", err)
	}
}

type recordingReplacer struct {
	mu    sync.Mutex
	foods []models.Food
}

func (r *recordingReplacer) ReplaceFoods(ctx context.Context, foods []models.Food) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.foods = foods
	return nil
}

func (r *recordingReplacer) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.foods))
	for i, f := range r.foods {
		out[i] = f.Name
	}
	return out
}

func TestFileWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	if err := os.WriteFile(path, []byte(`{"foods":[{"id":1,"name":"Cake"}]}`), 0644); err != nil {
		t.Fatalf("failed to create seed file: %v", err)
	}

	target := &recordingReplacer{}
	fw, err := NewFileWatcher(path, target, logger.Discard())
	if err != nil {
		t.Fatalf("NewFileWatcher() unexpected error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.Watch(ctx)

	if err := os.WriteFile(path, []byte(`{"foods":[{"id":1,"name":"Cake"},{"id":2,"name":"Pie"}]}`), 0644); err != nil {
		t.Fatalf("failed to rewrite seed file: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case <-fw.Reloaded():
			if names := target.names(); len(names) == 2 && names[1] == "Pie" {
				return
			}
		case <-deadline:
			t.Fatalf("seed file was not reloaded, last foods: %v", target.names())
		}
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	if err := os.WriteFile(path, []byte(`{"foods":[]}`), 0644); err != nil {
		t.Fatalf("failed to create seed file: %v", err)
	}

	target := &recordingReplacer{}
	fw, err := NewFileWatcher(path, target, logger.Discard())
	if err != nil {
		t.Fatalf("NewFileWatcher() unexpected error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.Watch(ctx)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644); err != nil {
		t.Fatalf("failed to write unrelated file: %v", err)
	}

	select {
	case <-fw.Reloaded():
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(200 * time.Millisecond):
	}
}
