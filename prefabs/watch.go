package prefabs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports edits to prefab and level files under a set of
// directories. A file is reported once it has been quiet for the debounce
// window, so a burst of writes yields one event after the last of them.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

const watchDebounce = 100 * time.Millisecond

// NewWatcher watches each directory and its subdirectories. Directories that
// do not exist are skipped.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			return w.Add(p)
		})
		if err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Drain returns every pending changed path without blocking.
func (w *Watcher) Drain() []string {
	var out []string
	for {
		select {
		case p := <-w.Events:
			out = append(out, p)
		default:
			return out
		}
	}
}

type quietFile struct {
	path string
	gen  uint64
}

func (w *Watcher) run() {
	timers := make(map[string]*time.Timer)
	gens := make(map[string]uint64)
	quiet := make(chan quietFile)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !IsSpecFile(event.Name) && !IsLevelFile(event.Name) {
				continue
			}
			// restart the file's quiet period; a timer that already fired
			// is ignored through its stale generation
			if t, ok := timers[event.Name]; ok {
				t.Stop()
			}
			gens[event.Name]++
			q := quietFile{path: event.Name, gen: gens[event.Name]}
			timers[event.Name] = time.AfterFunc(watchDebounce, func() {
				select {
				case quiet <- q:
				case <-w.closeCh:
				}
			})
		case q := <-quiet:
			if gens[q.path] != q.gen {
				continue
			}
			delete(timers, q.path)
			select {
			case w.Events <- q.path:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func IsSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// IsLevelFile reports whether a path is map data or tileset art.
func IsLevelFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tmj", ".tsj", ".json", ".png":
		return true
	}
	return false
}
