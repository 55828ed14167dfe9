package kv

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/cwarden/weekcal/internal/log"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// FileWatcher reports rewrites of tracked files. It watches the parent
// directory rather than the file itself because FileStore replaces files by
// rename, which drops a watch placed on the old inode.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	onChange func(string)
	mu       sync.Mutex
	debounce map[string]*time.Timer
	done     chan struct{}
}

func NewFileWatcher(onChange func(string)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher:  watcher,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		onChange: onChange,
		debounce: make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}

	go fw.watch()
	return fw, nil
}

func (fw *FileWatcher) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.files[absPath] {
		return nil
	}

	dir := filepath.Dir(absPath)
	if !fw.dirs[dir] {
		if err := fw.watcher.Add(dir); err != nil {
			return err
		}
		fw.dirs[dir] = true
	}
	fw.files[absPath] = true
	return nil
}

func (fw *FileWatcher) watch() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fw.schedule(filepath.Clean(event.Name))

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Error("file watcher", err)

		case <-fw.done:
			return
		}
	}
}

// schedule coalesces bursts of events for one file into a single callback.
func (fw *FileWatcher) schedule(name string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.files[name] {
		return
	}
	if timer, exists := fw.debounce[name]; exists {
		timer.Stop()
	}
	fw.debounce[name] = time.AfterFunc(debounceDelay, func() {
		fw.mu.Lock()
		delete(fw.debounce, name)
		watching := fw.files[name]
		fw.mu.Unlock()

		if watching && fw.onChange != nil {
			fw.onChange(name)
		}
	})
}

func (fw *FileWatcher) Close() error {
	close(fw.done)

	fw.mu.Lock()
	for name, timer := range fw.debounce {
		timer.Stop()
		delete(fw.debounce, name)
	}
	fw.mu.Unlock()

	return fw.watcher.Close()
}
