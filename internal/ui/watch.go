package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwarden/weekcal/internal/kv"
	"github.com/cwarden/weekcal/internal/log"
)

// StoreChangedMsg reports that another process rewrote a watched key.
type StoreChangedMsg struct {
	Path string
}

// WatchStore sends a StoreChangedMsg whenever the files behind keys change.
// It returns nil for stores that are not backed by watchable files. The
// callback runs on the watcher goroutine, so it only hands the message to
// send; the reload itself happens in Update.
func WatchStore(store kv.Store, send func(tea.Msg), keys ...string) (*kv.FileWatcher, error) {
	w, ok := store.(kv.Watchable)
	if !ok {
		return nil, nil
	}

	fw, err := kv.NewFileWatcher(func(path string) {
		send(StoreChangedMsg{Path: path})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	for _, key := range keys {
		path := w.Path(key)
		if err := fw.AddFile(path); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
		log.Info("watching store", "key", key, "path", path)
	}
	return fw, nil
}
