package location

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher reloads the directory when either reference file changes on disk.
// Store-to-state mapping is near-static reference data; a reload on write is
// all the freshness the enrichment cache needs.
type Watcher struct {
	dir     *Directory
	watcher *fsnotify.Watcher
	doneCh  chan struct{}
}

// Watch starts watching the directory's reference folder. Non-blocking;
// call Close to stop.
func Watch(dir *Directory) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir.dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{dir: dir, watcher: fsw, doneCh: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			base := filepath.Base(ev.Name)
			if base != StoresFile && base != HierarchyFile {
				continue
			}
			if err := w.dir.Reload(); err != nil {
				log.Error().Err(err).Str("file", base).Msg("failed to reload reference data")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("reference data watcher error")
		}
	}
}

// Close stops the watcher and waits for its loop to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.doneCh
	return err
}
