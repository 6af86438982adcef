package file

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/phenomap-cli/internal/logger"
)

// Watch starts an fsnotify watcher over the prompt directory and clears
// the prompt cache whenever a prompt file changes, so edits take effect
// without a restart. It returns a stop function that shuts the watcher
// down. Intended for long-running servers; one-shot commands read
// prompts fresh anyway.
func (s *PromptStore) Watch() (func() error, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return nil, fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.promptDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.promptDir, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(event.Name, ".txt") {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("Prompts: %s changed, reloading", filepath.Base(event.Name))
				s.Reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Debug("Prompts: watcher error: %v", err)
			}
		}
	}()

	logger.Debug("Prompts: watching %s", s.promptDir)
	return watcher.Close, nil
}
