package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// ConfigWatcher 监听配置文件变化，重新加载后回调 onReload
type ConfigWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload func(Config) error
}

// NewConfigWatcher 监听 path 所在目录（编辑器常以 rename 方式保存文件）
func NewConfigWatcher(path string, onReload func(Config) error) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	return &ConfigWatcher{path: filepath.Clean(path), watcher: w, onReload: onReload}, nil
}

// Run 阻塞直到 ctx 结束；文件停止变化 reloadDebounce 后才重新加载，
// 加载失败只记录日志，保留旧配置
func (cw *ConfigWatcher) Run(ctx context.Context) error {
	defer cw.watcher.Close()

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDebounce)
		case <-timer.C:
			cw.reload()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			Log.Warnf("config watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		Log.Errorf("config reload failed: %v", err)
		return
	}
	if err := cw.onReload(cfg); err != nil {
		Log.Errorf("config apply failed: %v", err)
		return
	}
	Log.Infof("config reloaded: %s", cw.path)
}
