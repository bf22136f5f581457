package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// ErrMissingCredential is returned when a provider needs an API key and none is set.
var ErrMissingCredential = errors.New("API key not configured")

// CredentialSource yields the current API key. It is consulted on every
// provider call, so rotating a key never needs a restart.
type CredentialSource interface {
	APIKey() string
}

// APIKeyEnvVar returns the environment variable holding the key for providerID,
// or "" if the provider needs no key.
func APIKeyEnvVar(providerID string) string {
	switch providerID {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// EnvCredentials reads an environment variable at call time.
type EnvCredentials struct {
	Var string
}

func (e EnvCredentials) APIKey() string {
	if e.Var == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(e.Var))
}

// StaticCredentials is a fixed key, mostly for tests and flags.
type StaticCredentials string

func (s StaticCredentials) APIKey() string {
	return string(s)
}

// ChainCredentials returns the first non-empty key.
type ChainCredentials []CredentialSource

func (c ChainCredentials) APIKey() string {
	for _, src := range c {
		if src == nil {
			continue
		}
		if key := src.APIKey(); key != "" {
			return key
		}
	}
	return ""
}

// credentialsFile is the on-disk shape: a [credentials] table of providerID → key.
type credentialsFile struct {
	Credentials map[string]string `toml:"credentials"`
}

// FileCredentials serves one provider's key from a credentials.toml file and
// reloads it when the file changes.
type FileCredentials struct {
	path       string
	providerID string

	mu  sync.RWMutex
	key string

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewFileCredentials loads path once. A missing file is not an error; the key
// is simply empty until the file appears.
func NewFileCredentials(path, providerID string) (*FileCredentials, error) {
	fc := &FileCredentials{
		path:       ExpandPath(path),
		providerID: providerID,
	}
	if err := fc.reload(); err != nil {
		return nil, err
	}
	return fc, nil
}

func (fc *FileCredentials) APIKey() string {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.key
}

func (fc *FileCredentials) reload() error {
	if !FileExists(fc.path) {
		fc.setKey("")
		return nil
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(fc.path, &cf); err != nil {
		return fmt.Errorf("failed to parse credentials file: %w", err)
	}
	fc.setKey(strings.TrimSpace(cf.Credentials[fc.providerID]))
	return nil
}

func (fc *FileCredentials) setKey(key string) {
	fc.mu.Lock()
	fc.key = key
	fc.mu.Unlock()
}

// Watch starts reloading the key on file changes. It returns immediately;
// call Stop to release the watcher.
func (fc *FileCredentials) Watch(ctx context.Context) error {
	fc.mu.Lock()
	if fc.running {
		fc.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fc.mu.Unlock()
		return fmt.Errorf("failed to create credentials watcher: %w", err)
	}

	// Watch the directory: editors replace files by rename, which drops a file watch
	dir := filepath.Dir(fc.path)
	if err := EnsureDir(dir); err != nil {
		watcher.Close()
		fc.mu.Unlock()
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		fc.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fc.watcher = watcher
	fc.stopCh = make(chan struct{})
	fc.doneCh = make(chan struct{})
	fc.running = true
	fc.mu.Unlock()

	go fc.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (fc *FileCredentials) Stop() {
	fc.mu.Lock()
	if !fc.running {
		fc.mu.Unlock()
		return
	}
	fc.running = false
	fc.mu.Unlock()

	close(fc.stopCh)
	<-fc.doneCh

	if err := fc.watcher.Close(); err != nil {
		log.WithField("component", "credentials").WithError(err).Warn("error closing watcher")
	}
}

func (fc *FileCredentials) run(ctx context.Context) {
	defer close(fc.doneCh)

	logger := log.WithFields(log.Fields{"component": "credentials", "path": fc.path})

	// Saves often arrive as several events; reload once they settle
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case <-fc.stopCh:
			return

		case event, ok := <-fc.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fc.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(100 * time.Millisecond)

		case err, ok := <-fc.watcher.Errors:
			if !ok {
				return
			}
			logger.WithError(err).Warn("watch error")

		case <-pending:
			pending = nil
			if err := fc.reload(); err != nil {
				logger.WithError(err).Warn("keeping previous key, reload failed")
				continue
			}
			logger.Info("credentials reloaded")
		}
	}
}

// NewCredentialSource builds the source the gateway uses for providerID: the
// environment first, then credentialsFile if one is configured.
func NewCredentialSource(providerID, credentialsFile string) (CredentialSource, *FileCredentials, error) {
	chain := ChainCredentials{EnvCredentials{Var: APIKeyEnvVar(providerID)}}
	if credentialsFile == "" {
		return chain, nil, nil
	}

	fc, err := NewFileCredentials(credentialsFile, providerID)
	if err != nil {
		return nil, nil, err
	}
	return append(chain, fc), fc, nil
}
