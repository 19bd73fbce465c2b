package filestore

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-jobportal-client/internal/errors"
	"github.com/jrsteele09/go-jobportal-client/token"
	"github.com/jrsteele09/go-jobportal-client/token/memstore"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/chacha20poly1305"
)

var _ token.KV = (*FileStore)(nil)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// additionalData binds sealed files to this format
var additionalData = []byte("jobportal-session-v1")

// FileStore keeps the session as a single JSON object on disk so it survives restarts.
// Writes go to a temp file that is renamed over the original. With a key configured the
// JSON is sealed with ChaCha20-Poly1305 (nonce || ciphertext).
type FileStore struct {
	path string
	aead cipher.AEAD
	lock sync.Mutex
}

type Option func(*FileStore) error

// WithKey seals the file with a 32-byte key
func WithKey(key []byte) Option {
	return func(f *FileStore) error {
		if len(key) == 0 {
			return nil
		}
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return fmt.Errorf("[filestore WithKey] %w", err)
		}
		f.aead = aead
		return nil
	}
}

// Open prepares path for use, creating its directory. It fails when the directory cannot
// be created or written.
func Open(path string, options ...Option) (*FileStore, error) {
	if path == "" {
		return nil, errors.Wrapf(errors.ErrStoreUnavailable, "[filestore Open] empty path")
	}

	f := &FileStore{path: path}
	for _, opt := range options {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("[filestore Open] create %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return nil, fmt.Errorf("[filestore Open] %s is not writable: %w", dir, err)
	}
	probe.Close()
	_ = os.Remove(probe.Name())

	return f, nil
}

// OpenOrMemory opens a FileStore, falling back to an in-memory store when the location
// is unusable. The session then only lives as long as the process.
func OpenOrMemory(path string, logger zerolog.Logger, options ...Option) token.KV {
	f, err := Open(path, options...)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("session file unavailable, keeping session in memory")
		return memstore.New()
	}
	return f
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStore) Set(values map[string]string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	current, err := f.read()
	if err != nil {
		if !errors.Is(err, errors.ErrCorruptSession) {
			return err
		}
		// unreadable content is replaced, not merged
		current = make(map[string]string)
	}
	for k, v := range values {
		current[k] = v
	}
	return f.write(current)
}

func (f *FileStore) Delete(keys ...string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	current, err := f.read()
	if err != nil {
		if !errors.Is(err, errors.ErrCorruptSession) {
			return err
		}
		current = make(map[string]string)
	}
	for _, k := range keys {
		delete(current, k)
	}
	return f.write(current)
}

func (f *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("[filestore read] %w", err)
	}

	if f.aead != nil {
		data, err = f.open(data)
		if err != nil {
			return nil, err
		}
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrapf(errors.ErrCorruptSession, "[filestore read] %s: %v", f.path, err)
	}
	return values, nil
}

func (f *FileStore) write(values map[string]string) error {
	if len(values) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("[filestore write] remove: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("[filestore write] marshal: %w", err)
	}
	if f.aead != nil {
		if data, err = f.seal(data); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("[filestore write] temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("[filestore write] chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[filestore write] write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[filestore write] close: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("[filestore write] rename: %w", err)
	}
	return nil
}

func (f *FileStore) seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, f.aead.NonceSize(), f.aead.NonceSize()+len(plain)+f.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("[filestore seal] nonce: %w", err)
	}
	return f.aead.Seal(nonce, nonce, plain, additionalData), nil
}

func (f *FileStore) open(sealed []byte) ([]byte, error) {
	if len(sealed) < f.aead.NonceSize() {
		return nil, errors.Wrapf(errors.ErrCorruptSession, "[filestore open] %s: truncated", f.path)
	}
	nonce, ciphertext := sealed[:f.aead.NonceSize()], sealed[f.aead.NonceSize():]
	plain, err := f.aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCorruptSession, "[filestore open] %s: %v", f.path, err)
	}
	return plain, nil
}
