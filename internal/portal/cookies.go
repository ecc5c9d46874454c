package portal

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

// CookieStore хранит cookies сессии портала в JSON файле (имя -> значение)
type CookieStore struct {
	mu   sync.Mutex
	path string
}

func NewCookieStore(path string) *CookieStore {
	return &CookieStore{path: path}
}

// Cookies возвращает сохранённые cookies. Отсутствующий или битый файл
// означает пустую сессию.
func (s *CookieStore) Cookies() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Merge дописывает cookies из ответа к сохранённым и пишет файл
func (s *CookieStore) Merge(cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.load()
	for _, c := range cookies {
		if c.MaxAge < 0 {
			delete(saved, c.Name)
			continue
		}
		saved[c.Name] = c.Value
	}
	return s.save(saved)
}

func (s *CookieStore) load() map[string]string {
	cookies := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return cookies
	}
	if err := json.Unmarshal(data, &cookies); err != nil {
		return make(map[string]string)
	}
	return cookies
}

func (s *CookieStore) save(cookies map[string]string) error {
	data, err := json.MarshalIndent(cookies, "", "    ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data)
}

// writeFileAtomic пишет во временный файл рядом и переименовывает его
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".cookies-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
