package service

import "sync"

// ViewTracker выдаёт номера поколений для представлений (обычно чат).
// Результат загрузки применяется, только если его поколение всё ещё последнее.
type ViewTracker struct {
	mu   sync.Mutex
	gens map[string]uint64
}

func NewViewTracker() *ViewTracker {
	return &ViewTracker{gens: make(map[string]uint64)}
}

// Begin регистрирует новую загрузку и возвращает её поколение
func (t *ViewTracker) Begin(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gens[key]++
	return t.gens[key]
}

// IsCurrent true, если gen последнее выданное поколение для key
func (t *ViewTracker) IsCurrent(key string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.gens[key] == gen
}

// Current последнее поколение, 0 если загрузок не было
func (t *ViewTracker) Current(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.gens[key]
}
