package server

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"labtrack/internal/schema"
)

// Store — in-memory хранилище эталонного API: по таблице на сущность,
// id генерируются монотонным ULID. Снаружи только копии записей.
type Store struct {
	reg     *schema.Registry
	mu      sync.RWMutex
	tables  map[string]map[string]schema.Record // entityID -> id -> запись
	entropy io.Reader
}

func NewStore(reg *schema.Registry) *Store {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := &Store{
		reg:     reg,
		tables:  make(map[string]map[string]schema.Record),
		entropy: ulid.Monotonic(src, 0),
	}
	for _, e := range reg.Entities() {
		s.tables[e.ID] = make(map[string]schema.Record)
	}
	return s
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// Snapshot — копии всех записей сущности (для листинга и дашборда)
func (s *Store) Snapshot(entityID string) []schema.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tbl := s.tables[entityID]
	out := make([]schema.Record, 0, len(tbl))
	for _, r := range tbl {
		out = append(out, r.Clone())
	}
	return out
}

func (s *Store) Count(entityID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[entityID])
}

func (s *Store) Get(entityID, id string) (schema.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.tables[entityID][id]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// Insert кладёт новую запись; id и created/updated проставляет хранилище.
// Пришедший с клиента id игнорируется — источник истины по нему сервер.
func (s *Store) Insert(entityID string, rec schema.Record) schema.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := rec.Clone()
	now := time.Now().UTC().Format(time.RFC3339)
	created["id"] = s.newID()
	created["createdAt"] = now
	created["updatedAt"] = now
	if s.tables[entityID] == nil {
		s.tables[entityID] = make(map[string]schema.Record)
	}
	s.tables[entityID][created.ID()] = created
	return created.Clone()
}

// Merge накатывает частичный объект на существующую запись.
// false — записи нет (хендлер переведёт в 404).
func (s *Store) Merge(entityID, id string, partial schema.Record) (schema.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.tables[entityID][id]
	if !ok {
		return nil, false
	}
	for k, v := range partial {
		if k == "id" || k == "createdAt" {
			continue
		}
		if v == nil {
			delete(cur, k)
			continue
		}
		cur[k] = v
	}
	cur["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	return cur.Clone(), true
}

func (s *Store) Remove(entityID, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[entityID][id]; !ok {
		return false
	}
	delete(s.tables[entityID], id)
	return true
}

// Load сажает запись как есть, с её собственным id. Только для сидинга.
func (s *Store) Load(entityID string, rec schema.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID() == "" {
		rec = rec.Clone()
		rec["id"] = s.newID()
	}
	if s.tables[entityID] == nil {
		s.tables[entityID] = make(map[string]schema.Record)
	}
	s.tables[entityID][rec.ID()] = rec
}
