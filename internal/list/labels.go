package list

import (
	"context"
	"sync"

	"labtrack/internal/schema"
)

// LabelCache переводит id связанной записи в её человекочитаемую подпись.
// Кэш общий на процесс: одни и те же facility/account светятся во всех списках.
// Отрицательные ответы (404) тоже кэшируются, иначе каждая перерисовка
// долбила бы API по удалённой записи.
type LabelCache struct {
	src schema.Source
	reg *schema.Registry

	mu      sync.RWMutex
	entries map[string]labelEntry // ключ "entity/id"
}

type labelEntry struct {
	label string
	ok    bool
}

func NewLabelCache(reg *schema.Registry, src schema.Source) *LabelCache {
	return &LabelCache{src: src, reg: reg, entries: make(map[string]labelEntry)}
}

// Peek — только из кэша, без сети. Для синхронного рендера ячеек.
func (c *LabelCache) Peek(entityID, id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, found := c.entries[entityID+"/"+id]
	if !found {
		return "", false
	}
	return e.label, e.ok
}

// Resolve достаёт подпись, при промахе ходит в API.
// Ошибка транспорта не кэшируется: следующая попытка может пройти.
func (c *LabelCache) Resolve(ctx context.Context, entityID, id string) (string, bool, error) {
	if id == "" {
		return "", false, nil
	}
	if label, ok := c.Peek(entityID, id); ok {
		return label, true, nil
	}
	c.mu.RLock()
	_, cached := c.entries[entityID+"/"+id]
	c.mu.RUnlock()
	if cached {
		return "", false, nil
	}

	ent, err := c.reg.Lookup(entityID)
	if err != nil {
		return "", false, err
	}
	ops, err := c.src.Resource(entityID)
	if err != nil {
		return "", false, err
	}
	rec, err := ops.FetchByID(ctx, id)
	if err != nil {
		return "", false, err
	}

	var e labelEntry
	if rec != nil {
		if s, ok := rec[ent.DisplayField].(string); ok && s != "" {
			e = labelEntry{label: s, ok: true}
		} else {
			// запись есть, но display-поле пустое: показываем сам id
			e = labelEntry{label: id, ok: true}
		}
	}
	c.mu.Lock()
	c.entries[entityID+"/"+id] = e
	c.mu.Unlock()
	return e.label, e.ok, nil
}

// Put сажает подпись в кэш напрямую (страница листинга связанной
// сущности уже привезла записи — грех не использовать).
func (c *LabelCache) Put(entityID, id, label string) {
	c.mu.Lock()
	c.entries[entityID+"/"+id] = labelEntry{label: label, ok: true}
	c.mu.Unlock()
}

// Forget выбрасывает запись из кэша (после правки или удаления)
func (c *LabelCache) Forget(entityID, id string) {
	c.mu.Lock()
	delete(c.entries, entityID+"/"+id)
	c.mu.Unlock()
}
