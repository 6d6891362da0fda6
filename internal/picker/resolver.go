package picker

import (
	"context"
	"sync"
	"sync/atomic"

	"labtrack/internal/schema"
)

// SearchPageSize — сколько вариантов привозит один поиск
const SearchPageSize = 5

// Option — вариант выбора FK: id записи и её подпись
type Option struct {
	ID    string
	Label string
}

// Resolver — состояние одного searchable-select по связанной сущности.
// Владеет выбранным вариантом и списком подсказок; сетевые вызовы идут
// через тот же CRUD-контракт, что и листинги.
type Resolver struct {
	related *schema.Entity
	ops     schema.Ops

	seq atomic.Uint64

	mu       sync.Mutex
	selected *Option
	options  []Option
	loading  bool
}

func NewResolver(reg *schema.Registry, src schema.Source, relatedEntityID string) (*Resolver, error) {
	ent, err := reg.Lookup(relatedEntityID)
	if err != nil {
		return nil, err
	}
	ops, err := src.Resource(relatedEntityID)
	if err != nil {
		return nil, err
	}
	return &Resolver{related: ent, ops: ops}, nil
}

func (r *Resolver) label(rec schema.Record) string {
	if s, ok := rec[r.related.DisplayField].(string); ok && s != "" {
		return s
	}
	return rec.ID()
}

// Search обновляет список подсказок под строку query. Короткая страница,
// сортировка по display-полю. Выбранный вариант подмешивается в начало,
// даже если под запрос не попал — его нельзя потерять из списка.
// Из перекрывающихся поисков побеждает последний выданный.
func (r *Resolver) Search(ctx context.Context, query string) error {
	seq := r.seq.Add(1)
	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()

	res, err := r.ops.FetchPage(ctx, schema.PagedQuery{
		Page:      1,
		PageSize:  SearchPageSize,
		Search:    query,
		SortBy:    r.related.DisplayField,
		SortOrder: "asc",
	})

	if r.seq.Load() != seq {
		return nil // устаревший ответ, свежий уже в полёте или применён
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	if err != nil {
		return err
	}

	opts := make([]Option, 0, len(res.Data)+1)
	if sel := r.selected; sel != nil {
		opts = append(opts, *sel)
	}
	for _, rec := range res.Data {
		id := rec.ID()
		if r.selected != nil && id == r.selected.ID {
			continue
		}
		opts = append(opts, Option{ID: id, Label: r.label(rec)})
	}
	r.options = opts
	return nil
}

// SetID синхронизирует выбор с внешним значением поля (загрузка записи
// в форму). Несуществующий id и сбой сети одинаково сбрасывают выбор:
// форма показывает "не выбрано" вместо ошибки.
func (r *Resolver) SetID(ctx context.Context, id string) {
	if id == "" {
		r.Clear()
		return
	}
	rec, err := r.ops.FetchByID(ctx, id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil || rec == nil {
		r.selected = nil
		return
	}
	sel := Option{ID: id, Label: r.label(rec)}
	r.selected = &sel
	r.options = []Option{sel}
}

// Select фиксирует выбор пользователя из списка подсказок
func (r *Resolver) Select(opt Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := opt
	r.selected = &o
}

// Clear снимает выбор
func (r *Resolver) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = nil
}

// Selected — текущий выбор или nil
func (r *Resolver) Selected() *Option {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selected == nil {
		return nil
	}
	o := *r.selected
	return &o
}

// SelectedID — id выбора, пустая строка без выбора
func (r *Resolver) SelectedID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selected == nil {
		return ""
	}
	return r.selected.ID
}

// Options — текущие подсказки
func (r *Resolver) Options() []Option {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Option, len(r.options))
	copy(out, r.options)
	return out
}

// Loading — есть ли поиск в полёте
func (r *Resolver) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Entity — связанная сущность (для подписи поля в форме)
func (r *Resolver) Entity() *schema.Entity { return r.related }
