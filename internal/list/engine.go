package list

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"labtrack/internal/schema"
)

// DefaultPageSize и допустимые размеры страницы
const DefaultPageSize = 10

var PageSizes = []int{10, 50, 100}

// Engine — состояние одного листинга: поисковая строка, сортировка,
// страница и последняя привезённая с сервера выборка. Пагинацию, поиск и
// сортировку целиком делает сервер, клиент ничего поверх не перекладывает.
type Engine struct {
	entity *schema.Entity
	ops    schema.Ops
	labels *LabelCache
	log    *zap.Logger

	seq atomic.Uint64 // номер последнего выданного запроса

	mu        sync.Mutex
	search    string
	sortBy    string
	sortOrder string
	page      int
	pageSize  int
	filters   map[string]string

	rows    []schema.Record
	total   int
	lastErr error
}

func NewEngine(reg *schema.Registry, src schema.Source, labels *LabelCache, entityID string, log *zap.Logger) (*Engine, error) {
	ent, err := reg.Lookup(entityID)
	if err != nil {
		return nil, err
	}
	ops, err := src.Resource(entityID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		entity:    ent,
		ops:       ops,
		labels:    labels,
		log:       log.With(zap.String("entity", entityID)),
		sortBy:    "id",
		sortOrder: "asc",
		page:      1,
		pageSize:  DefaultPageSize,
		filters:   make(map[string]string),
	}, nil
}

func (e *Engine) Entity() *schema.Entity { return e.entity }

// SetSearch меняет поисковую строку; любое изменение сбрасывает на первую
// страницу — старый номер страницы для нового фильтра бессмыслен.
func (e *Engine) SetSearch(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s == e.search {
		return
	}
	e.search = s
	e.page = 1
}

// ToggleSort: клик по той же колонке переворачивает направление,
// по новой — сортирует по возрастанию. Страница сбрасывается.
func (e *Engine) ToggleSort(field string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sortBy == field {
		if e.sortOrder == "asc" {
			e.sortOrder = "desc"
		} else {
			e.sortOrder = "asc"
		}
	} else {
		e.sortBy = field
		e.sortOrder = "asc"
	}
	e.page = 1
}

// SetPage зажимает номер в [1, totalPages по последнему total]
func (e *Engine) SetPage(p int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	max := schema.PagedResult{Total: e.total}.TotalPages(e.pageSize)
	if p < 1 {
		p = 1
	}
	if p > max {
		p = max
	}
	e.page = p
}

func (e *Engine) SetPageSize(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n <= 0 || n == e.pageSize {
		return
	}
	e.pageSize = n
	e.page = 1
}

// SetFilter выставляет дополнительный фильтр; имя обязано быть объявлено
// в FilterFields сущности, прочие молча игнорируются. Пустое значение снимает.
func (e *Engine) SetFilter(name, value string) {
	allowed := false
	for _, f := range e.entity.FilterFields {
		if f == name {
			allowed = true
			break
		}
	}
	if !allowed {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if value == "" {
		delete(e.filters, name)
	} else {
		e.filters[name] = value
	}
	e.page = 1
}

// Query — снимок параметров для следующего запроса
func (e *Engine) Query() schema.PagedQuery {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := make(map[string]string, len(e.filters))
	for k, v := range e.filters {
		f[k] = v
	}
	return schema.PagedQuery{
		Page:      e.page,
		PageSize:  e.pageSize,
		Search:    e.search,
		SortBy:    e.sortBy,
		SortOrder: e.sortOrder,
		Filters:   f,
	}
}

// Reload привозит страницу под текущие параметры. Побеждает последний
// выданный запрос: если за время полёта успели дёрнуть Reload ещё раз,
// этот результат молча выбрасывается — поздний ответ старого поиска
// не должен затирать свежий.
func (e *Engine) Reload(ctx context.Context) error {
	seq := e.seq.Add(1)
	q := e.Query()

	res, err := e.ops.FetchPage(ctx, q)

	if e.seq.Load() != seq {
		return nil // уже устарел
	}
	if err != nil {
		e.log.Warn("page fetch failed", zap.Int("page", q.Page), zap.Error(err))
		e.mu.Lock()
		e.lastErr = err
		e.mu.Unlock()
		return err
	}

	e.warmLabels(ctx, res.Data)

	e.mu.Lock()
	e.rows = res.Data
	e.total = res.Total
	e.lastErr = nil
	// сервер мог ужаться: не оставляем пользователя за последней страницей
	if max := res.TotalPages(e.pageSize); e.page > max {
		e.page = max
	}
	e.mu.Unlock()
	return nil
}

// warmLabels прогревает кэш подписей под FK-колонки привезённой страницы.
// Неразрешимые id (удалённая запись, сбой сети) остаются прочерком.
func (e *Engine) warmLabels(ctx context.Context, rows []schema.Record) {
	if e.labels == nil {
		return
	}
	for _, name := range e.entity.ListFields {
		f, ok := e.entity.Field(name)
		if !ok || f.Kind != schema.KindForeignKey {
			continue
		}
		for _, rec := range rows {
			id, _ := rec[name].(string)
			if id == "" {
				continue
			}
			if _, _, err := e.labels.Resolve(ctx, f.Related, id); err != nil {
				e.log.Debug("label resolve failed",
					zap.String("related", f.Related), zap.String("id", id), zap.Error(err))
			}
		}
	}
}

// Rows — записи последней удачной выборки
func (e *Engine) Rows() []schema.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rows
}

func (e *Engine) Total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

func (e *Engine) Page() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.page
}

func (e *Engine) PageSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pageSize
}

func (e *Engine) TotalPages() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return schema.PagedResult{Total: e.total}.TotalPages(e.pageSize)
}

// Err — ошибка последнего Reload; nil после удачного
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Header — подписи колонок в порядке ListFields
func (e *Engine) Header() []string {
	out := make([]string, 0, len(e.entity.ListFields))
	for _, name := range e.entity.ListFields {
		if f, ok := e.entity.Field(name); ok {
			out = append(out, f.Label)
		}
	}
	return out
}

// Cells — отформатированная строка таблицы для записи
func (e *Engine) Cells(rec schema.Record) []string {
	out := make([]string, 0, len(e.entity.ListFields))
	for _, name := range e.entity.ListFields {
		f, ok := e.entity.Field(name)
		if !ok {
			out = append(out, Placeholder)
			continue
		}
		out = append(out, FormatCell(f, rec[name], e.peek))
	}
	return out
}

func (e *Engine) peek(entityID, id string) (string, bool) {
	if e.labels == nil {
		return "", false
	}
	return e.labels.Peek(entityID, id)
}
