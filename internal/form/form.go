package form

import (
	"context"
	"fmt"
	"sync"

	"labtrack/internal/picker"
	"labtrack/internal/schema"
)

// Mode — состояние формы
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

// Form — черновик одной записи: открывается под создание или правку,
// копит правки локально и пишет их на сервер только по явному сабмиту.
// Закрытие без сабмита выбрасывает черновик целиком.
type Form struct {
	entity    *schema.Entity
	ops       schema.Ops
	resolvers map[string]*picker.Resolver // по имени FK-поля
	onSaved   func()                      // обновление родительского списка

	mu       sync.Mutex
	mode     Mode
	recordID string
	draft    schema.Record
	missing  []string
}

// New строит форму сущности. onSaved дёргается после удачного
// create/update/delete — родительский список обязан перечитаться.
func New(reg *schema.Registry, src schema.Source, entityID string, onSaved func()) (*Form, error) {
	ent, err := reg.Lookup(entityID)
	if err != nil {
		return nil, err
	}
	ops, err := src.Resource(entityID)
	if err != nil {
		return nil, err
	}

	resolvers := make(map[string]*picker.Resolver)
	for _, f := range ent.Fields {
		if f.Kind != schema.KindForeignKey {
			continue
		}
		r, err := picker.NewResolver(reg, src, f.Related)
		if err != nil {
			return nil, err
		}
		resolvers[f.Name] = r
	}
	return &Form{entity: ent, ops: ops, resolvers: resolvers, onSaved: onSaved}, nil
}

func (f *Form) Entity() *schema.Entity { return f.entity }

// Resolver — пикер FK-поля; nil для обычных полей
func (f *Form) Resolver(field string) *picker.Resolver { return f.resolvers[field] }

// OpenCreate открывает пустую форму
func (f *Form) OpenCreate(ctx context.Context) {
	f.mu.Lock()
	f.mode = ModeCreate
	f.recordID = ""
	f.draft = schema.Record{}
	f.missing = nil
	f.mu.Unlock()
	for _, r := range f.resolvers {
		r.Clear()
	}
}

// OpenEdit открывает форму по копии записи и подтягивает подписи FK.
// Неразрешимый FK оставляет пикер пустым — форма всё равно открывается.
func (f *Form) OpenEdit(ctx context.Context, rec schema.Record) {
	f.mu.Lock()
	f.mode = ModeEdit
	f.recordID = rec.ID()
	f.draft = rec.Clone()
	f.missing = nil
	f.mu.Unlock()
	for name, r := range f.resolvers {
		id, _ := rec[name].(string)
		r.SetID(ctx, id)
	}
}

func (f *Form) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *Form) RecordID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recordID
}

// Set пишет значение поля в черновик; неизвестные поля игнорируются
func (f *Form) Set(field string, value any) {
	if _, ok := f.entity.Field(field); !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeClosed {
		return
	}
	f.draft[field] = value
}

// Get — текущее значение из черновика
func (f *Form) Get(field string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return nil
	}
	return f.draft[field]
}

// Pick фиксирует выбор FK: и в пикере, и в черновике
func (f *Form) Pick(field string, opt picker.Option) {
	r, ok := f.resolvers[field]
	if !ok {
		return
	}
	r.Select(opt)
	f.Set(field, opt.ID)
}

// Unpick снимает FK-выбор
func (f *Form) Unpick(field string) {
	r, ok := f.resolvers[field]
	if !ok {
		return
	}
	r.Clear()
	f.Set(field, nil)
}

// Draft — копия черновика (для рендера)
func (f *Form) Draft() schema.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return nil
	}
	return f.draft.Clone()
}

// Missing — обязательные поля, не заполненные на последнем сабмите
func (f *Form) Missing() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.missing
}

func (f *Form) validate() []string {
	var missing []string
	for _, name := range f.entity.RequiredFields() {
		v, ok := f.draft[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Submit валидирует и пишет черновик на сервер. Незаполненные обязательные
// поля делают сабмит no-op: (false, nil), список — в Missing(). После
// удачной записи форма закрывается и дёргает onSaved.
func (f *Form) Submit(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.mode == ModeClosed {
		f.mu.Unlock()
		return false, nil
	}
	if f.missing = f.validate(); len(f.missing) > 0 {
		f.mu.Unlock()
		return false, nil
	}
	mode := f.mode
	id := f.recordID
	draft := f.draft.Clone()
	f.mu.Unlock()

	switch mode {
	case ModeCreate:
		if _, err := f.ops.Create(ctx, draft); err != nil {
			return false, err
		}
	case ModeEdit:
		ok, err := f.ops.Update(ctx, id, draft)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, fmt.Errorf("%s %q no longer exists", f.entity.ID, id)
		}
	}

	f.Close()
	if f.onSaved != nil {
		f.onSaved()
	}
	return true, nil
}

// Delete удаляет редактируемую запись. Повторное удаление уже
// исчезнувшей записи не ошибка: форма закрывается в любом случае.
func (f *Form) Delete(ctx context.Context) error {
	f.mu.Lock()
	mode, id := f.mode, f.recordID
	f.mu.Unlock()
	if mode != ModeEdit || id == "" {
		return nil
	}
	if _, err := f.ops.Delete(ctx, id); err != nil {
		return err
	}
	f.Close()
	if f.onSaved != nil {
		f.onSaved()
	}
	return nil
}

// Close сбрасывает черновик без сохранения
func (f *Form) Close() {
	f.mu.Lock()
	f.mode = ModeClosed
	f.recordID = ""
	f.draft = nil
	f.missing = nil
	f.mu.Unlock()
}
