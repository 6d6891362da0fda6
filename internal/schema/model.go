package schema

import "context"

// Kind — тип поля сущности
type Kind string

const (
	KindText       Kind = "text"
	KindInteger    Kind = "integer"
	KindDecimal    Kind = "decimal"
	KindDate       Kind = "date"
	KindCheckbox   Kind = "checkbox"
	KindForeignKey Kind = "foreignKey"
)

// Verb — каким методом сущность обновляется на сервере.
// Часть ресурсов принимает PATCH с узким payload, часть — PUT с частичным объектом.
type Verb string

const (
	VerbPut   Verb = "PUT"
	VerbPatch Verb = "PATCH"
)

// Field описывает поле сущности
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Related  string // id связанной сущности, только для KindForeignKey
	Required bool
}

// FormGroup — группа полей формы редактирования
type FormGroup struct {
	Label  string
	Fields []string // имена полей из Entity.Fields
}

// Entity — статический дескриптор сущности: поля, раскладка формы,
// колонки списка и привязка к REST-ресурсу.
type Entity struct {
	ID           string // ключ в реестре, например "samplePoints"
	Path         string // сегмент URL, например "SamplePoints"
	Title        string // подпись в меню
	Dropdown     string // родительский пункт меню, опционально
	DisplayField string // человекочитаемое поле для FK-подписей
	UpdateVerb   Verb
	Fields       []Field
	ListFields   []string // колонки таблицы
	FormGroups   []FormGroup
	FilterFields []string // допустимые дополнительные фильтры листинга
}

// Field возвращает дескриптор поля по имени
func (e *Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RequiredFields — имена обязательных полей (для валидации сабмита)
func (e *Entity) RequiredFields() []string {
	var out []string
	for _, f := range e.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Record — открытая запись: имя поля -> значение.
// Владеет данными удалённый API, у нас только копии для показа/правки.
type Record map[string]any

// Clone — неглубокая копия (значения скалярные, этого достаточно)
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ID записи; пустая строка, если поле отсутствует
func (r Record) ID() string {
	s, _ := r["id"].(string)
	return s
}

// PagedQuery — параметры одной страницы листинга
type PagedQuery struct {
	Page      int // с единицы
	PageSize  int
	Search    string
	SortBy    string
	SortOrder string // "asc" | "desc"
	Filters   map[string]string
}

// PagedResult — страница записей + общее число после фильтрации.
// Total считается по отфильтрованному набору: от него зависит пагинация.
type PagedResult struct {
	Data  []Record
	Total int
}

// TotalPages по текущему pageSize
func (p PagedResult) TotalPages(pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	n := (p.Total + pageSize - 1) / pageSize
	if n < 1 {
		n = 1
	}
	return n
}

// Ops — CRUD-контракт ресурса, одинаковый для всех сущностей.
// FetchByID/Update/Delete переводят 404 в (nil, nil)/false вместо ошибки:
// вызывающий ветвится по значению, не по статусу.
type Ops interface {
	FetchPage(ctx context.Context, q PagedQuery) (PagedResult, error)
	FetchByID(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, id string, partial Record) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Source выдаёт Ops по id сущности из реестра
type Source interface {
	Resource(entityID string) (Ops, error)
}
