package schema

import (
	"errors"
	"fmt"
)

// ErrUnknownEntity — запрошен id, которого нет в реестре.
// Это ошибка программиста, а не рантайм-ситуация: реестр статический.
var ErrUnknownEntity = errors.New("unknown entity")

// Registry — реестр дескрипторов. Только lookup, без побочных эффектов.
type Registry struct {
	byID  map[string]*Entity
	order []string
}

// NewRegistry собирает реестр и сразу проверяет замкнутость:
// дубликаты id, ссылки FK на отсутствующие сущности, битые имена полей
// в группах/колонках — всё ловится на старте, не в рантайме.
func NewRegistry(entities []*Entity) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Entity, len(entities))}
	for _, e := range entities {
		if e == nil || e.ID == "" {
			return nil, fmt.Errorf("entity without id")
		}
		if _, dup := r.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate entity %q", e.ID)
		}
		r.byID[e.ID] = e
		r.order = append(r.order, e.ID)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Lookup возвращает дескриптор или ErrUnknownEntity
func (r *Registry) Lookup(entityID string) (*Entity, error) {
	e, ok := r.byID[entityID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entityID)
	}
	return e, nil
}

// Entities — все дескрипторы в порядке регистрации
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Registry) validate() error {
	for _, id := range r.order {
		e := r.byID[id]
		for _, f := range e.Fields {
			if f.Kind == KindForeignKey {
				if f.Related == "" {
					return fmt.Errorf("%s.%s: foreignKey without related entity", e.ID, f.Name)
				}
				tgt, ok := r.byID[f.Related]
				if !ok {
					return fmt.Errorf("%s.%s: related entity %q not registered", e.ID, f.Name, f.Related)
				}
				if _, ok := tgt.Field(tgt.DisplayField); !ok && tgt.DisplayField != "id" {
					return fmt.Errorf("%s: display field %q missing", tgt.ID, tgt.DisplayField)
				}
			} else if f.Related != "" {
				return fmt.Errorf("%s.%s: related set on non-FK field", e.ID, f.Name)
			}
		}
		for _, name := range e.ListFields {
			if _, ok := e.Field(name); !ok {
				return fmt.Errorf("%s: list field %q not in schema", e.ID, name)
			}
		}
		for _, g := range e.FormGroups {
			for _, name := range g.Fields {
				if _, ok := e.Field(name); !ok {
					return fmt.Errorf("%s: form field %q not in schema", e.ID, name)
				}
			}
		}
		for _, name := range e.FilterFields {
			if _, ok := e.Field(name); !ok {
				return fmt.Errorf("%s: filter field %q not in schema", e.ID, name)
			}
		}
	}
	return nil
}
