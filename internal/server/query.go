package server

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"labtrack/internal/schema"
)

// ==== Разбор query-параметров листинга ====

func parseListQuery(q url.Values, ent *schema.Entity) schema.PagedQuery {
	page := 1
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 1 {
		page = n
	}
	pageSize := 10
	if n, err := strconv.Atoi(q.Get("pageSize")); err == nil && n >= 1 && n <= 1000 {
		pageSize = n
	}

	sortBy := strings.TrimSpace(q.Get("sortBy"))
	if _, ok := ent.Field(sortBy); !ok && sortBy != "id" {
		sortBy = "id"
	}
	order := strings.ToLower(strings.TrimSpace(q.Get("sortOrder")))
	if order != "desc" {
		order = "asc"
	}

	// дополнительные фильтры — только объявленные на сущности
	filters := make(map[string]string)
	for _, name := range ent.FilterFields {
		if v := strings.TrimSpace(q.Get(name)); v != "" {
			filters[name] = v
		}
	}

	return schema.PagedQuery{
		Page:      page,
		PageSize:  pageSize,
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    sortBy,
		SortOrder: order,
		Filters:   filters,
	}
}

// ==== Фильтрация, сортировка, нарезка страницы ====

// evalQuery: фильтры -> поиск -> сортировка -> страница.
// Total считается после фильтрации и поиска: от него живёт пагинация клиента.
func evalQuery(all []schema.Record, ent *schema.Entity, q schema.PagedQuery) schema.PagedResult {
	filtered := all[:0:0]
	for _, rec := range all {
		if matchFilters(rec, q.Filters) && matchSearch(rec, ent, q.Search) {
			filtered = append(filtered, rec)
		}
	}

	sortRecords(filtered, q.SortBy, q.SortOrder == "desc")

	start := (q.Page - 1) * q.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + q.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return schema.PagedResult{Data: filtered[start:end], Total: len(filtered)}
}

// matchFilters — точное совпадение по каждому заявленному фильтру
func matchFilters(rec schema.Record, filters map[string]string) bool {
	for name, want := range filters {
		got, _ := rec[name].(string)
		if got != want {
			return false
		}
	}
	return true
}

// matchSearch — подстрока без регистра по строковым полям записи
func matchSearch(rec schema.Record, ent *schema.Entity, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(rec.ID()), needle) {
		return true
	}
	for _, f := range ent.Fields {
		s, ok := rec[f.Name].(string)
		if ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// cmpRecords сравнивает по одному ключу; null всегда в конец,
// числа — по значению, остальное — строково.
func cmpRecords(a, b schema.Record, key string, desc bool) int {
	va, oka := a[key]
	vb, okb := b[key]
	na := !oka || va == nil
	nb := !okb || vb == nil
	if na && nb {
		return 0
	}
	if na != nb {
		if na {
			return +1
		}
		return -1
	}

	rel := 0
	fa, aIsNum := va.(float64)
	fb, bIsNum := vb.(float64)
	switch {
	case aIsNum && bIsNum:
		if fa < fb {
			rel = -1
		} else if fa > fb {
			rel = +1
		}
	default:
		sa, sb := toString(va), toString(vb)
		if sa < sb {
			rel = -1
		} else if sa > sb {
			rel = +1
		}
	}
	if desc {
		rel = -rel
	}
	return rel
}

func sortRecords(records []schema.Record, key string, desc bool) {
	if key == "" {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		if c := cmpRecords(records[i], records[j], key, desc); c != 0 {
			return c < 0
		}
		// стабильный хвост по id, чтобы страницы не плавали
		return records[i].ID() < records[j].ID()
	})
}
