package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"labtrack/internal/schema"
)

// Client раздаёт ресурсы по реестру сущностей
type Client struct {
	core *Core
	reg  *schema.Registry
}

func New(core *Core, reg *schema.Registry) *Client {
	return &Client{core: core, reg: reg}
}

// Resource реализует schema.Source
func (c *Client) Resource(entityID string) (schema.Ops, error) {
	e, err := c.reg.Lookup(entityID)
	if err != nil {
		return nil, err
	}
	return &Resource{core: c.core, entity: e}, nil
}

// Resource — CRUD одной сущности поверх HTTP API
type Resource struct {
	core   *Core
	entity *schema.Entity
}

func (r *Resource) endpoint() string { return "/api/" + r.entity.Path }

// FetchPage запрашивает страницу листинга. Сервер может отдать либо голый
// массив (тогда total = длине), либо конверт {data,total}; любая другая
// форма тихо превращается в пустой результат — бэкенд живой и меняется.
func (r *Resource) FetchPage(ctx context.Context, q schema.PagedQuery) (schema.PagedResult, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	params.Set("search", q.Search)
	params.Set("sortBy", q.SortBy)
	params.Set("sortOrder", q.SortOrder)
	for k, v := range q.Filters {
		if v != "" {
			params.Set(k, v)
		}
	}

	raw, err := r.core.get(ctx, r.endpoint()+"?"+params.Encode())
	if err != nil {
		return schema.PagedResult{}, err
	}
	return normalizePage(raw), nil
}

func normalizePage(raw json.RawMessage) schema.PagedResult {
	var arr []schema.Record
	if err := json.Unmarshal(raw, &arr); err == nil {
		return schema.PagedResult{Data: arr, Total: len(arr)}
	}
	var env struct {
		Data  []schema.Record `json:"data"`
		Total int             `json:"total"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return schema.PagedResult{Data: env.Data, Total: env.Total}
	}
	return schema.PagedResult{Data: []schema.Record{}, Total: 0}
}

// FetchByID возвращает запись или (nil, nil) на 404
func (r *Resource) FetchByID(ctx context.Context, id string) (schema.Record, error) {
	raw, err := r.core.get(ctx, r.endpoint()+"/"+url.PathEscape(id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var rec schema.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.entity.ID, err)
	}
	if rec.ID() == "" {
		return nil, nil
	}
	return rec, nil
}

// Create отправляет только описанные схемой поля: id и прочие
// server-generated значения — зона ответственности сервера.
func (r *Resource) Create(ctx context.Context, rec schema.Record) (schema.Record, error) {
	raw, err := r.core.post(ctx, r.endpoint(), r.writable(rec))
	if err != nil {
		return nil, err
	}
	var created schema.Record
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("decode created %s: %w", r.entity.ID, err)
	}
	return created, nil
}

// Update: 404 -> false, остальные ошибки пробрасываются.
// Глагол зависит от сущности: часть API принимает PATCH, часть PUT.
func (r *Resource) Update(ctx context.Context, id string, partial schema.Record) (bool, error) {
	endpoint := r.endpoint() + "?id=" + url.QueryEscape(id)
	var err error
	if r.entity.UpdateVerb == schema.VerbPatch {
		_, err = r.core.patch(ctx, endpoint, r.writable(partial))
	} else {
		_, err = r.core.put(ctx, endpoint, r.writable(partial))
	}
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete: те же сентинел-семантики, что у Update
func (r *Resource) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := r.core.delete(ctx, r.endpoint()+"?id="+url.QueryEscape(id)); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// writable отбирает из записи поля, описанные схемой
func (r *Resource) writable(rec schema.Record) schema.Record {
	out := make(schema.Record, len(rec))
	for _, f := range r.entity.Fields {
		if v, ok := rec[f.Name]; ok {
			out[f.Name] = v
		}
	}
	return out
}

var _ schema.Ops = (*Resource)(nil)
var _ schema.Source = (*Client)(nil)
