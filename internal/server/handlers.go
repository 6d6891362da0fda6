package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labtrack/internal/schema"
)

// FieldError — ошибка валидации одного поля
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// checkRequired — обязательные поля должны прийти непустыми.
// Для partial-глаголов проверяются только присланные ключи.
func checkRequired(ent *schema.Entity, obj schema.Record, full bool) []FieldError {
	var errs []FieldError
	for _, name := range ent.RequiredFields() {
		v, present := obj[name]
		if !present {
			if full {
				errs = append(errs, FieldError{Field: name, Message: "is required"})
			}
			continue
		}
		if v == nil {
			errs = append(errs, FieldError{Field: name, Message: "is required"})
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			errs = append(errs, FieldError{Field: name, Message: "is required"})
		}
	}
	return errs
}

// checkUnknown отсекает поля, которых нет в схеме сущности
func checkUnknown(ent *schema.Entity, obj schema.Record) []FieldError {
	var errs []FieldError
	for k := range obj {
		if k == "id" || k == "createdAt" || k == "updatedAt" {
			continue
		}
		if _, ok := ent.Field(k); !ok {
			errs = append(errs, FieldError{Field: k, Message: "unknown field"})
		}
	}
	return errs
}

// checkRefs — каждый присланный FK обязан указывать на живую запись
func checkRefs(store *Store, ent *schema.Entity, obj schema.Record) []FieldError {
	var errs []FieldError
	for _, f := range ent.Fields {
		if f.Kind != schema.KindForeignKey {
			continue
		}
		v, present := obj[f.Name]
		if !present || v == nil {
			continue
		}
		id, _ := v.(string)
		if id == "" {
			continue
		}
		if _, ok := store.Get(f.Related, id); !ok {
			errs = append(errs, FieldError{Field: f.Name, Message: "referenced record not found"})
		}
	}
	return errs
}

// GET /api/:path
func listHandler(store *Store, ent *schema.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := parseListQuery(c.Request.URL.Query(), ent)
		res := evalQuery(store.Snapshot(ent.ID), ent, q)
		c.JSON(http.StatusOK, gin.H{"data": res.Data, "total": res.Total})
	}
}

// GET /api/:path/:id
func getOneHandler(store *Store, ent *schema.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := store.Get(ent.ID, c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// POST /api/:path
func createHandler(store *Store, ent *schema.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		var obj schema.Record
		if err := c.ShouldBindJSON(&obj); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		var errs []FieldError
		errs = append(errs, checkRequired(ent, obj, true)...)
		errs = append(errs, checkUnknown(ent, obj)...)
		errs = append(errs, checkRefs(store, ent, obj)...)
		if len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
			return
		}
		c.JSON(http.StatusCreated, store.Insert(ent.ID, obj))
	}
}

// PUT|PATCH /api/:path?id=
// Оба глагола принимают частичный объект; какой из них слушает сущность,
// решает её дескриптор (часть старых клиентов шлёт PATCH, часть PUT).
func updateHandler(store *Store, ent *schema.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id query parameter required"})
			return
		}
		var obj schema.Record
		if err := c.ShouldBindJSON(&obj); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		var errs []FieldError
		errs = append(errs, checkRequired(ent, obj, false)...)
		errs = append(errs, checkUnknown(ent, obj)...)
		errs = append(errs, checkRefs(store, ent, obj)...)
		if len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
			return
		}
		rec, ok := store.Merge(ent.ID, id, obj)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// DELETE /api/:path?id=
func deleteHandler(store *Store, ent *schema.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id query parameter required"})
			return
		}
		if !store.Remove(ent.ID, id) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GET /api/Summary — счётчики по всем сущностям для дашборда
func summaryHandler(store *Store, reg *schema.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts := make(map[string]int)
		for _, e := range reg.Entities() {
			counts[e.ID] = store.Count(e.ID)
		}
		c.JSON(http.StatusOK, gin.H{"counts": counts})
	}
}
