package server

import (
	"github.com/gin-gonic/gin"

	"labtrack/internal/schema"
)

// NewRouter собирает маршруты под каждую сущность каталога.
// Маршруты статические (по Path из дескриптора), никаких
// wildcard-сегментов с нормализацией имён.
func NewRouter(store *Store, reg *schema.Registry, functionKey string) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api", authMiddleware(functionKey))
	api.GET("/Summary", summaryHandler(store, reg))
	for _, ent := range reg.Entities() {
		ent := ent
		api.GET("/"+ent.Path, listHandler(store, ent))
		api.GET("/"+ent.Path+"/:id", getOneHandler(store, ent))
		api.POST("/"+ent.Path, createHandler(store, ent))
		api.PUT("/"+ent.Path, updateHandler(store, ent))
		api.PATCH("/"+ent.Path, updateHandler(store, ent))
		api.DELETE("/"+ent.Path, deleteHandler(store, ent))
	}
	return r
}

// RunServer — блокирующий запуск
func RunServer(addr string, store *Store, reg *schema.Registry, functionKey string) error {
	return NewRouter(store, reg, functionKey).Run(addr)
}
