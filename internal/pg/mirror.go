package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"labtrack/internal/schema"
)

// Snapshot отдаёт все записи сущности; реализуется хранилищем сервера
type Snapshot func(entityID string) []schema.Record

// MirrorAll переливает снапшот всех сущностей в Postgres апсертами.
// Сущности идут в порядке зависимостей: цели FK раньше ссылающихся.
func MirrorAll(ctx context.Context, db *sql.DB, reg *schema.Registry, snap Snapshot) error {
	for _, e := range dependencyOrder(reg) {
		for _, rec := range snap(e.ID) {
			if err := upsert(ctx, db, e, rec); err != nil {
				return fmt.Errorf("mirror %s/%s: %w", e.ID, rec.ID(), err)
			}
		}
	}
	return nil
}

// dependencyOrder — топологический порядок по FK-графу каталога.
// Каталог валидируется на замкнутость при старте, циклов в нём нет.
func dependencyOrder(reg *schema.Registry) []*schema.Entity {
	entities := reg.Entities()
	placed := make(map[string]bool, len(entities))
	var out []*schema.Entity

	for len(out) < len(entities) {
		progressed := false
		for _, e := range entities {
			if placed[e.ID] {
				continue
			}
			ready := true
			for _, f := range e.Fields {
				if f.Kind == schema.KindForeignKey && f.Related != e.ID && !placed[f.Related] {
					ready = false
					break
				}
			}
			if ready {
				out = append(out, e)
				placed[e.ID] = true
				progressed = true
			}
		}
		if !progressed {
			// цикл: дольём остаток как есть, FK с set null переживут
			for _, e := range entities {
				if !placed[e.ID] {
					out = append(out, e)
					placed[e.ID] = true
				}
			}
		}
	}
	return out
}

func upsert(ctx context.Context, db *sql.DB, e *schema.Entity, rec schema.Record) error {
	cols := []string{"id", "created_at", "updated_at"}
	args := []any{rec.ID(), rec["createdAt"], rec["updatedAt"]}
	for _, f := range e.Fields {
		cols = append(cols, strings.ToLower(f.Name))
		args = append(args, rec[f.Name])
	}

	idents := make([]string, len(cols))
	params := make([]string, len(cols))
	var sets []string
	for i, c := range cols {
		idents[i] = sqlIdent(c)
		params[i] = fmt.Sprintf("$%d", i+1)
		if c != "id" {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", sqlIdent(c), sqlIdent(c)))
		}
	}

	q := fmt.Sprintf(
		"insert into %s.%s (%s) values (%s) on conflict (id) do update set %s",
		sqlIdent(schemaName), sqlIdent(safeTable(e.ID)),
		strings.Join(idents, ", "), strings.Join(params, ", "), strings.Join(sets, ", "),
	)
	_, err := db.ExecContext(ctx, q, args...)
	return err
}
