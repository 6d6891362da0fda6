package pg

import (
	"fmt"
	"sort"
	"strings"

	"labtrack/internal/schema"
)

// Генерация idempotent-DDL под зеркало каталога: схема labtrack,
// по таблице на сущность, FK отдельной фазой после всех таблиц.

const schemaName = "labtrack"

var reserved = map[string]struct{}{
	"user": {}, "select": {}, "table": {}, "insert": {}, "update": {}, "delete": {},
	"where": {}, "join": {}, "group": {}, "order": {}, "limit": {}, "offset": {},
	"primary": {}, "foreign": {}, "key": {}, "constraint": {}, "default": {},
	"from": {}, "into": {}, "values": {}, "unique": {}, "index": {}, "create": {},
}

func safeTable(entityID string) string {
	t := strings.ToLower(entityID)
	if _, bad := reserved[t]; bad {
		t = "e_" + t
	}
	return t
}

func sqlIdent(s string) string { return `"` + strings.ToLower(s) + `"` }

func mapType(f schema.Field) string {
	switch f.Kind {
	case schema.KindInteger:
		return "bigint"
	case schema.KindDecimal:
		return "double precision"
	case schema.KindDate:
		return "date"
	case schema.KindCheckbox:
		return "boolean"
	default:
		// text и foreignKey (id целевой записи)
		return "text"
	}
}

// GenerateDDL возвращает карту ключ -> SQL; ключи упорядочены так, что
// схема и таблицы применяются раньше внешних ключей.
func GenerateDDL(reg *schema.Registry) map[string]string {
	out := make(map[string]string)

	entities := reg.Entities()
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })

	var tables strings.Builder
	fmt.Fprintf(&tables, "create schema if not exists %s;\n", sqlIdent(schemaName))

	type fkStmt struct {
		tbl, name, col, refTbl string
	}
	var fks []fkStmt

	for _, e := range entities {
		tbl := safeTable(e.ID)

		cols := []string{
			`"id" text primary key`,
			`"created_at" timestamp with time zone null`,
			`"updated_at" timestamp with time zone null`,
		}
		for _, f := range e.Fields {
			null := "null"
			if f.Required {
				null = "not null"
			}
			cols = append(cols, fmt.Sprintf("%s %s %s", sqlIdent(f.Name), mapType(f), null))

			if f.Kind == schema.KindForeignKey {
				fks = append(fks, fkStmt{
					tbl:    tbl,
					name:   strings.ToLower(e.ID + "_" + f.Name + "_fk"),
					col:    f.Name,
					refTbl: safeTable(f.Related),
				})
			}
		}

		fmt.Fprintf(&tables, "create table if not exists %s.%s (\n  %s\n);\n",
			sqlIdent(schemaName), sqlIdent(tbl), strings.Join(cols, ",\n  "))
	}
	out["000_schema_and_tables"] = tables.String()

	var phaseB strings.Builder
	for _, fk := range fks {
		// set null: зеркало не должно падать из-за висячей ссылки в сиде
		fmt.Fprintf(&phaseB,
			"alter table %s.%s add constraint %s foreign key (%s) references %s.%s(id) on delete set null;\n",
			sqlIdent(schemaName), sqlIdent(fk.tbl),
			fk.name,
			sqlIdent(fk.col),
			sqlIdent(schemaName), sqlIdent(fk.refTbl),
		)
	}
	if phaseB.Len() > 0 {
		out["100_foreign_keys"] = phaseB.String()
	}
	return out
}
