package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ApplyDDL выполняет map[ключ]sql в порядке ключей. DDL idempotent
// (create ... if not exists), duplicate_object (42710) — не ошибка.
func ApplyDDL(db *sql.DB, ddl map[string]string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	keys := make([]string, 0, len(ddl))
	for k := range ddl {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, k := range keys {
		sqlText := strings.TrimSpace(ddl[k])
		if sqlText == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, sqlText); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "42710" {
				log.Debug("ddl skipped, object exists",
					zap.String("constraint", pgErr.ConstraintName))
				continue
			}
			// подстраховка по фразе на случай других объектов
			e := strings.ToLower(err.Error())
			if strings.Contains(e, "already exists") || strings.Contains(e, "duplicate") {
				log.Debug("ddl skipped, object exists", zap.Error(err))
				continue
			}
			return fmt.Errorf("DDL apply failed (%s): %w", k, err)
		}
	}
	return nil
}
