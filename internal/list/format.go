package list

import (
	"fmt"
	"strconv"
	"time"

	"labtrack/internal/schema"
)

// Placeholder — чем рисуем пустую или неразрешимую ячейку
const Placeholder = "-"

const dateLayout = "2006-01-02"

// принимаемые форматы дат из API: голая дата и RFC3339 с временем
var dateInputs = []string{dateLayout, time.RFC3339, "2006-01-02T15:04:05"}

// FormatCell превращает значение поля в строку для таблицы/CSV.
// lookup — разрешение FK в подпись, nil допустим (тогда FK рисуется как прочерк).
func FormatCell(f schema.Field, v any, lookup func(entityID, id string) (string, bool)) string {
	if v == nil {
		return Placeholder
	}
	switch f.Kind {
	case schema.KindCheckbox:
		if b, ok := v.(bool); ok {
			if b {
				return "Yes"
			}
			return "No"
		}
		return Placeholder

	case schema.KindDate:
		s, ok := v.(string)
		if !ok || s == "" {
			return Placeholder
		}
		for _, layout := range dateInputs {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(dateLayout)
			}
		}
		return s // не распарсили — показываем как есть

	case schema.KindForeignKey:
		id, ok := v.(string)
		if !ok || id == "" {
			return Placeholder
		}
		if lookup != nil {
			if label, ok := lookup(f.Related, id); ok {
				return label
			}
		}
		return Placeholder

	case schema.KindInteger, schema.KindDecimal:
		switch n := v.(type) {
		case float64:
			return strconv.FormatFloat(n, 'f', -1, 64)
		case int:
			return strconv.Itoa(n)
		}
		return fmt.Sprintf("%v", v)

	default:
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("%v", v)
		}
		if s == "" {
			return Placeholder
		}
		return s
	}
}
