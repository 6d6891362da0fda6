package list

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ExportCSV пишет текущую страницу в CSV: те же колонки и то же
// форматирование ячеек, что и в таблице. Кавычки внутри значений
// удваиваются самим encoding/csv.
func (e *Engine) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(e.Header()); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, rec := range e.Rows() {
		if err := cw.Write(e.Cells(rec)); err != nil {
			return fmt.Errorf("csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
