package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"labtrack/internal/list"
	"labtrack/internal/schema"
)

const searchDebounce = 250 * time.Millisecond

// pageLoadedMsg — движок листинга перечитал страницу
type pageLoadedMsg struct {
	entityID string
	err      error
}

// searchTickMsg — отложенный запуск поиска; seq отсекает устаревшие тики
type searchTickMsg struct {
	entityID string
	seq      int
}

// listPage — таблица одной сущности поверх list.Engine
type listPage struct {
	eng    *list.Engine
	table  table.Model
	search textinput.Model

	searchFocused bool
	searchSeq     int
	styles        styles
}

func newListPage(eng *list.Engine, st styles) *listPage {
	ent := eng.Entity()
	cols := make([]table.Column, 0, len(ent.ListFields))
	for _, label := range eng.Header() {
		cols = append(cols, table.Column{Title: label, Width: 24})
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	si := textinput.New()
	si.Placeholder = "Search " + ent.Title + "..."
	si.CharLimit = 80
	si.Width = 40

	return &listPage{eng: eng, table: t, search: si, styles: st}
}

func (p *listPage) reloadCmd() tea.Cmd {
	eng := p.eng
	return func() tea.Msg {
		err := eng.Reload(context.Background())
		return pageLoadedMsg{entityID: eng.Entity().ID, err: err}
	}
}

func (p *listPage) debounceCmd() tea.Cmd {
	p.searchSeq++
	seq := p.searchSeq
	id := p.eng.Entity().ID
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{entityID: id, seq: seq}
	})
}

// selected — запись под курсором
func (p *listPage) selected() schema.Record {
	rows := p.eng.Rows()
	i := p.table.Cursor()
	if i < 0 || i >= len(rows) {
		return nil
	}
	return rows[i]
}

func (p *listPage) syncRows() {
	rows := make([]table.Row, 0, len(p.eng.Rows()))
	for _, rec := range p.eng.Rows() {
		rows = append(rows, table.Row(p.eng.Cells(rec)))
	}
	p.table.SetRows(rows)
	if c := p.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		p.table.SetCursor(len(rows) - 1)
	}
}

func (p *listPage) update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.searchFocused {
			switch msg.String() {
			case "enter", "esc":
				p.searchFocused = false
				p.search.Blur()
				return nil, true
			default:
				var cmd tea.Cmd
				p.search, cmd = p.search.Update(msg)
				p.eng.SetSearch(p.search.Value())
				return tea.Batch(cmd, p.debounceCmd()), true
			}
		}
		switch msg.String() {
		case "/":
			p.searchFocused = true
			p.search.Focus()
			return nil, true
		case "]", "right":
			p.eng.SetPage(p.eng.Page() + 1)
			return p.reloadCmd(), true
		case "[", "left":
			p.eng.SetPage(p.eng.Page() - 1)
			return p.reloadCmd(), true
		case "s":
			// циклическая сортировка по колонкам листинга
			p.eng.ToggleSort(p.nextSortField())
			return p.reloadCmd(), true
		case "+":
			p.eng.SetPageSize(nextPageSize(p.eng.PageSize()))
			return p.reloadCmd(), true
		case "r":
			return p.reloadCmd(), true
		}

	case searchTickMsg:
		if msg.seq != p.searchSeq {
			return nil, true // пока ждали, пользователь ещё печатал
		}
		return p.reloadCmd(), true

	case pageLoadedMsg:
		p.syncRows()
		return nil, true
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd, false
}

func (p *listPage) nextSortField() string {
	cur := p.eng.Query().SortBy
	fields := p.eng.Entity().ListFields
	for i, f := range fields {
		if f == cur {
			if p.eng.Query().SortOrder == "asc" {
				return f // второй клик перевернёт направление
			}
			return fields[(i+1)%len(fields)]
		}
	}
	if len(fields) == 0 {
		return "id"
	}
	return fields[0]
}

func nextPageSize(cur int) int {
	for i, n := range list.PageSizes {
		if n == cur {
			return list.PageSizes[(i+1)%len(list.PageSizes)]
		}
	}
	return list.DefaultPageSize
}

func (p *listPage) view() string {
	var out string
	out += p.styles.Title.Render(p.eng.Entity().Title) + "\n"
	out += p.search.View() + "\n\n"
	out += p.table.View() + "\n"

	q := p.eng.Query()
	status := fmt.Sprintf("page %d/%d · %d records · sort %s %s · size %d",
		p.eng.Page(), p.eng.TotalPages(), p.eng.Total(), q.SortBy, q.SortOrder, q.PageSize)
	out += p.styles.Status.Render(status) + "\n"
	if err := p.eng.Err(); err != nil {
		out += p.styles.Error.Render("fetch failed: "+err.Error()) + "\n"
	}
	return out
}
