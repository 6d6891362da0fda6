package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"labtrack/internal/picker"
	"labtrack/internal/schema"
)

// pickerOptionsMsg — поиск по связанной сущности отработал
type pickerOptionsMsg struct {
	field string
	err   error
}

// pickerTickMsg — отложенный поиск после паузы в наборе
type pickerTickMsg struct {
	field string
	seq   int
}

// pickerView — searchable select по FK-полю. Гонки перекрывающихся
// поисков гасит сам resolver, вьюха только рисует его состояние.
type pickerView struct {
	field    string
	resolver *picker.Resolver
	input    textinput.Model
	cursor   int
	seq      int
	chosen   *picker.Option
	lastErr  error
	styles   styles
}

func newPickerView(r *picker.Resolver, fld schema.Field, st styles) (*pickerView, error) {
	if r == nil {
		return nil, fmt.Errorf("no resolver for %s", fld.Name)
	}
	ti := textinput.New()
	ti.Placeholder = "Search " + r.Entity().Title + "..."
	ti.CharLimit = 80
	ti.Width = 36
	ti.Focus()
	return &pickerView{field: fld.Name, resolver: r, input: ti, styles: st}, nil
}

func (p *pickerView) searchCmd(query string) tea.Cmd {
	r := p.resolver
	field := p.field
	return func() tea.Msg {
		err := r.Search(context.Background(), query)
		return pickerOptionsMsg{field: field, err: err}
	}
}

func (p *pickerView) debounceCmd() tea.Cmd {
	p.seq++
	seq := p.seq
	field := p.field
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return pickerTickMsg{field: field, seq: seq}
	})
}

// update возвращает (cmd, done); done — выбор сделан или отменён,
// результат в p.chosen (nil при отмене)
func (p *pickerView) update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return nil, true
		case "enter":
			opts := p.resolver.Options()
			if p.cursor >= 0 && p.cursor < len(opts) {
				o := opts[p.cursor]
				p.chosen = &o
			}
			return nil, true
		case "up":
			if p.cursor > 0 {
				p.cursor--
			}
			return nil, false
		case "down":
			if p.cursor < len(p.resolver.Options())-1 {
				p.cursor++
			}
			return nil, false
		default:
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			return tea.Batch(cmd, p.debounceCmd()), false
		}

	case pickerTickMsg:
		if msg.field != p.field || msg.seq != p.seq {
			return nil, false
		}
		return p.searchCmd(p.input.Value()), false

	case pickerOptionsMsg:
		if msg.field != p.field {
			return nil, false
		}
		p.lastErr = msg.err
		if p.cursor >= len(p.resolver.Options()) {
			p.cursor = 0
		}
		return nil, false
	}
	return nil, false
}

func (p *pickerView) view() string {
	var b strings.Builder
	b.WriteString(p.styles.Title.Render("Select "+p.resolver.Entity().Title) + "\n\n")
	b.WriteString(p.input.View() + "\n\n")

	if p.resolver.Loading() {
		b.WriteString(p.styles.Muted.Render("searching...") + "\n")
	}
	selectedID := p.resolver.SelectedID()
	for i, o := range p.resolver.Options() {
		marker := "  "
		if i == p.cursor {
			marker = p.styles.Selected.Render("> ")
		}
		label := o.Label
		if o.ID == selectedID {
			label += p.styles.Muted.Render(" (current)")
		}
		b.WriteString(marker + label + "\n")
	}
	if p.lastErr != nil {
		b.WriteString(p.styles.Error.Render("search failed: "+p.lastErr.Error()) + "\n")
	}
	b.WriteString("\n" + p.styles.Status.Render("enter select · esc cancel"))
	return p.styles.Overlay.Render(b.String())
}
