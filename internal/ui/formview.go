package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"labtrack/internal/form"
	"labtrack/internal/schema"
)

// formSavedMsg — результат сабмита или удаления
type formSavedMsg struct {
	ok  bool
	err error
}

// formRow — строка формы: либо заголовок группы, либо поле
type formRow struct {
	group string
	field schema.Field
}

// formView — оверлей создания/правки записи поверх form.Form.
// Правки уходят в черновик формы на каждом нажатии; на диск (сервер)
// черновик попадает только по ctrl+s.
type formView struct {
	f      *form.Form
	rows   []formRow
	inputs map[string]*textinput.Model
	cursor int
	picker *pickerView
	styles styles
}

func newFormView(f *form.Form, st styles) *formView {
	ent := f.Entity()
	var rows []formRow
	inputs := make(map[string]*textinput.Model)
	for _, g := range ent.FormGroups {
		rows = append(rows, formRow{group: g.Label})
		for _, name := range g.Fields {
			fld, ok := ent.Field(name)
			if !ok {
				continue
			}
			rows = append(rows, formRow{field: fld})
			if fld.Kind != schema.KindForeignKey && fld.Kind != schema.KindCheckbox {
				ti := textinput.New()
				ti.CharLimit = 120
				ti.Width = 36
				if fld.Kind == schema.KindDate {
					ti.Placeholder = "YYYY-MM-DD"
				}
				ti.SetValue(editText(f.Get(name)))
				inputs[name] = &ti
			}
		}
	}
	v := &formView{f: f, rows: rows, inputs: inputs, styles: st}
	v.cursor = v.nextField(-1, +1)
	v.focusCursor()
	return v
}

// editText — значение черновика как текст для инпута
func editText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// parseValue — обратно из текста в типизированное значение черновика
func parseValue(kind schema.Kind, s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	switch kind {
	case schema.KindInteger:
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		return s
	case schema.KindDecimal:
		if x, err := strconv.ParseFloat(s, 64); err == nil {
			return x
		}
		return s
	default:
		return s
	}
}

// nextField ищет следующую строку-поле от i в направлении dir
func (v *formView) nextField(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(v.rows); j += dir {
		if v.rows[j].group == "" {
			return j
		}
	}
	return i
}

func (v *formView) focusCursor() {
	for name, ti := range v.inputs {
		if v.cursor >= 0 && v.cursor < len(v.rows) && v.rows[v.cursor].field.Name == name {
			ti.Focus()
		} else {
			ti.Blur()
		}
	}
}

func (v *formView) current() schema.Field {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return schema.Field{}
	}
	return v.rows[v.cursor].field
}

func (v *formView) submitCmd() tea.Cmd {
	f := v.f
	return func() tea.Msg {
		ok, err := f.Submit(context.Background())
		return formSavedMsg{ok: ok, err: err}
	}
}

func (v *formView) deleteCmd() tea.Cmd {
	f := v.f
	return func() tea.Msg {
		err := f.Delete(context.Background())
		return formSavedMsg{ok: err == nil, err: err}
	}
}

// update возвращает (cmd, closed)
func (v *formView) update(msg tea.Msg) (tea.Cmd, bool) {
	// пикер поверх формы перехватывает всё
	if v.picker != nil {
		cmd, done := v.picker.update(msg)
		if done {
			if opt := v.picker.chosen; opt != nil {
				v.f.Pick(v.picker.field, *opt)
			}
			v.picker = nil
		}
		return cmd, false
	}

	key, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return nil, false
	}

	switch key.String() {
	case "esc":
		v.f.Close()
		return nil, true
	case "ctrl+s":
		return v.submitCmd(), false
	case "ctrl+d":
		if v.f.Mode() == form.ModeEdit {
			return v.deleteCmd(), false
		}
		return nil, false
	case "up", "shift+tab":
		v.cursor = v.nextField(v.cursor, -1)
		v.focusCursor()
		return nil, false
	case "down", "tab":
		v.cursor = v.nextField(v.cursor, +1)
		v.focusCursor()
		return nil, false
	}

	fld := v.current()
	switch fld.Kind {
	case schema.KindForeignKey:
		switch key.String() {
		case "enter":
			p, err := newPickerView(v.f.Resolver(fld.Name), fld, v.styles)
			if err == nil {
				v.picker = p
				return p.searchCmd(""), false
			}
		case "backspace", "delete":
			v.f.Unpick(fld.Name)
		}
		return nil, false

	case schema.KindCheckbox:
		if key.String() == " " || key.String() == "enter" {
			cur, _ := v.f.Get(fld.Name).(bool)
			v.f.Set(fld.Name, !cur)
		}
		return nil, false

	default:
		ti := v.inputs[fld.Name]
		if ti == nil {
			return nil, false
		}
		var cmd tea.Cmd
		*ti, cmd = ti.Update(msg)
		v.f.Set(fld.Name, parseValue(fld.Kind, ti.Value()))
		return cmd, false
	}
}

func (v *formView) view() string {
	if v.picker != nil {
		return v.picker.view()
	}

	var b strings.Builder
	title := "New " + v.f.Entity().Title
	if v.f.Mode() == form.ModeEdit {
		title = "Edit " + v.f.Entity().Title
	}
	b.WriteString(v.styles.Title.Render(title) + "\n\n")

	missing := make(map[string]bool)
	for _, name := range v.f.Missing() {
		missing[name] = true
	}

	for i, row := range v.rows {
		if row.group != "" {
			b.WriteString(v.styles.Label.Render(row.group) + "\n")
			continue
		}
		fld := row.field
		marker := "  "
		if i == v.cursor {
			marker = v.styles.Selected.Render("> ")
		}
		label := fld.Label
		if fld.Required {
			label += v.styles.Required.Render(" *")
		}

		var value string
		switch fld.Kind {
		case schema.KindForeignKey:
			if sel := v.f.Resolver(fld.Name).Selected(); sel != nil {
				value = v.styles.Selected.Render(sel.Label)
			} else {
				value = v.styles.Muted.Render("(none, enter to pick)")
			}
		case schema.KindCheckbox:
			if on, _ := v.f.Get(fld.Name).(bool); on {
				value = "[x]"
			} else {
				value = "[ ]"
			}
		default:
			value = v.inputs[fld.Name].View()
		}

		line := fmt.Sprintf("%s%-28s %s", marker, label, value)
		if missing[fld.Name] {
			line += v.styles.Error.Render("  required")
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + v.styles.Status.Render("ctrl+s save · ctrl+d delete · esc cancel"))
	return v.styles.Overlay.Render(b.String())
}
