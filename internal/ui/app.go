package ui

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"labtrack/internal/auth"
	"labtrack/internal/client"
	"labtrack/internal/form"
	"labtrack/internal/list"
	"labtrack/internal/schema"
)

// summaryMsg — привезли счётчики дашборда
type summaryMsg struct {
	counts map[string]int
	err    error
}

// App — корневая bubbletea-модель: вкладка Summary + по вкладке на
// сущность каталога, оверлей формы поверх активного листинга.
type App struct {
	reg     *schema.Registry
	cli     *client.Client
	session *auth.Session
	log     *zap.Logger

	order  []string // id сущностей в порядке каталога
	pages  map[string]*listPage
	active int // 0 = Summary, дальше order[active-1]

	formV  *formView
	counts map[string]int
	status string
	styles styles

	width, height int
}

func NewApp(reg *schema.Registry, cli *client.Client, session *auth.Session, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	st := defaultStyles()
	labels := list.NewLabelCache(reg, cli)

	var order []string
	pages := make(map[string]*listPage)
	for _, e := range reg.Entities() {
		eng, err := list.NewEngine(reg, cli, labels, e.ID, log)
		if err != nil {
			return nil, err
		}
		order = append(order, e.ID)
		pages[e.ID] = newListPage(eng, st)
	}

	return &App{
		reg:     reg,
		cli:     cli,
		session: session,
		log:     log,
		order:   order,
		pages:   pages,
		styles:  st,
	}, nil
}

func (a *App) summaryCmd() tea.Cmd {
	cli := a.cli
	return func() tea.Msg {
		counts, err := cli.Summary(context.Background())
		return summaryMsg{counts: counts, err: err}
	}
}

func (a *App) activePage() *listPage {
	if a.active == 0 {
		return nil
	}
	return a.pages[a.order[a.active-1]]
}

func (a *App) Init() tea.Cmd {
	return a.summaryCmd()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case summaryMsg:
		if msg.err != nil {
			a.status = "summary failed: " + msg.err.Error()
		} else {
			a.counts = msg.counts
		}
		return a, nil

	case formSavedMsg:
		if msg.err != nil {
			a.status = "save failed: " + msg.err.Error()
			return a, nil
		}
		if msg.ok {
			a.formV = nil
			a.status = "saved"
			if p := a.activePage(); p != nil {
				return a, p.reloadCmd()
			}
		}
		// ok=false без ошибки: не прошла валидация, форма осталась открыта
		return a, nil
	}

	// оверлей формы забирает ввод целиком
	if a.formV != nil {
		cmd, closed := a.formV.update(msg)
		if closed {
			a.formV = nil
		}
		return a, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		p := a.activePage()
		inSearch := p != nil && p.searchFocused
		if !inSearch {
			switch key.String() {
			case "q", "ctrl+c":
				if a.session != nil {
					a.session.Logout()
				}
				return a, tea.Quit
			case "tab":
				a.active = (a.active + 1) % (len(a.order) + 1)
				return a, a.tabCmd()
			case "shift+tab":
				a.active = (a.active + len(a.order)) % (len(a.order) + 1)
				return a, a.tabCmd()
			case "n":
				if p != nil {
					return a, a.openForm(p, nil)
				}
			case "enter":
				if p != nil {
					if rec := p.selected(); rec != nil {
						return a, a.openForm(p, rec)
					}
				}
			case "x":
				if p != nil {
					a.exportActive(p)
					return a, nil
				}
			}
		}
	}

	if p := a.activePage(); p != nil {
		cmd, _ := p.update(msg)
		return a, cmd
	}
	return a, nil
}

// tabCmd грузит данные свежеоткрытой вкладки
func (a *App) tabCmd() tea.Cmd {
	if a.active == 0 {
		return a.summaryCmd()
	}
	return a.activePage().reloadCmd()
}

// openForm открывает форму создания (rec == nil) или правки
func (a *App) openForm(p *listPage, rec schema.Record) tea.Cmd {
	entityID := p.eng.Entity().ID
	f, err := form.New(a.reg, a.cli, entityID, nil)
	if err != nil {
		a.status = err.Error()
		return nil
	}
	ctx := context.Background()
	if rec == nil {
		f.OpenCreate(ctx)
	} else {
		f.OpenEdit(ctx, rec)
	}
	a.formV = newFormView(f, a.styles)
	return nil
}

// exportActive пишет текущую страницу листинга в CSV рядом с процессом
func (a *App) exportActive(p *listPage) {
	name := p.eng.Entity().ID + ".csv"
	file, err := os.Create(name)
	if err != nil {
		a.status = "export failed: " + err.Error()
		return
	}
	defer file.Close()
	if err := p.eng.ExportCSV(file); err != nil {
		a.status = "export failed: " + err.Error()
		return
	}
	a.status = "exported " + name
}

func (a *App) View() string {
	var b strings.Builder

	// шапка: аккаунт + вкладки
	account := "not signed in"
	if a.session != nil && a.session.Active() {
		account = a.session.Account()
	}
	b.WriteString(a.styles.Title.Render("labtrack") + a.styles.Muted.Render("  ·  "+account) + "\n")

	tabs := []string{a.tabLabel("Summary", a.active == 0)}
	for i, id := range a.order {
		e, _ := a.reg.Lookup(id)
		tabs = append(tabs, a.tabLabel(e.Title, a.active == i+1))
	}
	b.WriteString(strings.Join(tabs, a.styles.Muted.Render(" | ")) + "\n\n")

	if a.formV != nil {
		b.WriteString(a.formV.view() + "\n")
	} else if a.active == 0 {
		b.WriteString(a.summaryView())
	} else {
		b.WriteString(a.activePage().view())
	}

	if a.status != "" {
		b.WriteString("\n" + a.styles.Status.Render(a.status))
	}
	b.WriteString("\n" + a.styles.Muted.Render("tab switch · / search · s sort · [ ] page · n new · enter edit · x export · q quit"))
	return b.String()
}

func (a *App) tabLabel(title string, active bool) string {
	if active {
		return a.styles.TabActive.Render(title)
	}
	return a.styles.Tab.Render(title)
}

// summaryView — счётчики по сущностям с примитивной гистограммой
func (a *App) summaryView() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Records by entity") + "\n\n")
	if a.counts == nil {
		b.WriteString(a.styles.Muted.Render("loading...") + "\n")
		return b.String()
	}

	ids := make([]string, 0, len(a.counts))
	max := 1
	for id, n := range a.counts {
		ids = append(ids, id)
		if n > max {
			max = n
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		e, err := a.reg.Lookup(id)
		if err != nil {
			continue
		}
		n := a.counts[id]
		bar := strings.Repeat("█", n*24/max)
		b.WriteString(fmt.Sprintf("%-30s %5d  %s\n", e.Title, n, a.styles.Selected.Render(bar)))
	}
	return b.String()
}

// Run запускает дашборд в альтернативном экране
func Run(reg *schema.Registry, cli *client.Client, session *auth.Session, log *zap.Logger) error {
	app, err := NewApp(reg, cli, session, log)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
