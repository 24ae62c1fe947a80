package replay

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/reflow/wordwrap"
)

var (
	pagerTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	pagerInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	pagerLiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))
)

// ReplayFileInteractive replays a session in a scrollable terminal pager.
func (r *Replayer) ReplayFileInteractive(path string) error {
	content, err := r.render(path)
	if err != nil {
		return err
	}
	m := &pagerModel{title: "Session: " + path, content: content}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// ReplayFileLive replays a session in a pager and re-renders it whenever the
// file changes, so a run can be followed while it is recorded.
func (r *Replayer) ReplayFileLive(path string) error {
	content, err := r.render(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch file: %w", err)
	}

	m := &pagerModel{
		title:   "Session: " + path + " (LIVE)",
		content: content,
		live:    true,
		reload:  func() (string, error) { return r.render(path) },
		watcher: watcher,
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// render replays the session file into a string.
func (r *Replayer) render(path string) (string, error) {
	var buf strings.Builder
	out := r.output
	r.output = &buf
	defer func() { r.output = out }()

	if err := r.ReplayFile(path); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fileChangedMsg is sent when the watched session file changes.
type fileChangedMsg struct{}

// pagerModel is the Bubble Tea model for the pager.
type pagerModel struct {
	viewport viewport.Model
	title    string
	content  string
	wrapped  string
	ready    bool

	live    bool
	reload  func() (string, error)
	watcher *fsnotify.Watcher

	searching bool
	input     textinput.Model
	query     string
	matches   []int // wrapped line numbers containing query
	match     int
}

func (m *pagerModel) Init() tea.Cmd {
	if m.live {
		return m.waitForChange()
	}
	return nil
}

// waitForChange blocks until the session file is written.
func (m *pagerModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-m.watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					// let the writer finish the file
					time.Sleep(100 * time.Millisecond)
					return fileChangedMsg{}
				}
			case _, ok := <-m.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (m *pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.updateSearch(msg)
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case fileChangedMsg:
		if content, err := m.reload(); err == nil {
			atBottom := m.viewport.AtBottom()
			m.setContent(content)
			if atBottom {
				m.viewport.GotoBottom()
			}
		}
		cmds = append(cmds, m.waitForChange())

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.query == "" {
				return m, tea.Quit
			}
			m.query, m.matches = "", nil
		case "g":
			m.viewport.GotoTop()
		case "G", "f":
			m.viewport.GotoBottom()
		case "/":
			m.searching = true
			m.input = textinput.New()
			m.input.Placeholder = "Search..."
			m.input.CharLimit = 100
			m.input.Width = 40
			m.input.SetValue(m.query)
			m.input.Focus()
			return m, textinput.Blink
		case "n":
			m.jump(m.match + 1)
		case "N":
			m.jump(m.match - 1)
		}

	case tea.WindowSizeMsg:
		height := msg.Height - 2 // header and footer
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.YPosition = 1
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.setContent(m.content)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *pagerModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.searching = false
			m.query = m.input.Value()
			m.search()
			m.jump(0)
			return m, nil
		case "esc", "ctrl+c":
			m.searching = false
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *pagerModel) setContent(content string) {
	m.content = content
	m.wrapped = wrapContent(content, m.viewport.Width)
	m.viewport.SetContent(m.wrapped)
	m.search()
}

// search records the wrapped lines containing the query, case-insensitively.
func (m *pagerModel) search() {
	m.matches = nil
	if m.query == "" {
		return
	}
	q := strings.ToLower(m.query)
	for i, line := range strings.Split(m.wrapped, "\n") {
		if strings.Contains(strings.ToLower(line), q) {
			m.matches = append(m.matches, i)
		}
	}
}

// jump centers match i, wrapping around at either end.
func (m *pagerModel) jump(i int) {
	if len(m.matches) == 0 {
		return
	}
	m.match = (i%len(m.matches) + len(m.matches)) % len(m.matches)
	offset := m.matches[m.match] - m.viewport.Height/2
	if limit := m.viewport.TotalLineCount() - m.viewport.Height; offset > limit {
		offset = limit
	}
	if offset < 0 {
		offset = 0
	}
	m.viewport.SetYOffset(offset)
}

func (m *pagerModel) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	title := pagerTitleStyle.Render(m.title)
	header := title + pagerInfoStyle.Render(strings.Repeat("─", max(0, m.viewport.Width-lipgloss.Width(title))))

	var footer string
	switch {
	case m.searching:
		footer = warnStyle.Render("/") + m.input.View()
	case m.query != "" && len(m.matches) == 0:
		footer = errorStyle.Render(" Pattern not found") + pagerInfoStyle.Render(" │ /: search │ esc: clear")
	case len(m.matches) > 0:
		footer = warnStyle.Render(fmt.Sprintf(" [%d/%d]", m.match+1, len(m.matches))) +
			pagerInfoStyle.Render(" │ n/N: next/prev │ esc: clear")
	default:
		help := " q: quit │ /: search │ g/G: top/bottom"
		if m.live {
			footer = pagerLiveStyle.Render(" ● LIVE") + pagerInfoStyle.Render(" │ f: follow │"+help)
		} else {
			footer = pagerInfoStyle.Render(help)
		}
	}
	footer += pagerInfoStyle.Render(fmt.Sprintf("  %3.f%%", m.viewport.ScrollPercent()*100))

	return header + "\n" + m.viewport.View() + "\n" + footer
}

// wrapContent wraps timeline lines to width, indenting continuation lines
// under the event column.
func wrapContent(content string, width int) string {
	if width <= 0 {
		return content
	}

	var out []string
	for _, line := range strings.Split(content, "\n") {
		if lipgloss.Width(line) <= width {
			out = append(out, line)
			continue
		}

		prefix, body := "", line
		if i := strings.LastIndex(line, "│ "); i > 0 {
			prefix, body = line[:i+len("│ ")], line[i+len("│ "):]
		}
		indent := strings.Repeat(" ", lipgloss.Width(prefix))
		bodyWidth := width - len(indent)
		if bodyWidth < 20 {
			bodyWidth = 20
		}

		for j, part := range strings.Split(wordwrap.String(body, bodyWidth), "\n") {
			if j == 0 {
				out = append(out, prefix+part)
			} else {
				out = append(out, indent+part)
			}
		}
	}
	return strings.Join(out, "\n")
}
