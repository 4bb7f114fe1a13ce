package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/sketchbook/internal/session"
)

// App is the presentation layer. It renders catalog state and forwards user
// intents into the actor's queue; it never touches storage itself. Item rows
// are its own keyed copy of what the notifications reported.
type App struct {
	queue *session.Queue

	items      []item
	cursor     int
	selectedID int64 // object the actor's cursor points at, 0 = none

	editor textarea.Model
	prompt textinput.Model

	state    viewState
	asking   promptKind
	filename string
	status   string

	width  int
	height int
}

// item is one catalog row as last reported by the actor.
type item struct {
	id          int64
	name        string
	description string
}

type viewState string

const (
	viewBrowse viewState = "browse"
	viewEditor viewState = "editor"
)

type promptKind string

const (
	promptNone     promptKind = ""
	promptOpen     promptKind = "open"
	promptSaveAs   promptKind = "saveAs"
	promptRename   promptKind = "rename"
	promptDescribe promptKind = "describe"
	promptFind     promptKind = "find"
)

var promptLabels = map[promptKind]string{
	promptOpen:     "Open catalog file",
	promptSaveAs:   "Save catalog as",
	promptRename:   "Rename object",
	promptDescribe: "Describe object",
	promptFind:     "Select by name",
}

func New(queue *session.Queue) *App {
	ed := textarea.New()
	ed.Placeholder = "(define (sketch) ...)"
	ed.ShowLineNumbers = true

	pr := textinput.New()
	pr.CharLimit = 0

	return &App{
		queue:    queue,
		editor:   ed,
		prompt:   pr,
		state:    viewBrowse,
		filename: "scratch",
	}
}

func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.editor.SetWidth(max(20, m.Width-listWidth-6))
		a.editor.SetHeight(max(4, m.Height-5))
		return a, nil

	case tea.KeyMsg:
		if a.asking != promptNone {
			return a.handlePromptKey(m)
		}
		if a.state == viewEditor {
			return a.handleEditorKey(m)
		}
		return a.handleBrowseKey(m)

	case session.ClearItems:
		a.items = nil
		a.cursor = 0
		a.selectedID = 0
		a.editor.SetValue("")

	case session.ItemCreated:
		a.items = append(a.items, item{id: m.ID, name: m.Name, description: m.Description})
		a.status = fmt.Sprintf("created %s", m.Name)

	case session.SourceLoaded:
		a.editor.SetValue(m.Source)

	case session.FilenameChanged:
		a.filename = m.Path
		a.status = "catalog: " + m.Path

	case session.OpFailed:
		a.status = m.Op + ": " + m.Reason
	}
	return a, nil
}

func (a *App) handleBrowseKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
	case "enter":
		if len(a.items) == 0 {
			return a, nil
		}
		it := a.items[a.cursor]
		a.selectedID = it.id
		a.queue.Send(session.SelectItem{ID: it.id})
	case "n":
		a.queue.Send(session.NewItem{})
	case "e":
		if a.selectedID == 0 {
			a.status = "select an object first"
			return a, nil
		}
		a.state = viewEditor
		return a, a.editor.Focus()
	case "r":
		return a.openPrompt(promptRename, a.selectedName())
	case "d":
		return a.openPrompt(promptDescribe, a.selectedDescription())
	case "o":
		return a.openPrompt(promptOpen, "")
	case "s":
		return a.openPrompt(promptSaveAs, "")
	case "/":
		return a.openPrompt(promptFind, "")
	}
	return a, nil
}

// handleEditorKey routes keys to the textarea. Esc stores the buffer and
// returns to the list; ctrl+s stores without leaving.
func (a *App) handleEditorKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.queue.Send(session.StoreCode{Source: a.editor.Value()})
		a.editor.Blur()
		a.state = viewBrowse
		a.status = "stored"
		return a, nil
	case "ctrl+s":
		a.queue.Send(session.StoreCode{Source: a.editor.Value()})
		a.status = "stored"
		return a, nil
	case "ctrl+c":
		return a, tea.Quit
	}
	var cmd tea.Cmd
	a.editor, cmd = a.editor.Update(m)
	return a, cmd
}

func (a *App) handlePromptKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.closePrompt()
		return a, nil
	case "enter":
		text := strings.TrimSpace(a.prompt.Value())
		kind := a.asking
		a.closePrompt()
		if text == "" {
			a.status = "enter a value"
			return a, nil
		}
		a.submitPrompt(kind, text)
		return a, nil
	}
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(m)
	return a, cmd
}

func (a *App) submitPrompt(kind promptKind, text string) {
	switch kind {
	case promptOpen:
		a.queue.Send(session.Open{Path: text})
	case promptSaveAs:
		a.queue.Send(session.SaveAs{Path: text})
	case promptRename:
		a.queue.Send(session.SetName{Text: text})
		if i := a.indexOfID(a.selectedID); i >= 0 {
			a.items[i].name = text
		}
	case promptDescribe:
		a.queue.Send(session.SetDescription{Text: text})
		if i := a.indexOfID(a.selectedID); i >= 0 {
			a.items[i].description = text
		}
	case promptFind:
		a.queue.Send(session.SelectByName{Name: text})
		// Mirror the actor's cursor move in our own rows when the name is
		// known locally; a miss is reported back as OpFailed.
		for i, it := range a.items {
			if it.name == text {
				a.cursor = i
				a.selectedID = it.id
				break
			}
		}
	}
}

func (a *App) openPrompt(kind promptKind, initial string) (tea.Model, tea.Cmd) {
	if (kind == promptRename || kind == promptDescribe) && a.selectedID == 0 {
		a.status = "select an object first"
		return a, nil
	}
	a.asking = kind
	a.prompt.SetValue(initial)
	a.prompt.CursorEnd()
	return a, a.prompt.Focus()
}

func (a *App) closePrompt() {
	a.asking = promptNone
	a.prompt.Blur()
	a.prompt.SetValue("")
}

func (a *App) indexOfID(id int64) int {
	for i, it := range a.items {
		if it.id == id {
			return i
		}
	}
	return -1
}

func (a *App) selectedName() string {
	if i := a.indexOfID(a.selectedID); i >= 0 {
		return a.items[i].name
	}
	return ""
}

func (a *App) selectedDescription() string {
	if i := a.indexOfID(a.selectedID); i >= 0 {
		return a.items[i].description
	}
	return ""
}

func (a *App) View() string {
	header := titleStyle.Render("Sketchbook") + "  " + faintStyle.Render(a.filename)

	list := a.renderList()
	editor := paneStyle.Render(a.editor.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, editor)

	footer := a.renderFooter()
	return header + "\n" + body + "\n" + footer
}

func (a *App) renderList() string {
	var b strings.Builder
	if len(a.items) == 0 {
		b.WriteString(faintStyle.Render("(empty catalog)"))
	}
	for i, it := range a.items {
		line := it.name
		if it.id == a.selectedID {
			line = "* " + line
		} else {
			line = "  " + line
		}
		if i == a.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return listStyle.Width(listWidth).Render(b.String())
}

func (a *App) renderFooter() string {
	if a.asking != promptNone {
		return promptStyle.Render(promptLabels[a.asking]+": ") + a.prompt.View()
	}
	hints := "[n] new  [enter] select  [e] edit  [r] rename  [d] describe  [/] find  [o] open  [s] save as  [q] quit"
	if a.state == viewEditor {
		hints = "[esc] store & back  [ctrl+s] store"
	}
	line := faintStyle.Render(hints)
	if a.status != "" {
		line += "\n" + statusStyle.Render(a.status)
	}
	return line
}
