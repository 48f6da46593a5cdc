package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"archview/pkg/model"
	"archview/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newViewCmd creates the view command for browsing a snapshot interactively.
func newViewCmd() *cobra.Command {
	var (
		engine    string
		direction string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "view <snapshot.json>",
		Short: "Browse a snapshot interactively in the terminal",
		Long: `Browse a snapshot interactively in the terminal.

The browser lists the currently visible components with their layout
positions. Enter drills into the component under the cursor, backspace goes
one level up, and the breadcrumb trail is shown above the list. Layouts run
asynchronously; positions fill in as they complete.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			snap, err := model.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load snapshot %s: %w", args[0], err)
			}
			eng, err := newEngine(engine)
			if err != nil {
				return err
			}
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}

			updates := make(chan struct{}, 1)
			v := view.New(snap, view.Options{
				Coordinator: view.CoordinatorOptions{
					Engine:    eng,
					Cache:     newCache(noCache),
					Logger:    loggerFromContext(ctx),
					Direction: dir,
					OnUpdate: func() {
						select {
						case updates <- struct{}{}:
						default:
						}
					},
				},
			})
			defer v.Close()
			v.Refresh(ctx)

			m := newBrowseModel(ctx, v, updates)
			p := tea.NewProgram(m, tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&engine, "engine", "e", "layered", "layout engine: layered (default), dot")
	cmd.Flags().StringVarP(&direction, "direction", "d", "down", "flow direction: down (default), right")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// =============================================================================
// browseModel - Interactive snapshot browser
// =============================================================================

// layoutUpdatedMsg signals that an asynchronous layout was applied.
type layoutUpdatedMsg struct{}

// browseModel is the bubbletea model for the snapshot browser.
type browseModel struct {
	ctx     context.Context
	view    *view.View
	updates <-chan struct{}

	nodes   []view.Node
	cursor  int
	height  int
	offset  int
	pending bool
}

func newBrowseModel(ctx context.Context, v *view.View, updates <-chan struct{}) browseModel {
	return browseModel{
		ctx:     ctx,
		view:    v,
		updates: updates,
		height:  15,
		pending: true,
	}
}

// waitForUpdate blocks until the coordinator publishes a new layout.
func (m browseModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.updates:
			return layoutUpdatedMsg{}
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.waitForUpdate()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case layoutUpdatedMsg:
		m.nodes = m.view.Nodes()
		m.pending = false
		m.clampCursor()
		return m, m.waitForUpdate()

	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if m.cursor < len(m.nodes) && m.nodes[m.cursor].HasSubstructure {
				before := m.view.State().DrillTarget
				m.view.DrillInto(m.ctx, m.nodes[m.cursor].ID)
				if m.view.State().DrillTarget != before {
					m.cursor, m.offset = 0, 0
					m.pending = true
				}
			}
		case "backspace", "u":
			if m.view.State().DrillTarget != "" {
				m.view.DrillUp(m.ctx)
				m.cursor, m.offset = 0, 0
				m.pending = true
			}
		case " ":
			if m.cursor < len(m.nodes) {
				state := m.view.State()
				if state.SelectedID == m.nodes[m.cursor].ID {
					m.view.ClearSelection(m.ctx)
				} else {
					m.view.Select(m.ctx, m.nodes[m.cursor].ID)
				}
				m.nodes = m.view.Nodes()
			}
		}
	}
	return m, nil
}

func (m *browseModel) clampCursor() {
	if m.cursor >= len(m.nodes) {
		m.cursor = len(m.nodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Archview"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ drill  ⌫ up  space select  q quit"))
	b.WriteString("\n")

	state := m.view.State()
	if len(state.Breadcrumbs) > 0 {
		parts := make([]string, len(state.Breadcrumbs))
		for i, crumb := range state.Breadcrumbs {
			if i == len(state.Breadcrumbs)-1 {
				parts[i] = StyleHighlight.Render(crumb.Name)
			} else {
				parts[i] = listDimStyle.Render(crumb.Name)
			}
		}
		b.WriteString(strings.Join(parts, listDimStyle.Render(" "+iconArrow+" ")))
	} else {
		b.WriteString(listDimStyle.Render("top level"))
	}
	b.WriteString("\n\n")

	if m.pending {
		b.WriteString(listDimStyle.Render("  computing layout..."))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.nodes) == 0 {
		b.WriteString(listDimStyle.Render("  no visible components"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.offset + m.height
	if end > len(m.nodes) {
		end = len(m.nodes)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		drill := ""
		if n.HasSubstructure {
			drill = iconArrow
		}
		selected := ""
		if state.SelectedID == n.ID {
			selected = iconSuccess
		}
		pos := fmt.Sprintf("%.0f,%.0f", n.Position.X, n.Position.Y)
		rows = append(rows, []string{
			cursor, n.Name, n.Type,
			strconv.Itoa(n.FileCount), pos, drill, selected,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Component", "Type", "Files", "Position", "Drill", "Sel").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.offset + row
			if actualIdx >= len(m.nodes) {
				return lipgloss.NewStyle()
			}
			n := m.nodes[actualIdx]

			base := lipgloss.NewStyle()
			if actualIdx == m.cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if !n.Emphasized {
				return base.Foreground(colorDim)
			}
			if col == 1 {
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.nodes))))

	return b.String()
}
