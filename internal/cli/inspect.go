package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/chiehanchen/steiner/pkg/steiner"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags solveFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Step through the refinement of a net",
		Long: `Route the net in <input> with tracing enabled and browse the accepted
moves in a terminal UI. Each row is one pass: the triple u-v-w it rewired,
the junction point, the length it saved and the tree length afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg, flags.explicitCache())
			if err != nil {
				return err
			}
			defer runner.Close()

			n, err := runner.ReadNet(ctx, args[0])
			if err != nil {
				return err
			}
			opts := flags.options(ctx, cfg)
			opts.Trace = true
			res, err := runner.Solve(ctx, n, opts)
			if err != nil {
				return err
			}

			m := NewInspectModel(args[0], res.Stats, res.Solution.Trace)
			if plain {
				m.Height = len(m.Moves)
				m.Cursor = -1
				fmt.Fprintln(stdout, m.View())
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print the move table instead of starting the UI")

	return cmd
}

// =============================================================================
// InspectModel - Interactive move browser
// =============================================================================

// InspectModel is the bubbletea model for browsing refinement moves.
type InspectModel struct {
	Name   string
	Stats  steiner.Stats
	Moves  []steiner.Move
	Cursor int
	Height int
	Offset int
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(name string, stats steiner.Stats, moves []steiner.Move) InspectModel {
	return InspectModel{
		Name:   name,
		Stats:  stats,
		Moves:  moves,
		Height: 15,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Moves)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Moves)-1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *InspectModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	m.Offset = max(m.Offset, 0)
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Refinement of " + m.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d pins · spanning tree %d → %d · %d steiner · %d passes",
		m.Stats.Pins, m.Stats.MSTLength, m.Stats.Length, m.Stats.SteinerPoints, m.Stats.Passes)))
	b.WriteString("\n\n")

	if len(m.Moves) == 0 {
		b.WriteString(listDimStyle.Render("  no improving move; the spanning tree is final"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Moves))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		mv := m.Moves[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(mv.Pass),
			mv.Kind.String(),
			fmt.Sprintf("%d-%d-%d", mv.U, mv.V, mv.W),
			mv.Point.String(),
			"-" + strconv.Itoa(mv.Gain),
			strconv.Itoa(mv.Length),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Pass", "Move", "Triple", "Junction", "Gain", "Length").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 2 && m.Moves[m.Offset+row].Kind == steiner.MoveRewire {
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.Cursor >= 0 && m.Cursor < len(m.Moves) {
		b.WriteString(describeMove(m.Moves[m.Cursor]))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  ↑/↓ navigate  q quit", m.Cursor+1, len(m.Moves))))
	}
	return b.String()
}

// describeMove explains a move in one line.
func describeMove(mv steiner.Move) string {
	var what string
	if mv.Kind == steiner.MoveInsert {
		what = fmt.Sprintf("insert steiner %d at %v joining %d, %d and %d", mv.Steiner, mv.Point, mv.U, mv.V, mv.W)
	} else {
		what = fmt.Sprintf("rewire %d-%d-%d through %v", mv.U, mv.V, mv.W, mv.Point)
	}
	if mv.Collapsed > 0 {
		what += fmt.Sprintf(", collapsing %d", mv.Collapsed)
	}
	return "  " + StyleHighlight.Render(what)
}
