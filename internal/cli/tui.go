package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flashtrack/pkg/course"
	"github.com/matzehuels/flashtrack/pkg/editor"
	"github.com/matzehuels/flashtrack/pkg/geom"
	ftio "github.com/matzehuels/flashtrack/pkg/io"
	"github.com/matzehuels/flashtrack/pkg/play"
	"github.com/matzehuels/flashtrack/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Canvas styles
var (
	canvasHover    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	canvasNode     = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	canvasStart    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	canvasFinish   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	canvasFloating = lipgloss.NewStyle().Foreground(colorGray)
	canvasTrace    = lipgloss.NewStyle().Foreground(colorCyan)
)

// spriteColors maps course colors to terminal colors.
var spriteColors = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("75"),
	"green":  lipgloss.Color("35"),
	"orange": lipgloss.Color("208"),
	"pink":   lipgloss.Color("212"),
	"purple": lipgloss.Color("141"),
	"red":    lipgloss.Color("167"),
	"yellow": lipgloss.Color("220"),
}

// =============================================================================
// CourseListModel - Interactive stored course selection
// =============================================================================

// CourseListModel is the bubbletea model for picking a stored course.
type CourseListModel struct {
	Courses  []store.Info
	Cursor   int
	Selected *store.Info
	Height   int
	Offset   int
}

// NewCourseListModel creates a new course list model.
func NewCourseListModel(courses []store.Info) CourseListModel {
	return CourseListModel{Courses: courses, Height: 15}
}

func (m CourseListModel) Init() tea.Cmd {
	return nil
}

func (m CourseListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Courses)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Courses) == 0 {
				return m, nil
			}
			info := m.Courses[m.Cursor]
			m.Selected = &info
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m CourseListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Course"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Courses))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Courses[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		done := ""
		if c.Completed {
			done = iconSuccess
		}
		rows = append(rows, []string{cursor, c.Name, fmt.Sprint(c.Nodes), fmt.Sprint(c.Edges), done})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Course", "Nodes", "Edges", "Done").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 4 {
				return StyleSuccess
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Courses))))
	return b.String()
}

// =============================================================================
// EditorModel - Mouse-driven course editor
// =============================================================================

// Canvas rows taken by the header and the status line.
const (
	headerRows = 1
	footerRows = 2
)

// EditorModel is the bubbletea model of the terminal course editor. Each
// terminal cell covers a rectangle of the course; mouse events are mapped to
// course coordinates and fed to the editor.
type EditorModel struct {
	ed   *editor.Editor
	file ftio.File
	save func(ftio.File) error

	courseW, courseH float64
	cols, rows       int

	run    *play.Run // non-nil while playing
	status string
	dirty  bool
}

// NewEditorModel wraps ed. The course area is w by h course units; save is
// called with the current file on "s".
func NewEditorModel(ed *editor.Editor, f ftio.File, w, h float64, save func(ftio.File) error) EditorModel {
	return EditorModel{
		ed:      ed,
		file:    f,
		save:    save,
		courseW: w,
		courseH: h,
		cols:    80,
		rows:    24 - headerRows - footerRows,
	}
}

// File returns the course file with the current edits.
func (m EditorModel) File() ftio.File {
	return withCourse(m.file, m.ed.Course())
}

// Dirty reports whether there are unsaved edits.
func (m EditorModel) Dirty() bool { return m.dirty }

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 10)
		m.rows = max(msg.Height-headerRows-footerRows, 5)
	case tea.KeyMsg:
		return m.key(msg.String())
	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

func (m EditorModel) key(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "d":
		m.setMode(editor.ModeDraw)
	case "m":
		m.setMode(editor.ModeMove)
	case "e":
		m.setMode(editor.ModeErase)
	case "p":
		m.run = play.New(m.ed.Course())
		m.status = "play: press in the start circle and drag to the finish"
	case "c":
		if m.run == nil {
			m.ed.Clear()
			m.dirty = true
			m.status = "cleared"
		}
	case "s":
		if m.save == nil {
			m.status = "no save target"
			break
		}
		if err := m.save(m.File()); err != nil {
			m.status = "save failed: " + userError(err)
			break
		}
		m.dirty = false
		m.status = "saved " + m.file.Name
	}
	return m, nil
}

func (m *EditorModel) setMode(mode editor.Mode) {
	m.run = nil
	m.ed.SetMode(mode)
	m.status = mode.String()
}

func (m *EditorModel) mouse(msg tea.MouseMsg) {
	p := m.pointer(msg.X, msg.Y)
	if m.run != nil {
		m.playMouse(msg, p)
		return
	}

	nodes, edges := m.ed.Course().NodeCount(), m.ed.Course().EdgeCount()
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.ed.PointerDown(p.X, p.Y)
	case msg.Action == tea.MouseActionRelease:
		m.ed.PointerUp(p.X, p.Y)
	case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonLeft:
		m.ed.PointerDrag(p.X, p.Y)
	case msg.Action == tea.MouseActionMotion:
		m.ed.PointerMove(p.X, p.Y)
	default:
		return
	}
	if msg.Action != tea.MouseActionMotion {
		crs := m.ed.Course()
		if crs.NodeCount() != nodes || crs.EdgeCount() != edges || msg.Action == tea.MouseActionRelease {
			m.dirty = true
		}
	}
}

func (m *EditorModel) playMouse(msg tea.MouseMsg, p geom.Point) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.run.Reset()
		m.run.Feed(p)
	case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonLeft:
		m.run.Feed(p)
	default:
		return
	}
	switch m.run.State() {
	case play.Complete:
		m.status = "complete!"
		if !m.file.Completed {
			m.file.Completed = true
			m.dirty = true
		}
	case play.OutOfBounds:
		m.status = "out of bounds"
	case play.Drawing:
		m.status = "drawing"
	}
}

// cellSize returns the course units covered by one cell.
func (m EditorModel) cellSize() (float64, float64) {
	return m.courseW / float64(m.cols), m.courseH / float64(m.rows)
}

// toCell maps a course position to a canvas cell.
func (m EditorModel) toCell(p geom.Point) (int, int) {
	sx, sy := m.cellSize()
	return int(math.Floor(p.X / sx)), int(math.Floor(p.Y / sy))
}

// pointer maps a terminal position to course coordinates. A cell showing a
// node or landmark yields its exact position and a cell crossed by an edge
// yields the nearest point on it, since a cell is coarser than the hit
// boxes.
func (m EditorModel) pointer(x, y int) geom.Point {
	col, row := x, y-headerRows
	sx, sy := m.cellSize()
	p := geom.Pt((float64(col)+0.5)*sx, (float64(row)+0.5)*sy)

	crs := m.ed.Course()
	for _, n := range crs.Nodes() {
		if c, r := m.toCell(n.Pos); c == col && r == row {
			return n.Pos
		}
	}
	for _, lm := range []geom.Point{crs.Start(), crs.Finish()} {
		if c, r := m.toCell(lm); c == col && r == row {
			return lm
		}
	}
	if m.ed.Mode() == editor.ModeErase {
		tol := math.Max(sx, sy) / 2
		for _, e := range crs.Edges() {
			if !e.Line.WithinBounds(p, tol) {
				continue
			}
			if q := e.Line.Project(p); q.Distance(p) < tol {
				return q
			}
		}
	}
	return p
}

// =============================================================================
// Canvas
// =============================================================================

type cell struct {
	r     rune
	style *lipgloss.Style
}

type canvas struct {
	m     EditorModel
	cells [][]cell
}

func (m EditorModel) newCanvas() *canvas {
	cells := make([][]cell, m.rows)
	for i := range cells {
		cells[i] = make([]cell, m.cols)
	}
	return &canvas{m: m, cells: cells}
}

func (c *canvas) set(col, row int, r rune, style *lipgloss.Style) {
	if row < 0 || row >= len(c.cells) || col < 0 || col >= len(c.cells[row]) {
		return
	}
	c.cells[row][col] = cell{r: r, style: style}
}

func (c *canvas) point(p geom.Point, r rune, style *lipgloss.Style) {
	col, row := c.m.toCell(p)
	c.set(col, row, r, style)
}

// line rasterizes the segment a-b.
func (c *canvas) line(a, b geom.Point, style *lipgloss.Style) {
	c0, r0 := c.m.toCell(a)
	c1, r1 := c.m.toCell(b)
	dc, dr := c1-c0, r1-r0
	steps := max(abs(dc), abs(dr))
	ch := slopeRune(dc, dr)
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		col := c0 + int(math.Round(float64(dc)*t))
		row := r0 + int(math.Round(float64(dr)*t))
		c.set(col, row, ch, style)
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range row {
			switch {
			case cl.r == 0:
				b.WriteByte(' ')
			case cl.style == nil:
				b.WriteRune(cl.r)
			default:
				b.WriteString(cl.style.Render(string(cl.r)))
			}
		}
	}
	return b.String()
}

func slopeRune(dc, dr int) rune {
	switch {
	case dr == 0 || abs(dr)*2 < abs(dc):
		return '─'
	case dc == 0 || abs(dc)*2 < abs(dr):
		return '│'
	case (dc > 0) == (dr > 0):
		return '╲'
	default:
		return '╱'
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (m EditorModel) View() string {
	crs := m.ed.Course()
	cv := m.newCanvas()
	hover := m.ed.Hover()

	edgeStyle := lipgloss.NewStyle().Foreground(spriteColors[m.file.Color])
	for _, e := range crs.Edges() {
		style := &edgeStyle
		if hover.HasEdge && hover.Edge == e.ID {
			style = &canvasHover
		}
		cv.line(e.Line.P1, e.Line.P2, style)
	}
	if fp, ok := m.ed.Floating(); ok {
		if base, ok := crs.Node(m.ed.Base()); ok {
			cv.line(base.Pos, fp, &canvasFloating)
		}
	}
	if m.run != nil {
		trace := m.run.Trace()
		for i := 1; i < len(trace); i++ {
			cv.line(trace[i-1], trace[i], &canvasTrace)
		}
	}
	for _, n := range crs.Nodes() {
		style := &canvasNode
		if hover.HasNode && hover.Node.Kind == course.KindNode && hover.Node.Node == n.ID {
			style = &canvasHover
		}
		cv.point(n.Pos, '●', style)
	}
	cv.point(crs.Start(), 'S', &canvasStart)
	cv.point(crs.Finish(), 'F', &canvasFinish)

	var b strings.Builder
	mode := m.ed.Mode().String()
	if m.run != nil {
		mode = "play"
	}
	title := m.file.Name
	if m.dirty {
		title += "*"
	}
	b.WriteString(StyleTitle.Render(title) + " " + StyleDim.Render("["+mode+"]"))
	b.WriteString("\n")
	b.WriteString(cv.String())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d nodes · %d edges", crs.NodeCount(), crs.EdgeCount())))
	if m.status != "" {
		b.WriteString("  " + StyleHighlight.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("d draw  m move  e erase  p play  c clear  s save  q quit"))
	return b.String()
}
