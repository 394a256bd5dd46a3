// Package tui provides the Bubble Tea screening form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/stuntrack/internal/growth"
	"github.com/verte-zerg/stuntrack/internal/model"
	"github.com/verte-zerg/stuntrack/internal/screening"
)

// Runner runs one screening.
type Runner interface {
	Run(ctx context.Context, sub model.ChildSubmission) (model.Screening, error)
}

const (
	fieldName = iota
	fieldBirth
	fieldSex
	fieldHeight
	fieldWeight
	fieldClass
	fieldCount
)

const (
	dateLayout = "2006-01-02"
	gaugeWidth = 24
)

var fieldLabels = [fieldCount]string{
	"Nama Anak",
	"Tanggal Lahir",
	"Jenis Kelamin",
	"Tinggi Badan (cm)",
	"Berat Badan (kg)",
	"Kelas",
}

var fieldPlaceholders = [fieldCount]string{
	"Nama lengkap",
	"YYYY-MM-DD",
	"L / P",
	"50-180",
	"10-80",
	"1-6",
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Width(20)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Width(20)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB3D5"))
	normalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	stuntStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FA8072")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	panelStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

type resultMsg struct {
	result model.Screening
	err    error
}

// Model implements the Bubble Tea screening form.
type Model struct {
	runner Runner
	inputs []textinput.Model
	focus  int

	running bool
	result  *model.Screening
	warning string
	errMsg  string

	width  int
	height int
}

// NewModel constructs a form model.
func NewModel(runner Runner) *Model {
	m := &Model{runner: runner}
	m.inputs = make([]textinput.Model, fieldCount)
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 64
		ti.Width = 32
		m.inputs[i] = ti
	}
	m.inputs[fieldBirth].CharLimit = len(dateLayout)
	m.inputs[fieldSex].CharLimit = 9
	m.inputs[fieldClass].CharLimit = 1
	m.inputs[fieldName].Focus()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case resultMsg:
		m.handleResult(msg)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return m, m.setFocus(m.focus + 1)
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.setFocus(m.focus - 1)
		case tea.KeyCtrlN:
			m.reset()
			return m, m.setFocus(fieldName)
		case tea.KeyEnter:
			if m.focus < fieldCount-1 {
				return m, m.setFocus(m.focus + 1)
			}
			return m, m.submit()
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Deteksi Dini Stunting Anak SD"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Pantau pertumbuhan anak-anak sekolah dasar dengan input tanggal lahir"))
	b.WriteString("\n\n")
	for i, input := range m.inputs {
		style := labelStyle
		if i == m.focus {
			style = focusStyle
		}
		b.WriteString(style.Render(fieldLabels[i]))
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if panel := m.renderResult(); panel != "" {
		b.WriteString(panelStyle.Render(panel))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render("Enter lanjut/cek · Tab pindah · Ctrl+N form baru · Esc keluar"))
	return b.String()
}

func (m *Model) setFocus(idx int) tea.Cmd {
	if idx < 0 {
		idx = fieldCount - 1
	}
	if idx >= fieldCount {
		idx = 0
	}
	m.inputs[m.focus].Blur()
	m.focus = idx
	return m.inputs[m.focus].Focus()
}

func (m *Model) reset() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.result = nil
	m.warning = ""
	m.errMsg = ""
}

func (m *Model) values() [fieldCount]string {
	var out [fieldCount]string
	for i, input := range m.inputs {
		out[i] = input.Value()
	}
	return out
}

func (m *Model) submit() tea.Cmd {
	if m.running {
		return nil
	}
	sub, err := ParseForm(m.values())
	if err != nil {
		m.result = nil
		m.warning = ""
		m.errMsg = err.Error()
		return nil
	}
	m.running = true
	runner := m.runner
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), sub)
		return resultMsg{result: res, err: err}
	}
}

func (m *Model) handleResult(msg resultMsg) {
	m.running = false
	m.result = nil
	m.warning = ""
	m.errMsg = ""
	switch {
	case msg.err == nil:
		res := msg.result
		m.result = &res
	case errors.Is(msg.err, screening.ErrAgeOutOfRange):
		m.warning = fmt.Sprintf("Umur saat ini: %s (%.2f tahun)\n%s",
			msg.result.AgeText, msg.result.Age.DecimalYears, screening.OutOfRangeMessage)
	default:
		m.errMsg = msg.err.Error()
	}
}

func (m *Model) renderResult() string {
	switch {
	case m.running:
		return infoStyle.Render("Memproses...")
	case m.errMsg != "":
		return errorStyle.Render(m.errMsg)
	case m.warning != "":
		return warningStyle.Render(m.warning)
	case m.result == nil:
		return ""
	}
	res := m.result
	statusStyle := normalStyle
	if res.ZScore.Status == model.StatusStunting {
		statusStyle = stuntStyle
	}
	lines := []string{
		infoStyle.Render(fmt.Sprintf("Umur saat ini: %s (%.2f tahun)", res.AgeText, res.Age.DecimalYears)),
		statusStyle.Render(fmt.Sprintf("Status: %s (Z-score: %.2f)", res.ZScore.Status, res.ZScore.Value)),
		renderGauge(growth.ProgressFraction(res.ZScore.Value), gaugeWidth),
		subtleStyle.Render(res.ZScore.Tip),
	}
	if res.ReportPath != "" {
		lines = append(lines, "Laporan: "+res.ReportPath)
	}
	return strings.Join(lines, "\n")
}

func renderGauge(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// ParseForm converts raw field values into a submission.
func ParseForm(values [fieldCount]string) (model.ChildSubmission, error) {
	name := strings.TrimSpace(values[fieldName])
	if name == "" {
		return model.ChildSubmission{}, fmt.Errorf("%s wajib diisi", fieldLabels[fieldName])
	}
	birth, err := time.ParseInLocation(dateLayout, strings.TrimSpace(values[fieldBirth]), time.UTC)
	if err != nil {
		return model.ChildSubmission{}, fmt.Errorf("%s harus berformat YYYY-MM-DD", fieldLabels[fieldBirth])
	}
	sex, err := model.ParseSex(values[fieldSex])
	if err != nil {
		return model.ChildSubmission{}, fmt.Errorf("%s harus L atau P", fieldLabels[fieldSex])
	}
	height, err := parseNumber(values[fieldHeight])
	if err != nil {
		return model.ChildSubmission{}, fmt.Errorf("%s bukan angka", fieldLabels[fieldHeight])
	}
	weight, err := parseNumber(values[fieldWeight])
	if err != nil {
		return model.ChildSubmission{}, fmt.Errorf("%s bukan angka", fieldLabels[fieldWeight])
	}
	return model.ChildSubmission{
		Name:      name,
		BirthDate: birth,
		Sex:       sex,
		HeightCm:  height,
		WeightKg:  weight,
		Class:     strings.TrimSpace(values[fieldClass]),
	}, nil
}

// parseNumber accepts a decimal comma as well as a point. NaN and
// infinities are rejected.
func parseNumber(value string) (float64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", value)
	}
	return v, nil
}
