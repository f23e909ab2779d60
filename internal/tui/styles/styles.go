package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Indigo    = lipgloss.Color("#6366F1")
	SlateDark = lipgloss.Color("#1F2937")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
	Amber     = lipgloss.Color("#F59E0B")
	Blue      = lipgloss.Color("#3B82F6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Indigo)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Indigo).
			Padding(0, 1)
)

// Tab bar
var (
	TabActive = lipgloss.NewStyle().
			Foreground(White).
			Background(Indigo).
			Padding(0, 1)

	TabInactive = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Loan status badges
var (
	BadgeActive    = lipgloss.NewStyle().Foreground(Green)
	BadgeRequested = lipgloss.NewStyle().Foreground(Amber)
	BadgeReturned  = lipgloss.NewStyle().Foreground(DimGray)
	BadgeRejected  = lipgloss.NewStyle().Foreground(Red)
)

// Toast styles by level
var (
	ToastSuccess = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Padding(0, 1)

	ToastError = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Padding(0, 1)

	ToastInfo = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Padding(0, 1)
)

// Panels
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(Indigo).
			Bold(true)
)
