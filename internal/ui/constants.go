package ui

// Icons (emojis/symbols)
const (
	IconError   = "❌"
	IconLoading = "…"
)

// Window and dialog sizing
const (
	WindowWidth  float32 = 960
	WindowHeight float32 = 640

	SettingsDialogWidth  float32 = 460
	SettingsDialogHeight float32 = 480
)

// Cell label limits
const (
	MaxCellLabelRunes = 18
)
