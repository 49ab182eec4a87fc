package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
)

// MaxFieldValueLength is Discord's limit for an embed field value
const MaxFieldValueLength = 1024

// FooterText identifies the tracker in every embed footer
const FooterText = "Shuffle Live Tracker"
