// Package editor is the text-editing capability the CLI writes diary
// entries with.
package editor

// Config styles an editor.
type Config struct {
	FontFamily      string
	FontSize        float64
	FontColor       string
	BackgroundColor string
	Placeholder     string
	AutoFocus       bool
}

// Editor holds the text being edited and reports every change.
type Editor interface {
	ApplyConfig(cfg Config)
	GetText() string
	SetText(text string)
	Clear()
	// OnTextChanged registers fn for text changes and returns a function
	// that unregisters it.
	OnTextChanged(fn func(text string)) (remove func())
}
