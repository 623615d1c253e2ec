package editor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_TextChangedListeners(t *testing.T) {
	ed := NewTerminal(strings.NewReader(""), &bytes.Buffer{})

	var seen []string
	remove := ed.OnTextChanged(func(text string) { seen = append(seen, text) })

	ed.SetText("hello")
	ed.SetText("hello")
	ed.Clear()
	remove()
	remove()
	ed.SetText("ignored")

	assert.Equal(t, []string{"hello", ""}, seen)
	assert.Equal(t, "ignored", ed.GetText())
}

func TestTerminal_Edit(t *testing.T) {
	var out bytes.Buffer
	ed := NewTerminal(strings.NewReader("first line\nsecond line\n\n"), &out)
	ed.ApplyConfig(Config{Placeholder: "What happened today?"})

	text, err := ed.Edit("Write your entry", false)
	require.NoError(t, err)
	assert.Equal(t, "first line\nsecond line", text)
	assert.Equal(t, text, ed.GetText())
	assert.Contains(t, out.String(), "What happened today?")
}

func TestTerminal_EditKeepsTextOnEmptyInput(t *testing.T) {
	ed := NewTerminal(strings.NewReader("\n"), &bytes.Buffer{})
	ed.SetText("existing")

	text, err := ed.Edit("", true)
	require.NoError(t, err)
	assert.Equal(t, "existing", text)
}

func TestTerminal_EditStopsAtEOF(t *testing.T) {
	ed := NewTerminal(strings.NewReader("no newline"), &bytes.Buffer{})

	text, err := ed.Edit("", false)
	require.NoError(t, err)
	assert.Equal(t, "no newline", text)
}

func TestTerminal_Preview(t *testing.T) {
	var out bytes.Buffer
	ed := NewTerminal(strings.NewReader(""), &out)
	ed.ApplyConfig(Config{Placeholder: "empty", FontColor: "#FF0000"})

	ed.Preview()
	ed.SetText("body")
	ed.Preview()

	assert.Contains(t, out.String(), "empty")
	assert.Contains(t, out.String(), "body")
}

func TestNearestColor(t *testing.T) {
	tests := []struct {
		hex  string
		want color.Attribute
	}{
		{"#000000", color.FgBlack},
		{"#FF0000", color.FgRed},
		{"#2472C8", color.FgBlue},
		{"#ffffff", color.FgWhite},
		{"#FF231F7C", color.Reset},
		{"red", color.Reset},
		{"", color.Reset},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			assert.Equal(t, tt.want, NearestColor(tt.hex))
		})
	}
}
