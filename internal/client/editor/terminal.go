package editor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Terminal edits text line by line on a terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer

	mu        sync.Mutex
	cfg       Config
	text      string
	listeners map[int]func(string)
	next      int
}

var _ Editor = (*Terminal)(nil)

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:        bufio.NewReader(in),
		out:       out,
		listeners: make(map[int]func(string)),
	}
}

func (t *Terminal) ApplyConfig(cfg Config) {
	t.mu.Lock()
	t.cfg = cfg
	t.mu.Unlock()
}

func (t *Terminal) GetText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

func (t *Terminal) SetText(text string) {
	t.mu.Lock()
	changed := t.text != text
	t.text = text
	fns := make([]func(string), 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range fns {
		fn(text)
	}
}

func (t *Terminal) Clear() {
	t.SetText("")
}

func (t *Terminal) OnTextChanged(fn func(text string)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.next
	t.next++
	t.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, id)
			t.mu.Unlock()
		})
	}
}

// Edit reads lines until an empty one and makes them the text. With
// keep set, an empty first line keeps the current text.
func (t *Terminal) Edit(prompt string, keep bool) (string, error) {
	t.mu.Lock()
	placeholder := t.cfg.Placeholder
	t.mu.Unlock()

	if prompt != "" {
		fmt.Fprintln(t.out, prompt)
	}
	if placeholder != "" {
		color.New(color.Faint, color.Italic).Fprintln(t.out, placeholder)
	}
	fmt.Fprintln(t.out, "(press Enter on an empty line to finish)")

	var lines []string
	for {
		line, err := t.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err != nil && err != io.EOF {
				return "", err
			}
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	if len(lines) == 0 && keep {
		return t.GetText(), nil
	}
	t.SetText(strings.TrimSpace(strings.Join(lines, "\n")))
	return t.GetText(), nil
}

// Preview prints the text in the configured font colour, or the
// placeholder when there is no text.
func (t *Terminal) Preview() {
	t.mu.Lock()
	cfg, text := t.cfg, t.text
	t.mu.Unlock()

	if text == "" {
		color.New(color.Faint, color.Italic).Fprintln(t.out, cfg.Placeholder)
		return
	}
	color.New(NearestColor(cfg.FontColor)).Fprintln(t.out, text)
}

var palette = []struct {
	attr    color.Attribute
	r, g, b int
}{
	{color.FgBlack, 0, 0, 0},
	{color.FgRed, 205, 49, 49},
	{color.FgGreen, 13, 188, 121},
	{color.FgYellow, 229, 229, 16},
	{color.FgBlue, 36, 114, 200},
	{color.FgMagenta, 188, 63, 188},
	{color.FgCyan, 17, 168, 205},
	{color.FgWhite, 229, 229, 229},
}

// NearestColor maps a "#RRGGBB" colour onto the closest terminal colour.
// Unparseable values give the default foreground.
func NearestColor(hex string) color.Attribute {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return color.Reset
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.Reset
	}
	r, g, b := int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)

	best, bestDist := color.Reset, -1
	for _, p := range palette {
		dr, dg, db := r-p.r, g-p.g, b-p.b
		if d := dr*dr + dg*dg + db*db; bestDist < 0 || d < bestDist {
			best, bestDist = p.attr, d
		}
	}
	return best
}
