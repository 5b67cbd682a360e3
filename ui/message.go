package ui

import (
	"log/slog"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// maxPending caps queued messages; older ones are dropped first.
const maxPending = 8

// Message is one fault report waiting to be acknowledged.
type Message struct {
	Title string
	Text  string
}

// MessageBox shows fault reports one at a time in a modal box.
type MessageBox struct {
	pending []Message
}

// NewMessageBox creates an empty message box.
func NewMessageBox() *MessageBox {
	return &MessageBox{}
}

// Notify queues a fault report and logs it.
func (m *MessageBox) Notify(title string, err error) {
	slog.Warn(title, "error", err)
	text := ""
	if err != nil {
		text = err.Error()
	}
	m.pending = append(m.pending, Message{Title: title, Text: text})
	if len(m.pending) > maxPending {
		m.pending = m.pending[len(m.pending)-maxPending:]
	}
}

// Visible reports whether a message is showing.
func (m *MessageBox) Visible() bool { return len(m.pending) > 0 }

// Current returns the message on screen.
func (m *MessageBox) Current() (Message, bool) {
	if len(m.pending) == 0 {
		return Message{}, false
	}
	return m.pending[0], true
}

// Dismiss removes the message on screen.
func (m *MessageBox) Dismiss() {
	if len(m.pending) > 0 {
		m.pending = m.pending[1:]
	}
}

// Draw renders the current message centred on screen. It returns true while
// a message is showing so the caller can block canvas input.
func (m *MessageBox) Draw(screenW, screenH int32) bool {
	msg, ok := m.Current()
	if !ok {
		return false
	}
	rl.DrawRectangle(0, 0, screenW, screenH, rl.Color{R: 0, G: 0, B: 0, A: 120})

	w := min(float32(screenW)-40, 520)
	h := float32(160)
	bounds := rl.Rectangle{
		X:      (float32(screenW) - w) / 2,
		Y:      (float32(screenH) - h) / 2,
		Width:  w,
		Height: h,
	}
	// 0 is the close icon, 1 the OK button.
	if gui.MessageBox(bounds, msg.Title, wrapText(msg.Text, int(w/7)), "OK") >= 0 {
		m.Dismiss()
	}
	return true
}

// wrapText breaks s into lines of at most width runes at word boundaries.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var b strings.Builder
	line := 0
	for i, word := range strings.Fields(s) {
		n := len([]rune(word))
		if i > 0 {
			if line+1+n > width {
				b.WriteByte('\n')
				line = 0
			} else {
				b.WriteByte(' ')
				line++
			}
		}
		b.WriteString(word)
		line += n
	}
	return b.String()
}
