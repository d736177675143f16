package handler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

// fakeContext captures replies for the pre-settlement error paths. Methods
// beyond Text and Reply are never reached by these tests.
type fakeContext struct {
	tele.Context
	text    string
	replies []string
}

func (f *fakeContext) Text() string { return f.text }

func (f *fakeContext) Reply(what interface{}, opts ...interface{}) error {
	f.replies = append(f.replies, fmt.Sprint(what))
	return nil
}

func TestHandleDiceText_Rejections(t *testing.T) {
	h := NewGameHandler(nil, nil, nil, nil)

	tests := []struct {
		name      string
		text      string
		wantReply string
	}{
		{"missing choice", "кубик 100", "❌ Формат: кубик [сумма] [больше/меньше/чет/нечет]"},
		{"unknown choice", "кубик 100 вверх", "❌ Формат: кубик [сумма] [больше/меньше/чет/нечет]"},
		{"bad amount", "кубик сто чет", "❌ Сумма ставки должна быть числом"},
		{"negative amount", "кубик -5 чет", "❌ Сумма ставки должна быть числом"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeContext{text: tt.text}
			require.NoError(t, h.HandleDiceText(c))
			require.Len(t, c.replies, 1)
			assert.Equal(t, tt.wantReply, c.replies[0])
		})
	}
}

func TestHandleColorsText_Rejections(t *testing.T) {
	h := NewGameHandler(nil, nil, nil, nil)

	tests := []struct {
		name      string
		text      string
		wantReply string
	}{
		{"missing amount", "красный", "❌ Формат: красный/черный [сумма]"},
		{"neuter form is not a color-game word", "красное 100", "❌ Укажите цвет: 🔴 красный или ⚫ черный"},
		{"bad amount", "красный сто", "❌ Сумма ставки должна быть числом"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeContext{text: tt.text}
			require.NoError(t, h.HandleColorsText(c))
			require.Len(t, c.replies, 1)
			assert.Equal(t, tt.wantReply, c.replies[0])
		})
	}
}
