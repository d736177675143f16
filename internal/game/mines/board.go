// Inline keyboard rendering for the mine-field board.
package mines

import (
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"
)

const (
	// CallbackPrefix is the prefix for all mine-field callback data.
	CallbackPrefix = "mines_"

	actionOpen    = "open"
	actionCashOut = "cashout"
	actionCancel  = "cancel"
)

// EncodeOpen encodes an open-cell callback for the given coordinates.
func EncodeOpen(x, y int) string {
	return fmt.Sprintf("%s%s_%d_%d", CallbackPrefix, actionOpen, x, y)
}

// EncodeCashOut encodes the cash-out callback.
func EncodeCashOut() string {
	return CallbackPrefix + actionCashOut
}

// EncodeCancel encodes the cancel callback.
func EncodeCancel() string {
	return CallbackPrefix + actionCancel
}

// DecodeCallback decodes callback data into an action and cell coordinates.
// For cash-out and cancel the coordinates are zero.
func DecodeCallback(data string) (action string, x, y int, ok bool) {
	if !strings.HasPrefix(data, CallbackPrefix) {
		return "", 0, 0, false
	}

	content := strings.TrimPrefix(data, CallbackPrefix)
	switch content {
	case actionCashOut:
		return actionCashOut, 0, 0, true
	case actionCancel:
		return actionCancel, 0, 0, true
	}

	parts := strings.Split(content, "_")
	if len(parts) != 3 || parts[0] != actionOpen {
		return "", 0, 0, false
	}
	px, errX := strconv.Atoi(parts[1])
	py, errY := strconv.Atoi(parts[2])
	if errX != nil || errY != nil {
		return "", 0, 0, false
	}
	return actionOpen, px, py, true
}

// IsCashOut reports whether the action is a cash-out.
func IsCashOut(action string) bool { return action == actionCashOut }

// IsCancel reports whether the action is a cancel.
func IsCancel(action string) bool { return action == actionCancel }

// IsOpen reports whether the action is an open-cell request.
func IsOpen(action string) bool { return action == actionOpen }

// BuildBoard builds the inline keyboard for a session view. Opened safe cells
// show a check mark, unopened cells a question mark. With revealMines set
// (terminal render), mine cells show a bomb.
func BuildBoard(v *View, revealMines bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	rows := make([][]tele.InlineButton, 0, GridSize+1)
	for x := 0; x < GridSize; x++ {
		row := make([]tele.InlineButton, 0, GridSize)
		for y := 0; y < GridSize; y++ {
			cell := Cell{X: x, Y: y}
			var btn tele.InlineButton
			switch {
			case revealMines && v.Mines[cell]:
				btn = tele.InlineButton{Text: "💣", Data: EncodeOpen(x, y)}
			case v.Opened[cell]:
				btn = tele.InlineButton{Text: "✅", Data: EncodeOpen(x, y)}
			default:
				btn = tele.InlineButton{Text: "❓", Data: EncodeOpen(x, y)}
			}
			row = append(row, btn)
		}
		rows = append(rows, row)
	}

	// The cancel affordance is only offered before the first reveal; after
	// that the only way out is a cash-out or a mine. A terminal render with
	// the mines shown carries no action row at all.
	switch {
	case revealMines:
	case v.CanCancel:
		rows = append(rows, []tele.InlineButton{{Text: "❌ Отмена", Data: EncodeCancel()}})
	default:
		rows = append(rows, []tele.InlineButton{{Text: "💎 Забрать выигрыш", Data: EncodeCashOut()}})
	}

	markup.InlineKeyboard = rows
	return markup
}
