package utils

import (
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/ellavondegurechaff/slotbot/slotbot/slots"
)

const (
	SuccessColor = 0x57F287
	ErrorColor   = 0xED4245
	WarningColor = 0xE67E22
	InfoColor    = 0x3498DB
	AccentColor  = 0x9B59B6
)

// RespondError renders a slot operation failure as a private notice to the
// invoking user. Platform failures are reported as fully rolled back, which
// the manager guarantees.
func RespondError(e *handler.CommandEvent, err error) error {
	return e.CreateMessage(discord.MessageCreate{
		Content: "❌ " + userMessage(err),
		Flags:   discord.MessageFlagEphemeral,
	})
}

func userMessage(err error) string {
	var platformErr *slots.PlatformError
	switch {
	case errors.Is(err, slots.ErrInvalidDuration):
		return "Invalid duration. Use tokens like `30m`, `2h30m` or `1d`."
	case errors.Is(err, slots.ErrSlotNotFound):
		return "This channel is not an active slot."
	case errors.Is(err, slots.ErrDuplicateSlot):
		return "This channel already has an active slot."
	case errors.Is(err, slots.ErrNoOpTransfer):
		return "That user already owns this slot."
	case errors.As(err, &platformErr):
		return "Discord rejected the operation, nothing was changed. Please try again."
	default:
		return "Something went wrong. Please try again later."
	}
}
