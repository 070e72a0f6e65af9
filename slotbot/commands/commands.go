package commands

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	CreateSlot,
	EditSlot,
	SlotInfo,
	TransferSlot,
	DeleteSlot,
	ListSlots,
}
