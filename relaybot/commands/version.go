package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/mintcall/relaybot/relaybot"
	"github.com/mintcall/relaybot/relaybot/utils"
)

var Version = discord.SlashCommandCreate{
	Name:        "version",
	Description: "Shows the running bot version",
}

func VersionHandler(b *relaybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}
		_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
			Content: utils.Ptr(fmt.Sprintf("Version: %s\nCommit: %s", b.Version, b.Commit)),
		})
		return err
	}
}
