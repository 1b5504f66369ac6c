package gateway

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/genricoloni/playtime/internal/commands"
)

const (
	optionAction = "action"
	optionValue  = "value"
)

// ApplicationCommands returns the slash command definitions for the tracked game
func ApplicationCommands(game string) []*discordgo.ApplicationCommand {
	actions := []string{
		commands.ActionShow,
		commands.ActionSet,
		commands.ActionIncrement,
		commands.ActionDecrement,
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(actions))
	for _, a := range actions {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: a, Value: a})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        commands.CommandTime,
			Description: fmt.Sprintf("Show time since %s was last opened", game),
		},
		{
			Name:        commands.CommandStatus,
			Description: "Show current bot status and counter information",
		},
		{
			Name:        commands.CommandCounter,
			Description: "Show or modify the global counter",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionAction,
					Description: "What to do with the counter",
					Required:    true,
					Choices:     choices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        optionValue,
					Description: "Value to set (only for set action)",
				},
			},
		},
	}
}
