package models

import "strings"

// CommandType enumerates the owner bot commands.
type CommandType string

const (
	CommandSales   CommandType = "ventas"
	CommandCash    CommandType = "caja"
	CommandCatalog CommandType = "catalogo"
	CommandHelp    CommandType = "ayuda"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed owner instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	normalized := strings.TrimSpace(strings.ToLower(message))
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return cmd
	}

	switch head := strings.TrimPrefix(tokens[0], "/"); head {
	case string(CommandSales), "sales":
		cmd.Type = CommandSales
	case string(CommandCash), "cash":
		cmd.Type = CommandCash
	case string(CommandCatalog), "catálogo", "catalog":
		cmd.Type = CommandCatalog
	case string(CommandHelp), "help":
		cmd.Type = CommandHelp
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
