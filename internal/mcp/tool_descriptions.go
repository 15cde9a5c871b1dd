package mcp

import "strings"

// ToolDescription provides enhanced descriptions for AI agents
type ToolDescription struct {
	Description string
	WhenToUse   []string
	NextTools   []string
}

var toolDescriptions = map[string]ToolDescription{
	"repo_list": {
		Description: "List the git repositories gitboss tracks, in display order",
		WhenToUse: []string{
			"When you need to know which local repositories exist",
			"Before asking for the status of a specific repository",
		},
		NextTools: []string{"repo_status", "repo_rescan"},
	},
	"repo_status": {
		Description: "Report working-tree status: dirty flag, local branches, current branch and changed paths",
		WhenToUse: []string{
			"When checking for uncommitted work",
			"When you need the checked out branch of a repository",
		},
		NextTools: []string{"repo_list"},
	},
	"repo_add": {
		Description: "Track a repository by path. Adding an already tracked path changes nothing",
		WhenToUse: []string{
			"When a repository lives outside the configured base directory",
		},
		NextTools: []string{"repo_status", "repo_list"},
	},
	"repo_remove": {
		Description: "Stop tracking a repository. Files on disk are not touched",
		WhenToUse: []string{
			"When a tracked repository was deleted or moved",
		},
		NextTools: []string{"repo_list"},
	},
	"repo_rescan": {
		Description: "Scan a base directory for repositories and merge them into the tracked list",
		WhenToUse: []string{
			"After cloning new repositories under the base directory",
			"When repo_list looks out of date",
		},
		NextTools: []string{"repo_list", "repo_status"},
	},
}

// GetEnhancedDescription returns the description with usage hints
func GetEnhancedDescription(toolName string) string {
	desc, ok := toolDescriptions[toolName]
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(desc.Description)
	if len(desc.WhenToUse) > 0 {
		sb.WriteString("\n\nWhen to use:\n")
		for _, use := range desc.WhenToUse {
			sb.WriteString("- ")
			sb.WriteString(use)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// GetNextToolSuggestions returns the tools that usually follow toolName
func GetNextToolSuggestions(toolName string) []map[string]string {
	if desc, ok := toolDescriptions[toolName]; ok {
		suggestions := make([]map[string]string, 0, len(desc.NextTools))
		for _, next := range desc.NextTools {
			suggestions = append(suggestions, map[string]string{
				"tool": next,
			})
		}
		return suggestions
	}
	return nil
}
