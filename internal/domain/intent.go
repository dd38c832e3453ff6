package domain

// IntentType classifies what the user wants to do in the shell.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentHelp
	IntentQuit
	IntentHome
	IntentWhoAmI
	IntentSignOut
	IntentGenerate    // payload: ingredients text
	IntentConsultChef // payload: preference tokens
	IntentPick        // payload: suggestion number (1-based)
	IntentResetChef
	IntentShowRecipe
	IntentToggleSave
	IntentListSaved
	IntentOpenSaved // payload: saved recipe number (1-based)
	IntentStepVideo // payload: step number (1-based)
	IntentStatus
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	if name, ok := intentStrings[i]; ok {
		return name
	}
	return "unknown"
}

var intentStrings = map[IntentType]string{
	IntentHelp:        "help",
	IntentQuit:        "quit",
	IntentHome:        "home",
	IntentWhoAmI:      "whoami",
	IntentSignOut:     "sign_out",
	IntentGenerate:    "generate",
	IntentConsultChef: "consult_chef",
	IntentPick:        "pick",
	IntentResetChef:   "reset_chef",
	IntentShowRecipe:  "show_recipe",
	IntentToggleSave:  "toggle_save",
	IntentListSaved:   "list_saved",
	IntentOpenSaved:   "open_saved",
	IntentStepVideo:   "step_video",
	IntentStatus:      "status",
}

// Intent represents a parsed shell command.
type Intent struct {
	Type    IntentType
	Payload string
}

// IntentFromString converts a snake_case intent name to an IntentType.
// Returns IntentUnknown for unrecognized names.
func IntentFromString(name string) IntentType {
	for t, s := range intentStrings {
		if s == name {
			return t
		}
	}
	return IntentUnknown
}
