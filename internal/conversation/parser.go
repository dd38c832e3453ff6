// Package conversation turns shell input into intents and renders
// notifications for the user.
package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/logger"
)

// KeywordParser matches shell input to intents using keywords and simple
// patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	// payload is the capture group carried as the intent payload, 0 for none.
	payload int
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.IntentQuit, 0},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp, 0},
		{regexp.MustCompile(`(?i)^(home|feed)$`), domain.IntentHome, 0},
		{regexp.MustCompile(`(?i)^(whoami|me|account)$`), domain.IntentWhoAmI, 0},
		{regexp.MustCompile(`(?i)^(logout|log out|sign ?out)$`), domain.IntentSignOut, 0},
		{regexp.MustCompile(`(?i)^(status|activity|busy)$`), domain.IntentStatus, 0},
		{regexp.MustCompile(`(?i)^(show|recipe|current)$`), domain.IntentShowRecipe, 0},
		{regexp.MustCompile(`(?i)^(save|unsave|fav(ou?rite)?)$`), domain.IntentToggleSave, 0},
		{regexp.MustCompile(`(?i)^(saved|list|my recipes)$`), domain.IntentListSaved, 0},
		{regexp.MustCompile(`(?i)^(new|reset|start over)$`), domain.IntentResetChef, 0},
		{regexp.MustCompile(`(?i)^(?:generate|make|cook|with)\s+(.+)$`), domain.IntentGenerate, 1},
		{regexp.MustCompile(`(?i)^(?:chef|consult|du chef)(?:\s+(.*))?$`), domain.IntentConsultChef, 1},
		{regexp.MustCompile(`(?i)^(?:pick|select|choose)\s+(\d+)$`), domain.IntentPick, 1},
		{regexp.MustCompile(`(?i)^open\s+(\d+)$`), domain.IntentOpenSaved, 1},
		{regexp.MustCompile(`(?i)^(?:video|film)\s+(?:step\s+)?(\d+)$`), domain.IntentStepVideo, 1},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare number picks a Du Chef suggestion.
	if len(trimmed) <= 2 && isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentPick, Payload: trimmed}, nil
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		intent := &domain.Intent{Type: rule.intent}
		if rule.payload > 0 {
			intent.Payload = strings.TrimSpace(m[rule.payload])
		}
		return intent, nil
	}

	// Intent names work as commands too ("toggle_save").
	if t := domain.IntentFromString(strings.ToLower(trimmed)); t != domain.IntentUnknown {
		return &domain.Intent{Type: t}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// Ordinal converts a 1-based number typed by the user into an index.
func Ordinal(payload string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a number from the list", domain.ErrInvalidInput, payload)
	}
	return n - 1, nil
}

// ParsePreferences reads Du Chef preferences from free-form tokens, e.g.
// "group 4 cheap no-gluten italian japanese". Unrecognized words are
// taken as cuisines. Solo mode is the default.
func ParsePreferences(payload string) (domain.Preferences, error) {
	prefs := domain.Preferences{Mode: domain.ModeSolo, Budget: domain.BudgetMedium}

	fields := strings.FieldsFunc(strings.ToLower(payload), func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		switch {
		case tok == "solo" || tok == "individual" || tok == "me":
			prefs.Mode = domain.ModeSolo
		case tok == "group" || tok == "party":
			prefs.Mode = domain.ModeGroup
		case isDigits(tok):
			n, _ := strconv.Atoi(tok)
			prefs.Guests = n
			prefs.Mode = domain.ModeGroup
		case tok == string(domain.BudgetCheap) || tok == string(domain.BudgetMedium) || tok == string(domain.BudgetExpensive):
			prefs.Budget = domain.Budget(tok)
		case strings.HasPrefix(tok, "no-") && len(tok) > 3:
			prefs.Restrictions = append(prefs.Restrictions, tok[3:])
		case tok == "without" && i+1 < len(fields):
			i++
			prefs.Restrictions = append(prefs.Restrictions, fields[i])
		case strings.HasPrefix(tok, "goal="):
			prefs.Goal = strings.TrimPrefix(tok, "goal=")
		default:
			prefs.Cuisine = append(prefs.Cuisine, tok)
		}
	}

	if prefs.Mode == domain.ModeGroup && prefs.Guests == 0 {
		return prefs, fmt.Errorf("%w: how many guests? e.g. \"chef group 4\"", domain.ErrInvalidInput)
	}
	return prefs.Normalized(), nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
