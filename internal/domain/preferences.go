package domain

// Mode says who is eating.
type Mode string

const (
	ModeSolo  Mode = "individual"
	ModeGroup Mode = "group"
)

// Budget is one of three ordered spending tiers.
type Budget string

const (
	BudgetCheap     Budget = "cheap"
	BudgetMedium    Budget = "medium"
	BudgetExpensive Budget = "expensive"
)

// Budgets lists the tiers from cheapest to most expensive.
var Budgets = []Budget{BudgetCheap, BudgetMedium, BudgetExpensive}

// Goal is the dietary goal of a direct generation request.
type Goal string

const (
	GoalLoss     Goal = "loss"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// DefaultSoloGoal is sent as the goal for solo Du Chef consultations.
const DefaultSoloGoal = "healthy"

// Preferences is the Du Chef consultation input. Built fresh for each
// consultation and echoed back as context when a suggestion is generated.
type Preferences struct {
	Mode         Mode     `json:"mode" validate:"required,oneof=individual group"`
	Guests       int      `json:"guests" validate:"min=1,max=50"`
	Budget       Budget   `json:"budget" validate:"required,oneof=cheap medium expensive"`
	Restrictions []string `json:"restrictions"`
	Goal         string   `json:"goal,omitempty"`
	Cuisine      []string `json:"cuisine"`
}

// Normalized returns a copy with solo-mode defaults applied and nil
// slices replaced by empty ones.
func (p Preferences) Normalized() Preferences {
	out := p
	if out.Mode == "" {
		out.Mode = ModeSolo
	}
	if out.Budget == "" {
		out.Budget = BudgetMedium
	}
	if out.Mode == ModeSolo {
		out.Guests = 1
		if out.Goal == "" {
			out.Goal = DefaultSoloGoal
		}
	}
	out.Restrictions = append([]string{}, p.Restrictions...)
	out.Cuisine = append([]string{}, p.Cuisine...)
	return out
}

// Suggestion is one idea returned by a Du Chef consultation.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// IngredientsForm is the direct generation request.
type IngredientsForm struct {
	Ingredients  string `json:"ingredients" validate:"required,min=3"`
	Goal         Goal   `json:"goal" validate:"required,oneof=loss maintain gain"`
	Restrictions string `json:"restrictions,omitempty"`
}

// StepVideoRequest asks the backend to film one instruction step.
type StepVideoRequest struct {
	StepText    string `json:"stepText"`
	RecipeTitle string `json:"recipeTitle"`
	UserID      string `json:"userId"`
}
