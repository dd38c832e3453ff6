package domain

// Route names a top-level area of the client.
type Route int

const (
	// RouteLoading is shown until the first hydration completes.
	RouteLoading Route = iota
	// RouteSignedOut is the sign-in / registration area.
	RouteSignedOut
	// RouteSignedIn is the main application area.
	RouteSignedIn
)

// String returns a human-readable route.
func (r Route) String() string {
	switch r {
	case RouteLoading:
		return "loading"
	case RouteSignedOut:
		return "signed_out"
	case RouteSignedIn:
		return "signed_in"
	default:
		return "unknown"
	}
}

// ChefState is the state of the two-phase Du Chef flow.
type ChefState int

const (
	ChefIdle ChefState = iota
	ChefConsulting
	ChefSuggestionsReady
	ChefGeneratingSelection
)

// String returns a human-readable state.
func (s ChefState) String() string {
	switch s {
	case ChefIdle:
		return "idle"
	case ChefConsulting:
		return "consulting"
	case ChefSuggestionsReady:
		return "suggestions_ready"
	case ChefGeneratingSelection:
		return "generating_selection"
	default:
		return "unknown"
	}
}

// Activity is a snapshot of the coordinator's in-flight work, used by
// the status bar.
type Activity struct {
	GeneratingRecipe bool
	LoadingList      bool
	ChefState        ChefState
	SelectingIndex   int    // -1 when no selection is in flight
	SelectingTitle   string // "" when no selection is in flight
	VideoStep        int    // -1 when no step video is in flight
	RecipeTitle      string // current recipe, "" when none
}

// Idle reports whether nothing is in flight.
func (a Activity) Idle() bool {
	return !a.GeneratingRecipe && !a.LoadingList && a.SelectingIndex < 0 &&
		a.VideoStep < 0 && a.ChefState != ChefConsulting
}
