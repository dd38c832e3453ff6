package domain

// Recipe is a generated recipe as held by the client.
type Recipe struct {
	ID           string         `json:"id,omitempty"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Ingredients  []string       `json:"ingredients"`
	Instructions []string       `json:"instructions"`
	Macros       Macros         `json:"macros"`
	ImageURL     string         `json:"imageUrl,omitempty"`
	Difficulty   string         `json:"difficulty,omitempty"`
	PrepTime     string         `json:"prepTime,omitempty"`
	PlatingTips  string         `json:"platingTips,omitempty"`
	Portions     string         `json:"portions,omitempty"`
	Category     string         `json:"category,omitempty"`
	SavedAt      string         `json:"savedAt,omitempty"`
	StepVideos   map[int]string `json:"stepVideos"`
}

// Macros is the nutrition summary. Values are display strings ("450 kcal").
type Macros struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// Clone returns a deep copy of the recipe.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	c := *r
	c.Ingredients = append([]string(nil), r.Ingredients...)
	c.Instructions = append([]string(nil), r.Instructions...)
	c.StepVideos = make(map[int]string, len(r.StepVideos))
	for k, v := range r.StepVideos {
		c.StepVideos[k] = v
	}
	return &c
}

// WithStepVideo returns a copy of the recipe whose video mapping gains
// (or replaces) the entry for index. Every other entry is kept as is.
func (r *Recipe) WithStepVideo(index int, url string) *Recipe {
	c := r.Clone()
	c.StepVideos[index] = url
	return c
}

// RecipeSummary is a lightweight view of a saved recipe for listing.
type RecipeSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	PrepTime     string   `json:"prepTime,omitempty"`
	Category     string   `json:"category,omitempty"`
	SavedAt      string   `json:"savedAt"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
}

// Recipe projects the summary to a Recipe so it can be reopened.
func (s RecipeSummary) Recipe() *Recipe {
	return &Recipe{
		ID:           s.ID,
		Title:        s.Title,
		Description:  s.Description,
		Ingredients:  append([]string(nil), s.Ingredients...),
		Instructions: append([]string(nil), s.Instructions...),
		ImageURL:     s.ImageURL,
		Difficulty:   s.Difficulty,
		PrepTime:     s.PrepTime,
		Category:     s.Category,
		SavedAt:      s.SavedAt,
		StepVideos:   make(map[int]string),
	}
}

// ChefTip is a short cooking tip shown on the home feed.
type ChefTip struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Icon    string `json:"icon"`
}

// HomeFeed groups everything the home screen shows.
type HomeFeed struct {
	Saved     []RecipeSummary `json:"saved"`
	Community []RecipeSummary `json:"community"`
	Tips      []ChefTip       `json:"tips"`
}
