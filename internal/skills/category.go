package skills

import "maps"

// Category is a row of the static category table. Count is a display value
// and is not derived from the registry population.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var categoryTable = map[string]Category{
	"ai-llms":              {"AI & LLMs", 286},
	"search-research":      {"Search & Research", 250},
	"devops-cloud":         {"DevOps & Cloud", 212},
	"web-frontend":         {"Web & Frontend Development", 201},
	"marketing-sales":      {"Marketing & Sales", 142},
	"browser-automation":   {"Browser & Automation", 138},
	"productivity-tasks":   {"Productivity & Tasks", 134},
	"coding-agents":        {"Coding Agents & IDEs", 132},
	"communication":        {"Communication", 133},
	"cli-utilities":        {"CLI Utilities", 131},
	"clawdbot-tools":       {"Clawdbot Tools", 119},
	"notes-pkm":            {"Notes & PKM", 100},
	"media-streaming":      {"Media & Streaming", 80},
	"transportation":       {"Transportation", 73},
	"pdf-documents":        {"PDF & Documents", 67},
	"git-github":           {"Git & GitHub", 66},
	"speech-transcription": {"Speech & Transcription", 66},
	"security-passwords":   {"Security & Passwords", 62},
	"gaming":               {"Gaming", 62},
	"image-video-gen":      {"Image & Video Generation", 60},
	"smart-home-iot":       {"Smart Home & IoT", 56},
	"personal-development": {"Personal Development", 56},
	"health-fitness":       {"Health & Fitness", 55},
	"moltbook":             {"Moltbook", 51},
	"calendar-scheduling":  {"Calendar & Scheduling", 51},
	"shopping-ecommerce":   {"Shopping & E-commerce", 51},
	"data-analytics":       {"Data & Analytics", 46},
	"apple-apps":           {"Apple Apps & Services", 35},
	"self-hosted":          {"Self-Hosted & Automation", 25},
	"finance":              {"Finance", 22},
	"agent-protocols":      {"Agent-to-Agent Protocols", 19},
	"ios-macos-dev":        {"iOS & macOS Development", 17},
}

// Categories returns a copy of the static category table.
func Categories() map[string]Category {
	return maps.Clone(categoryTable)
}

// LookupCategory returns the category row for key.
func LookupCategory(key string) (Category, bool) {
	c, ok := categoryTable[key]
	return c, ok
}
