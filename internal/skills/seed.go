package skills

// TotalSkills is the catalog size reported by Count. It is a fixed figure
// and does not track the in-memory population.
const TotalSkills = 2987

// seedSkills returns the built-in sample catalog, in insertion order.
func seedSkills() []*Skill {
	return []*Skill{
		NewSkill("brave-search", "Brave Search",
			"Web search and content extraction via Brave Search API",
			"search-research", "steipete", "search", "web", "api"),
		NewSkill("github", "GitHub",
			"Interact with GitHub using the gh CLI",
			"git-github", "steipete", "git", "github", "vcs"),
		NewSkill("frontend-design", "Frontend Design",
			"Create distinctive, production-grade frontend interfaces",
			"web-frontend", "steipete", "frontend", "design", "ui"),
		NewSkill("docker-essentials", "Docker Essentials",
			"Essential Docker commands and workflows for container management",
			"devops-cloud", "arnarsson", "docker", "containers", "devops"),
		NewSkill("deep-research", "Deep Research",
			"Deep Research Agent for complex, multi-step research tasks",
			"ai-llms", "seyhunak", "research", "ai", "analysis"),
	}
}
