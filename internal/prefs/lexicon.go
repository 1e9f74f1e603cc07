package prefs

import "math"

// Category classifies what kind of preference a lexicon keyword signals.
type Category string

const (
	CategoryLanguage  Category = "language"
	CategoryTask      Category = "task"
	CategoryStyle     Category = "style"
	CategoryFramework Category = "framework"
	CategoryTool      Category = "tool"
)

// Entry maps a single keyword to a category and the canonical name reported
// for it. Several keywords may share a canonical name ("js" and "javascript"
// both report as "javascript").
type Entry struct {
	Keyword   string
	Category  Category
	Canonical string
}

// Lexicon is the static keyword classification table. Declaration order is
// meaningful: when two canonical names tie on count, the one declared first
// wins.
type Lexicon struct {
	entries   []Entry
	byKeyword map[string][]Entry
	rank      map[Category]map[string]int
}

// NewLexicon builds a lexicon from entries, preserving declaration order.
func NewLexicon(entries []Entry) *Lexicon {
	lx := &Lexicon{
		entries:   entries,
		byKeyword: make(map[string][]Entry),
		rank:      make(map[Category]map[string]int),
	}
	for _, e := range entries {
		lx.byKeyword[e.Keyword] = append(lx.byKeyword[e.Keyword], e)
		ranks := lx.rank[e.Category]
		if ranks == nil {
			ranks = make(map[string]int)
			lx.rank[e.Category] = ranks
		}
		if _, ok := ranks[e.Canonical]; !ok {
			ranks[e.Canonical] = len(ranks)
		}
	}
	return lx
}

// Matches returns every entry whose keyword equals the token. A token may
// match entries in several categories at once.
func (lx *Lexicon) Matches(token string) []Entry {
	return lx.byKeyword[token]
}

// rankOf returns the declaration rank of a canonical name within a
// category, the deterministic tie-break for equal counts.
func (lx *Lexicon) rankOf(cat Category, canonical string) int {
	if ranks, ok := lx.rank[cat]; ok {
		if r, ok := ranks[canonical]; ok {
			return r
		}
	}
	return math.MaxInt
}

// DefaultLexicon returns the built-in classification table. Languages keep
// their priority order (python first) because declaration order breaks
// count ties.
func DefaultLexicon() *Lexicon {
	return NewLexicon([]Entry{
		// Languages.
		{"python", CategoryLanguage, "python"},
		{"py", CategoryLanguage, "python"},
		{"typescript", CategoryLanguage, "typescript"},
		{"ts", CategoryLanguage, "typescript"},
		{"javascript", CategoryLanguage, "javascript"},
		{"js", CategoryLanguage, "javascript"},
		{"go", CategoryLanguage, "go"},
		{"golang", CategoryLanguage, "go"},
		{"java", CategoryLanguage, "java"},
		{"rust", CategoryLanguage, "rust"},

		// Tasks.
		{"refactor", CategoryTask, "refactor"},
		{"refactoring", CategoryTask, "refactor"},
		{"test", CategoryTask, "test"},
		{"tests", CategoryTask, "test"},
		{"testing", CategoryTask, "test"},
		{"optimize", CategoryTask, "optimize"},
		{"optimization", CategoryTask, "optimize"},
		{"document", CategoryTask, "documentation"},
		{"documentation", CategoryTask, "documentation"},
		{"docs", CategoryTask, "documentation"},
		{"deploy", CategoryTask, "deploy"},
		{"deployment", CategoryTask, "deploy"},
		{"release", CategoryTask, "deploy"},

		// Style markers.
		{"async", CategoryStyle, "async"},
		{"clean", CategoryStyle, "clean"},
		{"performance", CategoryStyle, "performance"},
		{"oop", CategoryStyle, "oop"},
		{"functional", CategoryStyle, "functional"},

		// "performance" also counts toward the optimize task, so one token
		// can feed two categories.
		{"performance", CategoryTask, "optimize"},

		// Frameworks.
		{"react", CategoryFramework, "react"},
		{"vue", CategoryFramework, "vue"},
		{"angular", CategoryFramework, "angular"},
		{"django", CategoryFramework, "django"},
		{"flask", CategoryFramework, "flask"},
		{"fastapi", CategoryFramework, "fastapi"},
		{"spring", CategoryFramework, "spring"},
		{"express", CategoryFramework, "express"},
		{"gin", CategoryFramework, "gin"},
		{"rails", CategoryFramework, "rails"},

		// Tools.
		{"docker", CategoryTool, "docker"},
		{"kubernetes", CategoryTool, "kubernetes"},
		{"k8s", CategoryTool, "kubernetes"},
		{"git", CategoryTool, "git"},
		{"terraform", CategoryTool, "terraform"},
		{"ansible", CategoryTool, "ansible"},
		{"jenkins", CategoryTool, "jenkins"},
		{"webpack", CategoryTool, "webpack"},
		{"vite", CategoryTool, "vite"},
		{"npm", CategoryTool, "npm"},
		{"pytest", CategoryTool, "pytest"},
	})
}
