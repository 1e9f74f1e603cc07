package prefs

// TaskGroup routes free-text context descriptions to a named cluster of
// historical records via its trigger keywords.
type TaskGroup struct {
	Name     string
	Triggers []string
}

// DefaultTaskGroups returns the built-in context routing table. Declaration
// order is the order matched group names are reported in.
func DefaultTaskGroups() []TaskGroup {
	return []TaskGroup{
		{Name: "documentation", Triggers: []string{"readme", "docs", "documentation", "document", "changelog"}},
		{Name: "testing", Triggers: []string{"test", "tests", "testing", "unittest", "coverage"}},
		{Name: "refactoring", Triggers: []string{"refactor", "refactoring", "cleanup", "restructure", "rewrite"}},
		{Name: "optimization", Triggers: []string{"optimize", "optimization", "performance", "faster", "speed"}},
		{Name: "deployment", Triggers: []string{"deploy", "deployment", "release", "ship", "rollout"}},
	}
}
