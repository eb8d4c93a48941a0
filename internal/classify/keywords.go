package classify

import (
	"sort"
	"strings"

	"github.com/joshsymonds/sortmate/internal/gmail"
)

// Category is one keyword bucket: any term matching the message text earns
// the message the category's label.
type Category struct {
	Name  string
	Terms []string
}

// DefaultCategories returns the built-in keyword buckets in their fixed
// evaluation order.
func DefaultCategories() []Category {
	return []Category{
		{Name: "urgent", Terms: []string{"urgent", "asap", "emergency", "immediate", "priority"}},
		{Name: "meeting", Terms: []string{"meeting", "conference", "call", "zoom", "teams", "appointment"}},
		{Name: "financial", Terms: []string{"invoice", "payment", "bill", "receipt", "bank", "transaction"}},
		{Name: "travel", Terms: []string{"flight", "hotel", "booking", "ticket", "travel", "reservation"}},
		{Name: "newsletter", Terms: []string{"newsletter", "unsubscribe", "weekly", "monthly", "digest"}},
		{Name: "social", Terms: []string{"facebook", "twitter", "linkedin", "instagram", "notification"}},
		{Name: "shopping", Terms: []string{"order", "shipping", "delivery", "cart", "purchase", "amazon"}},
		{Name: "work", Terms: []string{"project", "deadline", "report", "task", "assignment", "review"}},
	}
}

// CategoriesFromMap converts a name-to-terms mapping into categories sorted
// by name, so custom keyword sets evaluate deterministically.
func CategoriesFromMap(m map[string][]string) []Category {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Category, 0, len(names))
	for _, name := range names {
		out = append(out, Category{Name: name, Terms: m[name]})
	}
	return out
}

// KeywordLabels scans the subject and snippet for each category's terms and
// returns "Keywords/<Category>" paths. The first matching term claims the
// category; at most one label per category per message. The result may be
// empty but is never nil semantics-wise: no match simply contributes nothing.
func KeywordLabels(msg gmail.Message, categories []Category) []string {
	if categories == nil {
		categories = DefaultCategories()
	}
	text := strings.ToLower(msg.Header("Subject") + " " + msg.Snippet)
	var paths []string
	for _, cat := range categories {
		for _, term := range cat.Terms {
			if strings.Contains(text, strings.ToLower(term)) {
				paths = append(paths, "Keywords/"+titleCase(cat.Name))
				break
			}
		}
	}
	return paths
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
