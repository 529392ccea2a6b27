package picasa

import (
	"k8s.io/klog/v2"
)

const unknownCategory = "Unknown"

// categoryKeywords maps the first word of an album name to its category.
var categoryKeywords = map[string]string{
	"Biking":  "Biking",
	"Cycling": "Biking",
	"Riding":  "Biking",

	"Hiking":   "Hiking",
	"Trekking": "Hiking",
	"Walking":  "Hiking",

	"Camping":     "Camping",
	"Backpacking": "Camping",

	"Climbing":       "Climbing",
	"Bouldering":     "Climbing",
	"Scrambling":     "Climbing",
	"Mountaineering": "Climbing",

	"Kayaking": "Kayaking",
	"Canoeing": "Kayaking",
	"Paddling": "Kayaking",
	"Rafting":  "Kayaking",

	"Snowboarding": "Snowboarding",
	"Skiing":       "Snowboarding",

	"Celebrating":  "Celebrating",
	"Birthday":     "Celebrating",
	"Christmas":    "Celebrating",
	"Thanksgiving": "Celebrating",
	"Wedding":      "Celebrating",
	"Partying":     "Celebrating",

	"Exploring": "Exploring",
	"Visiting":  "Exploring",
	"Touring":   "Exploring",
	"Traveling": "Exploring",

	"Living":  "Living",
	"Moving":  "Living",
	"Nesting": "Living",

	"Enjoying": "Enjoying",
	"Dining":   "Enjoying",
	"Eating":   "Enjoying",
	"Relaxing": "Enjoying",
	"Watching": "Enjoying",

	"Working":      "Working",
	"Conferencing": "Working",
	"Presenting":   "Working",
}

// Category derives an album category from a name like "2019_01_05 - Dining with Maxwell".
func Category(name string) string {
	m := albumNameRe.FindStringSubmatch(name)
	if m == nil {
		klog.Warningf("album name %q does not match formatting rules, category is %s", name, unknownCategory)
		return unknownCategory
	}

	c, ok := categoryKeywords[m[1]]
	if !ok {
		klog.Warningf("album name %q: no category for keyword %q, category is %s", name, m[1], unknownCategory)
		return unknownCategory
	}
	return c
}
