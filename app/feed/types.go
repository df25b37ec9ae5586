package feed

// Document is an already-fetched RSS/Atom payload handed to the service.
type Document struct {
	Source   string `json:"source"`   // overrides the feed title
	Category string `json:"category"` // overrides item categories
	Body     string `json:"body"`
}

// Filter is an include/exclude keyword rule over one news field.
type Filter struct {
	Field    string   `yaml:"field" json:"field"`
	Includes []string `yaml:"includes" json:"includes"`
	Excludes []string `yaml:"excludes" json:"excludes"`
}

// FilterFields lists the news fields a Filter may target.
var FilterFields = map[string]bool{
	"title":       true,
	"description": true,
	"category":    true,
	"source":      true,
	"url":         true,
}
