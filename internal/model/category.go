package model

// Category is the topic a question is routed to. The set is closed.
type Category string

const (
	CategoryVacation  Category = "vacation"
	CategoryTimetable Category = "timetable"
	CategoryLegal     Category = "legal"
	CategoryEtc       Category = "etc"
)

// RoutableCategories are the values the router may return. Etc is only
// reached through the classification fallback.
var RoutableCategories = []Category{CategoryVacation, CategoryTimetable, CategoryLegal}

// Categories lists every category, routable ones first.
var Categories = []Category{CategoryVacation, CategoryTimetable, CategoryLegal, CategoryEtc}

func ParseCategory(raw string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == raw {
			return c, true
		}
	}
	return "", false
}

func (c Category) Routable() bool {
	for _, r := range RoutableCategories {
		if c == r {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
