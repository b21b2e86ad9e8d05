package domain

// Tag palette.
const (
	ColorRed    = "red"
	ColorOrange = "orange"
	ColorYellow = "yellow"
	ColorGreen  = "green"
	ColorBlue   = "blue"
	ColorPurple = "purple"
	ColorPink   = "pink"
	ColorGray   = "gray"
)

// TagColors returns the fixed tag palette.
func TagColors() []string {
	return []string{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorPink, ColorGray}
}

// DefaultColumnTitles are the columns of a fresh board.
func DefaultColumnTitles() []string {
	return []string{"To Do", "In Progress", "Done"}
}

// DefaultTags returns the starter tag set.
// Starter IDs are fixed so that boards migrated on different machines agree.
func DefaultTags() []Tag {
	return []Tag{
		{ID: "tag-bug", Name: "Bug", Color: ColorRed},
		{ID: "tag-feature", Name: "Feature", Color: ColorBlue},
		{ID: "tag-improvement", Name: "Improvement", Color: ColorGreen},
		{ID: "tag-documentation", Name: "Documentation", Color: ColorPurple},
	}
}

// DefaultBoard returns a fresh board with the default columns, no tasks
// and the starter tags.
func DefaultBoard(ids IDGenerator) Board {
	titles := DefaultColumnTitles()
	cols := make([]Column, len(titles))
	for i, title := range titles {
		cols[i] = Column{ID: ids.NewID(), Title: title, Order: i}
	}
	return Board{
		Columns: cols,
		Tasks:   []Task{},
		Tags:    DefaultTags(),
	}
}
