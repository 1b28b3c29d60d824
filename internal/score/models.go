package score

// Record is one raw score row: one person, one subject, one assessment batch.
type Record struct {
	ID           int64   `db:"id"`
	Name         string  `db:"nama"`
	Identifier   string  `db:"nisn"`
	AssessmentID int     `db:"materi_uji_id"`
	SubjectLabel string  `db:"nama_pelajaran"`
	SubjectID    int     `db:"pelajaran_id"`
	Score        float64 `db:"skor"`
}

type Category string

const (
	Artistic      Category = "artistic"
	Conventional  Category = "conventional"
	Enterprising  Category = "enterprising"
	Investigative Category = "investigative"
	Realistic     Category = "realistic"
	Social        Category = "social"
)

type Component string

const (
	Verbal       Component = "verbal"
	Quantitative Component = "quantitative"
	Reasoning    Component = "reasoning"
	Figural      Component = "figural"
)

// CategoryProfile is one row of the RT report. Categories always holds all six keys.
type CategoryProfile struct {
	Name       string
	Identifier string
	Categories map[Category]int
}

// CompositeScore is one row of the ST report. Components always holds all four keys
// and Total is their full-precision sum.
type CompositeScore struct {
	Name       string
	Identifier string
	Components map[Component]float64
	Total      float64
}
