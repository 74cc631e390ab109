package store

// Job is one summarized posting in the jobs table. Rows are created by the
// loader stage and never mutated or deleted afterwards.
type Job struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title   string `json:"title"`
	Summary string `gorm:"type:text" json:"summary"`
}

func (Job) TableName() string { return "jobs" }

// Candidate is one candidate-to-job evaluation in the candidates table.
// At most one row exists per (email, jd_id) pair, enforced by an existence
// check before insert. Notified is the only field mutated after creation.
type Candidate struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	CVPath     string  `gorm:"column:cv_path" json:"cv_path"`
	ParsedData string  `gorm:"column:parsed_data;type:text" json:"parsed_data"`
	MatchScore float64 `gorm:"column:match_score" json:"match_score"`
	Reasoning  string  `gorm:"type:text" json:"reasoning"`
	JDID       uint    `gorm:"column:jd_id" json:"jd_id"`
	Notified   bool    `gorm:"default:false" json:"notified"`
}

func (Candidate) TableName() string { return "candidates" }
