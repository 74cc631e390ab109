// Package store is the relational layer shared by all pipeline stages. The
// backing file is SQLite; each stage opens its own connection for the
// duration of one run and closes it on every exit path.
package store

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store wraps the database handle with the operations the stages need.
type Store struct {
	db *gorm.DB
}

// Open connects to the store file, creating it when absent.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureJobs creates the jobs table when missing.
func (s *Store) EnsureJobs() error {
	return s.db.AutoMigrate(&Job{})
}

// EnsureCandidates creates the candidates table when missing.
func (s *Store) EnsureCandidates() error {
	return s.db.AutoMigrate(&Candidate{})
}

// EnsureNotifiedColumn adds the notified column to an existing candidates
// table. An already-present column is not an error.
func (s *Store) EnsureNotifiedColumn() error {
	if s.db.Migrator().HasColumn(&Candidate{}, "notified") {
		return nil
	}
	return s.db.Migrator().AddColumn(&Candidate{}, "Notified")
}

// CreateJob inserts one job row. There is deliberately no dedup: re-running
// the loader over the same input creates duplicate rows.
func (s *Store) CreateJob(job *Job) error {
	return s.db.Create(job).Error
}

// Jobs returns every job row.
func (s *Store) Jobs() ([]Job, error) {
	var jobs []Job
	err := s.db.Find(&jobs).Error
	return jobs, err
}

// CandidateExists reports whether a row for the (email, jd_id) pair exists.
func (s *Store) CandidateExists(email string, jdID uint) (bool, error) {
	var count int64
	err := s.db.Model(&Candidate{}).
		Where("email = ? AND jd_id = ?", email, jdID).
		Count(&count).Error
	return count > 0, err
}

// CreateCandidate inserts one candidate row, committed immediately.
func (s *Store) CreateCandidate(candidate *Candidate) error {
	return s.db.Create(candidate).Error
}

// Candidates returns every candidate row.
func (s *Store) Candidates() ([]Candidate, error) {
	var candidates []Candidate
	err := s.db.Find(&candidates).Error
	return candidates, err
}

// Shortlisted returns candidates at or above the score threshold that have
// not been notified yet.
func (s *Store) Shortlisted(threshold float64) ([]Candidate, error) {
	var candidates []Candidate
	err := s.db.
		Where("match_score >= ? AND (notified IS NULL OR notified = ?)", threshold, false).
		Find(&candidates).Error
	return candidates, err
}

// MarkNotified flips the notified flag for the (email, jd_id) pair.
func (s *Store) MarkNotified(email string, jdID uint) error {
	return s.db.Model(&Candidate{}).
		Where("email = ? AND jd_id = ?", email, jdID).
		Update("notified", true).Error
}
