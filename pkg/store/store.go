package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/callmint/backend/pkg/config"
	"github.com/callmint/backend/pkg/services"
)

const starterSubmissionLimit = 1

// QuotaRecord is the durable per-identity submission counter. Reserved
// counts in-flight attempts so two concurrent submissions cannot both pass
// the quota check.
type QuotaRecord struct {
	Email          string `gorm:"primaryKey"`
	Count          int
	Reserved       int
	LastSubmission *time.Time
}

// Submission is one delivered form submission. Only the identity hash is
// stored, never the email itself.
type Submission struct {
	ID           uint `gorm:"primaryKey"`
	FormType     string
	IdentityHash string
	MessageID    string
	CreatedAt    time.Time
}

// Store is the database-backed quota tracker and submission log, selected
// when DATABASE_URL is set. Unlike the in-memory tracker it survives
// restarts.
type Store struct {
	db *gorm.DB
}

var (
	_ services.Tracker       = (*Store)(nil)
	_ services.SubmissionLog = (*Store)(nil)
)

// Open connects to the configured database and runs migrations
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	var dialector gorm.Dialector

	if cfg.IsPostgres() {
		log.Println("[DB] Connecting to PostgreSQL database...")
		dialector = postgres.Open(cfg.URL)
	} else {
		log.Println("[DB] Connecting to SQLite database...")
		path := cfg.SQLitePath()
		sqlDB, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		dialector = sqlite.Dialector{
			DriverName: "sqlite",
			DSN:        path,
			Conn:       sqlDB,
		}
	}

	// Silent SQL logging: queries carry submitter identities
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&QuotaRecord{}, &Submission{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("[DB] Database connected and migrated successfully")
	return &Store{db: db}, nil
}

// Reserve atomically counts an attempt against the plan limit. The guarded
// update makes concurrent reservations for the same identity serialize on
// the row, so at most one attempt can hold the single starter slot.
func (s *Store) Reserve(email, plan string) (bool, error) {
	if !services.PlanLimited(plan) {
		return true, nil
	}
	key := services.QuotaKey(email)

	var allowed bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rec := QuotaRecord{Email: key}
		if err := tx.FirstOrCreate(&rec, QuotaRecord{Email: key}).Error; err != nil {
			return err
		}

		res := tx.Model(&QuotaRecord{}).
			Where("email = ? AND count + reserved < ?", key, starterSubmissionLimit).
			Update("reserved", gorm.Expr("reserved + 1"))
		if res.Error != nil {
			return res.Error
		}
		allowed = res.RowsAffected > 0
		return nil
	})
	return allowed, err
}

// Commit finalizes a reservation after the operator notification was
// delivered.
func (s *Store) Commit(email, plan string) error {
	if !services.PlanLimited(plan) {
		return nil
	}
	key := services.QuotaKey(email)
	now := time.Now().UTC()

	return s.db.Model(&QuotaRecord{}).
		Where("email = ?", key).
		Updates(map[string]interface{}{
			"count":           gorm.Expr("count + 1"),
			"reserved":        gorm.Expr("CASE WHEN reserved > 0 THEN reserved - 1 ELSE 0 END"),
			"last_submission": &now,
		}).Error
}

// Release returns a reserved slot after a failed delivery so the attempt
// does not consume the user's quota.
func (s *Store) Release(email, plan string) error {
	if !services.PlanLimited(plan) {
		return nil
	}
	key := services.QuotaKey(email)

	return s.db.Model(&QuotaRecord{}).
		Where("email = ? AND reserved > 0", key).
		Update("reserved", gorm.Expr("reserved - 1")).Error
}

// RecordSubmission appends one delivered submission to the log
func (s *Store) RecordSubmission(formType, identityHash, messageID string) error {
	return s.db.Create(&Submission{
		FormType:     formType,
		IdentityHash: identityHash,
		MessageID:    messageID,
	}).Error
}
