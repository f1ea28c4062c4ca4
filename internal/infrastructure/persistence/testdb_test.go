package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteSchema mirrors the postgres migrations closely enough for repository tests.
// DATETIME columns let the sqlite driver scan times back into time.Time.
var sqliteSchema = []string{
	`CREATE TABLE enquiries (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		version INTEGER NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		subject TEXT NOT NULL,
		message TEXT NOT NULL,
		status TEXT NOT NULL,
		source TEXT,
		ip_address TEXT,
		user_agent TEXT
	)`,
	`CREATE TABLE admin_users (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		version INTEGER NOT NULL,
		email TEXT NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		failed_attempts INTEGER NOT NULL,
		locked_until DATETIME,
		last_login_at DATETIME,
		last_login_ip TEXT,
		password_changed_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_admin_users_email ON admin_users (email)`,
	`CREATE TABLE posts (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		version INTEGER NOT NULL,
		title TEXT NOT NULL,
		slug TEXT NOT NULL,
		excerpt TEXT,
		content TEXT NOT NULL,
		cover_image_url TEXT,
		author_name TEXT,
		meta_title TEXT,
		meta_description TEXT,
		meta_keywords TEXT,
		canonical_url TEXT,
		status TEXT NOT NULL,
		published_at DATETIME,
		view_count INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX idx_posts_slug ON posts (slug)`,
	`CREATE TABLE post_tags (
		post_id TEXT NOT NULL,
		tag TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (post_id, tag)
	)`,
	`CREATE TABLE comments (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		post_id TEXT NOT NULL,
		parent_id TEXT,
		depth INTEGER NOT NULL,
		author_name TEXT NOT NULL,
		author_email TEXT NOT NULL,
		body TEXT NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE TABLE bookings (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		version INTEGER NOT NULL,
		reference TEXT NOT NULL,
		client_name TEXT NOT NULL,
		client_email TEXT NOT NULL,
		client_phone TEXT,
		practice_area TEXT,
		consultation_type TEXT NOT NULL,
		slot_date TEXT NOT NULL,
		slot_time TEXT NOT NULL,
		notes TEXT,
		fee_amount DECIMAL(12,2) NOT NULL,
		fee_currency TEXT NOT NULL,
		status TEXT NOT NULL,
		checkout_session_id TEXT,
		checkout_url TEXT,
		expires_at DATETIME NOT NULL,
		paid_at DATETIME,
		cancelled_at DATETIME,
		cancel_reason TEXT,
		late_confirmation BOOLEAN NOT NULL
	)`,
	`CREATE UNIQUE INDEX idx_bookings_reference ON bookings (reference)`,
	`CREATE UNIQUE INDEX uq_bookings_active_slot ON bookings (slot_date, slot_time)
		WHERE status IN ('pending_payment', 'confirmed') AND late_confirmation = 0`,
	`CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		booking_id TEXT NOT NULL,
		checkout_session_id TEXT NOT NULL,
		payment_intent_id TEXT,
		amount DECIMAL(12,2) NOT NULL,
		currency TEXT NOT NULL,
		customer_email TEXT,
		status TEXT NOT NULL,
		paid_at DATETIME NOT NULL,
		receipt_sent_at DATETIME,
		notification_sent_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_payments_checkout_session ON payments (checkout_session_id)`,
}

// newSQLiteDB opens an in-memory database with the application schema
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range sqliteSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// newMockGormDB opens gorm on a sqlmock connection with the postgres dialect
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}
