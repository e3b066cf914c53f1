package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createCarTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE cars (
		id TEXT PRIMARY KEY,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		year INTEGER NOT NULL,
		category TEXT NOT NULL,
		daily_rate DECIMAL(12,2) NOT NULL,
		weekly_rate TEXT,
		monthly_rate TEXT,
		deposit_amount TEXT,
		status TEXT NOT NULL,
		specifications TEXT,
		license_plate TEXT,
		image_url TEXT,
		location TEXT,
		created_by TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		account_balance TEXT NOT NULL DEFAULT '0',
		document_type TEXT,
		document_number TEXT,
		document_url TEXT,
		verification_status TEXT NOT NULL DEFAULT 'none',
		address TEXT,
		profile_image TEXT,
		payment_methods TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createBookingTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE bookings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		car_id TEXT NOT NULL,
		booking_reference TEXT NOT NULL UNIQUE,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		total_amount TEXT NOT NULL,
		deposit_amount TEXT,
		insurance_cost TEXT,
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		payment_id TEXT,
		addon_insurance BOOLEAN NOT NULL DEFAULT FALSE,
		addon_gps BOOLEAN NOT NULL DEFAULT FALSE,
		addon_child_seat BOOLEAN NOT NULL DEFAULT FALSE,
		pickup_location TEXT,
		dropoff_location TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createPaymentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		booking_id TEXT,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		method TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		transaction_id TEXT,
		failure_reason TEXT,
		description TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createChatTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE chats (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		subject TEXT NOT NULL,
		priority TEXT NOT NULL,
		status TEXT NOT NULL,
		last_message_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE messages (
		id TEXT PRIMARY KEY,
		chat_id TEXT NOT NULL,
		sender_id TEXT NOT NULL,
		sender_type TEXT NOT NULL,
		content TEXT NOT NULL,
		message_type TEXT NOT NULL,
		created_at DATETIME
	);`)
}
