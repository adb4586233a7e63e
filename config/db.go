package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	sqlDB  *sql.DB
	gormDB *gorm.DB
)

func GetDatabaseURL() string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))
	return dsn
}

// BootSQL opens the raw connection used for DDL migration and the OTP store.
func BootSQL() (*sql.DB, error) {
	if sqlDB != nil {
		return sqlDB, nil
	}

	db, err := sql.Open("postgres", GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	sqlDB = db
	return sqlDB, nil
}

// BootGorm opens the GORM connection used by the repositories. BootSQL must
// have run first so the schema exists.
func BootGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	db, err := gorm.Open(postgres.Open(GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	gormDB = db
	return gormDB, nil
}

func migrate(db *sql.DB) error {
	// The attendance table deliberately has no uniqueness on
	// (student_id, course_id, date): a course can meet more than once per
	// day. The course-date lock is enforced transactionally by the
	// repository.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS semester (
			sem_id     VARCHAR(255) PRIMARY KEY,
			sem_name   VARCHAR(100) NOT NULL,
			start_date DATE NOT NULL,
			end_date   DATE NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS students (
			student_id   VARCHAR(255) PRIMARY KEY,
			student_name VARCHAR(255) NOT NULL,
			phone_number VARCHAR(20),
			sem_id       VARCHAR(255) REFERENCES semester(sem_id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS course (
			course_id   VARCHAR(255) PRIMARY KEY,
			course_name VARCHAR(255) NOT NULL,
			sem_id      VARCHAR(255) NOT NULL REFERENCES semester(sem_id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS course_students (
			student_id VARCHAR(255) NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
			course_id  VARCHAR(255) NOT NULL REFERENCES course(course_id) ON DELETE CASCADE,
			PRIMARY KEY (student_id, course_id)
		);`,
		`CREATE TABLE IF NOT EXISTS attendance (
			attendance_id SERIAL PRIMARY KEY,
			student_id    VARCHAR(255) NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
			course_id     VARCHAR(255) NOT NULL REFERENCES course(course_id) ON DELETE CASCADE,
			date          DATE NOT NULL,
			present       BOOLEAN NOT NULL DEFAULT FALSE,
			created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_course_date
			ON attendance(course_id, date);`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_student_course
			ON attendance(student_id, course_id);`,
		`CREATE TABLE IF NOT EXISTS otp_storage (
			email      VARCHAR(255) PRIMARY KEY,
			otp        VARCHAR(6) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			expires_at TIMESTAMP NOT NULL,
			attempts   INTEGER DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_otp_expires_at
			ON otp_storage(expires_at);`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id  SERIAL PRIMARY KEY,
			username VARCHAR(150) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			role     VARCHAR(30) NOT NULL
		);`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return nil
}
