// Package database stores extraction history in PostgreSQL.
//
// Go Pattern: We use the `sqlx` package which extends Go's standard `database/sql`
// with struct scanning. Queries are plain SQL.
//
// Go's database/sql has built-in connection pooling: one *sqlx.DB is created
// at startup and shared by every goroutine.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver, registered by its init()

	"github.com/Shimizu-Technology/ocr-api/internal/models"
)

// ErrNotFound is returned when a history row does not exist.
var ErrNotFound = errors.New("extraction not found")

// DB wraps the sqlx database connection with our application-specific methods.
// Go Pattern: Embedding (*sqlx.DB) gives us all of sqlx's methods automatically.
type DB struct {
	*sqlx.DB
}

// New creates a new database connection with connection pooling configured.
func New(databaseURL string) (*DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Serverless PostgreSQL closes idle connections quickly.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	return &DB{db}, nil
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// CreateExtraction inserts a history row and fills in its ID and timestamp.
func (db *DB) CreateExtraction(ctx context.Context, e *models.Extraction) error {
	query := `
		INSERT INTO extractions (original_name, file_kind, size_bytes, status, strategy, text_content, char_count, word_count, error_message, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	return db.QueryRowContext(ctx, query,
		e.OriginalName, e.FileKind, e.SizeBytes, e.Status, e.Strategy,
		e.TextContent, e.CharCount, e.WordCount, e.ErrorMessage, e.DurationMs,
	).Scan(&e.ID, &e.CreatedAt)
}

// GetExtraction retrieves a single history row by ID.
func (db *DB) GetExtraction(ctx context.Context, id string) (*models.Extraction, error) {
	var e models.Extraction
	err := db.GetContext(ctx, &e, `SELECT * FROM extractions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		// Malformed UUIDs fail the cast in PostgreSQL rather than matching nothing.
		if strings.Contains(err.Error(), "invalid input syntax for type uuid") {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get extraction: %w", err)
	}
	return &e, nil
}

// ListExtractions returns the most recent history rows, newest first.
func (db *DB) ListExtractions(ctx context.Context, params models.ExtractionListParams) ([]models.Extraction, error) {
	query, args := listQuery(params)

	extractions := []models.Extraction{}
	if err := db.SelectContext(ctx, &extractions, query, args...); err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}
	return extractions, nil
}

// listQuery builds the SELECT for ListExtractions. The text body is left
// out of list rows to keep responses small.
func listQuery(params models.ExtractionListParams) (string, []interface{}) {
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	var conditions []string
	var args []interface{}
	argNum := 1

	if params.FileType != "" {
		conditions = append(conditions, fmt.Sprintf("file_kind = $%d", argNum))
		args = append(args, params.FileType)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ") + " "
	}

	query := fmt.Sprintf(
		"SELECT id, original_name, file_kind, size_bytes, status, strategy, '' AS text_content, char_count, word_count, error_message, duration_ms, created_at FROM extractions %sORDER BY created_at DESC LIMIT $%d",
		whereClause, argNum,
	)
	args = append(args, params.Limit)
	return query, args
}
