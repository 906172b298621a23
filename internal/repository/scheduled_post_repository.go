package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/postpilothq/postpilot/internal/models"
)

// ScheduledPostFilter narrows ListByUserID. Zero-value fields are ignored.
type ScheduledPostFilter struct {
	Platform string
	Status   string
	From     *time.Time
	To       *time.Time
}

type ScheduledPostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error)
	CreateBatch(ctx context.Context, posts []*models.ScheduledPost) ([]int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	ListByUserID(ctx context.Context, userID int64, filter *ScheduledPostFilter) ([]*models.ScheduledPost, error)
	ListScheduledInRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.ScheduledPost, error)
	ListDue(ctx context.Context, before time.Time, limit int) ([]*models.ScheduledPost, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, status string, postID int64) error
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
}

type scheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

const scheduledPostColumns = `id, user_id, content_id, platform, scheduled_time, status, content_type, caption, media_urls, tags, metadata, created_at, updated_at`

func (r *scheduledPostRepository) Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (user_id, content_id, platform, scheduled_time, status, content_type, caption, media_urls, tags, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	metadata, err := json.Marshal(post.Metadata)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	args := []interface{}{
		post.UserID, post.ContentID, post.Platform, post.ScheduledTime, post.Status,
		post.ContentType, post.Caption, pq.Array(post.MediaURLs), pq.Array(post.Tags), metadata,
	}

	var id int64
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

// CreateBatch inserts all posts in one transaction so a bulk schedule is
// applied completely or not at all. Ids come back in input order.
func (r *scheduledPostRepository) CreateBatch(ctx context.Context, posts []*models.ScheduledPost) ([]int64, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	ids := make([]int64, 0, len(posts))
	for _, post := range posts {
		id, err := r.Create(ctx, tx, post)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ids, nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	post, err := scanScheduledPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *scheduledPostRepository) ListByUserID(ctx context.Context, userID int64, filter *ScheduledPostFilter) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE user_id = $1`
	args := []interface{}{userID}

	if filter != nil {
		if filter.Platform != "" {
			args = append(args, filter.Platform)
			query += fmt.Sprintf(" AND platform = $%d", len(args))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			query += fmt.Sprintf(" AND status = $%d", len(args))
		}
		if filter.From != nil {
			args = append(args, *filter.From)
			query += fmt.Sprintf(" AND scheduled_time >= $%d", len(args))
		}
		if filter.To != nil {
			args = append(args, *filter.To)
			query += fmt.Sprintf(" AND scheduled_time <= $%d", len(args))
		}
	}
	query += " ORDER BY scheduled_time ASC"

	return r.queryPosts(ctx, query, args...)
}

func (r *scheduledPostRepository) ListScheduledInRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts
		WHERE user_id = $1 AND status = $2 AND scheduled_time >= $3 AND scheduled_time <= $4
		ORDER BY scheduled_time ASC`
	return r.queryPosts(ctx, query, userID, models.PostStatusScheduled, from, to)
}

// ListDue returns scheduled posts whose time has passed, for the dispatcher.
func (r *scheduledPostRepository) ListDue(ctx context.Context, before time.Time, limit int) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts
		WHERE status = $1 AND scheduled_time <= $2
		ORDER BY scheduled_time ASC
		LIMIT $3`
	return r.queryPosts(ctx, query, models.PostStatusScheduled, before, limit)
}

var updatableColumns = map[string]bool{
	"content_id":     true,
	"platform":       true,
	"scheduled_time": true,
	"status":         true,
	"content_type":   true,
	"caption":        true,
	"media_urls":     true,
	"tags":           true,
	"metadata":       true,
}

// Update merges the given fields into an existing row. Keys must be column
// names from updatableColumns; anything else is rejected.
func (r *scheduledPostRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+2)

	for column, value := range fields {
		if !updatableColumns[column] {
			return fmt.Errorf("column %q is not updatable", column)
		}
		switch column {
		case "media_urls", "tags":
			if list, ok := value.([]string); ok {
				value = pq.Array(list)
			}
		case "metadata":
			encoded, err := json.Marshal(value)
			if err != nil {
				return err
			}
			value = encoded
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	args = append(args, time.Now())
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf("UPDATE scheduled_posts SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), len(args))

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledPostRepository) UpdateStatus(ctx context.Context, status string, postID int64) error {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledPostRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM scheduled_posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *scheduledPostRepository) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*models.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		post, err := scanScheduledPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScheduledPost(row rowScanner) (*models.ScheduledPost, error) {
	var (
		post     models.ScheduledPost
		media    pq.StringArray
		tags     pq.StringArray
		metadata []byte
	)

	err := row.Scan(&post.ID, &post.UserID, &post.ContentID, &post.Platform, &post.ScheduledTime,
		&post.Status, &post.ContentType, &post.Caption, &media, &tags, &metadata,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}

	post.MediaURLs = media
	post.Tags = tags
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &post.Metadata); err != nil {
			return nil, err
		}
	}
	return &post, nil
}
