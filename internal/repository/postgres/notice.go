package postgres

import (
	"context"
	"strconv"

	"github.com/CampusConnect/notice-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const noticeColumns = "n.id, n.title, n.description, n.category, n.posted_by, n.image_url, n.is_new, n.is_archived, n.created_at"

type noticeRepo struct {
	db *pgxpool.Pool
}

func newNoticeRepo(db *pgxpool.Pool) Notice {
	return &noticeRepo{
		db: db,
	}
}

func (r *noticeRepo) Create(ctx context.Context, notice model.Notice) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO notices(id, title, description, category, posted_by, image_url, is_new, is_archived, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		notice.ID, notice.Title, notice.Description, notice.Category, notice.PostedBy,
		notice.ImageURL, notice.IsNew, notice.IsArchived, notice.CreatedAt,
	)
	return err
}

func (r *noticeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	var notice model.Notice
	if err := r.db.QueryRow(
		ctx,
		"SELECT "+noticeColumns+" FROM notices n WHERE n.id = $1",
		id,
	).Scan(
		&notice.ID,
		&notice.Title,
		&notice.Description,
		&notice.Category,
		&notice.PostedBy,
		&notice.ImageURL,
		&notice.IsNew,
		&notice.IsArchived,
		&notice.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &notice, nil
}

func (r *noticeRepo) list(ctx context.Context, query string, args ...interface{}) ([]*model.Notice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []*model.Notice
	for rows.Next() {
		var n model.Notice
		if err := rows.Scan(
			&n.ID,
			&n.Title,
			&n.Description,
			&n.Category,
			&n.PostedBy,
			&n.ImageURL,
			&n.IsNew,
			&n.IsArchived,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}

		notices = append(notices, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notices, nil
}

// GetActive returns non-archived notices, globally-new first, then newest-first.
func (r *noticeRepo) GetActive(ctx context.Context) ([]*model.Notice, error) {
	return r.list(ctx, `
		SELECT `+noticeColumns+` FROM notices n
		WHERE n.is_archived = false
		ORDER BY n.is_new DESC, n.created_at DESC
	`)
}

func (r *noticeRepo) GetNew(ctx context.Context) ([]*model.Notice, error) {
	return r.list(ctx, `
		SELECT `+noticeColumns+` FROM notices n
		WHERE n.is_archived = false AND n.is_new = true
		ORDER BY n.created_at DESC
	`)
}

func (r *noticeRepo) GetArchived(ctx context.Context) ([]*model.Notice, error) {
	return r.list(ctx, `
		SELECT `+noticeColumns+` FROM notices n
		WHERE n.is_archived = true
		ORDER BY n.created_at DESC
	`)
}

func (r *noticeRepo) UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*model.Notice, error) {
	query := "UPDATE notices SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(i) + " RETURNING id, title, description, category, posted_by, image_url, is_new, is_archived, created_at"
	args = append(args, id)

	var notice model.Notice
	if err := r.db.QueryRow(ctx, query, args...).Scan(
		&notice.ID,
		&notice.Title,
		&notice.Description,
		&notice.Category,
		&notice.PostedBy,
		&notice.ImageURL,
		&notice.IsNew,
		&notice.IsArchived,
		&notice.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &notice, nil
}

// ToggleArchive flips is_archived; archiving clears is_new in the same
// statement so the two flags can never be observed out of sync.
func (r *noticeRepo) ToggleArchive(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	var notice model.Notice
	if err := r.db.QueryRow(
		ctx,
		`UPDATE notices
		SET is_archived = NOT is_archived,
			is_new = CASE WHEN NOT is_archived THEN false ELSE is_new END
		WHERE id = $1
		RETURNING id, title, description, category, posted_by, image_url, is_new, is_archived, created_at`,
		id,
	).Scan(
		&notice.ID,
		&notice.Title,
		&notice.Description,
		&notice.Category,
		&notice.PostedBy,
		&notice.ImageURL,
		&notice.IsNew,
		&notice.IsArchived,
		&notice.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &notice, nil
}

func (r *noticeRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM notices WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MarkViewed is idempotent: re-marking an already viewed notice is a no-op.
func (r *noticeRepo) MarkViewed(ctx context.Context, userID uuid.UUID, noticeID uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO viewed_notices(user_id, notice_id) VALUES($1, $2) ON CONFLICT DO NOTHING",
		userID, noticeID,
	)
	return err
}

func (r *noticeRepo) GetViewedNoticeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, "SELECT v.notice_id FROM viewed_notices v WHERE v.user_id = $1", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *noticeRepo) GetImageURLs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT n.image_url FROM notices n WHERE n.image_url IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	return urls, rows.Err()
}
