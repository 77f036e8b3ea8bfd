package post

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/9049480440/vk-hashtag-monitor/internal/domain"
	"github.com/9049480440/vk-hashtag-monitor/internal/repositories"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

var postColumns = []string{
	"post_id", "source_type", "owner_id", "owner_name", "post_url", "text",
	"date_published", "post_views", "likes", "comments", "reposts",
	"has_video", "video_views", "video_duration", "video_title",
	"first_collected", "last_updated", "hashtag",
}

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("PostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Exists checks if a post with the given id already exists
func (p *Pgx) Exists(ctx context.Context, postID string) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Select("1").
		From("posts").
		Where(sq.Eq{"post_id": postID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	var one int
	err = p.pg.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Create inserts a newly discovered post. The primary key on post_id is the
// deduplication gate; a unique violation maps to ErrAlreadyExists.
func (p *Pgx) Create(ctx context.Context, post *domain.Post) error {
	query, args, err := repositories.SqBuilder.
		Insert("posts").
		Columns(postColumns...).
		Values(
			post.PostID, post.SourceType, post.OwnerID, post.OwnerName, post.PostURL, post.Text,
			post.DatePublished, post.PostViews, post.Likes, post.Comments, post.Reposts,
			post.HasVideo, post.VideoViews, post.VideoDuration, post.VideoTitle,
			post.FirstCollected, post.LastUpdated, post.Hashtag,
		).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateMetrics rewrites the refreshable fields of one post.
func (p *Pgx) UpdateMetrics(ctx context.Context, postID string, update domain.MetricsUpdate) error {
	query, args, err := repositories.SqBuilder.
		Update("posts").
		Set("post_views", update.PostViews).
		Set("likes", update.Likes).
		Set("comments", update.Comments).
		Set("reposts", update.Reposts).
		Set("has_video", update.HasVideo).
		Set("video_views", update.VideoViews).
		Set("video_duration", update.VideoDuration).
		Set("video_title", update.VideoTitle).
		Set("last_updated", update.LastUpdated).
		Where(sq.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	tag, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAll returns every stored post ordered newest first
func (p *Pgx) GetAll(ctx context.Context) ([]*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Select(postColumns...).
		From("posts").
		OrderBy("date_published DESC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	return p.queryPosts(ctx, query, args)
}

// GetByDateRange returns posts with date_published inside the inclusive bounds
func (p *Pgx) GetByDateRange(ctx context.Context, start, end int64) ([]*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Select(postColumns...).
		From("posts").
		Where(sq.And{
			sq.GtOrEq{"date_published": start},
			sq.LtOrEq{"date_published": end},
		}).
		OrderBy("date_published DESC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	return p.queryPosts(ctx, query, args)
}

// Count returns the total number of stored posts
func (p *Pgx) Count(ctx context.Context) (int, error) {
	query, args, err := repositories.SqBuilder.
		Select("COUNT(*)").
		From("posts").
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	var count int
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (p *Pgx) queryPosts(ctx context.Context, query string, args []any) ([]*domain.Post, error) {
	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(
			&post.PostID, &post.SourceType, &post.OwnerID, &post.OwnerName, &post.PostURL, &post.Text,
			&post.DatePublished, &post.PostViews, &post.Likes, &post.Comments, &post.Reposts,
			&post.HasVideo, &post.VideoViews, &post.VideoDuration, &post.VideoTitle,
			&post.FirstCollected, &post.LastUpdated, &post.Hashtag,
		); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}
