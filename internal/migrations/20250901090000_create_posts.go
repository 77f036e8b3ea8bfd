package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePosts, downCreatePosts)
}

func upCreatePosts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS posts (
		post_id TEXT PRIMARY KEY,
		source_type TEXT NOT NULL,
		owner_id BIGINT NOT NULL,
		owner_name TEXT,
		post_url TEXT,
		text TEXT,
		date_published BIGINT DEFAULT 0,
		post_views INTEGER DEFAULT 0,
		likes INTEGER DEFAULT 0,
		comments INTEGER DEFAULT 0,
		reposts INTEGER DEFAULT 0,
		has_video BOOLEAN DEFAULT FALSE,
		video_views INTEGER DEFAULT 0,
		video_duration INTEGER DEFAULT 0,
		video_title TEXT,
		first_collected BIGINT,
		last_updated BIGINT,
		hashtag TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_posts_date_published ON posts (date_published);
	CREATE INDEX IF NOT EXISTS idx_posts_last_updated ON posts (last_updated);
	`)
	return err
}

func downCreatePosts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS posts;`)
	return err
}
