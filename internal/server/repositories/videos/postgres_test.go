package videos

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestWatchHistory_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+v\.id,.+FROM\s+watch_history\s+wh\s+JOIN\s+videos\s+v\s+ON\s+v\.id\s*=\s*wh\.video_id\s+JOIN\s+users\s+o\s+ON\s+o\.id\s*=\s*v\.owner_id\s+WHERE\s+wh\.user_id\s*=\s*\$1\s+ORDER\s+BY\s+wh\.watched_at\s+DESC`

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "title", "video_url", "thumbnail_url", "duration", "views", "is_published", "created_at",
		"o_id", "username", "email", "fullname", "avatar_url", "cover_image_url",
		"watched_at",
	}).
		AddRow("v-2", "u-2", "second", "https://cdn/v2.mp4", "https://cdn/t2.png", 12.5, int64(9), true, now,
			"u-2", "bob02", "b@x.com", "Bob Roe", "https://cdn/b.png", "", now).
		AddRow("v-1", "u-2", "first", "https://cdn/v1.mp4", "https://cdn/t1.png", 30.0, int64(2), true, now,
			"u-2", "bob02", "b@x.com", "Bob Roe", "https://cdn/b.png", "", now.Add(-time.Hour))

	mock.ExpectQuery(q).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.WatchHistory(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("WatchHistory error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Video.ID != "v-2" || got[0].Owner.Username != "bob02" {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
}

func TestWatchHistory_EmptyIsNotAnError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "title", "video_url", "thumbnail_url", "duration", "views", "is_published", "created_at",
		"o_id", "username", "email", "fullname", "avatar_url", "cover_image_url",
		"watched_at",
	})
	mock.ExpectQuery(`(?s)^SELECT\s+v\.id,`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.WatchHistory(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("WatchHistory error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestWatchHistory_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+v\.id,`).
		WithArgs("u-1").
		WillReturnError(errors.New("db down"))

	_, err := repo.WatchHistory(context.Background(), "u-1")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestRecordWatch_UpsertsWatchedAt(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+watch_history\s*\(user_id,\s*video_id\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(user_id,\s*video_id\)\s*DO\s+UPDATE\s+SET\s+watched_at\s*=\s*now\(\)`

	mock.ExpectExec(q).
		WithArgs("u-1", "v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordWatch(context.Background(), "u-1", "v-1"); err != nil {
		t.Fatalf("RecordWatch error: %v", err)
	}
}
