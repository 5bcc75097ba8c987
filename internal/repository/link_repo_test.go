package repository

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"linkgate-go/internal/apperrors"
	"linkgate-go/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "repo.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestInsertCreatesZeroedAnalytics(t *testing.T) {
	db := newTestDB(t)
	repo := NewLinkRepo(db)

	link := &model.ShortLink{Domain: "lg.test", Slug: "pair", TargetURL: "https://go.dev/"}
	analytics, err := repo.Insert(link)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if analytics.ShortLinkID != link.ID {
		t.Fatalf("analytics linked to %d, want %d", analytics.ShortLinkID, link.ID)
	}
	if analytics.Clicks != 0 {
		t.Fatalf("fresh analytics clicks = %d", analytics.Clicks)
	}
}

func TestInsertDuplicatePair(t *testing.T) {
	db := newTestDB(t)
	repo := NewLinkRepo(db)

	first := &model.ShortLink{Domain: "lg.test", Slug: "dup", TargetURL: "https://go.dev/"}
	if _, err := repo.Insert(first); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	second := &model.ShortLink{Domain: "lg.test", Slug: "dup", TargetURL: "https://go.dev/blog"}
	if _, err := repo.Insert(second); !apperrors.IsDuplicateSlug(err) {
		t.Fatalf("second insert: got %v, want duplicate slug", err)
	}

	// 冲突的插入必须整体回滚，不能留下孤儿统计记录
	var analyticsCount int64
	db.Model(&model.AnalyticsRecord{}).Count(&analyticsCount)
	if analyticsCount != 1 {
		t.Fatalf("analytics records = %d, want 1", analyticsCount)
	}

	// 同 slug 换个域名则没有冲突
	other := &model.ShortLink{Domain: "other.test", Slug: "dup", TargetURL: "https://go.dev/"}
	if _, err := repo.Insert(other); err != nil {
		t.Fatalf("insert under other domain: %v", err)
	}
}

func TestLookupMissIsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewLinkRepo(db)

	if _, err := repo.Lookup("lg.test", "ghost"); !apperrors.IsNotFound(err) {
		t.Fatalf("lookup miss: got %v, want not found", err)
	}
}

func TestRecordAccessGuard(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkRepo(db)
	analytics := NewAnalyticsRepo(db)

	link := &model.ShortLink{Domain: "lg.test", Slug: "guard", TargetURL: "https://go.dev/"}
	if _, err := links.Insert(link); err != nil {
		t.Fatalf("insert: %v", err)
	}

	now := time.Now()
	d := model.AccessDescriptors{Geo: "DE"}

	// 限额 1：第一次通过，第二次被守卫拦下
	if _, err := analytics.RecordAccess(link.ID, d, now, 1); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if _, err := analytics.RecordAccess(link.ID, d, now, 1); err != apperrors.ErrClickLimitExceeded {
		t.Fatalf("second record: got %v, want ErrClickLimitExceeded", err)
	}

	record, err := analytics.GetByLinkID(link.ID)
	if err != nil {
		t.Fatalf("GetByLinkID: %v", err)
	}
	if record.Clicks != 1 {
		t.Fatalf("clicks = %d, want 1", record.Clicks)
	}

	samples, _ := analytics.History(link.ID)
	if len(samples) != 1 {
		t.Fatalf("history = %d samples, want 1", len(samples))
	}
}

func TestRecordAccessUnknownLink(t *testing.T) {
	db := newTestDB(t)
	analytics := NewAnalyticsRepo(db)

	if _, err := analytics.RecordAccess(404, model.AccessDescriptors{}, time.Now(), 0); !apperrors.IsNotFound(err) {
		t.Fatalf("record on unknown link: got %v, want not found", err)
	}
}
