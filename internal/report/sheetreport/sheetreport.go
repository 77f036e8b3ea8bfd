package sheetreport

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"

	"github.com/9049480440/vk-hashtag-monitor/internal/aggregator"
	"github.com/9049480440/vk-hashtag-monitor/internal/report"
	"github.com/9049480440/vk-hashtag-monitor/internal/repositories/post"
	"github.com/9049480440/vk-hashtag-monitor/pkg/config"
	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
)

const (
	summarySheet  = "Summary"
	postsSheet    = "Posts"
	topPostsSheet = "Top Posts"
	dynamicsSheet = "Daily Dynamics"
)

const dateFormat = "02.01.2006 15:04"

type Opts struct {
	fx.In

	Aggregator *aggregator.Aggregator
	PostRepo   post.Repository
	Logger     logger.Logger
	Config     *config.Config
}

type SheetReport struct {
	Aggregator *aggregator.Aggregator
	PostRepo   post.Repository
	Logger     logger.Logger
	Config     *config.Config

	loc *time.Location
}

func New(opts Opts) *SheetReport {
	log := opts.Logger.WithComponent("SheetReport")

	loc, err := time.LoadLocation(opts.Config.App.Timezone)
	if err != nil {
		loc = time.UTC
		log.Warn("Failed to load configured timezone, using UTC",
			"timezone", opts.Config.App.Timezone, "error", err)
	}

	return &SheetReport{
		Aggregator: opts.Aggregator,
		PostRepo:   opts.PostRepo,
		Logger:     log,
		Config:     opts.Config,
		loc:        loc,
	}
}

var _ report.Client = (*SheetReport)(nil)

// GenerateReport writes the xlsx workbook to the configured path and
// returns that path.
func (r *SheetReport) GenerateReport(ctx context.Context) (string, error) {
	r.Logger.Info("Building spreadsheet report")

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			r.Logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := r.writeSummary(ctx, f); err != nil {
		return "", err
	}
	if err := r.writePosts(ctx, f); err != nil {
		return "", err
	}
	if err := r.writeTopPosts(ctx, f); err != nil {
		return "", err
	}
	if err := r.writeDynamics(ctx, f); err != nil {
		return "", err
	}

	// The default sheet excelize creates is replaced by Summary.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", errors.Wrap(err, "failed to drop default sheet")
	}

	path := r.Config.Report.SheetPath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrap(err, "failed to create report directory")
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", errors.Wrap(err, "failed to save workbook")
	}

	r.Logger.Info("Spreadsheet report written", "path", path)
	return path, nil
}

func (r *SheetReport) writeSummary(ctx context.Context, f *excelize.File) error {
	total, err := r.Aggregator.GetTotalStats(ctx)
	if err != nil {
		return err
	}
	recent, err := r.Aggregator.GetRecentStats(ctx, aggregator.DefaultRecentWindow)
	if err != nil {
		return err
	}
	breakdown, err := r.Aggregator.GetBreakdown(ctx)
	if err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}

	rows := [][]any{
		{"Hashtag", r.Config.VK.Hashtag},
		{},
		{"Total posts", total.TotalPosts},
		{"Total views", total.TotalViews},
		{"Total likes", total.TotalLikes},
		{"Total comments", total.TotalComments},
		{"Total reposts", total.TotalReposts},
		{"Average ER, %", total.AvgER},
		{},
		{"New posts (24h)", recent.NewPosts},
		{"Views (24h)", recent.Views},
		{},
		{"Group posts", breakdown.Groups},
		{"User posts", breakdown.Users},
		{"Posts with video", breakdown.WithVideo},
		{"Unique authors", breakdown.UniqueAuthors.Total},
	}

	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, &row); err != nil {
			return err
		}
	}
	return nil
}

func (r *SheetReport) writePosts(ctx context.Context, f *excelize.File) error {
	posts, err := r.PostRepo.GetAll(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load posts")
	}

	if _, err := f.NewSheet(postsSheet); err != nil {
		return errors.Wrap(err, "failed to create posts sheet")
	}

	header := []any{
		"Post ID", "Source", "Owner", "URL", "Published",
		"Views", "Likes", "Comments", "Reposts", "ER, %", "Video",
	}
	if err := setRow(f, postsSheet, 1, &header); err != nil {
		return err
	}

	for i, p := range posts {
		row := []any{
			p.PostID,
			string(p.SourceType),
			p.OwnerName,
			p.PostURL,
			time.Unix(p.DatePublished, 0).In(r.loc).Format(dateFormat),
			p.PostViews,
			p.Likes,
			p.Comments,
			p.Reposts,
			r.Aggregator.EngagementRate(p),
			p.HasVideo,
		}
		if err := setRow(f, postsSheet, i+2, &row); err != nil {
			return err
		}
	}
	return nil
}

// writeTopPosts renders one ranking block per sort key, blank-row separated,
// each capped at the configured top limit.
func (r *SheetReport) writeTopPosts(ctx context.Context, f *excelize.File) error {
	if _, err := f.NewSheet(topPostsSheet); err != nil {
		return errors.Wrap(err, "failed to create top posts sheet")
	}

	sections := []struct {
		title  string
		sortBy string
	}{
		{"Top by views", aggregator.SortByViews},
		{"Top by ER", aggregator.SortByER},
		{"Top by comments", aggregator.SortByComments},
	}

	header := []any{"#", "Owner", "URL", "Views", "Likes", "Comments", "ER, %"}

	rowNum := 1
	for _, section := range sections {
		top, err := r.Aggregator.GetTopPosts(ctx, r.Config.Report.TopLimit, section.sortBy)
		if err != nil {
			return err
		}

		title := []any{section.title}
		if err := setRow(f, topPostsSheet, rowNum, &title); err != nil {
			return err
		}
		rowNum++

		if err := setRow(f, topPostsSheet, rowNum, &header); err != nil {
			return err
		}
		rowNum++

		for i, p := range top {
			row := []any{
				i + 1,
				p.OwnerName,
				p.PostURL,
				p.PostViews,
				p.Likes,
				p.Comments,
				r.Aggregator.EngagementRate(p),
			}
			if err := setRow(f, topPostsSheet, rowNum, &row); err != nil {
				return err
			}
			rowNum++
		}

		rowNum++
	}
	return nil
}

func (r *SheetReport) writeDynamics(ctx context.Context, f *excelize.File) error {
	series, err := r.Aggregator.GetDailyDynamics(ctx)
	if err != nil {
		return err
	}

	if _, err := f.NewSheet(dynamicsSheet); err != nil {
		return errors.Wrap(err, "failed to create dynamics sheet")
	}

	header := []any{"Date", "New posts", "Views", "Likes", "Comments", "Reposts", "Total posts"}
	if err := setRow(f, dynamicsSheet, 1, &header); err != nil {
		return err
	}

	for i, day := range series {
		row := []any{day.Date, day.NewPosts, day.Views, day.Likes, day.Comments, day.Reposts, day.TotalPosts}
		if err := setRow(f, dynamicsSheet, i+2, &row); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, row *[]any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, row)
}
