package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

// SearchOptions carries the query plus filters. CallerID is uuid.Nil for
// anonymous searches, which see public projects only.
type SearchOptions struct {
	Query     string
	Category  string
	Status    string
	Priority  string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
	CallerID  uuid.UUID
}

func (o *SearchOptions) normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 || o.Limit > 100 {
		o.Limit = 20
	}
	if o.SortOrder != "asc" {
		o.SortOrder = "desc"
	}
}

func (o *SearchOptions) offset() int {
	return (o.Page - 1) * o.Limit
}

type SearchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// visibleProjects scopes a project query to what the caller may see. Text and
// filter clauses are always ANDed with this, never merged into it.
func (r *SearchRepository) visibleProjects(ctx context.Context, callerID uuid.UUID) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Project{})
	if callerID == uuid.Nil {
		return q.Where("visibility = ?", model.VisibilityPublic)
	}
	return q.Where("visibility = ? OR owner_id = ? OR id IN (?)",
		model.VisibilityPublic, callerID,
		r.db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", callerID))
}

func textClause(q *gorm.DB, query string, columns ...string) *gorm.DB {
	if query == "" {
		return q
	}
	pattern := "%" + strings.ToLower(query) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return q.Where(strings.Join(clauses, " OR "), args...)
}

// Projects searches projects the caller can see.
func (r *SearchRepository) Projects(ctx context.Context, opts SearchOptions) ([]model.Project, int64, error) {
	opts.normalize()

	q := r.visibleProjects(ctx, opts.CallerID)
	q = textClause(q, opts.Query, "title", "description", "category")
	if opts.Category != "" {
		q = q.Where("category = ?", opts.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := opts.SortBy
	switch sortBy {
	case "title", "progress", "created_at":
	default:
		sortBy = "created_at"
	}

	var projects []model.Project
	err := q.Preload("Owner").
		Order(sortBy + " " + strings.ToUpper(opts.SortOrder)).
		Offset(opts.offset()).
		Limit(opts.Limit).
		Find(&projects).Error
	return projects, total, err
}

// Features searches features inside projects the caller can see.
func (r *SearchRepository) Features(ctx context.Context, projectID uuid.UUID, opts SearchOptions) ([]model.Feature, int64, error) {
	opts.normalize()

	visible := r.db.Model(&model.Project{}).Select("id")
	if opts.CallerID == uuid.Nil {
		visible = visible.Where("visibility = ?", model.VisibilityPublic)
	} else {
		visible = visible.Where("visibility = ? OR owner_id = ? OR id IN (?)",
			model.VisibilityPublic, opts.CallerID,
			r.db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", opts.CallerID))
	}

	q := r.db.WithContext(ctx).Model(&model.Feature{}).Where("project_id IN (?)", visible)
	q = textClause(q, opts.Query, "title", "description")
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}
	if opts.Priority != "" {
		q = q.Where("priority = ?", opts.Priority)
	}
	if projectID != uuid.Nil {
		q = q.Where("project_id = ?", projectID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := opts.SortBy
	switch sortBy {
	case "vote_count", "created_at", "progress":
	default:
		sortBy = "vote_count"
	}

	var features []model.Feature
	err := q.Preload("Author").
		Preload("Stage").
		Order(sortBy + " " + strings.ToUpper(opts.SortOrder)).
		Offset(opts.offset()).
		Limit(opts.Limit).
		Find(&features).Error
	return features, total, err
}

// ProjectStats is a public project annotated with computed aggregates.
type ProjectStats struct {
	model.Project
	TotalVotes    int64 `json:"totalVotes"`
	FollowerCount int64 `json:"follower_count"`
	FeatureCount  int64 `json:"feature_count"`
	Completion    int   `json:"completion"`
}

// PublicProjects searches public projects only and annotates each with vote,
// follower and completion aggregates. Sorting on computed fields happens over
// the fetched page.
func (r *SearchRepository) PublicProjects(ctx context.Context, opts SearchOptions) ([]ProjectStats, int64, error) {
	opts.normalize()

	q := r.db.WithContext(ctx).Model(&model.Project{}).Where("visibility = ?", model.VisibilityPublic)
	q = textClause(q, opts.Query, "title", "description", "category")
	if opts.Category != "" && opts.Category != "All" {
		q = q.Where("category = ?", opts.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []model.Project
	err := q.Preload("Owner").
		Order("created_at DESC").
		Offset(opts.offset()).
		Limit(opts.Limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	stats := make([]ProjectStats, len(projects))
	for i := range projects {
		s := ProjectStats{Project: projects[i]}
		agg := struct {
			Votes     int64
			Features  int64
			Completed int64
		}{}
		err := r.db.WithContext(ctx).
			Model(&model.Feature{}).
			Select("COALESCE(SUM(vote_count),0) AS votes, COUNT(*) AS features, COUNT(CASE WHEN status = ? THEN 1 END) AS completed", model.StatusCompleted).
			Where("project_id = ?", projects[i].ID).
			Scan(&agg).Error
		if err != nil {
			return nil, 0, err
		}
		s.TotalVotes = agg.Votes
		s.FeatureCount = agg.Features
		if agg.Features > 0 {
			s.Completion = int(float64(agg.Completed) / float64(agg.Features) * 100)
		}
		if err := r.db.WithContext(ctx).
			Model(&model.Follower{}).
			Where("project_id = ?", projects[i].ID).
			Count(&s.FollowerCount).Error; err != nil {
			return nil, 0, err
		}
		stats[i] = s
	}

	sortStats(stats, opts.SortBy, opts.SortOrder)
	return stats, total, nil
}

func sortStats(stats []ProjectStats, sortBy, sortOrder string) {
	less := func(a, b ProjectStats) bool {
		switch sortBy {
		case "votes":
			return a.TotalVotes < b.TotalVotes
		case "followers":
			return a.FollowerCount < b.FollowerCount
		case "progress":
			return a.Completion < b.Completion
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if sortOrder == "asc" {
			return less(stats[i], stats[j])
		}
		return less(stats[j], stats[i])
	})
}
