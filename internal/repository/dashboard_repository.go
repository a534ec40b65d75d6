package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// UserDashboard aggregates a user's footprint across the system.
type UserDashboard struct {
	ProjectCount     int64               `json:"project_count"`
	FeatureCount     int64               `json:"feature_count"`
	FeaturesByStatus map[string]int64    `json:"features_by_status"`
	VotesCast        int64               `json:"votes_cast"`
	VotesReceived    int64               `json:"votes_received"`
	FollowingCount   int64               `json:"following_count"`
	Projects         []model.Project     `json:"projects"`
	RecentActivity   []model.ActivityLog `json:"recent_activity"`
}

// ProjectDashboard aggregates one project's state.
type ProjectDashboard struct {
	FeatureCount       int64            `json:"feature_count"`
	FeaturesByStatus   map[string]int64 `json:"features_by_status"`
	FeaturesByPriority map[string]int64 `json:"features_by_priority"`
	MemberCount        int64            `json:"member_count"`
	FollowerCount      int64            `json:"follower_count"`
	Completion         int              `json:"completion"`
	TopVoted           []model.Feature  `json:"top_voted"`
}

// ForUser builds the user dashboard. Timeframe bounds the recent-activity
// window; zero means all time.
func (r *DashboardRepository) ForUser(ctx context.Context, userID uuid.UUID, since time.Time) (*UserDashboard, error) {
	d := &UserDashboard{FeaturesByStatus: map[string]int64{}}

	memberOf := r.db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Order("created_at DESC").
		Find(&d.Projects).Error
	if err != nil {
		return nil, err
	}
	d.ProjectCount = int64(len(d.Projects))

	if err := r.db.WithContext(ctx).
		Model(&model.Feature{}).
		Where("author_id = ?", userID).
		Count(&d.FeatureCount).Error; err != nil {
		return nil, err
	}
	if err := r.countByColumn(ctx, &model.Feature{}, "status", "author_id = ?", userID, d.FeaturesByStatus); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&model.Vote{}).
		Where("user_id = ?", userID).
		Count(&d.VotesCast).Error; err != nil {
		return nil, err
	}
	var received struct{ Total int64 }
	if err := r.db.WithContext(ctx).
		Model(&model.Feature{}).
		Select("COALESCE(SUM(vote_count),0) AS total").
		Where("author_id = ?", userID).
		Scan(&received).Error; err != nil {
		return nil, err
	}
	d.VotesReceived = received.Total

	if err := r.db.WithContext(ctx).
		Model(&model.Follower{}).
		Where("user_id = ?", userID).
		Count(&d.FollowingCount).Error; err != nil {
		return nil, err
	}

	activity := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? OR project_id IN (?)", userID, memberOf)
	if !since.IsZero() {
		activity = activity.Where("created_at >= ?", since)
	}
	if err := activity.Order("created_at DESC").Limit(20).Find(&d.RecentActivity).Error; err != nil {
		return nil, err
	}

	return d, nil
}

// ForProject builds the project dashboard.
func (r *DashboardRepository) ForProject(ctx context.Context, projectID uuid.UUID) (*ProjectDashboard, error) {
	d := &ProjectDashboard{
		FeaturesByStatus:   map[string]int64{},
		FeaturesByPriority: map[string]int64{},
	}

	if err := r.db.WithContext(ctx).
		Model(&model.Feature{}).
		Where("project_id = ?", projectID).
		Count(&d.FeatureCount).Error; err != nil {
		return nil, err
	}
	if err := r.countByColumn(ctx, &model.Feature{}, "status", "project_id = ?", projectID, d.FeaturesByStatus); err != nil {
		return nil, err
	}
	if err := r.countByColumn(ctx, &model.Feature{}, "priority", "project_id = ?", projectID, d.FeaturesByPriority); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&model.ProjectMember{}).
		Where("project_id = ?", projectID).
		Count(&d.MemberCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Follower{}).
		Where("project_id = ?", projectID).
		Count(&d.FollowerCount).Error; err != nil {
		return nil, err
	}

	if d.FeatureCount > 0 {
		d.Completion = int(float64(d.FeaturesByStatus[model.StatusCompleted]) / float64(d.FeatureCount) * 100)
	}

	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("project_id = ?", projectID).
		Order("vote_count DESC").
		Limit(5).
		Find(&d.TopVoted).Error
	return d, err
}

func (r *DashboardRepository) countByColumn(ctx context.Context, mdl any, column, cond string, arg any, into map[string]int64) error {
	type row struct {
		Key string
		N   int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(mdl).
		Select(column + " AS key, COUNT(*) AS n").
		Where(cond, arg).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, rw := range rows {
		into[rw.Key] = rw.N
	}
	return nil
}
