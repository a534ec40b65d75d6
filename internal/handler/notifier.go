package handler

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
)

var mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9_]+)`)

// ExtractMentions returns the distinct usernames referenced with an @ in text,
// lowercased, in order of first appearance.
func ExtractMentions(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		name := strings.ToLower(m[1])
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Notifier fans project events out to follower inboxes. Every method is
// best-effort: failures are logged and never surfaced to the request that
// triggered them.
type Notifier struct {
	followers     *repository.FollowerRepository
	notifications *repository.NotificationRepository
	log           *zap.Logger
}

func NewNotifier(followers *repository.FollowerRepository, notifications *repository.NotificationRepository, log *zap.Logger) *Notifier {
	return &Notifier{followers: followers, notifications: notifications, log: log}
}

// FeatureCreated notifies every follower of the project except the author.
func (n *Notifier) FeatureCreated(ctx context.Context, project *model.Project, feature *model.Feature) {
	msg := fmt.Sprintf("New feature %q was proposed on %s", feature.Title, project.Title)
	n.fanOut(ctx, project.ID, feature.ID, model.NotificationNewFeature, msg, feature.AuthorID)
}

// FeatureStatusChanged notifies all followers, the author of the change
// included when they follow the project.
func (n *Notifier) FeatureStatusChanged(ctx context.Context, project *model.Project, feature *model.Feature) {
	msg := fmt.Sprintf("Feature %q on %s is now %s", feature.Title, project.Title, feature.Status)
	n.fanOut(ctx, project.ID, feature.ID, model.NotificationStatusUpdate, msg, uuid.Nil)
}

// Mention notifies a single user that actorName referenced them.
func (n *Notifier) Mention(ctx context.Context, userID uuid.UUID, actorName string, referenceID uuid.UUID) {
	ref := referenceID
	err := n.notifications.Create(ctx, &model.Notification{
		UserID:      userID,
		Type:        model.NotificationMention,
		Message:     fmt.Sprintf("%s mentioned you in a comment", actorName),
		ReferenceID: &ref,
	})
	if err != nil {
		n.log.Warn("mention notification failed", zap.Error(err))
	}
}

func (n *Notifier) fanOut(ctx context.Context, projectID, referenceID uuid.UUID, kind, msg string, skip uuid.UUID) {
	followers, err := n.followers.ListByProject(ctx, projectID)
	if err != nil {
		n.log.Warn("follower list failed during fan-out", zap.Error(err))
		return
	}
	for _, f := range followers {
		if f.UserID == skip {
			continue
		}
		ref := referenceID
		err := n.notifications.Create(ctx, &model.Notification{
			UserID:      f.UserID,
			Type:        kind,
			Message:     msg,
			ReferenceID: &ref,
		})
		if err != nil {
			n.log.Warn("notification create failed", zap.Error(err))
		}
	}
}
