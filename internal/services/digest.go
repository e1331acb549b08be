package services

import (
	"cmp"
	"slices"

	"github.com/anonto42/nano-midea/mailer/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxDigestPosts caps how many posts a digest carries
const MaxDigestPosts = 3

// AggregateDigest groups one receiver's notifications by post, tallies actions and keeps the
// MaxDigestPosts posts with the most interactions. Posts with equal totals keep the order in
// which they first appear. Posts with no known action are dropped.
func AggregateDigest(notifications []models.Notification) []models.PostDigest {
	index := make(map[primitive.ObjectID]int)
	posts := make([]models.PostDigest, 0)

	for i := range notifications {
		n := &notifications[i]
		pos, ok := index[n.Post.ID]
		if !ok {
			posts = append(posts, models.PostDigest{Post: n.Post})
			pos = len(posts) - 1
			index[n.Post.ID] = pos
		}
		mergeNotification(&posts[pos], n)
	}

	posts = slices.DeleteFunc(posts, func(p models.PostDigest) bool {
		return p.Counts.Total == 0
	})
	slices.SortStableFunc(posts, func(a, b models.PostDigest) int {
		return cmp.Compare(b.Counts.Total, a.Counts.Total)
	})
	if len(posts) > MaxDigestPosts {
		posts = posts[:MaxDigestPosts]
	}
	return posts
}

// mergeNotification folds n into the post's tally. Unknown actions are ignored so the
// total stays equal to the sum of the named counters.
func mergeNotification(p *models.PostDigest, n *models.Notification) {
	switch n.Action {
	case models.ActionComment:
		p.Counts.Comment++
		if p.Latest == nil || n.CreatedAt.After(p.Latest.CreatedAt) {
			latest := *n
			p.Latest = &latest
		}
	case models.ActionLike:
		p.Counts.Like++
	case models.ActionShare:
		p.Counts.Share++
	default:
		return
	}
	p.Counts.Total++
}
