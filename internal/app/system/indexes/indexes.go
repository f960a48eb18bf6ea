// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique index on teams.idea_id is load-bearing: team get-or-create is an
upsert against it, which is what keeps two concurrent first-acceptances from
creating two teams for one idea.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureIdeas(ctx, db); err != nil {
		problems = append(problems, "ideas: "+err.Error())
	}
	if err := ensureJoinRequests(ctx, db); err != nil {
		problems = append(problems, "join_requests: "+err.Error())
	}
	if err := ensureTeams(ctx, db); err != nil {
		problems = append(problems, "teams: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}
	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureSkills(ctx, db); err != nil {
		problems = append(problems, "skills: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func create(ctx context.Context, db *mongo.Database, coll string, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	_, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
	return err
}

func named(name string, keys bson.D, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts = opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}

func ensureIdeas(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "ideas", []mongo.IndexModel{
		named("idx_ideas_email", bson.D{{Key: "email", Value: 1}}, false),
		named("idx_ideas_members_email", bson.D{{Key: "members.email", Value: 1}}, false),
		named("idx_ideas_created_at", bson.D{{Key: "created_at", Value: -1}}, false),
	})
}

func ensureJoinRequests(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "join_requests", []mongo.IndexModel{
		// Serves the active-pair duplicate check and the removal cascade.
		named("idx_requests_idea_requester_status",
			bson.D{{Key: "idea_id", Value: 1}, {Key: "requester_email", Value: 1}, {Key: "status", Value: 1}}, false),
		named("idx_requests_owner_seen",
			bson.D{{Key: "owner_email", Value: 1}, {Key: "seen", Value: 1}}, false),
		named("idx_requests_requester", bson.D{{Key: "requester_email", Value: 1}}, false),
	})
}

func ensureTeams(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "teams", []mongo.IndexModel{
		named("uniq_teams_idea", bson.D{{Key: "idea_id", Value: 1}}, true),
		named("idx_teams_members_email", bson.D{{Key: "members.email", Value: 1}}, false),
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "notifications", []mongo.IndexModel{
		// Serves the newest-first per-user listing.
		named("idx_notifications_user_created",
			bson.D{{Key: "user_email", Value: 1}, {Key: "created_at", Value: -1}}, false),
	})
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "users", []mongo.IndexModel{
		named("uniq_users_email", bson.D{{Key: "email", Value: 1}}, true),
	})
}

func ensureSkills(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "skills", []mongo.IndexModel{
		named("idx_skills_email", bson.D{{Key: "email", Value: 1}}, false),
	})
}
