package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vistara-fest/backend/internal/models"
	"github.com/vistara-fest/backend/internal/team"
)

type teamDoc struct {
	ID                primitive.ObjectID `bson:"_id"`
	Position          int                `bson:"position"`
	models.TeamMember `bson:",inline"`
}

// newTeamDoc keeps a member's ObjectID when it has one and assigns a fresh one otherwise.
func newTeamDoc(m models.TeamMember, position int) teamDoc {
	oid, err := primitive.ObjectIDFromHex(m.ID)
	if err != nil {
		oid = primitive.NewObjectID()
	}
	m.ID = oid.Hex()
	return teamDoc{ID: oid, Position: position, TeamMember: m}
}

func (d teamDoc) member() models.TeamMember {
	m := d.TeamMember
	m.ID = d.ID.Hex()
	return m
}

// TeamStore keeps team members as individual documents.
type TeamStore struct {
	coll *mongo.Collection
}

func (s *TeamStore) List(ctx context.Context) ([]models.TeamMember, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find team: %w", err)
	}
	var docs []teamDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode team: %w", err)
	}
	list := make([]models.TeamMember, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.member())
	}
	team.SortByOrder(list)
	return list, nil
}

// teamWrites builds one upsert per member, keyed by ObjectID, in roster order.
func teamWrites(members []models.TeamMember) ([]mongo.WriteModel, []primitive.ObjectID, []models.TeamMember) {
	writes := make([]mongo.WriteModel, 0, len(members))
	ids := make([]primitive.ObjectID, 0, len(members))
	out := make([]models.TeamMember, 0, len(members))
	for i, m := range members {
		d := newTeamDoc(m, i)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": d.ID}).
			SetReplacement(d).
			SetUpsert(true))
		ids = append(ids, d.ID)
		out = append(out, d.member())
	}
	return writes, ids, out
}

// ReplaceAll upserts members in order and then removes everyone not in the list,
// so a failed write never leaves the roster empty.
func (s *TeamStore) ReplaceAll(ctx context.Context, members []models.TeamMember) ([]models.TeamMember, error) {
	writes, ids, out := teamWrites(members)
	if len(writes) > 0 {
		if _, err := s.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
			return nil, fmt.Errorf("upsert team: %w", err)
		}
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}}); err != nil {
		return nil, fmt.Errorf("delete removed team members: %w", err)
	}
	team.SortByOrder(out)
	return out, nil
}
