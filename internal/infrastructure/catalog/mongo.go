// Package catalog implements C2 against MongoDB — the ecosystem-standard
// document store named by spec §6 (`MONGODB_URI`); not present anywhere
// in the retrieved example pack (see DESIGN.md for why the teacher's
// gorm/postgres stack was dropped rather than stretched to fit).
package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/pkg/apperr"
	"github.com/playforge/updatedist/pkg/idgen"
)

const (
	collVersions    = "versions"
	collUploads     = "uploads"
	collChunks      = "chunks"
	collFiles       = "files"
	collServers     = "servers"
	collVersionsSeq = "versions_seq"
)

// Mongo is the CatalogStore implementation. db is the single "updates"
// database named in §6's persisted layout.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(client *mongo.Client, dbName string) *Mongo {
	return &Mongo{db: client.Database(dbName)}
}

func (m *Mongo) coll(name string) *mongo.Collection { return m.db.Collection(name) }

// allocatePipeline builds the update-with-aggregation-pipeline document
// that computes the next (major, minor, revision) tuple in one atomic
// step, per the Design Note's intended final form: a single upsert
// pipeline, no separate lock document (§9).
func allocatePipeline(bumpType entities.VersionType) mongo.Pipeline {
	switch bumpType {
	case entities.VersionTypeMajor:
		return mongo.Pipeline{bson.D{{Key: "$set", Value: bson.D{
			{Key: "major", Value: bson.D{{Key: "$add", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$major", 0}}}, 1}}}},
			{Key: "minor", Value: 0},
			{Key: "revision", Value: 0},
		}}}}
	case entities.VersionTypeMinor:
		return mongo.Pipeline{bson.D{{Key: "$set", Value: bson.D{
			{Key: "minor", Value: bson.D{{Key: "$add", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$minor", 0}}}, 1}}}},
			{Key: "revision", Value: 0},
		}}}}
	default:
		return mongo.Pipeline{bson.D{{Key: "$set", Value: bson.D{
			{Key: "revision", Value: bson.D{{Key: "$add", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$revision", 0}}}, 1}}}},
		}}}}
	}
}

type versionSeq struct {
	Major    int `bson:"major"`
	Minor    int `bson:"minor"`
	Revision int `bson:"revision"`
}

func (m *Mongo) AllocateVersion(ctx context.Context, bumpType entities.VersionType, description string) (entities.Version, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var seq versionSeq
	err := m.coll(collVersionsSeq).FindOneAndUpdate(ctx, bson.M{"_id": "seq"}, allocatePipeline(bumpType), opts).Decode(&seq)
	if err != nil {
		return entities.Version{}, apperr.Unavailable(fmt.Errorf("catalog: allocate version number: %w", err))
	}

	now := time.Now().UTC()
	v := entities.Version{
		ID:          idgen.MustNew().String(),
		Major:       seq.Major,
		Minor:       seq.Minor,
		Revision:    seq.Revision,
		Description: description,
		State:       entities.VersionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := m.coll(collVersions).InsertOne(ctx, v); err != nil {
		return entities.Version{}, apperr.Unavailable(fmt.Errorf("catalog: insert version: %w", err))
	}
	return v, nil
}

func (m *Mongo) FindVersion(ctx context.Context, id string) (entities.Version, error) {
	var v entities.Version
	err := m.coll(collVersions).FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return entities.Version{}, apperr.NotFound("version not found")
	}
	if err != nil {
		return entities.Version{}, apperr.Unavailable(fmt.Errorf("catalog: find version %s: %w", id, err))
	}
	return v, nil
}

func (m *Mongo) ListVersions(ctx context.Context, page, size int) ([]entities.Version, int64, error) {
	total, err := m.coll(collVersions).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, apperr.Unavailable(fmt.Errorf("catalog: count versions: %w", err))
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(page * size)).
		SetLimit(int64(size))
	cur, err := m.coll(collVersions).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, apperr.Unavailable(fmt.Errorf("catalog: list versions: %w", err))
	}
	defer cur.Close(ctx)

	var out []entities.Version
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, apperr.Unavailable(fmt.Errorf("catalog: decode versions: %w", err))
	}
	return out, total, nil
}

func (m *Mongo) ListVersionsAfter(ctx context.Context, major, minor, revision int) ([]entities.Version, error) {
	filter := bson.M{
		"state": entities.VersionReady,
		"$or": bson.A{
			bson.M{"major": bson.M{"$gt": major}},
			bson.M{"major": major, "minor": bson.M{"$gt": minor}},
			bson.M{"major": major, "minor": minor, "revision": bson.M{"$gt": revision}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := m.coll(collVersions).Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("catalog: list versions after: %w", err))
	}
	defer cur.Close(ctx)

	var out []entities.Version
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("catalog: decode versions after: %w", err))
	}
	return out, nil
}

func (m *Mongo) UpdateVersionDescription(ctx context.Context, id, description string) error {
	res, err := m.coll(collVersions).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"description": description, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: update version %s: %w", id, err))
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("version not found")
	}
	return nil
}

func (m *Mongo) CASVersionState(ctx context.Context, id string, from, to entities.VersionState) error {
	res, err := m.coll(collVersions).UpdateOne(ctx,
		bson.M{"_id": id, "state": from},
		bson.M{"$set": bson.M{"state": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: cas version %s: %w", id, err))
	}
	if res.MatchedCount == 0 {
		return apperr.Conflict(fmt.Sprintf("version %s is not in state %s", id, from))
	}
	return nil
}

func (m *Mongo) FindUploadByVersion(ctx context.Context, versionID string) (entities.Upload, bool, error) {
	var u entities.Upload
	err := m.coll(collUploads).FindOne(ctx, bson.M{"version_id": versionID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return entities.Upload{}, false, nil
	}
	if err != nil {
		return entities.Upload{}, false, apperr.Unavailable(fmt.Errorf("catalog: find upload for version %s: %w", versionID, err))
	}
	return u, true, nil
}

func (m *Mongo) FindUpload(ctx context.Context, id string) (entities.Upload, error) {
	var u entities.Upload
	err := m.coll(collUploads).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return entities.Upload{}, apperr.NotFound("upload not found")
	}
	if err != nil {
		return entities.Upload{}, apperr.Unavailable(fmt.Errorf("catalog: find upload %s: %w", id, err))
	}
	return u, nil
}

func (m *Mongo) UpsertUpload(ctx context.Context, u entities.Upload) error {
	u.UpdatedAt = time.Now().UTC()
	_, err := m.coll(collUploads).ReplaceOne(ctx, bson.M{"_id": u.ID}, u, options.Replace().SetUpsert(true))
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: upsert upload %s: %w", u.ID, err))
	}
	return nil
}

func (m *Mongo) CASUploadState(ctx context.Context, id string, from, to entities.UploadState) error {
	res, err := m.coll(collUploads).UpdateOne(ctx,
		bson.M{"_id": id, "state": from},
		bson.M{"$set": bson.M{"state": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: cas upload %s: %w", id, err))
	}
	if res.MatchedCount == 0 {
		return apperr.Conflict(fmt.Sprintf("upload %s is not in state %s", id, from))
	}
	return nil
}

func (m *Mongo) DeleteUpload(ctx context.Context, id string) error {
	if _, err := m.coll(collUploads).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: delete upload %s: %w", id, err))
	}
	return nil
}

func (m *Mongo) UpsertChunk(ctx context.Context, c entities.UploadChunk) error {
	filter := bson.M{"upload_id": c.UploadID, "concurrent_id": c.ConcurrentID, "offset": c.Offset}
	update := bson.M{"$setOnInsert": c}
	_, err := m.coll(collChunks).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: upsert chunk %s/%d: %w", c.UploadID, c.Offset, err))
	}
	return nil
}

func (m *Mongo) CountChunks(ctx context.Context, uploadID, concurrentID string) (int, error) {
	n, err := m.coll(collChunks).CountDocuments(ctx, bson.M{"upload_id": uploadID, "concurrent_id": concurrentID})
	if err != nil {
		return 0, apperr.Unavailable(fmt.Errorf("catalog: count chunks %s: %w", uploadID, err))
	}
	return int(n), nil
}

func (m *Mongo) ListChunkOffsets(ctx context.Context, uploadID, concurrentID string) ([]int, error) {
	cur, err := m.coll(collChunks).Find(ctx, bson.M{"upload_id": uploadID, "concurrent_id": concurrentID})
	if err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("catalog: list chunk offsets %s: %w", uploadID, err))
	}
	defer cur.Close(ctx)

	var chunks []entities.UploadChunk
	if err := cur.All(ctx, &chunks); err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("catalog: decode chunks %s: %w", uploadID, err))
	}
	offsets := make([]int, len(chunks))
	for i, c := range chunks {
		offsets[i] = c.Offset
	}
	return offsets, nil
}

func (m *Mongo) DeleteChunks(ctx context.Context, uploadID, concurrentID string) error {
	_, err := m.coll(collChunks).DeleteMany(ctx, bson.M{"upload_id": uploadID, "concurrent_id": concurrentID})
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: delete chunks %s: %w", uploadID, err))
	}
	return nil
}

// PublishFiles runs insert_many(files) and the PROCESSING->READY CAS in
// one transaction, aborting both on any error (§4.6 step 8).
func (m *Mongo) PublishFiles(ctx context.Context, versionID string, files []entities.UpdateFile) error {
	session, err := m.db.Client().StartSession()
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: start session: %w", err))
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if len(files) > 0 {
			docs := make([]interface{}, len(files))
			for i, f := range files {
				docs[i] = f
			}
			if _, err := m.coll(collFiles).InsertMany(sc, docs); err != nil {
				return nil, fmt.Errorf("insert files: %w", err)
			}
		}

		res, err := m.coll(collVersions).UpdateOne(sc,
			bson.M{"_id": versionID, "state": entities.VersionProcessing},
			bson.M{"$set": bson.M{"state": entities.VersionReady, "updated_at": time.Now().UTC()}},
		)
		if err != nil {
			return nil, fmt.Errorf("cas version ready: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("version %s not in PROCESSING", versionID)
		}
		return nil, nil
	})
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: publish transaction for %s: %w", versionID, err))
	}
	return nil
}

func (m *Mongo) FilesForVersions(ctx context.Context, versionIDs []string, categories []int) ([]entities.UpdateFile, error) {
	filter := bson.M{
		"version_id": bson.M{"$in": versionIDs},
		"category":   bson.M{"$in": categories},
	}
	cur, err := m.coll(collFiles).Find(ctx, filter)
	if err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("catalog: files for versions: %w", err))
	}
	defer cur.Close(ctx)

	var out []entities.UpdateFile
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("catalog: decode files: %w", err))
	}
	return out, nil
}

func (m *Mongo) CountFiles(ctx context.Context, versionID string) (int64, error) {
	n, err := m.coll(collFiles).CountDocuments(ctx, bson.M{"version_id": versionID})
	if err != nil {
		return 0, apperr.Unavailable(fmt.Errorf("catalog: count files %s: %w", versionID, err))
	}
	return n, nil
}

func (m *Mongo) ListServers(ctx context.Context) ([]entities.Server, error) {
	cur, err := m.coll(collServers).Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("catalog: list servers: %w", err))
	}
	defer cur.Close(ctx)

	var out []entities.Server
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("catalog: decode servers: %w", err))
	}
	return out, nil
}

func (m *Mongo) ListStaleProcessingUploads(ctx context.Context, cutoffSeconds int64) ([]entities.Upload, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(cutoffSeconds) * time.Second)
	filter := bson.M{"state": entities.UploadProcessing, "updated_at": bson.M{"$lt": cutoff}}
	cur, err := m.coll(collUploads).Find(ctx, filter)
	if err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("catalog: list stale uploads: %w", err))
	}
	defer cur.Close(ctx)

	var out []entities.Upload
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("catalog: decode stale uploads: %w", err))
	}
	return out, nil
}

// EnsureIndexes creates the unique/lookup indexes the invariants of §3
// depend on. Called once at startup.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll(collVersions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "major", Value: 1}, {Key: "minor", Value: 1}, {Key: "revision", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: ensure version index: %w", err))
	}

	_, err = m.coll(collChunks).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "upload_id", Value: 1}, {Key: "concurrent_id", Value: 1}, {Key: "offset", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: ensure chunk index: %w", err))
	}

	_, err = m.coll(collFiles).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "version_id", Value: 1}, {Key: "local_path", Value: 1}, {Key: "category", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: ensure file index: %w", err))
	}

	_, err = m.coll(collUploads).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "version_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("catalog: ensure upload index: %w", err))
	}
	return nil
}
