package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/AaronL1011/polly-ai/internal/rag"
)

// payload keys used to round-trip a rag.Chunk through Qdrant's point
// payload, alongside whatever metadata fields the chunk itself carries.
const (
	payloadChunkIDKey      = "__chunk_id__"
	payloadDocumentIDKey   = "__document_id__"
	payloadChunkTextKey    = "__chunk_text__"
	payloadPositionKey     = "__chunk_position__"
	payloadDocumentTypeKey = "document_type"
	payloadDateKey         = "date"
)

// QdrantConfig configures a QdrantStore. Grounded on
// ai/providers/vectorstores/qdrant/store.go's VectorStoreConfig, simplified
// to drop the embedding-model/document-batcher fields: this package's
// Embedder interface runs independently of the store, so QdrantStore only
// needs a client, a collection name, and the vector width to initialize it.
type QdrantConfig struct {
	// Client is the Qdrant client instance for communicating with the server.
	// Required.
	Client *qdrant.Client

	// CollectionName is the collection chunks are stored in and searched
	// against. Required.
	CollectionName string

	// VectorSize is the embedding dimensionality, used only when
	// InitializeSchema creates a missing collection.
	VectorSize uint64

	// InitializeSchema creates CollectionName if it does not already exist,
	// using cosine distance over VectorSize-dimensional vectors.
	InitializeSchema bool
}

func (c *QdrantConfig) validate() error {
	if c == nil {
		return errors.New("vectorstore: qdrant config is nil")
	}
	if c.Client == nil {
		return errors.New("vectorstore: qdrant client is required")
	}
	if c.CollectionName == "" {
		return errors.New("vectorstore: qdrant collection name is required")
	}
	if c.InitializeSchema && c.VectorSize == 0 {
		return errors.New("vectorstore: qdrant vector size is required to initialize schema")
	}
	return nil
}

var _ VectorStore = (*QdrantStore)(nil)

// QdrantStore is a VectorStore backed by a real Qdrant collection, used in
// place of Memory outside of tests and the pollyctl demo.
type QdrantStore struct {
	client         *qdrant.Client
	collectionName string
}

// NewQdrantStore builds a QdrantStore, optionally creating its backing
// collection. Grounded on
// ai/providers/vectorstores/qdrant/store.go's NewVectorStore/initialize.
func NewQdrantStore(ctx context.Context, cfg *QdrantConfig) (*QdrantStore, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	store := &QdrantStore{
		client:         cfg.Client,
		collectionName: cfg.CollectionName,
	}

	if cfg.InitializeSchema {
		if err := store.initialize(ctx, cfg.VectorSize); err != nil {
			return nil, fmt.Errorf("vectorstore: qdrant init: %w", err)
		}
	}

	return store, nil
}

func (q *QdrantStore) initialize(ctx context.Context, vectorSize uint64) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", q.collectionName, err)
	}
	return nil
}

// Add upserts a chunk and its embedding vector as a single point, waiting
// for the write to be acknowledged before returning.
func (q *QdrantStore) Add(ctx context.Context, chunk rag.Chunk, vector []float32) error {
	point, err := buildPoint(chunk, vector)
	if err != nil {
		return fmt.Errorf("vectorstore: qdrant build point for chunk %s: %w", chunk.ID, err)
	}

	_, err = q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Wait:           ptrOf(true),
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("vectorstore: qdrant upsert chunk %s: %w", chunk.ID, err)
	}
	return nil
}

func buildPoint(chunk rag.Chunk, vector []float32) (*qdrant.PointStruct, error) {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(chunk.ID),
		Vectors: qdrant.NewVectors(vector...),
	}

	fields := make(map[string]any, len(chunk.Metadata)+4)
	for k, v := range chunk.Metadata {
		fields[k] = v
	}
	fields[payloadChunkIDKey] = chunk.ID
	fields[payloadDocumentIDKey] = chunk.DocumentID
	fields[payloadChunkTextKey] = chunk.Text
	fields[payloadPositionKey] = int64(chunk.Position)

	payload, err := qdrant.TryValueMap(fields)
	if err != nil {
		return nil, fmt.Errorf("convert payload: %w", err)
	}
	point.Payload = payload

	return point, nil
}

func (q *QdrantStore) Search(ctx context.Context, vector []float32, k int, filter *Filter) ([]rag.Chunk, error) {
	if k <= 0 {
		return nil, errors.New("vectorstore: k must be positive")
	}

	queryPoints := &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          ptrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if qf := toQdrantFilter(filter); qf != nil {
		queryPoints.Filter = qf
	}

	scoredPoints, err := q.client.Query(ctx, queryPoints)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: qdrant query collection %s: %w", q.collectionName, err)
	}

	chunks := make([]rag.Chunk, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		chunks = append(chunks, chunkFromPoint(point))
	}
	return chunks, nil
}

// toQdrantFilter translates the fixed Filter shape into Qdrant's match/range
// condition set. Grounded on the field/match condition style of
// ai/extensions/vectorstores/qdrant/converter.go, narrowed to the two
// conditions spec.md §4.2 actually needs instead of a general filter AST.
func toQdrantFilter(filter *Filter) *qdrant.Filter {
	if filter.IsZero() {
		return nil
	}

	var must []*qdrant.Condition

	if len(filter.DocumentTypes) > 0 {
		values := make([]string, len(filter.DocumentTypes))
		for i, dt := range filter.DocumentTypes {
			values[i] = string(dt)
		}
		must = append(must, qdrant.NewMatchKeywords(payloadDocumentTypeKey, values...))
	}

	if filter.DateFrom != "" || filter.DateTo != "" {
		r := &qdrant.Range{}
		if filter.DateFrom != "" {
			r.Gte = ptrOf(dateOrdinal(filter.DateFrom))
		}
		if filter.DateTo != "" {
			r.Lte = ptrOf(dateOrdinal(filter.DateTo))
		}
		must = append(must, qdrant.NewRange(payloadDateKey, r))
	}

	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

// dateOrdinal converts a YYYY-MM-DD string into a sortable float for
// Qdrant's numeric range filter, since dates are stored as plain payload
// strings rather than a dedicated datetime field.
func dateOrdinal(date string) float64 {
	var y, m, d int
	_, _ = fmt.Sscanf(date, "%4d-%2d-%2d", &y, &m, &d)
	return float64(y)*10000 + float64(m)*100 + float64(d)
}

// ptrOf returns a pointer to a copy of v, matching the teacher's pkg/ptr.Pointer
// helper used throughout its Qdrant adapter for the client's optional-field
// pointers (Wait, Limit, Gte, Lte).
func ptrOf[V any](v V) *V {
	return &v
}

func chunkFromPoint(point *qdrant.ScoredPoint) rag.Chunk {
	chunk := rag.Chunk{}

	payload := point.GetPayload()
	if payload == nil {
		return chunk
	}

	metadata := make(map[string]string, len(payload))
	for key, value := range payload {
		switch key {
		case payloadChunkIDKey:
			chunk.ID = value.GetStringValue()
		case payloadDocumentIDKey:
			chunk.DocumentID = value.GetStringValue()
		case payloadChunkTextKey:
			chunk.Text = value.GetStringValue()
		case payloadPositionKey:
			chunk.Position = int(value.GetIntegerValue())
		default:
			if s := value.GetStringValue(); s != "" {
				metadata[key] = s
			}
		}
	}
	chunk.Metadata = metadata

	return chunk
}
