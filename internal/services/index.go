package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/clients/chroma"
	"github.com/yungbote/devportal-backend/internal/clients/openai"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
	"github.com/yungbote/devportal-backend/internal/textutil"
	"github.com/yungbote/devportal-backend/internal/types"
)

const (
	defaultIndexLimit       = 500
	defaultIndexBatchSize   = 64
	DefaultIndexMaxAttempts = 5

	// Chroma metadata values are scalar-only; string values are capped so a
	// long help body cannot inflate the upsert payload.
	metaStringMaxBytes = 8192
)

type IndexInput struct {
	Collections []string
	Limit       int
	BatchSize   int
	MaxAttempts int
	DryRun      bool
}

type IndexResult struct {
	Picked      int            `json:"picked"`
	Upserted    int            `json:"upserted"`
	Failed      int            `json:"failed"`
	DryRun      bool           `json:"dry_run"`
	Collections map[string]int `json:"collections"`
}

// IndexService reconciles queued documents into the vector store: embed the
// document text, upsert by content-addressed id, then flip the row's state.
// Failures stay re-selectable until the attempt cap.
type IndexService interface {
	Run(ctx context.Context, in IndexInput) (*IndexResult, error)
}

type indexService struct {
	db       *gorm.DB
	log      *logger.Logger
	docRepo  repos.DocumentRepo
	embedder openai.Client
	store    chroma.Client
}

func NewIndexService(db *gorm.DB, log *logger.Logger, docRepo repos.DocumentRepo, embedder openai.Client, store chroma.Client) IndexService {
	serviceLog := log.With("service", "IndexService")
	return &indexService{
		db:       db,
		log:      serviceLog,
		docRepo:  docRepo,
		embedder: embedder,
		store:    store,
	}
}

func (s *indexService) Run(ctx context.Context, in IndexInput) (*IndexResult, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultIndexLimit
	}
	batchSize := in.BatchSize
	if batchSize <= 0 {
		batchSize = defaultIndexBatchSize
	}
	maxAttempts := in.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultIndexMaxAttempts
	}

	rows, err := s.docRepo.ListQueued(ctx, nil, "", limit, maxAttempts)
	if err != nil {
		return nil, err
	}
	if len(in.Collections) > 0 {
		want := toLowerSet(in.Collections)
		filtered := rows[:0]
		for _, row := range rows {
			if _, ok := want[strings.ToLower(row.Collection)]; ok {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	res := &IndexResult{
		Picked:      len(rows),
		DryRun:      in.DryRun,
		Collections: map[string]int{},
	}
	byCollection := map[string][]*types.PortalChromaDoc{}
	for _, row := range rows {
		byCollection[row.Collection] = append(byCollection[row.Collection], row)
	}

	names := make([]string, 0, len(byCollection))
	for name := range byCollection {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		docs := byCollection[name]
		res.Collections[name] = len(docs)
		if in.DryRun {
			continue
		}
		if err := s.indexCollection(ctx, res, name, docs, batchSize); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *indexService) indexCollection(ctx context.Context, res *IndexResult, name string, docs []*types.PortalChromaDoc, batchSize int) error {
	collectionID, err := s.store.EnsureCollection(ctx, name, map[string]any{"hnsw:space": "cosine"})
	if err != nil {
		// The whole collection is unreachable; fail every row once.
		s.log.Error("ensure collection failed", "collection", name, "error", err)
		for _, doc := range docs {
			if _, merr := s.docRepo.MarkFailed(ctx, nil, doc.ID, doc.SourceHash, err.Error()); merr != nil {
				return merr
			}
			res.Failed++
		}
		return nil
	}

	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := s.indexBatch(ctx, res, collectionID, docs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *indexService) indexBatch(ctx context.Context, res *IndexResult, collectionID string, docs []*types.PortalChromaDoc) error {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.DocText
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return s.failBatch(ctx, res, docs, "embed failed: "+err.Error())
	}
	if len(vectors) != len(docs) {
		return s.failBatch(ctx, res, docs, "embed returned wrong vector count")
	}

	batch := chroma.UpsertBatch{
		IDs:        make([]string, len(docs)),
		Embeddings: vectors,
		Documents:  texts,
		Metadatas:  make([]map[string]any, len(docs)),
	}
	for i, doc := range docs {
		batch.IDs[i] = doc.DocID
		batch.Metadatas[i] = sanitizeMeta(doc.Meta)
	}

	if err := s.store.Upsert(ctx, collectionID, batch); err != nil {
		return s.failBatch(ctx, res, docs, "upsert failed: "+err.Error())
	}

	for _, doc := range docs {
		applied, err := s.docRepo.MarkUpserted(ctx, nil, doc.ID, doc.SourceHash)
		if err != nil {
			return err
		}
		if applied {
			res.Upserted++
		}
	}
	return nil
}

func (s *indexService) failBatch(ctx context.Context, res *IndexResult, docs []*types.PortalChromaDoc, reason string) error {
	s.log.Warn("index batch failed", "count", len(docs), "reason", reason)
	for _, doc := range docs {
		if _, err := s.docRepo.MarkFailed(ctx, nil, doc.ID, doc.SourceHash, reason); err != nil {
			return err
		}
		res.Failed++
	}
	return nil
}

// sanitizeMeta flattens document metadata to the scalar types the vector
// store accepts. Non-scalar values are re-encoded as JSON strings; nulls are
// dropped.
func sanitizeMeta(raw []byte) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(meta))
	for key, value := range meta {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			out[key] = textutil.TruncateUTF8(v, metaStringMaxBytes)
		case bool, float64:
			out[key] = v
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				continue
			}
			out[key] = textutil.TruncateUTF8(string(encoded), metaStringMaxBytes)
		}
	}
	return out
}
