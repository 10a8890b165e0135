package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/civicworks/udcpr-compliance/internal/domain/rules"
)

const (
	stagingPrefix  = "staging/"
	approvedPrefix = "approved/"
	imagesPrefix   = "images/"
)

// Store adalah blob storage untuk staging batches, approved corpus dan
// page images. Keys are path-like: staging/{batch}, approved/approved_{rule_id}.json,
// images/{pdf}/page_{page:04d}.png.
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

func (s *Store) getObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) putObject(ctx context.Context, key string, b []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(b), int64(len(b)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}

// ListBatches metadata semua batch di staging. Candidate count butuh baca
// isi tiap object, sama seperti staging dir scan.
func (s *Store) ListBatches(ctx context.Context) ([]domain.BatchInfo, error) {
	out := []domain.BatchInfo{}
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    stagingPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		batchID := strings.TrimPrefix(obj.Key, stagingPrefix)

		candidates, err := s.LoadBatch(ctx, batchID)
		if err != nil {
			return nil, fmt.Errorf("reading batch %s: %w", batchID, err)
		}
		out = append(out, domain.BatchInfo{
			BatchID:        batchID,
			Size:           obj.Size,
			ModifiedAt:     obj.LastModified,
			CandidateCount: len(candidates),
		})
	}
	return out, nil
}

// LoadBatch baca satu batch; single-object batch dibungkus jadi slice
func (s *Store) LoadBatch(ctx context.Context, batchID string) ([]domain.Candidate, error) {
	b, err := s.getObject(ctx, stagingPrefix+batchID)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, err
	}

	var candidates []domain.Candidate
	if err := json.Unmarshal(b, &candidates); err != nil {
		var single domain.Candidate
		if err2 := json.Unmarshal(b, &single); err2 != nil {
			return nil, fmt.Errorf("decoding batch %s: %w", batchID, err)
		}
		candidates = []domain.Candidate{single}
	}
	return candidates, nil
}

// SaveBatch tulis ulang seluruh batch (read-modify-write, last write wins)
func (s *Store) SaveBatch(ctx context.Context, batchID string, candidates []domain.Candidate) error {
	b, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return err
	}
	return s.putObject(ctx, stagingPrefix+batchID, b, "application/json")
}

// SaveApproved tulis approved rule ke corpus, satu object per rule
func (s *Store) SaveApproved(ctx context.Context, r *domain.ApprovedRule) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%sapproved_%s.json", approvedPrefix, r.RuleID)
	return s.putObject(ctx, key, b, "application/json")
}

// ListApproved baca seluruh corpus; fallback path untuk rule queries
func (s *Store) ListApproved(ctx context.Context) ([]*domain.ApprovedRule, error) {
	out := []*domain.ApprovedRule{}
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    approvedPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		b, err := s.getObject(ctx, obj.Key)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", obj.Key, err)
		}
		var rule domain.ApprovedRule
		if err := json.Unmarshal(b, &rule); err != nil {
			// file korup dilewati, jangan gagalkan seluruh scan
			continue
		}
		out = append(out, &rule)
	}
	return out, nil
}

// PageImage ambil image halaman sumber; key pakai zero-padded page number
func (s *Store) PageImage(ctx context.Context, pdfName string, page int) ([]byte, error) {
	key := path.Join(imagesPrefix+pdfName, fmt.Sprintf("page_%04d.png", page))
	b, err := s.getObject(ctx, key)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}
