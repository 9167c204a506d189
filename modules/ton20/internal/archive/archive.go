// Package archive copies committed snapshots and their audit batches to S3.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/modules/ton20/config"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/klauspost/compress/gzip"
)

const (
	snapshotContentType = "application/gzip"
	parquetContentType  = "application/vnd.apache.parquet"
)

// Uploader is the subset of manager.Uploader the archiver needs.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3Archiver struct {
	uploader Uploader
	bucket   string
	prefix   string
}

// New creates an S3 archiver from the default AWS credential chain.
func New(ctx context.Context, conf config.ArchiveConfig) (*S3Archiver, error) {
	if conf.Bucket == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "archive bucket is required")
	}
	opts := make([]func(*awsconfig.LoadOptions) error, 0, 1)
	if conf.Region != "" {
		opts = append(opts, awsconfig.WithRegion(conf.Region))
	}
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "can't load aws user config")
	}
	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithUploader(manager.NewUploader(client), conf.Bucket, conf.Prefix), nil
}

func NewWithUploader(uploader Uploader, bucket, prefix string) *S3Archiver {
	return &S3Archiver{
		uploader: uploader,
		bucket:   bucket,
		prefix:   prefix,
	}
}

// Archive uploads the gzipped snapshot bytes and a parquet file of the audit batch
// committed with it. Both objects are keyed by the snapshot watermark.
func (a *S3Archiver) Archive(ctx context.Context, snapshot *entity.Snapshot, statuses []*entity.TransactionStatus) error {
	name := fmt.Sprintf("%020d_%s", snapshot.Lt, snapshot.TxHash)

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	if _, err := zw.Write(snapshot.Data); err != nil {
		return errors.Wrap(err, "can't compress snapshot")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "can't compress snapshot")
	}
	if err := a.put(ctx, path.Join(a.prefix, "snapshots", name+".bin.gz"), compressed.Bytes(), snapshotContentType, map[string]string{
		"state-hash": snapshot.StateHash.String(),
	}); err != nil {
		return errors.WithStack(err)
	}

	if len(statuses) == 0 {
		return nil
	}
	records, err := EncodeStatuses(statuses)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := a.put(ctx, path.Join(a.prefix, "statuses", name+".parquet"), records, parquetContentType, nil); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (a *S3Archiver) put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error {
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		Metadata:    metadata,
	})
	if err != nil {
		return errors.Wrapf(err, "can't upload %s", key)
	}
	return nil
}
