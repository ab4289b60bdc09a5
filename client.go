package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// deleteBatchSize is the most keys a single DeleteObjects call accepts.
const deleteBatchSize = 1000

// ObjectRecord is one raw listing entry as the store reports it. The ETag
// still carries the quoting from the wire; normalization happens when the
// inventory is built.
type ObjectRecord struct {
	Key          string
	ETag         string
	Size         int64
	LastModified time.Time
}

type BucketClient interface {
	ListObjects(bucket string) ([]ObjectRecord, error)
	PutObject(input *s3.PutObjectInput) error
	EmptyBucket(bucket string) (int, error)
}

type S3Client struct {
	Client *s3.Client
}

func (s *S3Client) ListObjects(bucket string) ([]ObjectRecord, error) {
	records := make([]ObjectRecord, 0)
	listParams := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	paginator := s3.NewListObjectsV2Paginator(s.Client, listParams, func(o *s3.ListObjectsV2PaginatorOptions) {})
	for paginator.HasMorePages() {
		currentPage, pageErr := paginator.NextPage(context.TODO())
		if pageErr != nil {
			return records, pageErr
		}
		for _, object := range currentPage.Contents {
			records = append(records, ObjectRecord{
				Key:          aws.ToString(object.Key),
				ETag:         aws.ToString(object.ETag),
				Size:         aws.ToInt64(object.Size),
				LastModified: aws.ToTime(object.LastModified),
			})
		}
	}

	return records, nil
}

func (s *S3Client) PutObject(input *s3.PutObjectInput) error {
	uploader := manager.NewUploader(s.Client)
	_, putErr := uploader.Upload(context.TODO(), input)
	return putErr
}

// EmptyBucket deletes every object in the bucket in batches and returns
// how many were removed.
func (s *S3Client) EmptyBucket(bucket string) (int, error) {
	records, listErr := s.ListObjects(bucket)
	if listErr != nil {
		return 0, listErr
	}

	deleted := 0
	for start := 0; start < len(records); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(records) {
			end = len(records)
		}
		identifiers := make([]types.ObjectIdentifier, 0, end-start)
		for _, record := range records[start:end] {
			identifiers = append(identifiers, types.ObjectIdentifier{Key: aws.String(record.Key)})
		}
		delReq := &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{
				Objects: identifiers,
				Quiet:   aws.Bool(true),
			},
		}
		output, delErr := s.Client.DeleteObjects(context.TODO(), delReq)
		if delErr != nil {
			return deleted, delErr
		}
		if len(output.Errors) > 0 {
			first := output.Errors[0]
			return deleted, fmt.Errorf("delete rejected for %s: %s", aws.ToString(first.Key), aws.ToString(first.Message))
		}
		deleted += end - start
	}

	return deleted, nil
}
