package main

import (
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type MockPutRequest struct {
	Bucket          string
	Key             string
	ContentType     string
	ContentEncoding string
	CacheControl    string
	ACL             string
	Body            []byte
}

type MockS3Client struct {
	PutRequests   []MockPutRequest
	PutAttempts   []string
	EmptiedBucket string
	mockList      []ObjectRecord
	listErr       error
	putErrByKey   map[string]error
}

func NewMockClient(mocked []ObjectRecord) *MockS3Client {
	return &MockS3Client{
		PutRequests: make([]MockPutRequest, 0),
		mockList:    mocked,
		putErrByKey: make(map[string]error),
	}
}

func (s *MockS3Client) FailListWith(err error) {
	s.listErr = err
}

func (s *MockS3Client) FailPutForKey(key string, err error) {
	s.putErrByKey[key] = err
}

func (s *MockS3Client) ListObjects(string) ([]ObjectRecord, error) {
	return s.mockList, s.listErr
}

func (s *MockS3Client) PutObject(input *s3.PutObjectInput) error {
	key := aws.ToString(input.Key)
	s.PutAttempts = append(s.PutAttempts, key)
	if putErr, ok := s.putErrByKey[key]; ok {
		return putErr
	}

	var body []byte
	if input.Body != nil {
		body, _ = io.ReadAll(input.Body)
	}
	s.PutRequests = append(s.PutRequests, MockPutRequest{
		Bucket:          aws.ToString(input.Bucket),
		Key:             key,
		ContentType:     aws.ToString(input.ContentType),
		ContentEncoding: aws.ToString(input.ContentEncoding),
		CacheControl:    aws.ToString(input.CacheControl),
		ACL:             string(input.ACL),
		Body:            body,
	})

	return nil
}

func (s *MockS3Client) EmptyBucket(bucket string) (int, error) {
	s.EmptiedBucket = bucket
	return len(s.mockList), nil
}
