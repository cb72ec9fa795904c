package storage

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gabriel-vasile/mimetype"
)

// S3 keeps files in a bucket under "<category>/<name>" keys
type S3 struct {
	client s3iface.S3API
	bucket string
}

// NewS3 connects with the default credential chain. A custom endpoint
// (minio, localstack) switches to path-style addressing.
func NewS3(bucket, region, endpoint string) (*S3, error) {
	awsCfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		awsCfg.Endpoint = aws.String(endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewS3WithClient(s3.New(sess), bucket), nil
}

// NewS3WithClient wraps an existing client
func NewS3WithClient(client s3iface.S3API, bucket string) *S3 {
	return &S3{client: client, bucket: bucket}
}

func (s *S3) Open(ctx context.Context, category, name string) (*Object, error) {
	if err := checkRef(category, name); err != nil {
		return nil, err
	}

	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(category + "/" + name),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	obj := &Object{Body: out.Body, ContentType: aws.StringValue(out.ContentType), Size: aws.Int64Value(out.ContentLength)}
	if obj.ContentType == "" || obj.ContentType == "binary/octet-stream" {
		br := bufio.NewReaderSize(out.Body, 3072)
		head, _ := br.Peek(3072)
		obj.ContentType = mimetype.Detect(head).String()
		obj.Body = readCloser{Reader: br, Closer: out.Body}
	}
	return obj, nil
}

func (s *S3) Save(ctx context.Context, category string, content []byte) (string, error) {
	if !ValidCategory(category) {
		return "", fmt.Errorf("unknown storage category: %s", category)
	}
	if len(content) > MaxUploadSize {
		return "", fmt.Errorf("file exceeds %d bytes", MaxUploadSize)
	}

	name, contentType := newName(content)
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(category + "/" + name),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return name, nil
}

func (s *S3) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}

type readCloser struct {
	io.Reader
	io.Closer
}
