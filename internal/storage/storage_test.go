package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("3f1c.png"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName(".."))
	assert.False(t, ValidName("../secret"))
	assert.False(t, ValidName(`a\b`))
	assert.False(t, ValidName("a/b"))
}

func TestLocalSaveAndOpen(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	name, err := store.Save(ctx, CategoryAvatars, pngPixel)
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(name))

	obj, err := store.Open(ctx, CategoryAvatars, name)
	require.NoError(t, err)
	defer obj.Body.Close()

	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, int64(len(pngPixel)), obj.Size)
	got, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, pngPixel, got)
}

func TestLocalOpenMissing(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocal(root)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("x"), 0o600))

	_, err = store.Open(ctx, CategoryImages, "nope.png")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Open(ctx, CategoryImages, "../secret.txt")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Open(ctx, "private", "secret.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalSaveRejectsUnknownCategory(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	_, err = store.Save(context.Background(), "private", pngPixel)
	assert.Error(t, err)
}

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "missing", nil)
	}
	out := &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if ct := f.types[aws.StringValue(in.Key)]; ct != "" {
		out.ContentType = aws.String(ct)
	}
	return out, nil
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(in.Key)] = body
	f.types[aws.StringValue(in.Key)] = aws.StringValue(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucketWithContext(_ aws.Context, _ *s3.HeadBucketInput, _ ...request.Option) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func TestS3SaveAndOpen(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	store := NewS3WithClient(fake, "portal")
	require.NoError(t, store.Ping(ctx))

	name, err := store.Save(ctx, CategoryMedia, pngPixel)
	require.NoError(t, err)
	assert.Equal(t, "image/png", fake.types["media/"+name])

	obj, err := store.Open(ctx, CategoryMedia, name)
	require.NoError(t, err)
	defer obj.Body.Close()
	assert.Equal(t, "image/png", obj.ContentType)

	_, err = store.Open(ctx, CategoryMedia, "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3SniffsMissingContentType(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{"images/raw": pngPixel}, types: map[string]string{}}
	store := NewS3WithClient(fake, "portal")

	obj, err := store.Open(context.Background(), CategoryImages, "raw")
	require.NoError(t, err)
	defer obj.Body.Close()

	assert.Equal(t, "image/png", obj.ContentType)
	got, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, pngPixel, got)
}
