package kv

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is an in-memory bucket speaking the S3API surface.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	bucket  string
	failAll error
}

func newFakeS3(bucket string) *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, bucket: bucket}
}

func (f *fakeS3) check(bucket *string) error {
	if f.failAll != nil {
		return f.failAll
	}
	if aws.ToString(bucket) != f.bucket {
		return &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "no such bucket"}
	}
	return nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(in.Bucket); err != nil {
		return nil, err
	}
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(in.Bucket); err != nil {
		return nil, err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(in.Bucket); err != nil {
		return nil, err
	}
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(in.Bucket); err != nil {
		return nil, err
	}
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Repository_Contract(t *testing.T) {
	exerciseRepository(t, NewS3Repository(newFakeS3("scenes"), "scenes"))
}

func TestS3Repository_ObjectLayout(t *testing.T) {
	fake := newFakeS3("b")
	repo := NewS3Repository(fake, "b")

	require.NoError(t, repo.Set(context.Background(), NamespaceScenes, "workspace:u1:s1", []byte("{}")))
	_, ok := fake.objects["scenes/workspace:u1:s1"]
	assert.True(t, ok, "objects: %v", fake.objects)
}

func TestS3Repository_BackendErrorsPropagate(t *testing.T) {
	fake := newFakeS3("b")
	fake.failAll = errors.New("connection refused")
	repo := NewS3Repository(fake, "b")
	ctx := context.Background()

	_, err := repo.Get(ctx, NamespaceScenes, "k")
	assert.ErrorContains(t, err, "s3 get object")
	assert.ErrorContains(t, repo.Set(ctx, NamespaceScenes, "k", []byte("v")), "s3 put object")
	_, err = repo.Has(ctx, NamespaceScenes, "k")
	assert.ErrorContains(t, err, "s3 head object")
	assert.ErrorContains(t, repo.Delete(ctx, NamespaceScenes, "k"), "s3 delete object")
}

func TestS3Repository_WrongBucketIsNotNotFound(t *testing.T) {
	repo := NewS3Repository(newFakeS3("right"), "wrong")
	_, err := repo.Get(context.Background(), NamespaceScenes, "k")
	require.Error(t, err)
	assert.ErrorContains(t, err, "NoSuchBucket")
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, isNotFound(nil))
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("plain")))
}

func TestNewS3Client_UsesConfigLoader(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}
	_, err := NewS3Client(context.Background(), S3Options{Region: "us-east-1"})
	assert.ErrorContains(t, err, "aws config error")

	loadDefaultAWSConfig = orig
	c, err := NewS3Client(context.Background(), S3Options{
		Region: "us-east-1", AccessKey: "a", SecretKey: "b", BaseEndpoint: "http://127.0.0.1:9000",
	})
	require.NoError(t, err)
	assert.NotNil(t, c)
}
