package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

type memoryS3 struct {
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemoryS3() *memoryS3 {
	return &memoryS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	m.objects[key] = data
	m.contentTypes[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memoryS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(m.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryS3()
	s, err := NewS3Storage(mem, "docs")
	require.NoError(t, err)

	key := DocumentKey("sub_1", types.ClaimProperty, "doc.docx")
	assert.Equal(t, "submissions/sub_1/תביעת רכוש/doc.docx", key)

	got, err := s.Upload(ctx, key, []byte("data"), types.MIMETypeDocx)
	require.NoError(t, err)
	assert.Equal(t, key, got)
	assert.Equal(t, types.MIMETypeDocx, mem.contentTypes["docs/"+key])

	data, err := s.Download(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), data)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, types.ErrDocumentNotFound)
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(newMemoryS3(), "")
	var cerr *types.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, types.ErrMissingCredential)
}
