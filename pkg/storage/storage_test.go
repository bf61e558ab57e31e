package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscredentials "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/minio/minio-go/v7"
	miniocredentials "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket answers just enough of the S3 API for one bucket.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	headers map[string]http.Header
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}, headers: map[string]http.Header{}}
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		b.objects[r.URL.Path] = body
		b.headers[r.URL.Path] = r.Header.Clone()
		w.Header().Set("ETag", `"etag-1"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		if _, ok := b.objects[r.URL.Path]; !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method == http.MethodGet {
				io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			w.Write(b.objects[r.URL.Path])
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3(endpoint string) *s3Storage {
	client := s3.New(s3.Options{
		Region:           "eu-central-1",
		Credentials:      awscredentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		BaseEndpoint:     aws.String(endpoint),
		UsePathStyle:     true,
		RetryMaxAttempts: 1,
	})
	return &s3Storage{client: client, presign: s3.NewPresignClient(client), bucket: "docs"}
}

func TestS3PutInput(t *testing.T) {
	body := strings.NewReader("data")
	in := s3PutInput("docs", "tenant/acme/a.pdf", body, PutObjectOptions{
		Size:        4,
		ContentType: "application/pdf",
		Metadata:    map[string]string{"owner": "user-1"},
	})
	assert.Equal(t, "docs", aws.ToString(in.Bucket))
	assert.Equal(t, "tenant/acme/a.pdf", aws.ToString(in.Key))
	assert.Equal(t, "application/pdf", aws.ToString(in.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(in.ContentLength))
	assert.Equal(t, "user-1", in.Metadata["owner"])

	unknown := s3PutInput("docs", "k", body, PutObjectOptions{Size: -1})
	assert.Nil(t, unknown.ContentLength)
	assert.Nil(t, unknown.ContentType)
}

func TestMapS3Error(t *testing.T) {
	assert.NoError(t, mapS3Error(nil))
	assert.ErrorIs(t, mapS3Error(&types.NoSuchKey{}), ErrObjectNotFound)
	assert.ErrorIs(t, mapS3Error(&types.NotFound{}), ErrObjectNotFound)

	other := errors.New("access denied")
	assert.Equal(t, other, mapS3Error(other))
}

func TestS3Storage(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket()
	srv := httptest.NewServer(bucket)
	defer srv.Close()
	st := newTestS3(srv.URL)

	t.Run("put maps key and options", func(t *testing.T) {
		data := []byte("%PDF-1.4")
		info, err := st.Put(ctx, "tenant/acme/a.pdf", bytes.NewReader(data), PutObjectOptions{
			Size:        int64(len(data)),
			ContentType: "application/pdf",
			Metadata:    map[string]string{"owner": "user-1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "tenant/acme/a.pdf", info.Key)
		assert.Equal(t, `"etag-1"`, info.ETag)

		h := bucket.headers["/docs/tenant/acme/a.pdf"]
		require.NotNil(t, h)
		assert.Equal(t, "application/pdf", h.Get("Content-Type"))
		assert.Equal(t, "user-1", h.Get("X-Amz-Meta-Owner"))
	})

	t.Run("missing key", func(t *testing.T) {
		_, _, err := st.Get(ctx, "tenant/acme/missing.pdf")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("presigned url", func(t *testing.T) {
		u, err := st.PresignGet(ctx, "tenant/acme/a.pdf", 15*time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(u, srv.URL+"/docs/tenant/acme/a.pdf?"), u)
		assert.Contains(t, u, "X-Amz-Expires=900")
	})
}

func TestMinIOPutOptions(t *testing.T) {
	opts := minioPutOptions(PutObjectOptions{
		Size:        10,
		ContentType: "image/jpeg",
		Metadata:    map[string]string{"owner": "user-1"},
	})
	assert.Equal(t, "image/jpeg", opts.ContentType)
	assert.Equal(t, map[string]string{"owner": "user-1"}, opts.UserMetadata)
}

func TestMapMinIOError(t *testing.T) {
	assert.NoError(t, mapMinIOError(nil))
	assert.ErrorIs(t, mapMinIOError(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}), ErrObjectNotFound)

	denied := minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}
	assert.Equal(t, error(denied), mapMinIOError(denied))
}

func TestMinIOStorage(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(newFakeBucket())
	defer srv.Close()

	cli, err := minio.New(strings.TrimPrefix(srv.URL, "http://"), &minio.Options{
		Creds:  miniocredentials.NewStaticV4("AKID", "SECRET", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	st := &minioStorage{client: cli, bucket: "docs"}

	t.Run("missing key", func(t *testing.T) {
		_, _, err := st.Get(ctx, "tenant/acme/missing.pdf")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("presigned url", func(t *testing.T) {
		u, err := st.PresignGet(ctx, "tenant/acme/a.pdf", 15*time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(u, srv.URL+"/docs/tenant/acme/a.pdf?"), u)
		assert.Contains(t, u, "X-Amz-Expires=900")
	})
}

func TestNewBackendsValidateConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewS3(ctx, S3Config{})
	assert.Error(t, err)

	_, err = NewMinIO(ctx, MinIOConfig{Endpoint: "localhost:9000"})
	assert.Error(t, err)
	_, err = NewMinIO(ctx, MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)
}
