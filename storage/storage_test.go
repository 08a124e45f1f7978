package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestDecodeDataURL_DetectsSignature(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		ext         string
		contentType string
	}{
		{"png", pngHeader, "png", "image/png"},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}, "jpg", "image/jpeg"},
		{"gif", []byte("GIF89a"), "gif", "image/gif"},
		{"unknown defaults to jpg", []byte("plain text"), "jpg", "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(tt.data)

			img, err := DecodeDataURL(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.data, img.Data)
			assert.Equal(t, tt.ext, img.Ext)
			assert.Equal(t, tt.contentType, img.ContentType)
		})
	}
}

func TestDecodeDataURL_BarePayload(t *testing.T) {
	img, err := DecodeDataURL(base64.StdEncoding.EncodeToString(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "png", img.Ext)
}

func TestDecodeDataURL_Errors(t *testing.T) {
	_, err := DecodeDataURL("data:image/png;base64,")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = DecodeDataURL("data:image/png;base64,@@@not-base64@@@")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestLocalStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewLocalStore(dir, "/uploads/")

	url, err := store.Save(context.Background(), "abc.png", "image/png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc.png", url)

	written, err := os.ReadFile(filepath.Join(dir, "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, written)
}

func TestLocalStore_RejectsPathInName(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads")

	_, err := store.Save(context.Background(), "../escape.png", "image/png", pngHeader)
	assert.Error(t, err)
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Save(t *testing.T) {
	putter := &fakePutter{}
	store := &S3Store{BucketName: "portfolio", KeyPrefix: "uploads/", Client: putter}

	url, err := store.Save(context.Background(), "abc.png", "image/png", pngHeader)
	require.NoError(t, err)

	assert.Equal(t, "https://portfolio.s3.amazonaws.com/uploads/abc.png", url)
	assert.Equal(t, "portfolio", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "uploads/abc.png", aws.ToString(putter.input.Key))
	assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))
	assert.Equal(t, pngHeader, putter.body)
}

func TestS3Store_PublicBaseURL(t *testing.T) {
	store := &S3Store{BucketName: "portfolio", PublicBaseURL: "https://cdn.test/", Client: &fakePutter{}}

	url, err := store.Save(context.Background(), "abc.jpg", "", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/abc.jpg", url)
}

func TestS3Store_PutError(t *testing.T) {
	store := &S3Store{BucketName: "portfolio", Client: &fakePutter{err: errors.New("access denied")}}

	_, err := store.Save(context.Background(), "abc.jpg", "", []byte("x"))
	assert.ErrorContains(t, err, "access denied")
}

func TestNew_SelectsStore(t *testing.T) {
	store, err := New(context.Background(), map[string]string{"UPLOAD_DIR": t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), map[string]string{"IMAGE_STORE": "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), map[string]string{"IMAGE_STORE": "s3"})
	assert.ErrorContains(t, err, "bucket name")
}
