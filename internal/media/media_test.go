package media

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, in)
	return &s3.PutObjectOutput{}, f.err
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadImage(t *testing.T) {
	client := &fakeS3{}
	u := newUploader(client, Config{Bucket: "brewline-media", PublicBaseURL: "https://cdn.example.com/"})

	url, err := u.Upload(context.Background(), "/menu/", "Latte.PNG", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/menu/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	require.Len(t, client.inputs, 1)
	assert.Equal(t, "image/png", *client.inputs[0].ContentType)
	assert.Equal(t, "brewline-media", *client.inputs[0].Bucket)
}

func TestUploadRejects(t *testing.T) {
	client := &fakeS3{}
	u := newUploader(client, Config{Bucket: "b", MaxSize: 32})

	_, err := u.Upload(context.Background(), "menu", "notes.txt", strings.NewReader("just some text"))
	assert.ErrorIs(t, err, ErrNotImage)

	big := append(append([]byte{}, pngHeader...), make([]byte, 64)...)
	_, err = u.Upload(context.Background(), "menu", "big.png", bytes.NewReader(big))
	assert.ErrorIs(t, err, ErrTooLarge)

	assert.Empty(t, client.inputs, "rejected files never reach the bucket")
}

func TestUploadStoreFailure(t *testing.T) {
	u := newUploader(&fakeS3{err: errors.New("access denied")}, Config{Bucket: "b"})

	_, err := u.Upload(context.Background(), "", "a.png", bytes.NewReader(pngHeader))
	assert.Error(t, err)
}
