//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/cloo-solutions/techwiki/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Client_PutAndHead(t *testing.T) {
	ctx := context.Background()
	rc := testutil.NewRustFSContainer(ctx, t)
	defer rc.Terminate(ctx)

	client, err := NewS3Client(ctx, S3ClientConfig{
		Endpoint:        rc.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     testutil.RustFSAccessKey,
		SecretAccessKey: testutil.RustFSSecretKey,
		Bucket:          "techwiki-exports",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	require.NoError(t, client.EnsureBucket(ctx))
	require.NoError(t, client.EnsureBucket(ctx), "second call finds the bucket")

	body := []byte(`{"articles":[]}`)
	require.NoError(t, client.PutObject(ctx, Object{
		Key:         "exports/test.json",
		ContentType: "application/json",
		Body:        body,
		Metadata:    map[string]string{"articles": "0"},
	}))

	meta, err := client.HeadObject(ctx, "exports/test.json")
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), meta.ContentLength)
	assert.Equal(t, "application/json", meta.ContentType)
	assert.Equal(t, "0", meta.Metadata["articles"])

	_, err = client.HeadObject(ctx, "exports/missing.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	listed, err := client.ListObjects(ctx, "exports/")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "exports/test.json", listed[0].Key)
	assert.Equal(t, "s3://techwiki-exports/exports/test.json", client.URI(listed[0].Key))

	url, err := client.GenerateDownloadURL(ctx, "exports/test.json")
	require.NoError(t, err)
	assert.Contains(t, url, "exports/test.json")
}
