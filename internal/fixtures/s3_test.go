package fixtures_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dom/xwing-campaign/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves objects from memory and pages listings two keys at a time.
type fakeS3 struct {
	bucket  string
	objects map[string]string
	keys    []string
}

func newFakeS3(bucket string, objects map[string]string, keys ...string) *fakeS3 {
	return &fakeS3{bucket: bucket, objects: objects, keys: keys}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if aws.ToString(in.Bucket) != f.bucket {
		return nil, errors.New("no such bucket")
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(body))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var matching []string
	for _, k := range f.keys {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			matching = append(matching, k)
		}
	}

	start := 0
	if in.ContinuationToken != nil {
		for i, k := range matching {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := start + 2
	out := &s3.ListObjectsV2Output{}
	if end < len(matching) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(matching[end])
	} else {
		end = len(matching)
		out.IsTruncated = aws.Bool(false)
	}
	for _, k := range matching[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestS3Source(t *testing.T) {
	ctx := context.Background()
	keys := []string{
		"fixtures/v1/ships.json",
		"fixtures/v1/upgrades/astromech.json",
		"fixtures/v1/upgrades/crew-rebel.json",
		"fixtures/v1/upgrades/elite.json",
		"fixtures/v1/upgrades/notes.txt",
		"fixtures/v1/upgrades/old/torpedo.json",
	}
	client := newFakeS3("xwing", map[string]string{"fixtures/v1/ships.json": `[]`}, keys...)
	src := fixtures.NewS3SourceWithClient(client, "xwing", "/fixtures/v1/")

	data, err := src.ReadFile(ctx, "ships.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = src.ReadFile(ctx, "missions.json")
	assert.Error(t, err)

	names, err := src.List(ctx, "upgrades")
	require.NoError(t, err)
	assert.Equal(t, []string{"upgrades/astromech.json", "upgrades/crew-rebel.json", "upgrades/elite.json"}, names)
}

func TestS3Source_LoadsFixtures(t *testing.T) {
	objects := map[string]string{
		"ships.json":              `[{"displayName": "X-Wing", "startingShip": true}]`,
		"missions.json":           `[{"displayName": "Local Trouble", "startingMission": true}]`,
		"upgrades/astromech.json": `[{"displayName": "R5-K6", "cost": 2}]`,
	}
	keys := make([]string, 0, len(objects))
	for k := range objects {
		keys = append(keys, k)
	}
	repos := newRepos(t)

	loader := fixtures.NewLoader(fixtures.NewS3SourceWithClient(newFakeS3("xwing", objects, keys...), "xwing", ""), repos)
	counts, err := loader.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &fixtures.Counts{Ships: 1, Upgrades: 1, Missions: 1}, counts)
}
