package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeClient struct {
	putKeys     []string
	deletedKeys []string
	listPages   [][]string
	listCalls   int
}

func (f *fakeClient) PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
	f.putKeys = append(f.putKeys, aws.ToString(params.Key))
	return &s3aws.PutObjectOutput{}, nil
}

func (f *fakeClient) DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error) {
	f.deletedKeys = append(f.deletedKeys, aws.ToString(params.Key))
	return &s3aws.DeleteObjectOutput{}, nil
}

func (f *fakeClient) DeleteObjects(ctx context.Context, params *s3aws.DeleteObjectsInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectsOutput, error) {
	for _, obj := range params.Delete.Objects {
		f.deletedKeys = append(f.deletedKeys, aws.ToString(obj.Key))
	}
	return &s3aws.DeleteObjectsOutput{}, nil
}

func (f *fakeClient) ListObjectsV2(ctx context.Context, params *s3aws.ListObjectsV2Input, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error) {
	page := f.listPages[f.listCalls]
	f.listCalls++

	contents := make([]types.Object, 0, len(page))
	for _, key := range page {
		contents = append(contents, types.Object{Key: aws.String(key)})
	}
	truncated := f.listCalls < len(f.listPages)
	out := &s3aws.ListObjectsV2Output{
		Contents:    contents,
		IsTruncated: aws.Bool(truncated),
	}
	if truncated {
		out.NextContinuationToken = aws.String("next")
	}
	return out, nil
}

func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestS3Store_Save(t *testing.T) {
	client := &fakeClient{}
	store := NewWithClient(client, Config{Bucket: "catalog", Region: "us-east-1", BaseURL: "https://cdn.example.com"})

	asset, err := store.Save(context.Background(), uploadHeader(t, "Cover.PNG", "png-bytes"), "artists/a1")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if len(client.putKeys) != 1 {
		t.Fatalf("expected one put, got %d", len(client.putKeys))
	}
	key := client.putKeys[0]
	if !strings.HasPrefix(key, "artists/a1/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected object key: %s", key)
	}
	if asset.ID != key {
		t.Fatalf("asset id %q does not match key %q", asset.ID, key)
	}
	if asset.Path != "https://cdn.example.com/"+key {
		t.Fatalf("unexpected asset path: %s", asset.Path)
	}
}

func TestS3Store_Save_RejectsTraversal(t *testing.T) {
	store := NewWithClient(&fakeClient{}, Config{Bucket: "catalog", Region: "us-east-1"})

	if _, err := store.Save(context.Background(), uploadHeader(t, "x.png", "data"), "artists/../secrets"); err == nil {
		t.Fatal("expected error for folder traversal")
	}
}

func TestS3Store_DeleteFolder_Paginates(t *testing.T) {
	client := &fakeClient{listPages: [][]string{
		{"artists/a1/one.png", "artists/a1/two.png"},
		{"artists/a1/three.mp3"},
	}}
	store := NewWithClient(client, Config{Bucket: "catalog", Region: "us-east-1"})

	if err := store.DeleteFolder(context.Background(), "artists/a1"); err != nil {
		t.Fatalf("delete folder: %v", err)
	}

	if client.listCalls != 2 {
		t.Fatalf("expected 2 list pages, got %d", client.listCalls)
	}
	if len(client.deletedKeys) != 3 {
		t.Fatalf("expected 3 deletes, got %v", client.deletedKeys)
	}
}

func TestS3Store_DefaultBaseURL(t *testing.T) {
	store := NewWithClient(&fakeClient{}, Config{Bucket: "catalog", Region: "eu-west-1"})
	if store.baseURL != "https://catalog.s3.eu-west-1.amazonaws.com" {
		t.Fatalf("unexpected base url: %s", store.baseURL)
	}
}
