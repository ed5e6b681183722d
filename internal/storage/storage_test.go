package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	url, err := store.Put(context.Background(), "players/abc.png", "image/png", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "/uploads/players/abc.png" {
		t.Fatalf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "players", "abc.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads/")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for _, key := range []string{"../escape.png", "/abs.png", "players/../../x.png", ""} {
		if _, err := store.Put(context.Background(), key, "image/png", strings.NewReader("x"), 1); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestPlayerPhotoKey(t *testing.T) {
	key := PlayerPhotoKey("image/jpeg; charset=binary")
	if !strings.HasPrefix(key, "players/") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("unexpected key %q", key)
	}
	if PlayerPhotoKey("image/jpeg") == key {
		t.Fatal("keys must be unique")
	}
}

func TestIsAllowedImage(t *testing.T) {
	if !IsAllowedImage("IMAGE/PNG") {
		t.Fatal("expected png to be allowed")
	}
	if IsAllowedImage("text/html") {
		t.Fatal("expected html to be rejected")
	}
}

type fakeS3 struct {
	input   *s3.PutObjectInput
	deleted []string
	err     error
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *params.Bucket+"/"+*params.Key)
	return &s3.DeleteObjectOutput{}, f.err
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		_, _ = io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestS3StorePut(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "arena-photos", publicBaseURL: "https://cdn.example.com"}

	url, err := store.Put(context.Background(), "players/p.webp", "image/webp", strings.NewReader("webp"), 4)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "https://cdn.example.com/players/p.webp" {
		t.Fatalf("unexpected url %q", url)
	}
	if *fake.input.Bucket != "arena-photos" || *fake.input.Key != "players/p.webp" || *fake.input.ContentType != "image/webp" {
		t.Fatalf("unexpected put input: %+v", fake.input)
	}
	if fake.input.ContentLength == nil || *fake.input.ContentLength != 4 {
		t.Fatal("expected content length to be forwarded")
	}
}

func TestS3StorePutError(t *testing.T) {
	store := &S3Store{client: &fakeS3{err: errors.New("denied")}, bucket: "b", publicBaseURL: "https://x"}
	if _, err := store.Put(context.Background(), "players/p.png", "image/png", strings.NewReader("x"), 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestS3StoreDelete(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "arena-photos", publicBaseURL: "https://cdn.example.com"}

	if err := store.Delete(context.Background(), "players/p.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "arena-photos/players/p.png" {
		t.Fatalf("unexpected deletes %v", fake.deleted)
	}
	if err := store.Delete(context.Background(), "../etc"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestLocalStoreDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads/")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Put(ctx, "players/a.png", "image/png", strings.NewReader("png"), 3); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "players/a.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "players", "a.png")); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err %v", err)
	}
	if err := store.Delete(ctx, "players/a.png"); err != nil {
		t.Fatalf("deleting a missing key should succeed: %v", err)
	}
}
