package resources

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 serves a fixed set of keys through the S3API subset.
type fakeS3 struct {
	objects map[string]string
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(params.Prefix)

	seen := map[string]bool{}
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}

	for key := range f.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if idx := strings.Index(rest, "/"); idx != -1 {
			cp := prefix + rest[:idx+1]
			if !seen[cp] {
				seen[cp] = true
				out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(cp)})
			}
		} else {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}

	return out, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3StoreList(t *testing.T) {
	store := NewS3Store(&fakeS3{objects: map[string]string{
		"site/index.xhtml":                     "<html/>",
		"site/WEB-INF/faces-views/foo.xhtml":   "<html/>",
		"site/WEB-INF/faces-views/sub/a.xhtml": "<html/>",
	}}, "bucket", "site/")

	got := store.List("/")
	want := []string{"/WEB-INF/", "/index.xhtml"}
	if len(got) != len(want) {
		t.Fatalf("List(/) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List(/)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	got = store.List("/WEB-INF/faces-views/")
	want = []string{"/WEB-INF/faces-views/foo.xhtml", "/WEB-INF/faces-views/sub/"}
	if len(got) != len(want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestS3StoreOpen(t *testing.T) {
	store := NewS3Store(&fakeS3{objects: map[string]string{
		"site/index.xhtml": "<html/>",
	}}, "bucket", "site/")

	r, err := store.Open("/index.xhtml")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "<html/>" {
		t.Errorf("content = %q, want %q", data, "<html/>")
	}
}
