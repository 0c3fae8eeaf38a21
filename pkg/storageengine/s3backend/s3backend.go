// Package s3backend implements storageengine.Engine against an S3 or
// S3-compatible bucket.
//
// Object storage has no directory entries of its own, so unlike localdisk,
// Delete here has nothing to prune: removing the object that a path maps
// to, and the objects keyed under it, is the entire operation. The key for a path is its string form with
// the leading slash stripped, optionally under a configured prefix — this
// mirrors the path layout directly in the bucket, the same "bucket mirrors
// the filesystem" design the teacher's filesystem content store documents.
package s3backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/marmos91/nsfs/internal/errs"
	"github.com/marmos91/nsfs/pkg/nspath"
	"github.com/marmos91/nsfs/pkg/storageengine"
)

// Engine roots every path at keys under bucket/prefix.
type Engine struct {
	client *s3.Client
	bucket string
	prefix string
}

// Config configures an Engine.
type Config struct {
	Client *s3.Client
	Bucket string
	Prefix string
}

// New creates an Engine from cfg.
func New(cfg Config) (*Engine, error) {
	if cfg.Client == nil {
		return nil, errs.New(errs.Argument, "s3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, errs.New(errs.Argument, "s3 bucket is required")
	}
	return &Engine{client: cfg.Client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (e *Engine) key(path nspath.Path) string {
	rel := strings.TrimPrefix(path.String(), "/")
	if e.prefix == "" {
		return rel
	}
	return e.prefix + "/" + rel
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &notFound)
}

func (e *Engine) Size(path nspath.Path) (int64, error) {
	out, err := e.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(e.key(path)),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, errs.Newf(errs.NotFound, path.String(), "file not found")
		}
		return 0, errs.Newf(errs.IO, path.String(), err.Error())
	}
	return aws.ToInt64(out.ContentLength), nil
}

func (e *Engine) Read(path nspath.Path, offset, length int64) ([]byte, error) {
	size, err := e.Size(path)
	if err != nil {
		return nil, err
	}
	if offset < 0 || length < 0 || offset+length > size {
		return nil, errs.Newf(errs.OutOfRange, path.String(), "read out of range")
	}
	if length == 0 {
		return []byte{}, nil
	}

	out, err := e.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(e.key(path)),
		Range:  aws.String(byteRange(offset, length)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errs.Newf(errs.NotFound, path.String(), "file not found")
		}
		return nil, errs.Newf(errs.IO, path.String(), err.Error())
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errs.Newf(errs.IO, path.String(), err.Error())
	}
	return data, nil
}

// Write implements random-access write via read-modify-write, since S3
// objects have no in-place write operation. Adequate for this engine's
// purpose as an alternate backend; a high-throughput deployment would use
// multipart uploads directly instead.
func (e *Engine) Write(path nspath.Path, offset int64, data []byte) error {
	size, err := e.Size(path)
	if err != nil {
		return err
	}
	if offset < 0 {
		return errs.Newf(errs.OutOfRange, path.String(), "negative offset")
	}

	newLen := offset + int64(len(data))
	if newLen < size {
		newLen = size
	}
	buf := make([]byte, newLen)
	if size > 0 {
		existing, err := e.Read(path, 0, size)
		if err != nil {
			return err
		}
		copy(buf, existing)
	}
	copy(buf[offset:], data)

	_, err = e.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(e.key(path)),
		Body:   bytes.NewReader(buf),
	})
	if err != nil {
		return errs.Newf(errs.IO, path.String(), err.Error())
	}
	return nil
}

func (e *Engine) Create(path nspath.Path) (bool, error) {
	if path.IsRoot() {
		return false, nil
	}
	if _, err := e.Size(path); err == nil {
		return false, nil
	}

	_, err := e.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(e.key(path)),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return false, nil
	}
	return true, nil
}

// Delete removes the object at path and the objects keyed under path + "/"
// that a single ListObjectsV2 call returns (one page, at most 1000 keys).
// Object storage keeps no directory entries, so there are no ancestors to
// prune here.
func (e *Engine) Delete(path nspath.Path) (bool, error) {
	if path.IsRoot() {
		return false, nil
	}
	prefix := e.key(path)
	out, err := e.client.ListObjectsV2(context.Background(), &s3.ListObjectsV2Input{
		Bucket: aws.String(e.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return false, nil
	}
	for _, obj := range out.Contents {
		if key := aws.ToString(obj.Key); key != prefix && !strings.HasPrefix(key, prefix+"/") {
			continue
		}
		if _, err := e.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
			Bucket: aws.String(e.bucket),
			Key:    obj.Key,
		}); err != nil {
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) Copy(path nspath.Path, source storageengine.Source) (bool, error) {
	if path.IsRoot() {
		return false, nil
	}
	size, err := source.Size(path)
	if err != nil {
		return false, err
	}
	data, err := source.Read(path, 0, size)
	if err != nil {
		return false, err
	}
	_, _ = e.Delete(path)

	_, err = e.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(e.key(path)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return false, errs.Newf(errs.IO, path.String(), err.Error())
	}
	return true, nil
}

func byteRange(offset, length int64) string {
	return fmt.Sprintf("bytes=%d-%d", offset, offset+length-1)
}
