// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package s3

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/mulgadc/arenawire/types"
	"golang.org/x/net/http2"
)

var ErrNotInitialized = errors.New("S3 client not initialized")

type S3Config struct {
	Namespace string

	Region    string
	Bucket    string
	AccessKey string
	SecretKey string

	Host string

	S3Client *s3.S3
}

type S3Backend struct {
	config S3Config
}

type Backend struct {
	S3Backend
}

func New(config any) (backend *Backend) {
	return &Backend{S3Backend: S3Backend{config: config.(S3Config)}}
}

func (backend *Backend) Init() error {

	slog.Info("Initializing S3 backend", "host", backend.config.Host, "bucket", backend.config.Bucket, "namespace", backend.config.Namespace)

	// A custom TLSClientConfig disables the automatic HTTP/2 upgrade, so the
	// transport has to be configured explicitly below.
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
			ClientSessionCache: tls.NewLRUClientSessionCache(256),
			NextProtos:         []string{"h2", "http/1.1"},
		},

		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     120 * time.Second,

		ForceAttemptHTTP2: true,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		slog.Warn("Failed to configure HTTP/2, falling back to HTTP/1.1", "error", err)
	}

	client := &http.Client{
		Transport: tr,
		Timeout:   120 * time.Second,
	}

	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(backend.config.Host),
		S3ForcePathStyle: aws.Bool(true),
		Region:           aws.String(backend.config.Region),
		HTTPClient:       client,
		Credentials:      credentials.NewStaticCredentials(backend.config.AccessKey, backend.config.SecretKey, ""),
	})

	if err != nil {
		slog.Error("Error creating session", "error", err)
		return err
	}

	backend.config.S3Client = s3.New(sess)

	// Fail early on a wrong bucket or bad credentials
	_, err = backend.config.S3Client.ListObjectsV2(&s3.ListObjectsV2Input{
		Bucket:  aws.String(backend.config.Bucket),
		MaxKeys: aws.Int64(1),
	})

	if err != nil {
		slog.Error("Error listing objects", "error", err)
		return err
	}

	return nil
}

// notFound maps the SDK's missing-key errors onto types.ErrObjectNotFound.
func notFound(key string, err error) error {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return fmt.Errorf("%s: %w", key, types.ErrObjectNotFound)
		}
	}
	return err
}

func (backend *Backend) Read(ctx context.Context, fileType types.FileType, objectId uint64, offset uint32, length uint32) (data []byte, err error) {

	slog.Debug("[S3 READ] Reading object", "objectId", objectId, "offset", offset, "length", length)

	if backend.config.S3Client == nil {
		return nil, ErrNotInitialized
	}

	filename := types.GetFilePath(fileType, objectId, backend.config.Namespace)

	requestObject := &s3.GetObjectInput{
		Bucket: aws.String(backend.config.Bucket),
		Key:    aws.String(filename),
	}

	// length 0 reads the whole object
	if length > 0 {
		requestObject.Range = aws.String(fmt.Sprintf("bytes=%d-%d", offset, uint64(offset)+uint64(length)-1))
	}

	result, err := backend.config.S3Client.GetObjectWithContext(ctx, requestObject)
	if err != nil {
		return nil, notFound(filename, err)
	}
	defer result.Body.Close()

	return io.ReadAll(result.Body)
}

func (backend *Backend) Write(ctx context.Context, fileType types.FileType, objectId uint64, headers *[]byte, data *[]byte) (err error) {

	if backend.config.S3Client == nil {
		return ErrNotInitialized
	}

	filename := types.GetFilePath(fileType, objectId, backend.config.Namespace)

	var body []byte
	if headers != nil && len(*headers) > 0 {
		body = make([]byte, 0, len(*headers)+len(*data))
		body = append(body, *headers...)
		body = append(body, *data...)
	} else {
		body = *data
	}

	object := &s3.PutObjectInput{
		Bucket: aws.String(backend.config.Bucket),
		Key:    aws.String(filename),
		Body:   bytes.NewReader(body),
	}

	_, err = backend.config.S3Client.PutObjectWithContext(ctx, object)
	if err != nil {
		slog.Error("Error writing object", "key", filename, "error", err)
		return err
	}

	return nil
}

func (backend *Backend) Delete(ctx context.Context, fileType types.FileType, objectId uint64) error {
	if backend.config.S3Client == nil {
		return ErrNotInitialized
	}

	filename := types.GetFilePath(fileType, objectId, backend.config.Namespace)

	_, err := backend.config.S3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(backend.config.Bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		return notFound(filename, err)
	}
	return nil
}

func (backend *Backend) Sync() {
}

func (backend *Backend) GetNamespace() string {
	return backend.config.Namespace
}

func (backend *Backend) GetBackendType() string {
	return "s3"
}

func (backend *Backend) SetConfig(config any) {
	backend.config = config.(S3Config)
}

func (backend *Backend) GetHost() string {
	return backend.config.Host
}
