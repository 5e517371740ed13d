package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"hrportal/internal/config"
)

// ObjectStore 是业务层依赖的最小对象存储接口：CSV 数据集、简历文件和工资条 PDF 都经由它读写。
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	ReadObject(ctx context.Context, key string) ([]byte, error)
	OpenObject(ctx context.Context, key string) (io.ReadCloser, ObjectMeta, error)
	DeleteObject(ctx context.Context, key string) error
}

// Client 封装 MinIO 客户端。
type Client struct {
	internalClient *minio.Client
	publicClient   *minio.Client
	bucketName     string
}

var _ ObjectStore = (*Client)(nil)

// ObjectMeta 描述 Bucket 中对象的关键信息。
type ObjectMeta struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// NewClient 根据配置初始化 MinIO 客户端，并确保目标 Bucket 存在。
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	bucketLookup, err := parseBucketLookup(cfg.BucketLookup)
	if err != nil {
		return nil, err
	}

	internalClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init internal minio client: %w", err)
	}

	// 预签名链接要以浏览器可访问的地址签发，所以单独建一个 public client。
	publicURL, err := url.Parse(cfg.PublicEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse minio public endpoint: %w", err)
	}
	if publicURL.Host == "" {
		return nil, fmt.Errorf("invalid minio public endpoint, host missing")
	}
	publicClient, err := minio.New(publicURL.Host, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       publicURL.Scheme == "https",
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init public minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := internalClient.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if !cfg.AutoCreateBucket {
			return nil, fmt.Errorf("bucket %q does not exist (auto create disabled)", cfg.Bucket)
		}
		if err := internalClient.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
		slog.Default().Info("created minio bucket", slog.String("bucket", cfg.Bucket))
	}

	return &Client{
		internalClient: internalClient,
		publicClient:   publicClient,
		bucketName:     cfg.Bucket,
	}, nil
}

func parseBucketLookup(raw string) (minio.BucketLookupType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "auto":
		return minio.BucketLookupAuto, nil
	case "dns":
		return minio.BucketLookupDNS, nil
	case "path":
		return minio.BucketLookupPath, nil
	default:
		return minio.BucketLookupAuto, fmt.Errorf("invalid minio bucket lookup %q", raw)
	}
}

// Bucket 返回当前使用的 Bucket 名称。
func (c *Client) Bucket() string {
	return c.bucketName
}

// PutObject 整体写入一个对象，已存在时覆盖。
func (c *Client) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := c.internalClient.PutObject(ctx, c.bucketName, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// ReadObject 读取整个对象；对象不存在时返回 ErrObjectNotFound。
func (c *Client) ReadObject(ctx context.Context, key string) ([]byte, error) {
	rc, _, err := c.OpenObject(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		if IsNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("read object %q: %w", key, err)
	}
	return data, nil
}

// OpenObject 以流的方式打开对象，调用方负责 Close。
// minio 的 GetObject 惰性请求，这里先 Stat 一次以便尽早发现对象缺失。
func (c *Client) OpenObject(ctx context.Context, key string) (io.ReadCloser, ObjectMeta, error) {
	info, err := c.internalClient.StatObject(ctx, c.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		if IsNoSuchKey(err) {
			return nil, ObjectMeta{}, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, ObjectMeta{}, fmt.Errorf("stat object %q: %w", key, err)
	}
	obj, err := c.internalClient.GetObject(ctx, c.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectMeta{}, fmt.Errorf("get object %q: %w", key, err)
	}
	return obj, ObjectMeta{
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

// GeneratePresignedURL 生成对象的限时下载链接（以附件形式下载）。
func (c *Client) GeneratePresignedURL(ctx context.Context, key, downloadName string, duration time.Duration) (string, error) {
	var params url.Values
	if downloadName != "" {
		params = url.Values{}
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	}
	presigned, err := c.publicClient.PresignedGetObject(ctx, c.bucketName, key, duration, params)
	if err != nil {
		return "", fmt.Errorf("generate presigned url for %q: %w", key, err)
	}
	return presigned.String(), nil
}

// DeleteObject 删除指定对象。
// 若对象不存在会被视为成功（幂等）。
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if err := c.internalClient.RemoveObject(ctx, c.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		if IsNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}
