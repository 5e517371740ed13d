package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dutchcoders/go-clamd"
)

// ErrInfected 表示 clamd 判定文件包含恶意内容。
var ErrInfected = errors.New("malicious file detected")

// Scanner 扫描上传内容。
type Scanner interface {
	Scan(ctx context.Context, r io.Reader) error
}

// NewScanner 根据 clamd 地址返回扫描器；地址为空时跳过扫描。
func NewScanner(addr string) Scanner {
	if addr == "" {
		return nopScanner{}
	}
	return &ClamdScanner{client: clamd.NewClamd(addr)}
}

type nopScanner struct{}

func (nopScanner) Scan(context.Context, io.Reader) error { return nil }

// ClamdScanner 通过 clamd 的 INSTREAM 命令扫描数据流。
type ClamdScanner struct {
	client *clamd.Clamd
}

func (s *ClamdScanner) Scan(ctx context.Context, r io.Reader) error {
	abort := make(chan bool)
	defer close(abort)

	results, err := s.client.ScanStream(r, abort)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result, ok := <-results:
			if !ok {
				return nil
			}
			switch result.Status {
			case clamd.RES_OK:
			case clamd.RES_FOUND:
				return fmt.Errorf("%w: %s", ErrInfected, result.Description)
			default:
				return fmt.Errorf("scan failed: %s %s", result.Status, result.Description)
			}
		}
	}
}
