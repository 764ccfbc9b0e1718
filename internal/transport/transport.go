package transport

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"path"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
)

var (
	// ErrMissing indicates the remote file does not exist.
	ErrMissing = errors.New("remote file missing")

	// ErrUnavailable indicates the remote server cannot be reached or
	// refused the session. Fatal for the remote-comparison phase.
	ErrUnavailable = errors.New("remote unavailable")
)

// Transport is the remote file access contract consumed by the engine.
// Implementations serialize all operations on one connection; the engine
// calls them strictly sequentially.
type Transport interface {
	// Get returns the content of the remote file. Returns ErrMissing if
	// the file does not exist.
	Get(remotePath string) ([]byte, error)

	// Put uploads content to the remote path, creating parent directories
	// as needed.
	Put(remotePath string, data []byte) error

	// Size returns the remote file size in bytes. Returns ErrMissing if
	// the file does not exist.
	Size(remotePath string) (int64, error)

	// ModTime returns the remote file modification time, or the zero time
	// if the server cannot report one.
	ModTime(remotePath string) time.Time

	// Close terminates the session.
	Close() error
}

// Dialer opens a Transport session for a Config.
type Dialer interface {
	Dial(cfg *Config) (Transport, error)
}

// FTPDialer implements Dialer for FTP with explicit TLS.
type FTPDialer struct {
	// Timeout bounds the control-connection dial. Zero means no timeout.
	Timeout time.Duration
}

// NewFTPDialer creates an FTPDialer with a 30 second dial timeout.
func NewFTPDialer() *FTPDialer {
	return &FTPDialer{Timeout: 30 * time.Second}
}

// Dial connects and logs in. The data channel is TLS-protected unless the
// config opts out.
func (d *FTPDialer) Dial(cfg *Config) (Transport, error) {
	opts := []ftp.DialOption{}
	if d.Timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(d.Timeout))
	}
	if !cfg.Insecure {
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName:         cfg.Host,
			InsecureSkipVerify: cfg.SkipVerify,
		}))
	}

	conn, err := ftp.Dial(cfg.Addr(), opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, cfg.Addr(), err)
	}
	if err := conn.Login(cfg.User, cfg.Password); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("%w: login failed for %s: %v", ErrUnavailable, cfg.User, err)
	}
	return &ftpTransport{conn: conn}, nil
}

// ftpTransport adapts an ftp.ServerConn to the Transport contract.
type ftpTransport struct {
	conn *ftp.ServerConn
}

func (t *ftpTransport) Get(remotePath string) ([]byte, error) {
	resp, err := t.conn.Retr(remotePath)
	if err != nil {
		if isNotAvailable(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, remotePath)
		}
		return nil, fmt.Errorf("failed to retrieve %s: %w", remotePath, err)
	}
	defer func() {
		_ = resp.Close()
	}()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", remotePath, err)
	}
	return data, nil
}

func (t *ftpTransport) Put(remotePath string, data []byte) error {
	err := t.conn.Stor(remotePath, bytes.NewReader(data))
	if err != nil && isNotAvailable(err) {
		// Parent directory may not exist yet; create it and retry once
		t.makeDirs(path.Dir(remotePath))
		err = t.conn.Stor(remotePath, bytes.NewReader(data))
	}
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", remotePath, err)
	}
	return nil
}

// makeDirs creates each directory component best-effort; MKD on an existing
// directory fails and is ignored.
func (t *ftpTransport) makeDirs(dir string) {
	if dir == "/" || dir == "." || dir == "" {
		return
	}
	parts := strings.Split(strings.Trim(dir, "/"), "/")
	current := ""
	for _, p := range parts {
		current = current + "/" + p
		_ = t.conn.MakeDir(current)
	}
}

func (t *ftpTransport) Size(remotePath string) (int64, error) {
	size, err := t.conn.FileSize(remotePath)
	if err != nil {
		if isNotAvailable(err) {
			return 0, fmt.Errorf("%w: %s", ErrMissing, remotePath)
		}
		return 0, fmt.Errorf("failed to size %s: %w", remotePath, err)
	}
	return size, nil
}

func (t *ftpTransport) ModTime(remotePath string) time.Time {
	// MDTM is an extension; a server without it just yields no timestamp
	mtime, err := t.conn.GetTime(remotePath)
	if err != nil {
		return time.Time{}
	}
	return mtime
}

func (t *ftpTransport) Close() error {
	return t.conn.Quit()
}

// isNotAvailable reports whether err is a 550 "file unavailable" reply.
func isNotAvailable(err error) bool {
	var proto *textproto.Error
	if errors.As(err, &proto) {
		return proto.Code == ftp.StatusFileUnavailable
	}
	return false
}
