// Package config resolves where the CLI finds its catalog and how it logs.
//
// The catalog root comes from, in order: the --catalog flag, the
// GAIA2READ_CATALOG environment variable (after .env files are loaded),
// ~/.gaia2readrc, and finally the working directory.
package config

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jkim117/gaia2read"
	"github.com/jkim117/gaia2read/blobstore"
	miniostore "github.com/jkim117/gaia2read/blobstore/minio"
	s3store "github.com/jkim117/gaia2read/blobstore/s3"
)

// EnvCatalog names the catalog root environment variable.
const EnvCatalog = "GAIA2READ_CATALOG"

// RCFile is the per-user config file, relative to the home directory.
const RCFile = ".gaia2readrc"

// Source says where a resolved root came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceRC      Source = "rc"
	SourceDefault Source = "default"
)

// LoadEnv loads .env style files into the environment. Missing files are
// skipped; variables already set are kept.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ResolveRoot returns the catalog root and where it came from.
func ResolveRoot(flagValue string) (string, Source) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, SourceFlag
	}
	if v := strings.TrimSpace(os.Getenv(EnvCatalog)); v != "" {
		return v, SourceEnv
	}
	if home, err := os.UserHomeDir(); err == nil {
		if v, err := readRC(filepath.Join(home, RCFile)); err == nil && v != "" {
			return v, SourceRC
		}
	}
	return "./", SourceDefault
}

// readRC accepts either a KEY=VALUE file holding GAIA2READ_CATALOG or a
// file whose first non-comment line is the root itself.
func readRC(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if env, err := godotenv.Unmarshal(string(data)); err == nil {
		if v := strings.TrimSpace(env[EnvCatalog]); v != "" {
			return v, nil
		}
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, "=") {
			return "", nil
		}
		return line, nil
	}
	return "", sc.Err()
}

// Kind is the storage backend of a Location.
type Kind int

const (
	KindLocal Kind = iota
	KindS3
	KindMinIO
)

// Location is a parsed catalog root.
type Location struct {
	Kind Kind
	// Path is the directory of a local catalog.
	Path string
	// Endpoint is the MinIO host[:port].
	Endpoint string
	Bucket   string
	Prefix   string
}

func (l Location) String() string {
	switch l.Kind {
	case KindS3:
		return "s3://" + l.Bucket + "/" + l.Prefix
	case KindMinIO:
		return "minio://" + l.Endpoint + "/" + l.Bucket + "/" + l.Prefix
	default:
		return l.Path
	}
}

// ParseLocation parses s3://bucket/prefix, minio://endpoint/bucket/prefix
// or a local directory.
func ParseLocation(root string) (Location, error) {
	switch {
	case strings.HasPrefix(root, "s3://"):
		u, err := url.Parse(root)
		if err != nil {
			return Location{}, fmt.Errorf("parse %q: %w", root, err)
		}
		if u.Host == "" {
			return Location{}, fmt.Errorf("s3 root %q has no bucket", root)
		}
		return Location{Kind: KindS3, Bucket: u.Host, Prefix: strings.Trim(u.Path, "/")}, nil

	case strings.HasPrefix(root, "minio://"):
		u, err := url.Parse(root)
		if err != nil {
			return Location{}, fmt.Errorf("parse %q: %w", root, err)
		}
		bucket, prefix, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return Location{}, fmt.Errorf("minio root %q needs an endpoint and a bucket", root)
		}
		return Location{Kind: KindMinIO, Endpoint: u.Host, Bucket: bucket, Prefix: prefix}, nil
	}
	return Location{Kind: KindLocal, Path: root}, nil
}

// Store is what the CLI needs from a catalog store.
type Store interface {
	blobstore.WritableStore
	blobstore.Lister
}

// OpenStore connects to the backend of loc. S3 uses the AWS default
// credential chain; MinIO reads MINIO_ACCESS_KEY, MINIO_SECRET_KEY and
// MINIO_SECURE.
func OpenStore(ctx context.Context, loc Location) (Store, error) {
	switch loc.Kind {
	case KindS3:
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3store.NewStore(s3.NewFromConfig(cfg), loc.Bucket, loc.Prefix), nil

	case KindMinIO:
		secure := false
		if v := os.Getenv("MINIO_SECURE"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("MINIO_SECURE: %w", err)
			}
			secure = b
		}
		client, err := minio.New(loc.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: secure,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return miniostore.NewStore(client, loc.Bucket, loc.Prefix), nil

	case KindLocal:
		fi, err := os.Stat(loc.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", gaia2read.ErrFileUnavailable, err)
		}
		if !fi.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", gaia2read.ErrFileUnavailable, loc.Path)
		}
		return blobstore.NewLocalStore(loc.Path), nil
	}
	return nil, errors.New("unknown location kind")
}

// Remote reports whether reads from loc leave the machine.
func (l Location) Remote() bool {
	return l.Kind != KindLocal
}

// Logger builds the CLI logger from LOG_LEVEL (debug, info, warn, error)
// and LOG_FORMAT (json or text). verbose forces debug.
func Logger(verbose bool) *gaia2read.Logger {
	lvl := slog.LevelWarn
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		return gaia2read.NewJSONLogger(lvl)
	}
	return gaia2read.NewTextLogger(lvl)
}
