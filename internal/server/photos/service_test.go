package photos

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/foodshare/foodshare/internal/server/config"
)

func testSvc() *Service {
	return NewService(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "listings",
	})
}

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})
}

func stubClient(t *testing.T) {
	t.Helper()
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
}

func TestRandomStorageKey(t *testing.T) {
	k1 := RandomStorageKey()
	k2 := RandomStorageKey()
	if !strings.HasPrefix(k1, "listings/") {
		t.Fatalf("unexpected key prefix: %q", k1)
	}
	if len(strings.Split(k1, "/")) != 5 {
		t.Fatalf("expected listings/yyyy/m/d/uuid, got %q", k1)
	}
	if k1 == k2 {
		t.Fatalf("keys must be unique, got %q twice", k1)
	}
}

func Test_getPresignClient_AppliesConfig(t *testing.T) {
	svc := testSvc()
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	var capturedBaseEndpoint string
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil {
			t.Fatalf("BaseEndpoint not set")
		}
		capturedBaseEndpoint = *opts.BaseEndpoint
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	pc, err := svc.getPresignClient()
	if err != nil {
		t.Fatalf("getPresignClient err: %v", err)
	}
	if pc == nil {
		t.Fatalf("nil presign client")
	}
	if capturedBaseEndpoint != "http://127.0.0.1:9000" {
		t.Fatalf("BaseEndpoint mismatch: %q", capturedBaseEndpoint)
	}

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	if _, err := svc.getPresignClient(); err == nil || err.Error() != "load-fail" {
		t.Fatalf("expected load-fail, got %v", err)
	}
}

func TestPresignedPutURL(t *testing.T) {
	svc := testSvc()
	restoreSeams(t)
	stubClient(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if *in.Bucket != "listings" {
			t.Fatalf("bucket mismatch: %q", *in.Bucket)
		}
		return &v4.PresignedHTTPRequest{URL: "http://minio/put/" + *in.Key}, nil
	}

	key, url, err := svc.PresignedPutURL(context.Background())
	if err != nil {
		t.Fatalf("PresignedPutURL err: %v", err)
	}
	if !strings.HasPrefix(key, "listings/") {
		t.Fatalf("unexpected key: %q", key)
	}
	if url != "http://minio/put/"+key {
		t.Fatalf("unexpected url: %q", url)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-put-fail")
	}
	if _, _, err := svc.PresignedPutURL(context.Background()); err == nil || err.Error() != "presign-put-fail" {
		t.Fatalf("want presign-put-fail, got %v", err)
	}
}

func TestPresignedGetURL(t *testing.T) {
	svc := testSvc()
	restoreSeams(t)
	stubClient(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://minio/get/" + *in.Key}, nil
	}

	url, err := svc.PresignedGetURL(context.Background(), "listings/2026/8/31/abc")
	if err != nil {
		t.Fatalf("PresignedGetURL err: %v", err)
	}
	if url != "http://minio/get/listings/2026/8/31/abc" {
		t.Fatalf("unexpected url: %q", url)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-get-fail")
	}
	if _, err := svc.PresignedGetURL(context.Background(), "k"); err == nil || err.Error() != "presign-get-fail" {
		t.Fatalf("want presign-get-fail, got %v", err)
	}
}
