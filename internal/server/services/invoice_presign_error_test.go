package services

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
)

func TestGetReceiptUploadURL_ConfigLoadError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errBoom{}
	}

	s, closeDB := newInvoiceService(t, &fakeInvoicesRepo{}, nil)
	defer closeDB()

	_, _, err := s.GetReceiptUploadURL(context.Background(), "inv-1")
	assert.ErrorIs(t, err, errBoom{})
}

func TestGetReceiptUploadURL_PresignError(t *testing.T) {
	stubPresign(t, "unused", "unused")

	origPut := presignPutObject
	t.Cleanup(func() { presignPutObject = origPut })
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errBoom{}
	}

	s, closeDB := newInvoiceService(t, &fakeInvoicesRepo{}, nil)
	defer closeDB()

	_, _, err := s.GetReceiptUploadURL(context.Background(), "inv-1")
	assert.ErrorIs(t, err, errBoom{})
}

func TestGetReceiptUploadURL_SaveKeyError(t *testing.T) {
	stubPresign(t, "http://signed/put", "")

	s, closeDB := newInvoiceService(t, &fakeInvoicesRepo{receiptErr: errBoom{}}, nil)
	defer closeDB()

	_, _, err := s.GetReceiptUploadURL(context.Background(), "inv-1")
	assert.ErrorContains(t, err, "error saving receipt key")
}

func TestGetReceiptDownloadURL_GetInvoiceError(t *testing.T) {
	s, closeDB := newInvoiceService(t, &fakeInvoicesRepo{getErr: errBoom{}}, nil)
	defer closeDB()

	_, err := s.GetReceiptDownloadURL(context.Background(), "inv-1")
	assert.ErrorContains(t, err, "error getting invoice")
}
