package storage_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/service/storage"
)

func TestNew_RequiresBucket(t *testing.T) {
	_, err := storage.New(context.Background(), "")
	gt.Error(t, err)
}

func TestPut_WithRealBucket(t *testing.T) {
	bucket := os.Getenv("TEST_STORAGE_BUCKET")
	if bucket == "" {
		t.Skip("TEST_STORAGE_BUCKET not set")
	}

	ctx := context.Background()
	svc, err := storage.New(ctx, bucket, storage.WithPrefix("/eoms-test/"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { gt.NoError(t, svc.Close()) })

	name := fmt.Sprintf("dashboard-%d.json", time.Now().UnixNano())
	url, err := svc.Put(ctx, name, "application/json", []byte(`{"year":2025}`))
	gt.NoError(t, err).Required()
	gt.Value(t, url).Equal("gs://" + bucket + "/eoms-test/" + name)
}
