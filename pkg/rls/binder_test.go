package rls_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/grantfox/tenantcore/pkg/rls"
)

func TestBinder_FailsClosedWithoutContext(t *testing.T) {
	t.Parallel()

	// No pool needed: the binder must refuse before touching storage.
	binder := rls.NewBinder(nil)

	err := binder.Do(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		t.Fatal("unit of work must not run without a bound context")
		return nil
	})
	assert.ErrorIs(t, err, rls.ErrNoContextBound)
}
