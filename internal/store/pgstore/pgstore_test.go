package pgstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store/storetest"
)

// Set TEST_DATABASE_URL to a disposable database to run these.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	s, err := Open(t.Context(), dsn, Options{MaxConns: 4})
	require.NoError(t, err)
	defer s.Close()

	storetest.Reset(t, s)
	storetest.Run(t, s)
}
