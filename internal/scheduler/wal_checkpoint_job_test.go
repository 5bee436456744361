package scheduler

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/marketclock/marketclock/internal/testing"
)

func TestWALCheckpointJob_Name(t *testing.T) {
	job := NewWALCheckpointJob(nil, "catalog")
	assert.Equal(t, "wal_checkpoint", job.Name())
}

func TestWALCheckpointJob_Run_NoDatabase(t *testing.T) {
	job := NewWALCheckpointJob(nil, "catalog")
	job.SetLogger(zerolog.New(nil).Level(zerolog.Disabled))

	assert.NoError(t, job.Run())
}

func TestWALCheckpointJob_Run(t *testing.T) {
	db, cleanup := testhelpers.NewTestDB(t, "catalog")
	defer cleanup()

	_, err := db.Conn().Exec(`INSERT INTO exchanges (id, slug, name, timezone) VALUES ('x', 'x', 'X', 'UTC')`)
	require.NoError(t, err)

	job := NewWALCheckpointJob(db.Conn(), db.Name())
	assert.NoError(t, job.Run())
}

func TestWALCheckpointJob_Run_ClosedDatabase(t *testing.T) {
	db, cleanup := testhelpers.NewTestDB(t, "catalog")
	conn := db.Conn()
	cleanup()

	job := NewWALCheckpointJob(conn, "catalog")
	err := job.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to checkpoint catalog (PASSIVE)")
}
