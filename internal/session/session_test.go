package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/fire_calls_analysis/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calls.csv")
	data := "Call Number,Call Type,Call Date,Delay\n1,Alarms,01/02/2018,6.0\n2,Alarms,01/03/2018,1.0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	return &config.Config{
		DataSource:     config.SourceCSV,
		DataPath:       path,
		CSVDelimiter:   ',',
		FilterYear:     2018,
		DelayThreshold: 5,
		ZipCodes:       []int{94102},
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return log
}

func TestOpen_CSVSource(t *testing.T) {
	ctx := context.Background()
	sess, err := Open(ctx, testConfig(t), testLogger())
	require.NoError(t, err)
	defer sess.Close()

	assert.NotEqual(t, uuid.Nil, sess.RunID())
	require.NoError(t, sess.Service().Prepare(ctx))

	result, err := sess.Service().Run(ctx, "common-call-types", sess.Params())
	require.NoError(t, err)
	assert.Equal(t, sess.RunID(), result.RunID)
	assert.Equal(t, [][]any{{"Alarms", 2}}, result.Rows)
}

func TestOpen_MissingFileFailsOnPrepare(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataPath = filepath.Join(t.TempDir(), "missing.csv")

	sess, err := Open(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	defer sess.Close()

	err = sess.Service().Prepare(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "missing.csv")
}

func TestOpen_BadRedisAddr(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := Open(context.Background(), cfg, testLogger())
	require.Error(t, err)
	assert.ErrorContains(t, err, "127.0.0.1:1")
}

func TestParams_CopiesZipCodes(t *testing.T) {
	cfg := testConfig(t)
	sess, err := Open(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	defer sess.Close()

	p := sess.Params()
	p.ZipCodes[0] = 1
	assert.Equal(t, 94102, cfg.ZipCodes[0])
	assert.Equal(t, 2018, p.Year)
	assert.Equal(t, 5.0, p.DelayThreshold)
}

func TestClose_Twice(t *testing.T) {
	sess, err := Open(context.Background(), testConfig(t), testLogger())
	require.NoError(t, err)

	sess.Close()
	assert.NotPanics(t, sess.Close)
}
