package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/hitrelay/packages/core/config"
	"github.com/abdul-hamid-achik/hitrelay/packages/execlog"
	"github.com/abdul-hamid-achik/hitrelay/packages/store"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_Memory(t *testing.T) {
	c := config.DefaultConfig()
	c.Database = store.MemoryDatabase

	b, err := openBackend(c)
	require.NoError(t, err)
	defer b.Close()

	rec := execlog.NewRecorder(b.store).RecordSingle(context.Background(), execlog.SingleExecution{
		ExecutionID:    "exec-mem",
		Method:         "GET",
		URL:            "http://api.test/",
		ResponseStatus: 200,
	})
	require.NotNil(t, rec)

	records, err := execlog.History(context.Background(), b.reader, "exec-mem")
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, b.memory.Len(execlog.TableName))
}

func TestOpenSQLite_RejectsMemory(t *testing.T) {
	c := config.DefaultConfig()
	c.Database = store.MemoryDatabase

	_, err := openSQLite(c)
	assert.Error(t, err)
}

func TestHistoryCommand(t *testing.T) {
	cfg = config.DefaultConfig()
	cfg.Database = "sqlite://" + filepath.Join(t.TempDir(), "history.db")

	b, err := openBackend(cfg)
	require.NoError(t, err)
	execlog.NewRecorder(b.store).RecordSingle(context.Background(), execlog.SingleExecution{
		ExecutionID:    "exec-h",
		Method:         "GET",
		URL:            "http://api.test/items",
		ResponseStatus: 404,
	})
	b.Close()

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)

	require.NoError(t, historyCommand(c, []string{"exec-h"}))
	assert.Contains(t, out.String(), "completed")
	assert.Contains(t, out.String(), "404")
	assert.Contains(t, out.String(), "http://api.test/items")

	assert.Error(t, historyCommand(c, []string{"missing"}))
}
