package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecord(t *testing.T) {
	c := NewCollector()

	c.Record(OpTransform, 100*time.Millisecond, false)
	c.Record(OpTransform, 300*time.Millisecond, true)
	c.Record(OpVaultRead, 10*time.Millisecond, false)

	snap := c.Snapshot()
	require.Contains(t, snap.Operations, OpTransform)

	tr := snap.Operations[OpTransform]
	assert.Equal(t, int64(2), tr.Count)
	assert.Equal(t, int64(1), tr.Errors)
	assert.Equal(t, int64(400), tr.TotalTimeMs)
	assert.Equal(t, float64(200), tr.AvgTimeMs)
	assert.Equal(t, int64(100), tr.MinTimeMs)
	assert.Equal(t, int64(300), tr.MaxTimeMs)

	assert.Equal(t, int64(1), snap.Operations[OpVaultRead].Count)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, float64(0))
}

func TestCollectorSnapshotSkipsEmpty(t *testing.T) {
	c := NewCollector()
	snap := c.Snapshot()
	assert.Empty(t, snap.Operations)
}

func TestCollectorConcurrentRecord(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Record(OpHubRequest, time.Millisecond, j%10 == 0)
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, int64(1000), snap.Operations[OpHubRequest].Count)
	assert.Equal(t, int64(100), snap.Operations[OpHubRequest].Errors)
}
