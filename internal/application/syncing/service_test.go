package syncing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksync/backend/internal/domain/syncing"
)

func activeMapping(warehouseID, locationID string) syncing.Mapping {
	return syncing.Mapping{
		WarehouseID: warehouseID,
		LocationID:  locationID,
		Active:      true,
	}
}

func stockFor(productID int64, sku string, balances map[string]int64) *syncing.ProductStock {
	stock := &syncing.ProductStock{ProductID: productID, SKU: sku}
	for warehouseID, quantity := range balances {
		stock.Deposits = append(stock.Deposits, syncing.WarehouseStock{
			WarehouseID: warehouseID,
			Quantity:    decimal.NewFromInt(quantity),
		})
	}
	return stock
}

// ---------------------------------------------------------------------------
// Full Sync
// ---------------------------------------------------------------------------

func TestService_RunFullSync(t *testing.T) {
	t.Run("visits every product times mapping pair exactly once", func(t *testing.T) {
		h := newHarness()
		h.mappings.mappings = []syncing.Mapping{
			activeMapping("w1", "loc-1"),
			activeMapping("w2", "loc-2"),
		}
		h.source.pages = [][]syncing.Product{
			{{ID: 1, SKU: "A"}, {ID: 2, SKU: "B"}},
			{{ID: 3, SKU: "C"}},
		}
		h.source.stocks[1] = stockFor(1, "A", map[string]int64{"w1": 5, "w2": 3})
		h.source.stocks[2] = stockFor(2, "B", map[string]int64{"w1": 1})
		h.source.stocks[3] = stockFor(3, "C", map[string]int64{"w2": 9})
		h.sink.items["A"] = &syncing.RemoteItem{InventoryItemID: "item-a"}
		h.sink.items["B"] = &syncing.RemoteItem{InventoryItemID: "item-b"}
		// C is unknown on the storefront

		result, err := h.service.RunFullSync(context.Background())

		require.NoError(t, err)
		assert.True(t, result.Started)
		assert.Equal(t, 3, result.Products)

		pairs := result.Products * 2
		assert.Equal(t, pairs, result.Updated+result.NotFound+result.Skipped)
		// A@w1, A@w2, B@w1 push; B@w2 and C@w1 have no stock entry; C@w2 is unresolved
		assert.Equal(t, 3, result.Updated)
		assert.Equal(t, 1, result.NotFound)
		assert.Equal(t, 2, result.Skipped)
		assert.Equal(t, 0, result.Failed)

		require.Len(t, h.sink.setCalls, 3)
		for _, call := range h.sink.setCalls {
			assert.Equal(t, syncing.ReasonCorrection, call.reason)
		}
		assert.Len(t, h.recorder.byType(syncing.EventTypeFullSyncItem), pairs)
		assert.Len(t, h.recorder.byType(syncing.EventTypeFullSync), 1)
	})

	t.Run("no active mappings finishes as a no-op success", func(t *testing.T) {
		h := newHarness()
		h.mappings.mappings = []syncing.Mapping{
			{WarehouseID: "w1", LocationID: "loc-1", Active: false},
		}

		result, err := h.service.RunFullSync(context.Background())

		require.NoError(t, err)
		assert.True(t, result.Started)
		assert.Equal(t, 0, result.Products)
		assert.Equal(t, 0, h.source.listCalls)
		assert.Equal(t, syncing.RunStateCompleted, h.service.Status().State)
	})

	t.Run("one unit failure does not abort the run", func(t *testing.T) {
		h := newHarness()
		h.mappings.mappings = []syncing.Mapping{activeMapping("w1", "loc-1")}
		h.source.pages = [][]syncing.Product{
			{{ID: 1, SKU: "A"}, {ID: 2, SKU: "B"}},
		}
		h.source.stockErrs = map[int64]error{1: errors.New("erp timeout")}
		h.source.stocks[2] = stockFor(2, "B", map[string]int64{"w1": 4})
		h.sink.items["B"] = &syncing.RemoteItem{InventoryItemID: "item-b"}

		result, err := h.service.RunFullSync(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, syncing.RunStateCompleted, h.service.Status().State)
	})

	t.Run("catalog page failure fails the run", func(t *testing.T) {
		h := newHarness()
		h.mappings.mappings = []syncing.Mapping{activeMapping("w1", "loc-1")}
		h.source.listErr = errors.New("erp unreachable")

		result, err := h.service.RunFullSync(context.Background())

		require.Error(t, err)
		assert.True(t, result.Started)
		assert.Equal(t, syncing.RunStateFailed, h.service.Status().State)

		// The guard is released for the next run
		h.source.listErr = nil
		h.source.pages = [][]syncing.Product{{}}
		_, err = h.service.RunFullSync(context.Background())
		assert.NoError(t, err)
	})

	t.Run("second run while one is active is rejected as skipped", func(t *testing.T) {
		h := newHarness()
		h.mappings.mappings = []syncing.Mapping{activeMapping("w1", "loc-1")}
		h.source.pages = [][]syncing.Product{{}}
		h.source.listGate = make(chan struct{})

		firstDone := make(chan *syncing.FullSyncResult, 1)
		go func() {
			result, _ := h.service.RunFullSync(context.Background())
			firstDone <- result
		}()

		require.Eventually(t, func() bool {
			return h.service.Status().State == syncing.RunStateRunning
		}, time.Second, time.Millisecond)

		second, err := h.service.RunFullSync(context.Background())
		require.NoError(t, err)
		assert.False(t, second.Started)
		assert.Equal(t, syncing.SkipAlreadyRunning, second.SkipReason)

		close(h.source.listGate)
		first := <-firstDone
		assert.True(t, first.Started)
		assert.Equal(t, syncing.RunStateCompleted, h.service.Status().State)
	})
}

func TestService_Status(t *testing.T) {
	h := newHarness()
	assert.Equal(t, syncing.RunStateIdle, h.service.Status().State)
	assert.Nil(t, h.service.Status().LastResult)

	h.source.pages = [][]syncing.Product{{}}
	h.mappings.mappings = []syncing.Mapping{activeMapping("w1", "loc-1")}
	_, err := h.service.RunFullSync(context.Background())
	require.NoError(t, err)

	status := h.service.Status()
	assert.Equal(t, syncing.RunStateCompleted, status.State)
	require.NotNil(t, status.LastResult)
	require.NotNil(t, status.LastRunAt)
}

// ---------------------------------------------------------------------------
// Interval settings
// ---------------------------------------------------------------------------

func TestService_SyncInterval(t *testing.T) {
	t.Run("falls back to the default", func(t *testing.T) {
		h := newHarness()
		assert.Equal(t, time.Duration(syncing.DefaultSyncIntervalMinutes)*time.Minute, h.service.SyncInterval(context.Background()))
	})

	t.Run("reads the stored setting", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.service.SetSyncIntervalMinutes(context.Background(), 45))
		assert.Equal(t, 45*time.Minute, h.service.SyncInterval(context.Background()))
		assert.Equal(t, 45, h.service.SyncIntervalMinutes(context.Background()))
	})

	t.Run("rejects a non-positive interval", func(t *testing.T) {
		h := newHarness()
		assert.Error(t, h.service.SetSyncIntervalMinutes(context.Background(), 0))
		assert.Error(t, h.service.SetSyncIntervalMinutes(context.Background(), -5))
	})

	t.Run("ignores an unparsable stored value", func(t *testing.T) {
		h := newHarness()
		h.settings.values[syncing.SettingSyncIntervalMinutes] = "soon"
		assert.Equal(t, time.Duration(syncing.DefaultSyncIntervalMinutes)*time.Minute, h.service.SyncInterval(context.Background()))
	})
}

// ---------------------------------------------------------------------------
// Admin surface
// ---------------------------------------------------------------------------

func TestService_MappingManagement(t *testing.T) {
	h := newHarness()

	mapping, err := syncing.NewMapping("w1", "Main", "loc-1", "Store", true)
	require.NoError(t, err)
	require.NoError(t, h.service.UpsertMapping(context.Background(), mapping))

	mappings, err := h.service.ListMappings(context.Background())
	require.NoError(t, err)
	assert.Len(t, mappings, 1)

	require.NoError(t, h.service.RemoveMapping(context.Background(), "w1"))
	mappings, err = h.service.ListMappings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mappings)

	assert.ErrorIs(t, h.service.RemoveMapping(context.Background(), ""), syncing.ErrMappingInvalidWarehouseID)

	// Removing an absent mapping is idempotent
	assert.NoError(t, h.service.RemoveMapping(context.Background(), "ghost"))
}
