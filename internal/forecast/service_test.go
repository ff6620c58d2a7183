package forecast_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiwonseo/kma-dashboard/internal/forecast"
	"github.com/jiwonseo/kma-dashboard/internal/kma"
	"github.com/jiwonseo/kma-dashboard/internal/store"
)

type fakeFetcher struct {
	bulletin kma.Bulletin
	err      error
	calls    int
}

func (f *fakeFetcher) FetchBulletin(ctx context.Context, nx, ny int) (kma.Bulletin, error) {
	f.calls++
	if f.err != nil {
		return kma.Bulletin{}, f.err
	}
	return f.bulletin, nil
}

func seedRecords(t *testing.T, s forecast.Store, times map[string]map[string]string) {
	t.Helper()
	var records []forecast.Record
	for stamp, weather := range times {
		for category, value := range weather {
			records = append(records, forecast.Record{
				BaseDate: "20240115",
				BaseTime: "0800",
				FcstDate: stamp[:8],
				FcstTime: stamp[8:],
				Nx:       55,
				Ny:       127,
				Category: category,
				Value:    value,
			})
		}
	}
	require.NoError(t, s.UpsertBulletin(context.Background(), records))
}

func TestLatestForecastDecodesPoint(t *testing.T) {
	memStore := store.NewMemoryStore()
	seedRecords(t, memStore, map[string]map[string]string{
		"202401151400": {
			"TMP": "3.0", "REH": "75", "PCP": "1mm 미만", "VEC": "270",
			"WSD": "2.4", "SKY": "3", "PTY": "1", "POP": "60",
		},
	})

	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 13, 30, 0, 0, kma.KST))
	svc := forecast.NewService(memStore, nil, clock, 55, 127)

	snapshot, err := svc.LatestForecast(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "20240115", snapshot.BaseDate)
	assert.Equal(t, "0800", snapshot.BaseTime)
	require.Len(t, snapshot.Points, 1)

	p := snapshot.Points[0]
	assert.Equal(t, 3.0, p.TemperatureC)
	assert.Equal(t, 75.0, p.HumidityPct)
	assert.Equal(t, 0.0, p.PrecipitationMM) // trace sentinel decodes to default
	assert.Equal(t, 270.0, p.WindDirectionDeg)
	assert.Equal(t, 2.4, p.WindSpeedMS)
	assert.Equal(t, "구름많음", p.SkyCondition)
	assert.Equal(t, 3, p.SkyConditionCode)
	assert.Equal(t, "비", p.PrecipitationType)
	assert.Equal(t, 1, p.PrecipitationTypeCode)
	assert.Equal(t, 60, p.PrecipitationProbability)
}

func TestLatestForecastForwardFilterAndHourDedup(t *testing.T) {
	memStore := store.NewMemoryStore()
	seedRecords(t, memStore, map[string]map[string]string{
		"202401151200": {"TMP": "1"},
		"202401151300": {"TMP": "2", "SKY": "1"},
		"202401151400": {"TMP": "3"},
	})

	// 13:30 KST: 12:00 and 13:00 are in the past, only 14:00 survives.
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 13, 30, 0, 0, kma.KST))
	svc := forecast.NewService(memStore, nil, clock, 55, 127)

	snapshot, err := svc.LatestForecast(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Points, 1)
	assert.Equal(t, "1400", snapshot.Points[0].ForecastTime)
}

func TestLatestForecastCapAtTen(t *testing.T) {
	memStore := store.NewMemoryStore()
	times := make(map[string]map[string]string)
	for h := 0; h < 24; h++ {
		times[fmt.Sprintf("20240116%02d00", h)] = map[string]string{"TMP": fmt.Sprintf("%d", h)}
	}
	seedRecords(t, memStore, times)

	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 23, 0, 0, 0, kma.KST))
	svc := forecast.NewService(memStore, nil, clock, 55, 127)

	snapshot, err := svc.LatestForecast(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Points, 10)

	// The earliest ten, ascending.
	for i, p := range snapshot.Points {
		assert.Equal(t, fmt.Sprintf("%02d00", i), p.ForecastTime)
	}
}

func TestLatestForecastCrossesMidnight(t *testing.T) {
	memStore := store.NewMemoryStore()
	seedRecords(t, memStore, map[string]map[string]string{
		"202401152300": {"TMP": "1"},
		"202401160000": {"TMP": "2"},
		"202401160100": {"TMP": "3"},
	})

	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 22, 30, 0, 0, kma.KST))
	svc := forecast.NewService(memStore, nil, clock, 55, 127)

	snapshot, err := svc.LatestForecast(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Points, 3)
	assert.Equal(t, "20240115", snapshot.Points[0].ForecastDate)
	assert.Equal(t, "20240116", snapshot.Points[1].ForecastDate)
	assert.True(t, snapshot.Points[1].Timestamp.Before(snapshot.Points[2].Timestamp))
}

func TestLatestForecastNoData(t *testing.T) {
	svc := forecast.NewService(store.NewMemoryStore(), nil, clockwork.NewRealClock(), 55, 127)

	_, err := svc.LatestForecast(context.Background())
	assert.ErrorIs(t, err, forecast.ErrNoBulletin)
}

func TestRunRefreshCycleStoresNormalizedRecords(t *testing.T) {
	memStore := store.NewMemoryStore()
	fetcher := &fakeFetcher{bulletin: kma.Bulletin{
		BaseDate: "20240115",
		BaseTime: "0800",
		Nx:       55,
		Ny:       127,
		Hours: []kma.Hour{
			{Date: "20240115", Time: "1400", Weather: map[string]string{
				"TMP": "3.0",
				"SKY": "3.0", // stored as "3"
				"PTY": "1",
			}},
		},
	}}

	svc := forecast.NewService(memStore, fetcher, clockwork.NewRealClock(), 55, 127)
	require.NoError(t, svc.RunRefreshCycle(context.Background()))
	assert.Equal(t, 1, fetcher.calls)

	rows, err := memStore.LatestBulletin(context.Background(), 55, 127)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	values := make(map[string]string)
	for _, row := range rows {
		values[row.Category] = row.Value
	}
	assert.Equal(t, "3.0", values["TMP"])
	assert.Equal(t, "3", values["SKY"])
	assert.Equal(t, "1", values["PTY"])
}

func TestRunRefreshCycleFetchFailureWritesNothing(t *testing.T) {
	memStore := store.NewMemoryStore()
	fetcher := &fakeFetcher{err: &kma.UpstreamError{Kind: kma.KindUnavailable, Message: "boom"}}

	svc := forecast.NewService(memStore, fetcher, clockwork.NewRealClock(), 55, 127)
	err := svc.RunRefreshCycle(context.Background())

	var ue *kma.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 0, memStore.Len())
}

func TestPruneOlderThan(t *testing.T) {
	memStore := store.NewMemoryStore()
	require.NoError(t, memStore.UpsertBulletin(context.Background(), []forecast.Record{
		{BaseDate: "20240101", BaseTime: "0200", FcstDate: "20240101", FcstTime: "0300", Nx: 55, Ny: 127, Category: "TMP", Value: "1"},
		{BaseDate: "20240114", BaseTime: "0200", FcstDate: "20240114", FcstTime: "0300", Nx: 55, Ny: 127, Category: "TMP", Value: "2"},
	}))

	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 12, 0, 0, 0, kma.KST))
	svc := forecast.NewService(memStore, nil, clock, 55, 127)

	pruned, err := svc.PruneOlderThan(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	// Retention disabled keeps everything.
	pruned, err = svc.PruneOlderThan(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, pruned)
	assert.Equal(t, 1, memStore.Len())
}
