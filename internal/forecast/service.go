package forecast

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jiwonseo/kma-dashboard/internal/kma"
)

// maxPoints caps the reconstructed view at ten forward hours.
const maxPoints = 10

// Service orchestrates the refresh cycle (fetch then upsert) and the
// latest-bulletin reconstruction.
type Service struct {
	store   Store
	fetcher Fetcher
	clock   clockwork.Clock
	nx, ny  int
}

// NewService creates a Service for one fixed grid coordinate.
func NewService(store Store, fetcher Fetcher, clock clockwork.Clock, nx, ny int) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		store:   store,
		fetcher: fetcher,
		clock:   clock,
		nx:      nx,
		ny:      ny,
	}
}

// RunRefreshCycle fetches the newest bulletin and upserts its records.
// Fetch or store errors are returned to the caller; nothing is written
// when the fetch fails.
func (s *Service) RunRefreshCycle(ctx context.Context) error {
	bulletin, err := s.fetcher.FetchBulletin(ctx, s.nx, s.ny)
	if err != nil {
		return fmt.Errorf("fetch bulletin: %w", err)
	}

	records := flattenBulletin(bulletin, s.clock.Now().UTC())
	if err := s.store.UpsertBulletin(ctx, records); err != nil {
		return fmt.Errorf("store bulletin: %w", err)
	}

	log.Printf("forecast: stored bulletin base=%s %s records=%d",
		bulletin.BaseDate, bulletin.BaseTime, len(records))
	return nil
}

// flattenBulletin turns a bulletin's per-hour category maps back into flat
// store records. SKY and PTY values are normalized to their integer string
// form so the code maps key cleanly on read.
func flattenBulletin(b kma.Bulletin, recordedAt time.Time) []Record {
	var records []Record
	for _, hour := range b.Hours {
		for category, value := range hour.Weather {
			if category == kma.CategorySky || category == kma.CategoryPrecipType {
				value = fmt.Sprintf("%d", kma.DecodeInt(value, 0))
			}
			records = append(records, Record{
				BaseDate:   b.BaseDate,
				BaseTime:   b.BaseTime,
				FcstDate:   hour.Date,
				FcstTime:   hour.Time,
				Nx:         b.Nx,
				Ny:         b.Ny,
				Category:   category,
				Value:      value,
				RecordedAt: recordedAt,
			})
		}
	}
	return records
}

// LatestForecast reconstructs the decoded forward-looking view of the newest
// stored bulletin: grouped per hour, decoded, filtered to stamps at or after
// now, deduplicated to one point per calendar hour, capped at ten points.
// Returns ErrNoBulletin when the grid has no stored rows.
func (s *Service) LatestForecast(ctx context.Context) (Snapshot, error) {
	rows, err := s.store.LatestBulletin(ctx, s.nx, s.ny)
	if err != nil {
		return Snapshot{}, err
	}

	type hourGroup struct {
		date, tm string
		weather  map[string]string
	}

	byStamp := make(map[string]*hourGroup)
	for _, row := range rows {
		stamp := row.FcstDate + row.FcstTime
		group, ok := byStamp[stamp]
		if !ok {
			group = &hourGroup{date: row.FcstDate, tm: row.FcstTime, weather: make(map[string]string)}
			byStamp[stamp] = group
		}
		group.weather[row.Category] = row.Value
	}

	stamps := make([]string, 0, len(byStamp))
	for stamp := range byStamp {
		stamps = append(stamps, stamp)
	}
	sort.Strings(stamps)

	now := s.clock.Now().In(kma.KST)
	seenHours := make(map[string]struct{})
	points := make([]Point, 0, maxPoints)

	for _, stamp := range stamps {
		group := byStamp[stamp]

		ts, err := time.ParseInLocation("200601021504", stamp, kma.KST)
		if err != nil {
			log.Printf("forecast: skipping unparseable stamp %q: %v", stamp, err)
			continue
		}
		if ts.Before(now) {
			continue
		}
		hourKey := ts.Format("2006010215")
		if _, dup := seenHours[hourKey]; dup {
			continue
		}

		points = append(points, decodePoint(group.date, group.tm, ts, group.weather))
		seenHours[hourKey] = struct{}{}

		if len(points) >= maxPoints {
			break
		}
	}

	// Re-sort to guard against insertion-order drift.
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	return Snapshot{
		BaseDate: rows[0].BaseDate,
		BaseTime: rows[0].BaseTime,
		Nx:       s.nx,
		Ny:       s.ny,
		Points:   points,
	}, nil
}

// decodePoint assembles one Point from a forecast hour's raw category map.
// Malformed fields degrade to decoder defaults and never abort the read.
func decodePoint(date, tm string, ts time.Time, weather map[string]string) Point {
	skyCode := kma.DecodeInt(weather[kma.CategorySky], 0)
	ptyCode := kma.DecodeInt(weather[kma.CategoryPrecipType], 0)

	return Point{
		ForecastDate: date,
		ForecastTime: tm,
		Timestamp:    ts,

		TemperatureC:             kma.DecodeFloat(weather[kma.CategoryTemperature], 0),
		HumidityPct:              kma.DecodeFloat(weather[kma.CategoryHumidity], 0),
		PrecipitationMM:          kma.DecodeFloat(weather[kma.CategoryPrecipitation], 0),
		PrecipitationType:        kma.MapCode(kma.PtyMap, ptyCode),
		PrecipitationTypeCode:    ptyCode,
		SkyCondition:             kma.MapCode(kma.SkyMap, skyCode),
		SkyConditionCode:         skyCode,
		WindDirectionDeg:         kma.DecodeFloat(weather[kma.CategoryWindDirection], 0),
		WindSpeedMS:              kma.DecodeFloat(weather[kma.CategoryWindSpeed], 0),
		PrecipitationProbability: kma.DecodeInt(weather[kma.CategoryPrecipProb], 0),
	}
}

// PruneOlderThan deletes bulletins whose reference date is more than
// retentionDays in the past. A zero or negative retention keeps everything.
func (s *Service) PruneOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.clock.Now().In(kma.KST).AddDate(0, 0, -retentionDays).Format("20060102")
	return s.store.PruneBefore(ctx, cutoff)
}
