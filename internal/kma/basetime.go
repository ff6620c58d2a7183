package kma

import "time"

// KST is the civil time zone the KMA publishes in (UTC+9).
var KST = time.FixedZone("KST", 9*60*60)

// Short-term forecast bulletins are published at these hours of day (KST).
var baseHours = [...]int{2, 5, 8, 11, 14, 17, 20, 23}

// publishGrace is how long after the publication hour the bulletin is
// reliably available from the API.
const publishGrace = 10 * time.Minute

// BaseDateTime computes the reference stamp of the newest bulletin that
// should be available at the given instant: the latest publication hour at
// least publishGrace in the past, falling back to the previous day's 23:00
// bulletin between midnight and 02:10 KST. The returned strings are
// zero-padded YYYYMMDD and HHMM.
func BaseDateTime(now time.Time) (baseDate, baseTime string) {
	now = now.In(KST)

	for i := len(baseHours) - 1; i >= 0; i-- {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), baseHours[i], 0, 0, 0, KST)
		if !now.Before(candidate.Add(publishGrace)) {
			return candidate.Format("20060102"), candidate.Format("1504")
		}
	}

	previous := time.Date(now.Year(), now.Month(), now.Day(), 23, 0, 0, 0, KST).AddDate(0, 0, -1)
	return previous.Format("20060102"), previous.Format("1504")
}
