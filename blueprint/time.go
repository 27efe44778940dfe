package blueprint

import "time"

// epochTicks is the number of .NET 100ns ticks between DateTime.MinValue
// (0001-01-01) and the Unix epoch (1970-01-01): 62135596800 seconds.
const epochTicks = 62135596800 * 10000000

// ticksToTime converts a .NET DateTime.Ticks value to a UTC time.Time.
// The reference implementation converts through a local-timezone
// datetime.fromtimestamp; we use UTC instead so the conversion is
// deterministic independent of the host's timezone.
func ticksToTime(ticks int64) time.Time {
	diff := ticks - epochTicks
	sec := diff / 10000000
	nsec := (diff % 10000000) * 100
	return time.Unix(sec, nsec).UTC()
}

// timeToTicks is the inverse of ticksToTime, truncating to 100ns
// resolution.
func timeToTicks(t time.Time) int64 {
	u := t.UTC()
	return epochTicks + u.Unix()*10000000 + int64(u.Nanosecond())/100
}
