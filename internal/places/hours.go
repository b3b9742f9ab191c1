package places

import "strings"

// WeeklyHours converts provider weekday lines such as "Monday: 9:00 AM – 5:00 PM"
// into a map keyed by weekday name. Lines without a separator are skipped.
func WeeklyHours(hours *OpeningHours) map[string]string {
	if hours == nil || len(hours.WeekdayText) == 0 {
		return nil
	}
	result := make(map[string]string, len(hours.WeekdayText))
	for _, line := range hours.WeekdayText {
		day, schedule, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		day = strings.TrimSpace(day)
		if day == "" {
			continue
		}
		result[day] = strings.TrimSpace(schedule)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
