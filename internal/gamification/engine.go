// Package gamification tracks experience points, levels and the daily visit
// streak over a namespace's UserStats.
package gamification

import (
	"fmt"
	"time"

	"librismundis/internal/entities"
)

// XP awards for the events the library emits.
const (
	XPBookAdded  = 10
	XPBookFinish = 50
	XPWordAdded  = 5
	XPDailyVisit = 10
)

// MaxLevel is the level ceiling. XP keeps accumulating past it but no
// further level-ups fire.
const MaxLevel = 6

// levelThresholds maps a level to the total XP required to reach it.
var levelThresholds = map[int]int{
	1: 0,
	2: 100,  // Novice Reader
	3: 300,  // Bookworm
	4: 600,  // Scholar
	5: 1000, // Master Librarian
	6: 2000, // Grand Archmage
}

// ThresholdFor returns the total XP required to reach level. The second
// return is false for levels beyond the table, which are unreachable.
func ThresholdFor(level int) (int, bool) {
	threshold, ok := levelThresholds[level]
	return threshold, ok
}

// LevelTitle names a level for display.
func LevelTitle(level int) string {
	switch {
	case level >= 6:
		return "Grand Archmage"
	case level >= 5:
		return "Master Librarian"
	case level >= 4:
		return "Scholar"
	case level >= 3:
		return "Bookworm"
	case level >= 2:
		return "Novice Reader"
	default:
		return "Initiate"
	}
}

// Engine applies XP grants and streak updates to UserStats and reports the
// resulting events through a Notifier.
type Engine struct {
	notifier Notifier
}

func NewEngine(notifier Notifier) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Engine{notifier: notifier}
}

// GrantXP adds amount to the stats and advances the level by at most one
// step when the next threshold is crossed. A single grant never advances
// more than one level, even if it jumps two thresholds.
func (e *Engine) GrantXP(stats *entities.UserStats, amount int, reason string) {
	stats.XP += amount

	threshold, ok := ThresholdFor(stats.Level + 1)
	if ok && stats.XP >= threshold {
		stats.Level++
		e.notifier.Notify(Notification{
			Type:    TypeLevelUp,
			Message: fmt.Sprintf("Level up! You are now level %d (%s)", stats.Level, LevelTitle(stats.Level)),
		})
		return
	}

	e.notifier.Notify(Notification{
		Type:    TypeXPGained,
		Message: fmt.Sprintf("+%d XP: %s", amount, reason),
	})
}

// visitDate is the calendar-day granularity LastVisit is stored at.
const visitDate = "2006-01-02"

// CheckDailyStreak updates the consecutive-day counter. If the last visit
// was today nothing happens. A visit exactly yesterday extends the streak;
// any longer gap (or no prior visit) resets it to 1. When the date changed
// the daily visit bonus is granted. Returns whether stats were modified.
//
// Runs once per session activation, on load. Not on every request.
func (e *Engine) CheckDailyStreak(stats *entities.UserStats, now time.Time) bool {
	today := now.Format(visitDate)
	if stats.LastVisit == today {
		return false
	}

	yesterday := now.AddDate(0, 0, -1).Format(visitDate)
	if stats.LastVisit == yesterday {
		stats.Streak++
	} else {
		stats.Streak = 1
	}

	stats.LastVisit = today
	e.GrantXP(stats, XPDailyVisit, "Daily visit")
	return true
}

// LevelProgress reports how far stats sit between the current level's
// threshold and the next one, as a 0-100 percentage. At the ceiling the
// next threshold is extrapolated so the bar stays meaningful.
func LevelProgress(stats entities.UserStats) (nextThreshold int, percent float64) {
	current, _ := ThresholdFor(stats.Level)
	next, ok := ThresholdFor(stats.Level + 1)
	if !ok {
		next = current + 1000
	}

	percent = float64(stats.XP-current) / float64(next-current) * 100
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return next, percent
}
