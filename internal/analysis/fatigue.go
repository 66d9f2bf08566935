package analysis

import (
	"fmt"
	"sort"
	"time"

	"runsight/internal/calendar"
	"runsight/internal/store"
)

const (
	fatigueRecentDays      = 14
	fatigueHardRatio       = 0.35
	fatigueStreakDays      = 3
	fatigueHighThreshold   = 55
	fatigueMediumThreshold = 30
)

// FatigueLevel is the aggregated fatigue band.
type FatigueLevel string

const (
	FatigueLow    FatigueLevel = "low"
	FatigueMedium FatigueLevel = "medium"
	FatigueHigh   FatigueLevel = "high"
)

// DisplayName returns the Spanish label.
func (l FatigueLevel) DisplayName() string {
	switch l {
	case FatigueHigh:
		return "Alta"
	case FatigueMedium:
		return "Moderada"
	default:
		return "Baja"
	}
}

// FatigueDiagnosis is an explainable fatigue assessment.
type FatigueDiagnosis struct {
	Level             FatigueLevel
	Causes            []string
	RecommendedAction string
}

// Fatigue scores accumulated fatigue over the last 14 days from five
// signals: consecutive training days, recent load against the all-time
// weekly median, the share of hard sessions, missing easy volume, and
// subjective reflections. 30 and 55 points mark medium and high.
func Fatigue(activities []store.Activity, profile *store.RunnerProfile, reflections []store.Reflection, now time.Time, cal *calendar.Calendar) FatigueDiagnosis {
	recentStart := cal.AddDays(now, -fatigueRecentDays)
	var recent []store.Activity
	for _, a := range activities {
		if !a.StartDate.Before(recentStart) {
			recent = append(recent, a)
		}
	}

	var causes []string
	score := 0

	// 1. Consecutive training days.
	sorted := make([]store.Activity, len(recent))
	copy(sorted, recent)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	maxConsecutive := 0
	currentConsecutive := 0
	var previousDay *time.Time
	for _, a := range sorted {
		day := cal.StartOfDay(a.StartDate)
		if previousDay != nil {
			diff := cal.DaysBetween(*previousDay, day)
			if diff == 0 {
				continue
			}
			if diff == 1 {
				currentConsecutive++
			} else {
				if currentConsecutive > maxConsecutive {
					maxConsecutive = currentConsecutive
				}
				currentConsecutive = 1
			}
		} else {
			currentConsecutive = 1
		}
		d := day
		previousDay = &d
	}
	if currentConsecutive > maxConsecutive {
		maxConsecutive = currentConsecutive
	}
	if maxConsecutive >= fatigueStreakDays {
		score += 25
		causes = append(causes, fmt.Sprintf("%d días seguidos entrenando", maxConsecutive))
	}

	// 2. Recent load vs the weekly median over the whole history.
	var recentLoad float64
	for _, a := range recent {
		recentLoad += float64(a.MovingTime) / 3600
	}
	weeklyLoads := make(map[int64]float64)
	for _, a := range activities {
		weeklyLoads[cal.StartOfWeek(a.StartDate).Unix()] += float64(a.MovingTime) / 3600
	}
	loads := make([]float64, 0, len(weeklyLoads))
	for _, l := range weeklyLoads {
		loads = append(loads, l)
	}
	baseline, ok := median(loads)
	if !ok {
		baseline = recentLoad / 2
	}
	if baseline > 0 && recentLoad > baseline*1.4 {
		score += 20
		causes = append(causes, "Carga reciente muy por encima de tu media")
	}

	// 3. Share of hard sessions. Without a profile every session
	// counts as hard.
	easyPaceMs := 0.0
	if profile != nil {
		easyPaceMs = profile.EasyPaceMs
	}
	hardCount := 0
	for _, a := range recent {
		if easyPaceMs > 0 {
			if a.AverageSpeed > easyPaceMs*1.08 {
				hardCount++
			}
		} else {
			hardCount++
		}
	}
	hardRatio := 0.0
	if len(recent) > 0 {
		hardRatio = float64(hardCount) / float64(len(recent))
	}
	if hardRatio > fatigueHardRatio {
		score += 20
		causes = append(causes, "Muchas sesiones exigentes recientes")
	}

	// 4. Missing easy volume.
	var easyTime, totalTime int
	for _, a := range recent {
		totalTime += a.MovingTime
		if easyPaceMs > 0 && a.AverageSpeed <= easyPaceMs*easySpeedFactor {
			easyTime += a.MovingTime
		}
	}
	easyRatio := 0.5
	if totalTime > 0 {
		easyRatio = float64(easyTime) / float64(totalTime)
	}
	if easyRatio < 0.5 && totalTime > 3600 {
		score += 15
		causes = append(causes, "Poco volumen fácil en los últimos días")
	}

	// 5. Subjective reflections.
	pushed := 0
	lowFeeling := 0
	for _, r := range reflections {
		if r.Date.After(now) && !cal.SameDay(r.Date, now) {
			continue
		}
		if r.PushedTooHard {
			pushed++
		}
		if r.FeelingScore <= 2 {
			lowFeeling++
		}
	}
	if pushed > 0 {
		score += 15
		causes = append(causes, "Has indicado que forzaste de más recientemente")
	}
	if lowFeeling > 0 {
		score += 10
		causes = append(causes, "Sensación baja en sesiones recientes")
	}

	var level FatigueLevel
	switch {
	case score >= fatigueHighThreshold:
		level = FatigueHigh
	case score >= fatigueMediumThreshold:
		level = FatigueMedium
	default:
		level = FatigueLow
	}

	var action string
	switch level {
	case FatigueHigh:
		action = "Descanso o solo rodaje muy suave. Evita sesiones duras hasta que baje la fatiga."
	case FatigueMedium:
		action = "Prioriza rodajes fáciles y evita acumular días seguidos sin descanso."
	default:
		action = "Mantén la progresión sin forzar. Incluye suficiente volumen fácil."
	}

	if len(causes) == 0 {
		causes = append(causes, "Sin señales claras de fatiga acumulada")
	}

	return FatigueDiagnosis{Level: level, Causes: causes, RecommendedAction: action}
}
