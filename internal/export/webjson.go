// Package export renders activities as the byte-identical JSON the
// companion web app produces: same key order, same number formatting,
// same indentation. Nothing here may go through encoding/json, whose
// key ordering and float rendering differ from the web output.
package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"runsight/internal/store"
)

// WebJSON renders one activity in the canonical web layout. Laps win
// over kilometer splits when the activity has more than one lap.
func WebJSON(a *store.Activity, laps []store.Lap, splits []store.Split) string {
	var lines []string
	lines = append(lines, "{")

	dateForExport := a.StartDate
	if a.StartDateLocal != nil {
		dateForExport = *a.StartDateLocal
	}

	useLaps := len(laps) > 1
	tipoParciales := "kilometros"
	if useLaps {
		tipoParciales = "intervalos"
	}

	lines = append(lines, `  "nombre": `+escapeString(a.Name)+",")
	lines = append(lines, `  "tipo": `+escapeString(a.SportType)+",")
	lines = append(lines, `  "fecha": `+escapeString(formatFechaWeb(dateForExport))+",")
	lines = append(lines, `  "distancia_km": `+formatDistanceKm(a.Distance)+",")
	lines = append(lines, `  "tiempo_total": `+escapeString(formatDuration(a.MovingTime))+",")
	lines = append(lines, `  "tiempo_total_s": `+strconv.Itoa(a.MovingTime)+",")
	lines = append(lines, `  "ritmo_medio": `+escapeString(formatRitmoMedio(a.AverageSpeed))+",")
	lines = append(lines, `  "desnivel_positivo_m": `+strconv.Itoa(roundToInt(a.TotalElevationGain))+",")
	lines = append(lines, `  "fc_media": `+optionalInt(a.AverageHeartrate)+",")
	lines = append(lines, `  "fc_max": `+optionalInt(a.MaxHeartrate)+",")
	lines = append(lines, `  "tipo_parciales": `+escapeString(tipoParciales)+",")
	lines = append(lines, `  "parciales": `+buildParcialesJSON(a, laps, splits, useLaps))

	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

// FileName is the canonical export file name for an activity.
func FileName(a *store.Activity) string {
	name := sanitizeFileName(a.Name)
	if name == "" {
		name = "actividad"
	}
	return fmt.Sprintf("%s_%d.json", name, a.ID)
}

// WriteFile renders the activity and writes it under dir with the
// canonical name, returning the full path.
func WriteFile(dir string, a *store.Activity, laps []store.Lap, splits []store.Split) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(a))
	if err := os.WriteFile(path, []byte(WebJSON(a, laps, splits)), 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// parcial is one rendered lap or split, in output order.
type parcial struct {
	index     int
	nombre    string
	distKm    float64
	tiempo    string
	tiempoS   int
	ritmo     string
	ritmoSKm  *int
	desnivelM int
	fcMedia   *int
}

func buildParcialesJSON(a *store.Activity, laps []store.Lap, splits []store.Split, useLaps bool) string {
	var parciales []parcial
	if useLaps {
		for i, lap := range laps {
			parciales = append(parciales, buildLapParcial(lap, i+1))
		}
	} else {
		for i, split := range splits {
			parciales = append(parciales, buildSplitParcial(split, i+1))
		}
	}
	if len(parciales) == 0 {
		return "[]"
	}

	arrayLines := []string{"["}
	for i, p := range parciales {
		block := p.lines()
		for j := range block {
			block[j] = "    " + block[j]
		}
		// The comma goes after the closing brace of every item but
		// the last.
		if i != len(parciales)-1 {
			block[len(block)-1] += ","
		}
		arrayLines = append(arrayLines, strings.Join(block, "\n"))
	}
	arrayLines = append(arrayLines, "  ]")
	return strings.Join(arrayLines, "\n")
}

// buildLapParcial renders a lap. ritmo_s_km is the source of truth,
// derived from moving time; ritmo is formatted from it, never from the
// average speed.
func buildLapParcial(lap store.Lap, index int) parcial {
	nombre := fmt.Sprintf("Lap %d", index)
	if lap.Name != nil {
		nombre = *lap.Name
	}

	var ritmoSKm *int
	ritmo := "-"
	if km := lap.Distance / 1000; km > 0 {
		v := roundToInt(float64(lap.MovingTime) / km)
		ritmoSKm = &v
		ritmo = formatPaceFromSeconds(v)
	}

	return parcial{
		index:     index,
		nombre:    nombre,
		distKm:    roundTo2Decimals(lap.Distance / 1000),
		tiempo:    formatTime(lap.MovingTime),
		tiempoS:   lap.MovingTime,
		ritmo:     ritmo,
		ritmoSKm:  ritmoSKm,
		desnivelM: roundToInt(lap.TotalElevationGain),
		fcMedia:   roundedIntPtr(lap.AverageHeartrate),
	}
}

// buildSplitParcial renders a kilometer split. Elapsed time is the
// single source for tiempo, tiempo_s and ritmo_s_km.
func buildSplitParcial(split store.Split, index int) parcial {
	var ritmoSKm *int
	ritmo := "--:--"
	if km := split.Distance / 1000; km > 0 {
		v := roundToInt(float64(split.ElapsedTime) / km)
		ritmoSKm = &v
		ritmo = formatPaceFromSeconds(v)
	}

	return parcial{
		index:     index,
		nombre:    fmt.Sprintf("Km %d", index),
		distKm:    roundTo2Decimals(split.Distance / 1000),
		tiempo:    formatTime(split.ElapsedTime),
		tiempoS:   split.ElapsedTime,
		ritmo:     ritmo,
		ritmoSKm:  ritmoSKm,
		desnivelM: roundToInt(split.ElevationDifference),
		fcMedia:   roundedIntPtr(split.AverageHeartrate),
	}
}

func (p parcial) lines() []string {
	pairs := []string{
		`"parcial": ` + strconv.Itoa(p.index),
		`"nombre": ` + escapeString(p.nombre),
		`"distancia_km": ` + formatFloat(p.distKm),
		`"tiempo": ` + escapeString(p.tiempo),
		`"tiempo_s": ` + strconv.Itoa(p.tiempoS),
		`"ritmo": ` + escapeString(p.ritmo),
		`"ritmo_s_km": ` + intOrNull(p.ritmoSKm),
		`"desnivel_m": ` + strconv.Itoa(p.desnivelM),
		`"fc_media": ` + intOrNull(p.fcMedia),
	}

	ls := []string{"{"}
	for i, kv := range pairs {
		comma := ","
		if i == len(pairs)-1 {
			comma = ""
		}
		ls = append(ls, "  "+kv+comma)
	}
	ls = append(ls, "}")
	return ls
}

// formatFechaWeb renders "d/M/yyyy, H:mm:ss" without zero padding on
// day, month and hour. The stored local date already carries the wall
// clock, so it is read as-is in UTC.
func formatFechaWeb(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%d/%d/%d, %d:%02d:%02d",
		u.Day(), int(u.Month()), u.Year(), u.Hour(), u.Minute(), u.Second())
}

// formatDuration renders "Xh Ym", "Xm Ys" or "Xs".
func formatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// formatTime renders a partial time as "M:SS", or "H:MM:SS" from one
// hour up.
func formatTime(seconds int) string {
	mins := seconds / 60
	secs := seconds % 60
	if mins >= 60 {
		return fmt.Sprintf("%d:%02d:%02d", mins/60, mins%60, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// formatRitmoMedio renders the average pace as "M:SS /km". Minutes
// truncate while seconds round, matching the web exactly.
func formatRitmoMedio(speedMs float64) string {
	if speedMs <= 0 {
		return "0:00 /km"
	}
	paceSeconds := 1000 / speedMs
	minutes := int(paceSeconds) / 60
	seconds := roundToInt(paceSeconds) % 60
	return fmt.Sprintf("%d:%02d /km", minutes, seconds)
}

func formatPaceFromSeconds(secondsPerKm int) string {
	return fmt.Sprintf("%d:%02d", secondsPerKm/60, secondsPerKm%60)
}

// formatDistanceKm rounds to 2 decimals and drops trailing zeros, like
// JavaScript's parseFloat(x.toFixed(2)).
func formatDistanceKm(meters float64) string {
	return formatFloat(roundTo2Decimals(meters / 1000))
}

func formatFloat(v float64) string {
	switch {
	case v == math.Round(v):
		return fmt.Sprintf("%.0f", v)
	case math.Mod(v*10, 1) == 0:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// roundTo2Decimals rounds half away from zero.
func roundTo2Decimals(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundToInt(v float64) int {
	return int(math.Round(v))
}

func roundedIntPtr(v *float64) *int {
	if v == nil {
		return nil
	}
	i := roundToInt(*v)
	return &i
}

func optionalInt(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.Itoa(roundToInt(*v))
}

func intOrNull(v *int) string {
	if v == nil {
		return "null"
	}
	return strconv.Itoa(*v)
}

// escapeString quotes a string with the web's minimal escaping. Only
// the five sequences the web escapes are escaped; everything else,
// accents included, passes through verbatim.
func escapeString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return `"` + r.Replace(s) + `"`
}

func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(`/\?%*|"<>:`, r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	runes := []rune(s)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes)
}
