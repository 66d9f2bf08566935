package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"runsight/internal/store"
)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

// sampleActivity is a 9.3 km morning run with ten kilometer splits,
// the last one partial.
func sampleActivity() (*store.Activity, []store.Split) {
	local := time.Date(2026, time.January, 29, 11, 3, 15, 0, time.UTC)
	a := &store.Activity{
		ID:                 12345678,
		Name:               "Carrera matutina",
		SportType:          "Run",
		StartDate:          time.Date(2026, time.January, 29, 10, 3, 15, 0, time.UTC),
		StartDateLocal:     &local,
		Distance:           9300,
		MovingTime:         3383,
		ElapsedTime:        3500,
		TotalElevationGain: 125,
		AverageSpeed:       9300.0 / 3383,
		AverageHeartrate:   floatPtr(152),
		MaxHeartrate:       floatPtr(178),
		HasHeartrate:       true,
		HasSplits:          true,
	}

	elapsed := []int{375, 358, 352, 345, 350, 355, 362, 368, 369, 89}
	elevation := []float64{12, 8, 15, 10, 18, 14, 11, 16, 13, 8}
	hr := []float64{145, 150, 153, 155, 156, 154, 152, 150, 148, 155}

	splits := make([]store.Split, 0, 10)
	for i := 0; i < 10; i++ {
		dist := 1000.0
		if i == 9 {
			dist = 290
		}
		splits = append(splits, store.Split{
			ActivityID:          a.ID,
			SplitIndex:          i + 1,
			Distance:            dist,
			MovingTime:          elapsed[i],
			ElapsedTime:         elapsed[i],
			AverageSpeed:        dist / float64(elapsed[i]),
			AverageHeartrate:    floatPtr(hr[i]),
			ElevationDifference: elevation[i],
		})
	}
	return a, splits
}

func TestWebJSONMatchesGolden(t *testing.T) {
	a, splits := sampleActivity()
	got := WebJSON(a, nil, splits)

	data, err := os.ReadFile(filepath.Join("testdata", "carrera_matutina_web.json"))
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	want := strings.TrimSuffix(string(data), "\n")

	if got != want {
		t.Errorf("output differs from golden file\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWebJSONIsDeterministic(t *testing.T) {
	a, splits := sampleActivity()
	first := WebJSON(a, nil, splits)
	second := WebJSON(a, nil, splits)
	if first != second {
		t.Error("two renders of the same activity differ")
	}
}

func TestWebJSONLapsMode(t *testing.T) {
	a, splits := sampleActivity()
	laps := []store.Lap{
		{ActivityID: a.ID, LapIndex: 1, Name: strPtr("Serie 1"), Distance: 1000, MovingTime: 240, ElapsedTime: 250, TotalElevationGain: 3, AverageHeartrate: floatPtr(168)},
		{ActivityID: a.ID, LapIndex: 2, Distance: 0, MovingTime: 120, ElapsedTime: 125},
	}

	got := WebJSON(a, laps, splits)

	if !strings.Contains(got, `  "tipo_parciales": "intervalos",`) {
		t.Error("more than one lap should switch to intervalos")
	}
	if !strings.Contains(got, `      "nombre": "Serie 1",`) {
		t.Error("lap names should pass through")
	}
	if !strings.Contains(got, `      "nombre": "Lap 2",`) {
		t.Error("unnamed laps fall back to Lap N")
	}
	// Lap times come from moving time, not elapsed.
	if !strings.Contains(got, `      "tiempo_s": 240,`) {
		t.Error("lap tiempo_s should use moving time")
	}
	// A zero-distance lap has no pace.
	if !strings.Contains(got, `      "ritmo": "-",`) || !strings.Contains(got, `      "ritmo_s_km": null,`) {
		t.Error("zero-distance lap should render a null pace")
	}
	if strings.Contains(got, `"nombre": "Km 1"`) {
		t.Error("splits should not render in laps mode")
	}
}

func TestWebJSONSingleLapUsesSplits(t *testing.T) {
	a, splits := sampleActivity()
	laps := []store.Lap{{ActivityID: a.ID, LapIndex: 1, Distance: 9300, MovingTime: 3383, ElapsedTime: 3500}}

	got := WebJSON(a, laps, splits)
	if !strings.Contains(got, `  "tipo_parciales": "kilometros",`) {
		t.Error("a single lap is the whole activity; splits win")
	}
}

func TestWebJSONEmptyParciales(t *testing.T) {
	a, _ := sampleActivity()
	got := WebJSON(a, nil, nil)
	if !strings.Contains(got, `  "parciales": []`+"\n}") {
		t.Errorf("empty parciales should render inline, got:\n%s", got)
	}
}

func TestWebJSONNullHeartrate(t *testing.T) {
	a, splits := sampleActivity()
	a.AverageHeartrate = nil
	a.MaxHeartrate = nil
	splits[0].AverageHeartrate = nil

	got := WebJSON(a, nil, splits[:1])
	if !strings.Contains(got, `  "fc_media": null,`) || !strings.Contains(got, `  "fc_max": null,`) {
		t.Error("missing heart rate should render null")
	}
	if !strings.Contains(got, `      "fc_media": null`) {
		t.Error("split heart rate should render null when missing")
	}
}

func TestWebJSONEscaping(t *testing.T) {
	a, _ := sampleActivity()
	a.Name = "Serie \"dura\"\ncuesta\\llano"

	got := WebJSON(a, nil, nil)
	if !strings.Contains(got, `  "nombre": "Serie \"dura\"\ncuesta\\llano",`) {
		t.Errorf("escaping failed:\n%s", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{3383, "56m 23s"},
		{3600, "1h 0m"},
		{3720, "1h 2m"},
		{125, "2m 5s"},
		{45, "45s"},
		{0, "0s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.seconds); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{89, "1:29"},
		{375, "6:15"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
	}
	for _, tt := range tests {
		if got := formatTime(tt.seconds); got != tt.want {
			t.Errorf("formatTime(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDistanceKm(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{9300, "9.3"},
		{9000, "9"},
		{9290, "9.29"},
		{290, "0.29"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatDistanceKm(tt.meters); got != tt.want {
			t.Errorf("formatDistanceKm(%v) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}

func TestFormatRitmoMedio(t *testing.T) {
	tests := []struct {
		speed float64
		want  string
	}{
		{9300.0 / 3383, "6:04 /km"},
		{1000.0 / 300, "5:00 /km"},
		{0, "0:00 /km"},
	}
	for _, tt := range tests {
		if got := formatRitmoMedio(tt.speed); got != tt.want {
			t.Errorf("formatRitmoMedio(%v) = %q, want %q", tt.speed, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want string
	}{
		{"Carrera matutina", 12345678, "Carrera matutina_12345678.json"},
		{"10k: PB?", 7, "10k_ PB__7.json"},
		{"  recortada  ", 9, "recortada_9.json"},
		{"", 5, "actividad_5.json"},
		{strings.Repeat("x", 60), 3, strings.Repeat("x", 50) + "_3.json"},
	}
	for _, tt := range tests {
		a := &store.Activity{ID: tt.id, Name: tt.name}
		if got := FileName(a); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	a, splits := sampleActivity()
	dir := t.TempDir()

	path, err := WriteFile(dir, a, nil, splits)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "Carrera matutina_12345678.json" {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != WebJSON(a, nil, splits) {
		t.Error("file content differs from the rendered JSON")
	}
}
