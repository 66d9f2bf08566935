package analysis

// SimulatorInput is a what-if scenario: training days per week, a
// volume change in percent, and hard sessions per week.
type SimulatorInput struct {
	DaysPerWeek         int
	VolumeChangePercent float64
	HardSessionsPerWeek int
}

// SimulatorResult is a qualitative projection, in Spanish.
type SimulatorResult struct {
	ConsistencyImpact string // "mejor", "igual", "peor"
	RiskLevel         string // "bajo", "medio", "alto"
	TrendExpectation  string // "mejorando", "estable", "empeorando"
	Reasons           []string
}

// Simulate projects the qualitative impact of a scenario against the
// current weekly numbers. It never produces numeric predictions, only
// direction and risk.
func Simulate(currentDays int, currentVolumeHours float64, currentHard int, input SimulatorInput) SimulatorResult {
	newDays := input.DaysPerWeek
	newVolume := currentVolumeHours * (1 + input.VolumeChangePercent/100)
	newHard := input.HardSessionsPerWeek

	var reasons []string
	consistencyImpact := "igual"
	riskLevel := "bajo"
	trendExpectation := "estable"

	if newDays > currentDays {
		consistencyImpact = "mejor"
		reasons = append(reasons, "Más días de entreno suele mejorar la consistencia.")
	} else if newDays < currentDays && newDays < 3 {
		consistencyImpact = "peor"
		reasons = append(reasons, "Menos de 3 días puede bajar la consistencia.")
	}

	if newVolume > currentVolumeHours*1.2 {
		riskLevel = "medio"
		reasons = append(reasons, "Subir mucho el volumen aumenta el riesgo de lesión.")
	}
	if newHard >= 3 && newDays <= 4 {
		if riskLevel == "medio" {
			riskLevel = "alto"
		} else {
			riskLevel = "medio"
		}
		reasons = append(reasons, "Varias sesiones duras con pocos días puede acumular fatiga.")
	}
	if newHard > newDays-1 {
		riskLevel = "alto"
		reasons = append(reasons, "Demasiadas sesiones exigentes respecto a días disponibles.")
	}

	if riskLevel == "alto" {
		trendExpectation = "empeorando"
	} else if consistencyImpact == "mejor" && riskLevel == "bajo" {
		trendExpectation = "mejorando"
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Escenario razonable. Sin cambios drásticos.")
	}

	return SimulatorResult{
		ConsistencyImpact: consistencyImpact,
		RiskLevel:         riskLevel,
		TrendExpectation:  trendExpectation,
		Reasons:           reasons,
	}
}
