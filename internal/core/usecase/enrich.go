package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

// GuidanceUseCase implements detection enrichment and advisory
// generation over the static rule tables. It holds no mutable state and
// is safe for concurrent use.
type GuidanceUseCase struct{}

func NewGuidanceUseCase() *GuidanceUseCase {
	return &GuidanceUseCase{}
}

// Enrich builds the enrichment for a single detection. The profile hint
// is a coarse mobility tag ("wheelchair", "cane", ...) and only ever adds
// risks on top of the base class/zone rules.
func (uc *GuidanceUseCase) Enrich(det domain.Detection, profileHint string) (domain.Enrichment, error) {
	if err := validateDetection(det); err != nil {
		return domain.Enrichment{}, err
	}

	cls := strings.ToLower(strings.TrimSpace(det.ClassName))

	risks := make([]string, 0, 4)
	if _, hazardous := hazardClasses[cls]; hazardous {
		if det.Zone == domain.ZoneNear {
			risks = appendRisk(risks, riskNearObstacle)
		}
		for _, r := range classRisks[cls] {
			risks = appendRisk(risks, r)
		}
	}
	if hint := strings.ToLower(strings.TrimSpace(profileHint)); hint != "" {
		for _, r := range profileRisks[hint][cls] {
			risks = appendRisk(risks, r)
		}
	}

	attrs := map[string]string{
		"zone":  string(det.Zone),
		"side":  string(det.Side),
		"score": fmt.Sprintf("%.2f", det.Score),
	}
	if det.OCR != "" {
		attrs["ocr"] = det.OCR
	}
	if det.Context != "" {
		attrs["context"] = det.Context
	}

	return domain.Enrichment{
		Summary:    summaryFor(det.ClassName),
		Attributes: attrs,
		Risks:      risks,
		ClassName:  det.ClassName,
		Zone:       det.Zone,
		Side:       det.Side,
	}, nil
}

// EnrichBatch enriches every detection independently, preserving input
// order. A failing item becomes an error entry at its own position and
// never aborts its siblings.
func (uc *GuidanceUseCase) EnrichBatch(dets []domain.Detection, profileHint string) []domain.BatchItem {
	out := make([]domain.BatchItem, 0, len(dets))
	for _, det := range dets {
		enr, err := uc.Enrich(det, profileHint)
		if err != nil {
			out = append(out, domain.BatchItem{Error: err.Error()})
			continue
		}
		item := enr
		out = append(out, domain.BatchItem{Enrichment: &item})
	}
	return out
}

func validateDetection(det domain.Detection) error {
	if strings.TrimSpace(det.ClassName) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "enrich detection", errors.New("class name is required"))
	}
	if det.Score < 0 || det.Score > 1 {
		return domain.WrapError(
			domain.ErrInvalidInput,
			"enrich detection",
			fmt.Errorf("score must lie in [0,1], got %.3f", det.Score),
		)
	}
	return nil
}

// appendRisk keeps first-seen order while deduplicating.
func appendRisk(risks []string, risk string) []string {
	for _, existing := range risks {
		if existing == risk {
			return risks
		}
	}
	return append(risks, risk)
}
