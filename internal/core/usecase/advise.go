package usecase

import (
	"fmt"
	"strings"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

const fallbackMessage = "Aucun obstacle critique détecté"

// Advise builds the advisory for one frame. When no enrichments are
// supplied they are computed internally via the batch operation, using
// the profile's mobility tag as hint. Invalid detections are skipped from
// both message generation and priority escalation; the advisory reports
// Partial=true so the caller knows the computation dropped items.
func (uc *GuidanceUseCase) Advise(
	profile domain.UserProfile,
	contextLabel string,
	dets []domain.Detection,
	enrichments []domain.Enrichment,
) (domain.Advisory, error) {
	_ = contextLabel // scene context is informative only for now

	partial := false

	if len(enrichments) == 0 && len(dets) > 0 {
		for _, item := range uc.EnrichBatch(dets, profile.Mobility) {
			if item.Enrichment == nil {
				continue
			}
			enrichments = append(enrichments, *item.Enrichment)
		}
	}

	priority := domain.PriorityInfo
	messages := make([]string, 0, len(dets)+len(enrichments))

	for _, det := range dets {
		if err := validateDetection(det); err != nil {
			partial = true
			continue
		}
		if det.Zone != domain.ZoneNear {
			continue
		}
		priority = domain.PriorityHigh
		side := string(det.Side)
		if side == "" {
			side = "devant"
		}
		messages = append(messages, fmt.Sprintf("Obstacle %s %s, ralentir", det.ClassName, side))
	}

	for _, enr := range enrichments {
		for _, risk := range enr.Risks {
			messages = append(messages, fmt.Sprintf("%s: %s", enr.Summary, risk))
			if isCriticalRisk(risk) {
				priority = domain.PriorityHigh
			}
		}
	}

	// Allergy warnings follow the order the allergies appear in the
	// profile, after all detection-derived messages.
	for _, allergy := range profile.Allergies {
		if !matchesAnyRisk(allergy, enrichments) {
			continue
		}
		priority = domain.PriorityHigh
		messages = append(messages, fmt.Sprintf("Attention, allergène potentiel: %s", allergy))
	}

	if len(messages) == 0 && len(dets) > 0 {
		messages = append(messages, fallbackMessage)
	}

	channels := []domain.Channel{domain.ChannelVoice}
	if priority == domain.PriorityHigh {
		channels = append(channels, domain.ChannelHaptic)
	}

	return domain.Advisory{
		Priority: priority,
		Channels: channels,
		Messages: messages,
		Partial:  partial,
	}, nil
}

func matchesAnyRisk(allergy string, enrichments []domain.Enrichment) bool {
	needle := strings.ToLower(strings.TrimSpace(allergy))
	if needle == "" {
		return false
	}
	for _, enr := range enrichments {
		for _, risk := range enr.Risks {
			if strings.Contains(strings.ToLower(risk), needle) {
				return true
			}
		}
	}
	return false
}
