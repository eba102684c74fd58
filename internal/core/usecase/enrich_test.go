package usecase

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

func TestEnrichStairsNear(t *testing.T) {
	uc := NewGuidanceUseCase()

	enr, err := uc.Enrich(domain.Detection{
		ClassName: "stairs",
		Score:     0.92,
		Zone:      domain.ZoneNear,
		Side:      domain.SideCenter,
	}, "")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if enr.Summary != "Escalier" {
		t.Fatalf("expected summary Escalier, got %q", enr.Summary)
	}
	if !reflect.DeepEqual(enr.Risks, []string{"Obstacle proche", "Prévoir montée/descente"}) {
		t.Fatalf("unexpected risks: %v", enr.Risks)
	}
	if enr.Attributes["score"] != "0.92" {
		t.Fatalf("expected score 0.92, got %q", enr.Attributes["score"])
	}
	if enr.Attributes["zone"] != "near" || enr.Attributes["side"] != "center" {
		t.Fatalf("unexpected positional attributes: %v", enr.Attributes)
	}
}

func TestEnrichUnknownClassFallsBack(t *testing.T) {
	uc := NewGuidanceUseCase()

	enr, err := uc.Enrich(domain.Detection{ClassName: "dog", Score: 0.4}, "")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if enr.Summary != "Objet Dog" {
		t.Fatalf("expected generic summary, got %q", enr.Summary)
	}
	if len(enr.Risks) != 0 {
		t.Fatalf("expected no risks for unknown class, got %v", enr.Risks)
	}
	if enr.Attributes["zone"] != "" || enr.Attributes["side"] != "" {
		t.Fatalf("expected empty zone/side attributes, got %v", enr.Attributes)
	}
}

func TestEnrichFallbackKeepsDetectorCasing(t *testing.T) {
	uc := NewGuidanceUseCase()

	enr, err := uc.Enrich(domain.Detection{ClassName: "PriceTag", Score: 0.4}, "")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	// The mixed-case detector name must survive; only the first rune is
	// capitalized, the rest stays as reported.
	if enr.Summary != "Objet PriceTag" {
		t.Fatalf("expected raw class name in summary, got %q", enr.Summary)
	}
}

func TestEnrichCarriesOCRAndContext(t *testing.T) {
	uc := NewGuidanceUseCase()

	enr, err := uc.Enrich(domain.Detection{
		ClassName: "price_tag",
		Score:     0.77,
		OCR:       "2,49 EUR",
		Context:   "supermarket",
	}, "")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if enr.Attributes["ocr"] != "2,49 EUR" || enr.Attributes["context"] != "supermarket" {
		t.Fatalf("expected ocr/context attributes, got %v", enr.Attributes)
	}
}

func TestEnrichProfileHintOnlyAddsRisks(t *testing.T) {
	uc := NewGuidanceUseCase()
	det := domain.Detection{ClassName: "stairs", Score: 0.8, Zone: domain.ZoneNear}

	base, err := uc.Enrich(det, "")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	hinted, err := uc.Enrich(det, "wheelchair")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}

	if len(hinted.Risks) <= len(base.Risks) {
		t.Fatalf("expected hint to add risks: base=%v hinted=%v", base.Risks, hinted.Risks)
	}
	for i, risk := range base.Risks {
		if hinted.Risks[i] != risk {
			t.Fatalf("hint must not reorder base risks: base=%v hinted=%v", base.Risks, hinted.Risks)
		}
	}
}

func TestEnrichIsDeterministic(t *testing.T) {
	uc := NewGuidanceUseCase()
	det := domain.Detection{ClassName: "puddle", Score: 0.61, Zone: domain.ZoneNear, Side: domain.SideLeft, OCR: "x"}

	first, err := uc.Enrich(det, "cane")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	second, err := uc.Enrich(det, "cane")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("expected byte-identical enrichments:\n%s\n%s", a, b)
	}
}

func TestEnrichValidation(t *testing.T) {
	uc := NewGuidanceUseCase()

	if _, err := uc.Enrich(domain.Detection{ClassName: "  ", Score: 0.5}, ""); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty class, got %v", err)
	}
	if _, err := uc.Enrich(domain.Detection{ClassName: "person", Score: 1.5}, ""); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for out-of-range score, got %v", err)
	}
}

func TestEnrichBatchIsolatesFailures(t *testing.T) {
	uc := NewGuidanceUseCase()
	dets := []domain.Detection{
		{ClassName: "person", Score: 0.9, Zone: domain.ZoneNear},
		{ClassName: "", Score: 0.5},
		{ClassName: "door", Score: 2.0},
		{ClassName: "table", Score: 0.7},
	}

	items := uc.EnrichBatch(dets, "")
	if len(items) != len(dets) {
		t.Fatalf("expected %d items, got %d", len(dets), len(items))
	}
	if items[0].Enrichment == nil || items[0].Error != "" {
		t.Fatalf("expected first item to succeed: %+v", items[0])
	}
	if items[1].Error == "" || items[1].Enrichment != nil {
		t.Fatalf("expected second item to carry an error: %+v", items[1])
	}
	if items[2].Error == "" {
		t.Fatalf("expected third item to carry an error: %+v", items[2])
	}
	if items[3].Enrichment == nil || items[3].Enrichment.Summary != "Table" {
		t.Fatalf("expected fourth item to succeed after failures: %+v", items[3])
	}
}
