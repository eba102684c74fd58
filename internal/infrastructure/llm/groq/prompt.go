package groq

import (
	"encoding/json"
	"fmt"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

const systemPrompt = "Tu es un assistant de sécurité pour la mobilité PMR. " +
	"Réponds STRICTEMENT en JSON avec les clés summary, risks, actions. " +
	"Pas de texte hors JSON."

func buildUserPrompt(description string, profile domain.UserProfile) string {
	encoded, err := json.Marshal(profile)
	if err != nil {
		encoded = []byte("{}")
	}
	return fmt.Sprintf(
		"Description de la scène: %s\nProfil utilisateur: %s\nDonne un résumé, les risques et les actions recommandées.",
		description,
		string(encoded),
	)
}
