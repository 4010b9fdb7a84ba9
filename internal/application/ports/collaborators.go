package ports

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
)

// CampaignGenerator colaborador externo de generación de campañas. La respuesta se
// retransmite tal cual; el núcleo solo revisa la presencia de la clave "channels".
type CampaignGenerator interface {
	GenerateCampaign(ctx context.Context, req entity.CampaignRequest) (json.RawMessage, error)
}

// RateLimiter limita turnos que invocan modelos, por clave (usuario).
type RateLimiter interface {
	Allow(key string) bool
}
