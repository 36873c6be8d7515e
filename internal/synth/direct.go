package synth

import (
	"context"

	"github.com/pbaille/biomixer/internal/domain"
	"github.com/pbaille/biomixer/internal/gateway"
)

// Gateway is the in-process proxy used by Direct
type Gateway interface {
	Synthesize(ctx context.Context, req gateway.Request) (string, error)
}

// Direct is a Synthesizer that calls the gateway in process instead of
// going through the HTTP endpoint.
type Direct struct {
	Gateway Gateway
}

func (d Direct) Synthesize(ctx context.Context, mechanisms []domain.MechanismEntry, settings domain.Settings) (string, error) {
	return d.Gateway.Synthesize(ctx, gateway.Request{
		Mechanisms:   mechanisms,
		Model:        settings.Model,
		SystemPrompt: settings.SystemPrompt,
	})
}
