package gemini

import (
	"context"
	"fmt"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"

	"github.com/google/generative-ai-go/genai"
)

const optimizeSystemPrompt = `You optimize driving order for a courier's delivery route.
Given a JSON list of stops (stop_number, address, optional delivery deadline and priority flag),
return ONLY a JSON object:

{"order": [5, 2, 9, 1]}

Rules:
- "order" contains every input stop_number exactly once: same set, new sequence.
- Respect delivery_window_end deadlines and visit priority stops early.
- When a start coordinate is given, begin with the stop easiest to reach from it.
- Any text outside the JSON object is an error.`

type optimizePayload struct {
	Order []int `json:"order"`
}

// OptimizeOrder asks the model for an efficient visiting sequence and
// returns the same stops reordered. Callers verify set-equality before
// applying the result; this adapter only maps numbers back to stops and
// passes unknown numbers through for the caller to reject.
func (p *Provider) OptimizeOrder(ctx context.Context, req ports.OptimizeRequest) ([]domain.Stop, error) {
	if len(req.Stops) == 0 {
		return nil, fmt.Errorf("gemini optimize: no stops to order")
	}

	list, err := stopsForPrompt(req.Stops)
	if err != nil {
		return nil, fmt.Errorf("gemini optimize: %w", err)
	}

	user := "Stops:\n" + list
	if req.StartLocation != nil {
		user += "\nStart coordinate (lat,lon): " + req.StartLocation.String()
	}
	if req.AvoidLeftTurns {
		user += "\nPrefer sequences that minimize left turns across traffic."
	}

	var payload optimizePayload
	if err := p.generateJSON(ctx, "gemini optimize", optimizeSystemPrompt, []genai.Part{genai.Text(user)}, &payload); err != nil {
		return nil, err
	}

	return decodeOrder(payload.Order, req.Stops), nil
}

func decodeOrder(order []int, stops []domain.Stop) []domain.Stop {
	byNumber := make(map[int]domain.Stop, len(stops))
	for _, s := range stops {
		byNumber[s.OriginalStopNumber] = s
	}

	out := make([]domain.Stop, 0, len(order))
	for _, n := range order {
		if s, ok := byNumber[n]; ok {
			out = append(out, s)
			continue
		}
		// Unknown number: keep it so the caller's permutation check
		// rejects the whole response instead of silently truncating.
		out = append(out, domain.Stop{OriginalStopNumber: n, Kind: domain.KindDelivery})
	}
	return out
}
