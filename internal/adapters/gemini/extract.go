package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"

	"github.com/google/generative-ai-go/genai"
)

const extractSystemPrompt = `You read screenshots of a courier's mobile delivery app stop list.
Extract every delivery stop visible in the image and return ONLY a JSON object with this exact shape:

{
  "stops": [
    {
      "stop_number": 7,
      "street": "123 W Fillmore St",
      "city": "Phoenix",
      "state": "AZ",
      "zip": "85003",
      "package_type": "box | envelope | plastic_bag | custom_sized | unknown",
      "stop_type": "house | apartment | business | locker | unknown",
      "tba": "TBA123456789",
      "package_label": "ABC",
      "delivery_window_end": "14:00",
      "is_priority": true
    }
  ],
  "route_block_code": "CX412"
}

Rules:
- stop_number is the number printed next to the stop in the app. Never invent or renumber.
- Omit delivery_window_end when no deadline is shown; omit is_priority when not shown.
- route_block_code is the block/shift label (e.g. "CX412") if the screenshot shows one, else "".
- Include only stops fully visible in this image. Partial rows at the screen edge are skipped.
- Any text outside the JSON object is an error.`

type stopPayload struct {
	StopNumber        int    `json:"stop_number"`
	Street            string `json:"street"`
	City              string `json:"city"`
	State             string `json:"state"`
	Zip               string `json:"zip"`
	PackageType       string `json:"package_type"`
	StopType          string `json:"stop_type"`
	TBA               string `json:"tba"`
	PackageLabel      string `json:"package_label"`
	DeliveryWindowEnd string `json:"delivery_window_end"`
	IsPriority        *bool  `json:"is_priority"`
}

type extractionPayload struct {
	Stops          []stopPayload `json:"stops"`
	RouteBlockCode string        `json:"route_block_code"`
}

// ExtractStops reads one screenshot and returns the delivery stops it
// shows, numbered as printed in the source app.
func (p *Provider) ExtractStops(ctx context.Context, image []byte, mimeType string) (ports.ExtractionResult, error) {
	if len(image) == 0 {
		return ports.ExtractionResult{}, fmt.Errorf("gemini extract: empty image")
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	parts := []genai.Part{
		genai.Text("Extract the stops from this screenshot. JSON only."),
		&genai.Blob{MIMEType: mimeType, Data: image},
	}

	var payload extractionPayload
	if err := p.generateJSON(ctx, "gemini extract", extractSystemPrompt, parts, &payload); err != nil {
		return ports.ExtractionResult{}, err
	}

	return decodeExtraction(payload)
}

func decodeExtraction(payload extractionPayload) (ports.ExtractionResult, error) {
	out := ports.ExtractionResult{RouteBlockCode: payload.RouteBlockCode}
	for i, raw := range payload.Stops {
		if raw.StopNumber <= 0 {
			return ports.ExtractionResult{}, fmt.Errorf("gemini extract: stop %d has invalid stop_number %d", i+1, raw.StopNumber)
		}
		out.Stops = append(out.Stops, domain.Stop{
			OriginalStopNumber: raw.StopNumber,
			Street:             raw.Street,
			City:               raw.City,
			State:              raw.State,
			Zip:                raw.Zip,
			PackageType:        domain.ParsePackageType(raw.PackageType),
			StopType:           domain.ParseStopType(raw.StopType),
			TBA:                raw.TBA,
			PackageLabel:       raw.PackageLabel,
			DeliveryWindowEnd:  raw.DeliveryWindowEnd,
			IsPriority:         raw.IsPriority,
			Kind:               domain.KindDelivery,
			Status:             domain.StatusPending,
		})
	}
	return out, nil
}

// stopsForPrompt renders the delivery list as compact JSON for the
// text-only calls (optimize, summary, traffic).
func stopsForPrompt(stops []domain.Stop) (string, error) {
	type promptStop struct {
		StopNumber        int    `json:"stop_number"`
		Address           string `json:"address"`
		DeliveryWindowEnd string `json:"delivery_window_end,omitempty"`
		IsPriority        *bool  `json:"is_priority,omitempty"`
	}

	list := make([]promptStop, 0, len(stops))
	for _, s := range stops {
		list = append(list, promptStop{
			StopNumber:        s.OriginalStopNumber,
			Address:           s.Address(),
			DeliveryWindowEnd: s.DeliveryWindowEnd,
			IsPriority:        s.IsPriority,
		})
	}

	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("marshal stops: %w", err)
	}
	return string(b), nil
}
