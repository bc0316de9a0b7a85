package gemini

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"

	"github.com/RafiqAuto/rafiq-mvp/engine/domain"
)

// Places is the grounded place-search result.
type Places struct {
	Text string
	Refs []domain.GroundingRef
}

// FindGarages asks for nearby repair garages, grounded on Google Maps when the
// backend supports it. If the grounded call fails it retries once without the
// tool; the offline tier lives in engine/places, not here.
func (c *Client) FindGarages(ctx context.Context, lat, lng float64) (Places, error) {
	grounded := fmt.Sprintf(
		"Find the top 5 nearest car repair garages and auto service centers near latitude %f, longitude %f. "+
			"For each garage, include their name, address, phone number if available, and a brief description. "+
			"Limit results to exactly 5 locations maximum.", lat, lng)

	resp, err := c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: grounded}}}},
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}},
			ToolConfig: &genai.ToolConfig{
				RetrievalConfig: &genai.RetrievalConfig{
					LatLng: &genai.LatLng{Latitude: genai.Ptr(lat), Longitude: genai.Ptr(lng)},
				},
			},
		},
	)
	if err == nil {
		if txt, ok := firstText(resp); ok {
			return Places{Text: txt, Refs: groundingRefs(resp)}, nil
		}
	} else {
		c.logger.Warn("maps grounding failed, trying plain search", "err", err)
	}

	plain := fmt.Sprintf(
		"Based on the coordinates %f, %f, provide information about the top 5 nearest car repair garages "+
			"and auto service centers in the area. Include general advice about finding reputable auto repair "+
			"shops. Limit to maximum 5 suggestions.", lat, lng)
	resp, err = c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: plain}}}}, nil)
	if err != nil {
		return Places{}, fmt.Errorf("gemini: find garages: %w", err)
	}
	txt, ok := firstText(resp)
	if !ok {
		return Places{}, ErrInvalidJSON
	}
	return Places{Text: txt}, nil
}

// groundingRefs flattens grounding chunks into ordered refs. Maps-grounded
// attributions surface through RetrievedContext at this API version.
func groundingRefs(resp *genai.GenerateContentResponse) []domain.GroundingRef {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var refs []domain.GroundingRef
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		switch {
		case chunk.RetrievedContext != nil:
			refs = append(refs, domain.GroundingRef{Title: chunk.RetrievedContext.Title, URI: chunk.RetrievedContext.URI})
		case chunk.Web != nil:
			refs = append(refs, domain.GroundingRef{Title: chunk.Web.Title, URI: chunk.Web.URI})
		}
	}
	return refs
}
