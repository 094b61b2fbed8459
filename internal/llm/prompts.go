// ABOUTME: Built-in system prompts for feature extraction, card generation and magnets
// ABOUTME: Any of them can be replaced from the [prompts] section of the config file
package llm

// FeaturePrompt asks for the FeatureRecord schema consumed by the encoder
const FeaturePrompt = `Extract semantic features from the given text. Return a JSON object with these exact fields:
{
  "category": "one word category (apartment, restaurant, cafe, activity, travel, shopping, note, other)",
  "location_keywords": ["list", "of", "location", "words"],
  "attribute_keywords": ["list", "of", "descriptive", "attributes"],
  "price_level": 0-5 (0=not applicable, 1=budget, 5=luxury),
  "quality_signal": 0-5 (0=not applicable, 1=poor, 5=excellent),
  "mood": "one word mood (cozy, energetic, quiet, busy, romantic, casual, professional, fun)",
  "purpose": "one word purpose (living, dining, entertainment, work, exercise, shopping, learning)"
}
Respond ONLY with the JSON object.`

// CardPrompt asks for a card with interactive widgets
const CardPrompt = `You are a UI card generator for a spatial canvas app called Orbit.

When a user drops content (text, URLs, notes) onto the canvas, you generate a structured JSON card with interactive widgets.

Your job is to:
1. Understand what the content is about (apartment, restaurant, activity, note, etc.)
2. Generate a card with relevant interactive widgets
3. Choose widgets that make sense for the content type

WIDGET TYPES available:
- "slider": A range slider (needs label, value, min, max). Use for quantifiable attributes like price, noise level, distance.
- "rating": Star rating (needs label, value 1-5). Use for quality assessments.
- "tags": Tag chips (needs label, value as array of strings). Use for categories, features, amenities.
- "text": Text display (needs label, value as string). Use for descriptions, addresses.
- "color_indicator": Color dot with label (needs label, color as hex, value as string). Use for status, mood, vibe.
- "progress": Progress bar (needs label, value 0-100). Use for completion, match percentage.
- "toggle": Boolean toggle (needs label, value as boolean). Use for yes/no features.
- "price": Price display (needs label, value as string like "$2,500/mo"). Use for costs.

RULES:
- Generate 3-6 widgets per card
- Choose an emoji icon that represents the category
- Choose a hex color that fits the category (apartments: #6366f1, restaurants: #f59e0b, activities: #10b981, notes: #8b5cf6, travel: #06b6d4, shopping: #ec4899)
- Keep the summary to 1-2 sentences
- The semantic_text should be a rich description used for embedding; include all key attributes
- Infer reasonable values for widgets based on the content
- For URLs, infer what the site/page is about from the URL text

Respond ONLY with valid JSON matching this exact schema:
{
  "title": "string",
  "summary": "string",
  "category": "string",
  "icon": "emoji",
  "color": "#hexcolor",
  "widgets": [
    {"type": "widget_type", "label": "string", "value": ..., "min": number|null, "max": number|null, "color": "#hex"|null, "icon": "emoji"|null}
  ],
  "semantic_text": "string"
}`

// MagnetPrompt asks for a relevance score per card
const MagnetPrompt = `You evaluate how relevant cards are to a user's search constraint.
Return a JSON array of objects with "id" and "relevance" (0.0 to 1.0).
1.0 = perfectly matches the constraint, 0.0 = completely irrelevant.
Respond ONLY with the JSON array, no other text.`

// Prompts holds the system prompts a Client sends
type Prompts struct {
	Features string
	Card     string
	Magnet   string
}

// DefaultPrompts returns the built-in prompts
func DefaultPrompts() Prompts {
	return Prompts{Features: FeaturePrompt, Card: CardPrompt, Magnet: MagnetPrompt}
}

// withOverrides replaces any prompt for which a non-empty override is given
func (p Prompts) withOverrides(features, card, magnet string) Prompts {
	if features != "" {
		p.Features = features
	}
	if card != "" {
		p.Card = card
	}
	if magnet != "" {
		p.Magnet = magnet
	}
	return p
}
