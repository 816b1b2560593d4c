package messages

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"

	"gorm.io/datatypes"
)

// legacyPrefixes is the closed prefix vocabulary older clients encode
// non-text messages with. OFFER_RESPONSE sits before OFFER so the longer
// prefix wins.
var legacyPrefixes = []struct {
	prefix  string
	msgType models.MessageType
}{
	{"OFFER_RESPONSE::", models.MessageOffer},
	{"OFFER::", models.MessageOffer},
	{"MEDIA::", models.MessageMedia},
	{"LOCATION::", models.MessageLocation},
	{"VOICE::", models.MessageVoice},
	{"TODO::", models.MessageTodo},
}

var knownMessageTypes = map[models.MessageType]bool{
	models.MessageText:     true,
	models.MessageMedia:    true,
	models.MessageLocation: true,
	models.MessageVoice:    true,
	models.MessageOffer:    true,
	models.MessageTodo:     true,
}

// normalizeMessage resolves the two accepted input forms, the explicit
// (type, payload) pair and the legacy single body string, into the one
// canonical (type, payload, body) representation.
func normalizeMessage(in models.ChatMessageCreate) (models.MessageType, datatypes.JSON, string, error) {
	if in.Type != "" {
		if !knownMessageTypes[in.Type] {
			return "", nil, "", fmt.Errorf("unknown message type: %s", in.Type)
		}

		var payload datatypes.JSON
		if len(in.Payload) > 0 {
			payload = datatypes.JSON(in.Payload)
		}

		body := in.Body
		if body == "" && in.Type == models.MessageText && len(in.Payload) > 0 {
			// TEXT payloads are plain JSON strings, surface them as the body
			var s string
			if err := json.Unmarshal(in.Payload, &s); err == nil {
				body = s
			}
		}
		return in.Type, payload, body, nil
	}

	if in.Body == "" {
		return "", nil, "", fmt.Errorf("message body is empty")
	}

	msgType, payload, body := parseLegacyBody(in.Body)
	return msgType, payload, body, nil
}

// parseLegacyBody decodes the PREFIX::json convention. Malformed embedded
// JSON never aborts the send: the payload falls back to null and the raw
// body text is preserved. A bare unprefixed string is a TEXT message.
func parseLegacyBody(body string) (models.MessageType, datatypes.JSON, string) {
	for _, lp := range legacyPrefixes {
		if !strings.HasPrefix(body, lp.prefix) {
			continue
		}

		raw := strings.TrimPrefix(body, lp.prefix)

		if lp.prefix == "OFFER_RESPONSE::" {
			return rewriteOfferResponse(raw, body)
		}

		if !json.Valid([]byte(raw)) {
			return lp.msgType, nil, body
		}
		return lp.msgType, datatypes.JSON(raw), ""
	}

	return models.MessageText, nil, body
}

// rewriteOfferResponse turns the legacy OFFER_RESPONSE encoding into an
// OFFER message carrying response: ACCEPTED and a readable body.
func rewriteOfferResponse(raw string, original string) (models.MessageType, datatypes.JSON, string) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return models.MessageOffer, nil, original
	}

	fields["response"] = "ACCEPTED"
	merged, err := json.Marshal(fields)
	if err != nil {
		return models.MessageOffer, nil, original
	}

	return models.MessageOffer, datatypes.JSON(merged), "Offer accepted"
}
