package scraper

import (
	"encoding/json"

	"mudah_scraper/models"
)

// adPayload is the decoded embedded JSON tree of one listing page.
// The site's layout leans on positional offsets and deeply nested
// keys, so all navigation goes through the named accessors below:
// when the layout shifts, one accessor changes, nothing else.
type adPayload struct {
	root payloadNode
}

// payloadNode is a defaulting view over a JSON object. Every lookup on
// a missing key yields an empty node, never a fault.
type payloadNode map[string]interface{}

func decodePayload(data []byte) (*adPayload, error) {
	var root payloadNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &adPayload{root: root}, nil
}

func (n payloadNode) dig(keys ...string) payloadNode {
	cur := n
	for _, key := range keys {
		next, ok := cur[key].(map[string]interface{})
		if !ok {
			return payloadNode{}
		}
		cur = next
	}
	return cur
}

func (n payloadNode) str(key string) string {
	s, _ := n[key].(string)
	return s
}

func (n payloadNode) list(key string) []interface{} {
	l, _ := n[key].([]interface{})
	return l
}

// adDetails returns the detail node of the listing identified by
// adsID. An empty node means the payload does not describe this
// listing at all.
func (p *adPayload) adDetails(adsID string) payloadNode {
	return p.root.dig("props", "initialState", "adDetails", "byID", adsID)
}

// categoryParams holds the category-level attribute records.
func categoryParams(details payloadNode) []models.AttributeRecord {
	return recordsFrom(details.dig("attributes").list("categoryParams"))
}

// buildingParams holds the building/unit details: the third property
// parameter group, when the payload carries at least three groups.
func buildingParams(details payloadNode) []models.AttributeRecord {
	groups := details.dig("attributes").list("propertyParams")
	if len(groups) < 3 {
		return nil
	}
	third, ok := groups[2].(map[string]interface{})
	if !ok {
		return nil
	}
	return recordsFrom(payloadNode(third).list("params"))
}

// attrString reads a free-form scalar off the listing's attributes.
func attrString(details payloadNode, key string) string {
	return details.dig("attributes").str(key)
}

// storeCompanyName resolves the agent/company display name through the
// listing's store relationship. Unresolved lookups default to "".
func (p *adPayload) storeCompanyName(details payloadNode) string {
	storeID := details.dig("relationships", "store", "data").str("id")
	if storeID == "" {
		return ""
	}
	return p.root.dig("props", "initialState", "store", "byID", storeID, "attributes").str("cCompanyName")
}

func recordsFrom(list []interface{}) []models.AttributeRecord {
	var records []models.AttributeRecord
	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		id, ok := m["id"].(string)
		if !ok || id == "" {
			continue
		}
		records = append(records, models.AttributeRecord{ID: id, Value: m["value"]})
	}
	return records
}
